package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"

	"promo-backoffice/catalog"
	"promo-backoffice/models"
	"promo-backoffice/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// insertBatchSize bounds the bulk insert statement size.
const insertBatchSize = 100

// Result reports the outcome of one spreadsheet upload.
type Result struct {
	Deleted  int64  `json:"deleted"`
	Inserted int    `json:"inserted"`
	Warning  string `json:"warning,omitempty"`
}

// Ingestor converts uploaded spreadsheets into line-item rows, replacing a
// campaign's or circular's existing products wholesale.
//
// The replace is two sequential statements (delete, then bulk insert), not one
// transaction: an insert failure after a successful delete leaves the target
// with zero line items, which matches the behavior operators already rely on.
type Ingestor struct {
	DB      *gorm.DB
	Catalog catalog.Catalog
}

func New(db *gorm.DB, cat catalog.Catalog) *Ingestor {
	return &Ingestor{DB: db, Catalog: cat}
}

// resolveInternalCodes performs the single batched catalog lookup for all
// distinct normalized barcodes. Catalog failures degrade to an empty map plus
// a warning; enrichment is best-effort and must never abort an upload.
func (ing *Ingestor) resolveInternalCodes(ctx context.Context, normalizedSet map[string]struct{}) (map[string]string, string) {
	if len(normalizedSet) == 0 {
		return map[string]string{}, ""
	}

	keys := make([]string, 0, len(normalizedSet))
	for k := range normalizedSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	codes, err := ing.Catalog.LookupInternalCodes(ctx, keys)
	if err != nil {
		log.Printf("Internal code lookup failed, inserting products without enrichment: %v", err)
		return map[string]string{}, fmt.Sprintf("internal code lookup failed: %v", err)
	}
	return codes, ""
}

// ReplaceCampaignProducts parses the uploaded workbook and replaces every
// line item of the given campaign with the spreadsheet's rows.
func (ing *Ingestor) ReplaceCampaignProducts(ctx context.Context, campaignID uuid.UUID, file io.Reader) (Result, error) {
	rows, err := ReadRows(file, CampaignSheet)
	if err != nil {
		return Result{}, err
	}

	normalizedSet := make(map[string]struct{})
	for _, row := range rows {
		if raw := row.Text("barcode"); raw != nil {
			if normalized := utils.PadBarcode(*raw); normalized != nil {
				normalizedSet[*normalized] = struct{}{}
			}
		}
	}

	codes, warning := ing.resolveInternalCodes(ctx, normalizedSet)

	products := make([]models.CampaignProduct, 0, len(rows))
	for _, row := range rows {
		product := models.CampaignProduct{
			CampaignID:    campaignID,
			Description:   row.Text("description"),
			Score:         row.Int("score"),
			NormalPrice:   row.Number("normal_price"),
			DiscountPrice: row.Number("discount_price"),
			Markdown:      row.Number("markdown"),
			QuantityLimit: row.Int("quantity_limit"),
		}
		fillBarcodeFields(row, codes, &product.Barcode, &product.BarcodeNormalized, &product.InternalCode)
		products = append(products, product)
	}

	if len(products) == 0 {
		return Result{Warning: joinWarnings("no products found in spreadsheet", warning)}, nil
	}

	res := ing.DB.WithContext(ctx).Where("campaign_id = ?", campaignID).Delete(&models.CampaignProduct{})
	if res.Error != nil {
		return Result{}, fmt.Errorf("failed to clear existing products: %w", res.Error)
	}

	if err := ing.DB.WithContext(ctx).CreateInBatches(products, insertBatchSize).Error; err != nil {
		return Result{Deleted: res.RowsAffected}, fmt.Errorf("failed to insert new products: %w", err)
	}

	return Result{Deleted: res.RowsAffected, Inserted: len(products), Warning: warning}, nil
}

// ReplaceCircularProducts parses the uploaded workbook's "Todos" sheet and
// replaces every line item of the given circular with the spreadsheet's rows.
func (ing *Ingestor) ReplaceCircularProducts(ctx context.Context, circularID uuid.UUID, file io.Reader) (Result, error) {
	rows, err := ReadRows(file, CircularSheet)
	if err != nil {
		return Result{}, err
	}

	normalizedSet := make(map[string]struct{})
	for _, row := range rows {
		if raw := row.Text("barcode"); raw != nil {
			if normalized := utils.PadBarcode(*raw); normalized != nil {
				normalizedSet[*normalized] = struct{}{}
			}
		}
	}

	codes, warning := ing.resolveInternalCodes(ctx, normalizedSet)

	products := make([]models.CircularProduct, 0, len(rows))
	for _, row := range rows {
		product := models.CircularProduct{
			CircularID:          circularID,
			Description:         row.Text("description"),
			Laboratory:          row.Text("laboratory"),
			PriceType:           row.Text("price_type"),
			NormalPrice:         row.Number("normal_price"),
			DiscountPrice:       row.Number("discount_price"),
			ClientDiscountPrice: row.Number("client_discount_price"),
			AppPrice:            row.Number("app_price"),
			RuleType:            row.Text("rule_type"),
		}
		fillBarcodeFields(row, codes, &product.Barcode, &product.BarcodeNormalized, &product.InternalCode)
		products = append(products, product)
	}

	if len(products) == 0 {
		return Result{Warning: joinWarnings("no products found in spreadsheet", warning)}, nil
	}

	res := ing.DB.WithContext(ctx).Where("circular_id = ?", circularID).Delete(&models.CircularProduct{})
	if res.Error != nil {
		return Result{}, fmt.Errorf("failed to clear existing products: %w", res.Error)
	}

	if err := ing.DB.WithContext(ctx).CreateInBatches(products, insertBatchSize).Error; err != nil {
		return Result{Deleted: res.RowsAffected}, fmt.Errorf("failed to insert new products: %w", err)
	}

	return Result{Deleted: res.RowsAffected, Inserted: len(products), Warning: warning}, nil
}

// fillBarcodeFields derives the stored barcode triple from the row. A blank
// barcode cell leaves all three absent; the row is still inserted.
func fillBarcodeFields(row Row, codes map[string]string, barcode, normalized, internalCode **string) {
	raw := row.Text("barcode")
	if raw == nil {
		return
	}
	*barcode = raw
	norm := utils.PadBarcode(*raw)
	*normalized = norm
	if norm != nil {
		if code, ok := codes[*norm]; ok {
			*internalCode = &code
		}
	}
}

func joinWarnings(first, second string) string {
	if second == "" {
		return first
	}
	return first + "; " + second
}
