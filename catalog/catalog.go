package catalog

import (
	"context"

	"promo-backoffice/models"

	"gorm.io/gorm"
)

// Catalog resolves barcodes against the external product catalog. The catalog
// is best-effort enrichment: callers are expected to keep going when it errors.
type Catalog interface {
	// LookupInternalCodes maps normalized (zero-padded 14-digit) barcodes to
	// internal product codes. Unmatched barcodes are absent from the result.
	LookupInternalCodes(ctx context.Context, normalized []string) (map[string]string, error)
	// ValidateBarcodes reports which of the cleaned (unpadded) barcodes exist
	// in the catalog. Used for UI-side validation feedback only.
	ValidateBarcodes(ctx context.Context, cleaned []string) (map[string]bool, error)
}

// GormCatalog reads the shared catalog_products table.
type GormCatalog struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

func (c *GormCatalog) LookupInternalCodes(ctx context.Context, normalized []string) (map[string]string, error) {
	codes := make(map[string]string)
	if len(normalized) == 0 {
		return codes, nil
	}

	var rows []models.CatalogProduct
	if err := c.DB.WithContext(ctx).
		Select("barcode_normalized", "internal_code").
		Where("barcode_normalized IN ?", normalized).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		codes[row.BarcodeNormalized] = row.InternalCode
	}
	return codes, nil
}

func (c *GormCatalog) ValidateBarcodes(ctx context.Context, cleaned []string) (map[string]bool, error) {
	valid := make(map[string]bool)
	if len(cleaned) == 0 {
		return valid, nil
	}

	var barcodes []string
	if err := c.DB.WithContext(ctx).
		Model(&models.CatalogProduct{}).
		Where("barcode IN ?", cleaned).
		Pluck("barcode", &barcodes).Error; err != nil {
		return nil, err
	}

	for _, b := range barcodes {
		valid[b] = true
	}
	return valid, nil
}
