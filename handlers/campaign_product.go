package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"promo-backoffice/catalog"
	"promo-backoffice/dtos"
	"promo-backoffice/ingest"
	"promo-backoffice/models"
	"promo-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CampaignProductHandler manages the line items of one campaign. Bulk deletes
// are guarded by the configured confirmation password when one is set.
type CampaignProductHandler struct {
	DB                   *gorm.DB
	Catalog              catalog.Catalog
	Ingestor             *ingest.Ingestor
	ConfirmationPassword string
}

func (h *CampaignProductHandler) GetProducts(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var products []models.CampaignProduct
	if err := h.DB.Where("campaign_id = ?", id).Order("created_at").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// AddProduct inserts a single manually entered line item, resolving its
// internal code against the catalog the same way an upload would.
func (h *CampaignProductHandler) AddProduct(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var req dtos.CampaignProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product := models.CampaignProduct{
		CampaignID:    campaign.ID,
		Score:         req.Score,
		NormalPrice:   req.NormalPrice,
		DiscountPrice: req.DiscountPrice,
		Markdown:      req.Markdown,
		QuantityLimit: req.QuantityLimit,
	}
	if req.Description != "" {
		description := req.Description
		product.Description = &description
	}
	applyBarcode(c.Request.Context(), h.Catalog, req.Barcode, &product.Barcode, &product.BarcodeNormalized, &product.InternalCode)

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProducts applies a bulk edit to the selected rows. Barcodes may have
// changed, so internal codes are re-resolved for every submitted row.
func (h *CampaignProductHandler) UpdateProducts(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var req dtos.BulkUpdateCampaignProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updated := 0
	for _, row := range req.Products {
		productID, err := uuid.Parse(row.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid product id '%s'", row.ID)})
			return
		}

		var product models.CampaignProduct
		if err := h.DB.Where("id = ? AND campaign_id = ?", productID, campaign.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %s not found in this campaign", row.ID)})
			return
		}

		product.Score = row.Score
		product.NormalPrice = row.NormalPrice
		product.DiscountPrice = row.DiscountPrice
		product.Markdown = row.Markdown
		product.QuantityLimit = row.QuantityLimit
		product.Description = nil
		if row.Description != "" {
			description := row.Description
			product.Description = &description
		}
		product.Barcode = nil
		product.BarcodeNormalized = nil
		product.InternalCode = nil
		applyBarcode(c.Request.Context(), h.Catalog, row.Barcode, &product.Barcode, &product.BarcodeNormalized, &product.InternalCode)

		if err := h.DB.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update products"})
			return
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteProducts removes the selected rows after checking the confirmation
// password.
func (h *CampaignProductHandler) DeleteProducts(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var req dtos.BulkDeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if h.ConfirmationPassword != "" && req.ConfirmationPassword != h.ConfirmationPassword {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid confirmation password"})
		return
	}

	res := h.DB.Where("campaign_id = ? AND id IN ?", campaign.ID, req.IDs).Delete(&models.CampaignProduct{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": res.RowsAffected})
}

// UploadProducts replaces the campaign's line items with the uploaded
// spreadsheet's rows.
func (h *CampaignProductHandler) UploadProducts(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet file is required"})
		return
	}
	if err := utils.ValidateSpreadsheetUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.Ingestor.ReplaceCampaignProducts(c.Request.Context(), campaign.ID, file)
	if err != nil {
		var parseErr *ingest.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportProducts streams the campaign's line items as an xlsx attachment,
// using the same column headers the import expects.
func (h *CampaignProductHandler) ExportProducts(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var products []models.CampaignProduct
	if err := h.DB.Where("campaign_id = ?", id).Order("created_at").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"CÓDIGO DE BARRAS", "CÓDIGO INTERNO", "DESCRIÇÃO", "PONTUAÇÃO", "PREÇO NORMAL", "PREÇO COM DESCONTO", "REBAIXE", "QTD LIMITE"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, p := range products {
		values := []interface{}{
			deref(p.Barcode), deref(p.InternalCode), deref(p.Description),
			derefInt(p.Score), derefFloat(p.NormalPrice), derefFloat(p.DiscountPrice),
			derefFloat(p.Markdown), derefInt(p.QuantityLimit),
		}
		for colIdx, value := range values {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
		return
	}

	filename := fmt.Sprintf("campaign-%s-products.xlsx", campaign.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// applyBarcode fills the stored barcode triple from a typed value. The
// catalog lookup is best-effort; a failure leaves the internal code absent.
func applyBarcode(ctx context.Context, cat catalog.Catalog, raw string, barcode, normalized, internalCode **string) {
	cleaned := utils.CleanBarcode(raw)
	if cleaned == nil {
		return
	}
	*barcode = cleaned

	norm := utils.PadBarcode(raw)
	*normalized = norm
	if norm == nil {
		return
	}

	codes, err := cat.LookupInternalCodes(ctx, []string{*norm})
	if err != nil {
		return
	}
	if code, ok := codes[*norm]; ok {
		*internalCode = &code
	}
}

func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func derefFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
