package handlers

import (
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

type CircularProductHandler struct {
	DB       *gorm.DB
	Catalog  catalog.Catalog
	Ingestor *ingest.Ingestor
}

func (h *CircularProductHandler) GetProducts(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var products []models.CircularProduct
	if err := h.DB.Where("circular_id = ?", id).Order("created_at").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *CircularProductHandler) AddProduct(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var req dtos.CircularProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product := models.CircularProduct{
		CircularID:          circular.ID,
		NormalPrice:         req.NormalPrice,
		DiscountPrice:       req.DiscountPrice,
		ClientDiscountPrice: req.ClientDiscountPrice,
		AppPrice:            req.AppPrice,
	}
	setOptionalText(&product.Description, req.Description)
	setOptionalText(&product.Laboratory, req.Laboratory)
	setOptionalText(&product.PriceType, req.PriceType)
	setOptionalText(&product.RuleType, req.RuleType)
	applyBarcode(c.Request.Context(), h.Catalog, req.Barcode, &product.Barcode, &product.BarcodeNormalized, &product.InternalCode)

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *CircularProductHandler) UpdateProducts(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var req dtos.BulkUpdateCircularProductsRequest
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

		var product models.CircularProduct
		if err := h.DB.Where("id = ? AND circular_id = ?", productID, circular.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %s not found in this circular", row.ID)})
			return
		}

		product.NormalPrice = row.NormalPrice
		product.DiscountPrice = row.DiscountPrice
		product.ClientDiscountPrice = row.ClientDiscountPrice
		product.AppPrice = row.AppPrice
		product.Description = nil
		product.Laboratory = nil
		product.PriceType = nil
		product.RuleType = nil
		setOptionalText(&product.Description, row.Description)
		setOptionalText(&product.Laboratory, row.Laboratory)
		setOptionalText(&product.PriceType, row.PriceType)
		setOptionalText(&product.RuleType, row.RuleType)
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

func (h *CircularProductHandler) DeleteProducts(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var req dtos.BulkDeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	res := h.DB.Where("circular_id = ? AND id IN ?", circular.ID, req.IDs).Delete(&models.CircularProduct{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": res.RowsAffected})
}

func (h *CircularProductHandler) UploadProducts(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
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

	result, err := h.Ingestor.ReplaceCircularProducts(c.Request.Context(), circular.ID, file)
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

func (h *CircularProductHandler) ExportProducts(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var products []models.CircularProduct
	if err := h.DB.Where("circular_id = ?", id).Order("created_at").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "Todos")
	sheet = "Todos"
	headers := []string{"GTIN", "CÓDIGO INTERNO", "DESCRIÇÃO", "LABORATÓRIO", "TIPO DE PREÇO", "PREÇO NORMAL", "PREÇO DESCONTO GERAL", "PREÇO DESCONTO CLIENTE+", "PREÇO APP", "TIPO DE REGRA"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, p := range products {
		values := []interface{}{
			deref(p.Barcode), deref(p.InternalCode), deref(p.Description),
			deref(p.Laboratory), deref(p.PriceType),
			derefFloat(p.NormalPrice), derefFloat(p.DiscountPrice),
			derefFloat(p.ClientDiscountPrice), derefFloat(p.AppPrice),
			deref(p.RuleType),
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

	filename := fmt.Sprintf("circular-%s-products.xlsx", circular.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func setOptionalText(dst **string, value string) {
	if value != "" {
		v := value
		*dst = &v
	}
}
