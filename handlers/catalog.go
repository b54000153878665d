package handlers

import (
	"net/http"

	"promo-backoffice/catalog"
	"promo-backoffice/dtos"
	"promo-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Catalog catalog.Catalog
}

// ValidateBarcodes reports which of the submitted barcodes exist in the
// external catalog, keyed by the cleaned input value. Used by the UI to flag
// unknown rows before an upload.
func (h *CatalogHandler) ValidateBarcodes(c *gin.Context) {
	var req dtos.ValidateBarcodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	cleaned := make([]string, 0, len(req.Barcodes))
	for _, raw := range req.Barcodes {
		if v := utils.CleanBarcode(raw); v != nil {
			cleaned = append(cleaned, *v)
		}
	}

	valid, err := h.Catalog.ValidateBarcodes(c.Request.Context(), cleaned)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate barcodes"})
		return
	}

	results := make(map[string]bool, len(cleaned))
	for _, barcode := range cleaned {
		results[barcode] = valid[barcode]
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
