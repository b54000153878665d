package handlers

import (
	"fmt"
	"net/http"
	"time"

	"promo-backoffice/dtos"
	"promo-backoffice/models"
	"promo-backoffice/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CircularHandler struct {
	DB *gorm.DB
}

func errInvalidDate(value string) error {
	return fmt.Errorf("invalid date '%s'; use YYYY-MM-DD", value)
}

func errInvalidID(value string) error {
	return fmt.Errorf("invalid id '%s'", value)
}

func (h *CircularHandler) GetCirculars(c *gin.Context) {
	var circulars []models.Circular
	if err := h.DB.Order("start_date DESC").Find(&circulars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch circulars"})
		return
	}
	c.JSON(http.StatusOK, circulars)
}

func (h *CircularHandler) GetCircular(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	c.JSON(http.StatusOK, circular)
}

func (h *CircularHandler) CreateCircular(c *gin.Context) {
	var req dtos.CircularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	circular := models.Circular{Name: req.Name, IsActive: true}
	if err := applyCircularFields(&circular, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Create(&circular).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create circular; the name may already be in use"})
		return
	}

	c.JSON(http.StatusCreated, circular)
}

func (h *CircularHandler) UpdateCircular(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	var req dtos.CircularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	circular.Name = req.Name
	if err := applyCircularFields(&circular, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Save(&circular).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update circular"})
		return
	}

	c.JSON(http.StatusOK, circular)
}

// DeactivateCircular flips the active flag without touching the circular's
// products, so the promo can be re-enabled later.
func (h *CircularHandler) DeactivateCircular(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	if err := h.DB.Model(&circular).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate circular"})
		return
	}

	c.JSON(http.StatusOK, circular)
}

func (h *CircularHandler) DeleteCircular(c *gin.Context) {
	id := c.Param("id")
	var circular models.Circular

	if err := h.DB.Where("id = ?", id).First(&circular).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Circular not found"})
		return
	}

	if err := h.DB.Where("circular_id = ?", id).Delete(&models.CircularProduct{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete circular products"})
		return
	}

	if err := h.DB.Delete(&models.Circular{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete circular"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Circular deleted successfully"})
}

func applyCircularFields(circular *models.Circular, req dtos.CircularRequest) error {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return errInvalidDate(req.StartDate)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return errInvalidDate(req.EndDate)
	}
	circular.StartDate = start
	circular.EndDate = end

	if req.IsActive != nil {
		circular.IsActive = *req.IsActive
	}
	return nil
}
