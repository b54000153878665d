package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"promo-backoffice/dtos"
	"promo-backoffice/models"
	"promo-backoffice/partners"
	"promo-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartnerHandler exposes partner CRUD. Every write goes through the
// synchronization service so the remote analytics account stays in step.
type PartnerHandler struct {
	DB                   *gorm.DB
	Sync                 *partners.Service
	ConfirmationPassword string
}

// GetPartners lists partners with optional filters: type, active status and
// an entry/exit date window.
func (h *PartnerHandler) GetPartners(c *gin.Context) {
	query := h.DB.Order("adjusted_name")

	if partnerType := c.Query("type"); partnerType != "" {
		if partnerType != models.PartnerTypeIndustry && partnerType != models.PartnerTypeDistributor {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be 'industry' or 'distributor'"})
			return
		}
		query = query.Where("type = ?", partnerType)
	}

	if status := c.Query("status"); status != "" {
		switch status {
		case "active":
			query = query.Where("is_active = ?", true)
		case "inactive":
			query = query.Where("is_active = ?", false)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'active' or 'inactive'"})
			return
		}
	}

	if from := c.Query("entry_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_from date; use YYYY-MM-DD"})
			return
		}
		query = query.Where("entry_date >= ?", t)
	}
	if to := c.Query("entry_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_to date; use YYYY-MM-DD"})
			return
		}
		query = query.Where("entry_date <= ?", t)
	}
	if from := c.Query("exit_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exit_from date; use YYYY-MM-DD"})
			return
		}
		query = query.Where("exit_date >= ?", t)
	}
	if to := c.Query("exit_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exit_to date; use YYYY-MM-DD"})
			return
		}
		query = query.Where("exit_date <= ?", t)
	}

	var list []models.Partner
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partners"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *PartnerHandler) GetPartner(c *gin.Context) {
	id := c.Param("id")
	var partner models.Partner

	if err := h.DB.Where("id = ?", id).First(&partner).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	c.JSON(http.StatusOK, partner)
}

func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req dtos.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	partner, warning, err := h.Sync.Create(c.Request.Context(), req)
	if err != nil {
		var validationErr *partners.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		log.Printf("Partner creation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"partner": partner}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusCreated, body)
}

func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner id"})
		return
	}

	var req dtos.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	partner, warning, err := h.Sync.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, partners.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
			return
		}
		var validationErr *partners.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		log.Printf("Partner update failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"partner": partner}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

func (h *PartnerHandler) DeletePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner id"})
		return
	}

	var req dtos.DeletePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if h.ConfirmationPassword != "" && req.ConfirmationPassword != h.ConfirmationPassword {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid confirmation password"})
		return
	}

	if err := h.Sync.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, partners.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
			return
		}
		log.Printf("Partner deletion failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted successfully"})
}

func (h *PartnerHandler) SetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner id"})
		return
	}

	var req dtos.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.Sync.SetPassword(c.Request.Context(), id, req.Password); err != nil {
		if errors.Is(err, partners.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
			return
		}
		var validationErr *partners.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		log.Printf("Partner password update failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password set successfully"})
}
