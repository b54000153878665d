package handlers

import (
	"net/http"
	"time"

	"promo-backoffice/dtos"
	"promo-backoffice/models"
	"promo-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	DB *gorm.DB
}

// GetCampaigns returns all campaigns, newest first, with their partner
// preloaded for the listing screen.
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	var campaigns []models.Campaign
	if err := h.DB.Preload("Partner").Order("start_date DESC").Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns"})
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Preload("Partner").Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req dtos.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	campaign := models.Campaign{Name: req.Name, IsActive: true}
	if err := applyCampaignFields(&campaign, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Create(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign; the name may already be in use"})
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var req dtos.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	campaign.Name = req.Name
	if err := applyCampaignFields(&campaign, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Save(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update campaign"})
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign removes the campaign and, through the FK cascade, every one
// of its product line items.
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id := c.Param("id")
	var campaign models.Campaign

	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	if err := h.DB.Where("campaign_id = ?", id).Delete(&models.CampaignProduct{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete campaign products"})
		return
	}

	if err := h.DB.Delete(&models.Campaign{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete campaign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

func applyCampaignFields(campaign *models.Campaign, req dtos.CampaignRequest) error {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return errInvalidDate(req.StartDate)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return errInvalidDate(req.EndDate)
	}
	campaign.StartDate = start
	campaign.EndDate = end

	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if req.PartnerID == nil || *req.PartnerID == "" {
		campaign.PartnerID = nil
	} else {
		partnerID, err := uuid.Parse(*req.PartnerID)
		if err != nil {
			return errInvalidID(*req.PartnerID)
		}
		campaign.PartnerID = &partnerID
	}
	return nil
}
