package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignProduct is one product pricing row attached to a campaign.
// Barcode keeps the value as imported; BarcodeNormalized is the zero-padded
// 14-digit form used to join against the external catalog. InternalCode is
// only set when the catalog lookup matched.
type CampaignProduct struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CampaignID        uuid.UUID `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Barcode           *string   `gorm:"size:50" json:"barcode"`
	BarcodeNormalized *string   `gorm:"size:50;index" json:"barcode_normalized"`
	InternalCode      *string   `gorm:"size:50" json:"internal_code"`
	Description       *string   `json:"description"`
	Score             *int      `json:"score"`
	NormalPrice       *float64  `json:"normal_price"`
	DiscountPrice     *float64  `json:"discount_price"`
	Markdown          *float64  `json:"markdown"`
	QuantityLimit     *int      `json:"quantity_limit"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *CampaignProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
