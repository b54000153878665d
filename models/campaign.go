package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign is a time-boxed promotional pricing event. Its product line items
// are replaced wholesale on each spreadsheet upload.
type Campaign struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string            `gorm:"not null;uniqueIndex" json:"name"`
	StartDate time.Time         `gorm:"not null" json:"start_date"`
	EndDate   time.Time         `gorm:"not null" json:"end_date"`
	IsActive  bool              `gorm:"default:true" json:"is_active"`
	PartnerID *uuid.UUID        `gorm:"type:uuid" json:"partner_id"`
	Partner   *Partner          `gorm:"foreignKey:PartnerID;constraint:OnDelete:SET NULL" json:"partner,omitempty"`
	Products  []CampaignProduct `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
