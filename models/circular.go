package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Circular is the second promo variant ("tabloide"). It shares the campaign
// lifecycle but carries its own line-item schema, and can be deactivated
// without being deleted.
type Circular struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string            `gorm:"not null;uniqueIndex" json:"name"`
	StartDate time.Time         `gorm:"not null" json:"start_date"`
	EndDate   time.Time         `gorm:"not null" json:"end_date"`
	IsActive  bool              `gorm:"default:true" json:"is_active"`
	Products  []CircularProduct `gorm:"foreignKey:CircularID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (c *Circular) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
