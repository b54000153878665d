package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CircularProduct is one product pricing row attached to a circular.
type CircularProduct struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CircularID          uuid.UUID `gorm:"type:uuid;not null;index" json:"circular_id"`
	Barcode             *string   `gorm:"size:50" json:"barcode"`
	BarcodeNormalized   *string   `gorm:"size:50;index" json:"barcode_normalized"`
	InternalCode        *string   `gorm:"size:50" json:"internal_code"`
	Description         *string   `json:"description"`
	Laboratory          *string   `json:"laboratory"`
	PriceType           *string   `gorm:"size:100" json:"price_type"`
	NormalPrice         *float64  `json:"normal_price"`
	DiscountPrice       *float64  `json:"discount_price"`
	ClientDiscountPrice *float64  `json:"client_discount_price"`
	AppPrice            *float64  `json:"app_price"`
	RuleType            *string   `gorm:"size:100" json:"rule_type"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (p *CircularProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
