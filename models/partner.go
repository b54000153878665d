package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner types accepted by the back office.
const (
	PartnerTypeIndustry    = "industry"
	PartnerTypeDistributor = "distributor"
)

// Partner is a vendor entity that may be granted a user account on the remote
// embedded-analytics platform. RemoteUserID is set only after the remote
// account was successfully provisioned and recovered; PasswordSet is raised
// only after the remote password call succeeded. ManagerEmail is immutable
// after creation because the remote account is keyed by it.
type Partner struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AdjustedName string     `gorm:"not null;uniqueIndex" json:"adjusted_name"`
	Type         string     `gorm:"size:100" json:"type"`
	TaxID        string     `gorm:"size:18" json:"tax_id"`
	TradeName    string     `json:"trade_name"`
	LegalName    string     `json:"legal_name"`
	ManagerName  string     `json:"manager_name"`
	ManagerPhone string     `gorm:"size:20" json:"manager_phone"`
	ManagerEmail string     `json:"manager_email"`
	EntryDate    *time.Time `json:"entry_date"`
	ExitDate     *time.Time `json:"exit_date"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	RemoteUserID *string    `gorm:"size:100" json:"remote_user_id"`
	PasswordSet  bool       `gorm:"default:false" json:"password_set"`
	ContractFile *string    `json:"contract_file"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
