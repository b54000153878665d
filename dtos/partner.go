package dtos

// PartnerRequest carries the partner form fields for create and update. Dates
// use the YYYY-MM-DD format.
type PartnerRequest struct {
	AdjustedName string `json:"adjusted_name" binding:"required"`
	Type         string `json:"type" binding:"omitempty,oneof=industry distributor"`
	TaxID        string `json:"tax_id"`
	TradeName    string `json:"trade_name"`
	LegalName    string `json:"legal_name"`
	ManagerName  string `json:"manager_name"`
	ManagerPhone string `json:"manager_phone"`
	ManagerEmail string `json:"manager_email" binding:"omitempty,email"`
	EntryDate    string `json:"entry_date"`
	ExitDate     string `json:"exit_date"`
	ContractFile string `json:"contract_file"`
}

// SetPasswordRequest carries the new remote-account password for a partner.
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// DeletePartnerRequest guards permanent deletion behind a confirmation
// password, matching the original back office.
type DeletePartnerRequest struct {
	ConfirmationPassword string `json:"confirmation_password"`
}
