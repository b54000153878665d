package dtos

// CampaignRequest carries the campaign form fields for create and update.
// Dates use the YYYY-MM-DD format.
type CampaignRequest struct {
	Name      string  `json:"name" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	IsActive  *bool   `json:"is_active"`
	PartnerID *string `json:"partner_id"`
}

// CircularRequest carries the circular form fields for create and update.
type CircularRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}
