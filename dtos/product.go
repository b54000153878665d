package dtos

// CampaignProductRequest carries one campaign line item from the UI. The
// barcode is kept as typed; normalization happens server-side.
type CampaignProductRequest struct {
	Barcode       string   `json:"barcode"`
	Description   string   `json:"description"`
	Score         *int     `json:"score"`
	NormalPrice   *float64 `json:"normal_price"`
	DiscountPrice *float64 `json:"discount_price"`
	Markdown      *float64 `json:"markdown"`
	QuantityLimit *int     `json:"quantity_limit"`
}

// CircularProductRequest carries one circular line item from the UI.
type CircularProductRequest struct {
	Barcode             string   `json:"barcode"`
	Description         string   `json:"description"`
	Laboratory          string   `json:"laboratory"`
	PriceType           string   `json:"price_type"`
	NormalPrice         *float64 `json:"normal_price"`
	DiscountPrice       *float64 `json:"discount_price"`
	ClientDiscountPrice *float64 `json:"client_discount_price"`
	AppPrice            *float64 `json:"app_price"`
	RuleType            string   `json:"rule_type"`
}

// CampaignProductUpdate is one row of a bulk edit, keyed by the line-item id.
type CampaignProductUpdate struct {
	ID string `json:"id" binding:"required"`
	CampaignProductRequest
}

// CircularProductUpdate is one row of a bulk edit, keyed by the line-item id.
type CircularProductUpdate struct {
	ID string `json:"id" binding:"required"`
	CircularProductRequest
}

// BulkUpdateCampaignProductsRequest updates the selected campaign rows.
type BulkUpdateCampaignProductsRequest struct {
	Products []CampaignProductUpdate `json:"products" binding:"required,min=1,dive"`
}

// BulkUpdateCircularProductsRequest updates the selected circular rows.
type BulkUpdateCircularProductsRequest struct {
	Products []CircularProductUpdate `json:"products" binding:"required,min=1,dive"`
}

// BulkDeleteProductsRequest deletes the selected rows. The confirmation
// password is required for campaign bulk deletes.
type BulkDeleteProductsRequest struct {
	IDs                  []string `json:"ids" binding:"required,min=1"`
	ConfirmationPassword string   `json:"confirmation_password"`
}

// ValidateBarcodesRequest asks which of the given barcodes exist in the
// external catalog.
type ValidateBarcodesRequest struct {
	Barcodes []string `json:"barcodes" binding:"required"`
}
