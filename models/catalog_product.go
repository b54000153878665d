package models

// CatalogProduct maps the external product catalog table used to resolve
// barcodes to internal product codes. The table is owned by another system:
// this service only reads it and never migrates it.
type CatalogProduct struct {
	BarcodeNormalized string `gorm:"column:barcode_normalized;primaryKey;size:50" json:"barcode_normalized"`
	Barcode           string `gorm:"column:barcode;size:50" json:"barcode"`
	InternalCode      string `gorm:"column:internal_code;size:50" json:"internal_code"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}
