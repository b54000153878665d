package utils

import "strings"

// BarcodeLength is the canonical width of a normalized barcode, matching the
// external catalog's normalized column.
const BarcodeLength = 14

// CleanBarcode trims surrounding whitespace from a barcode and returns nil for
// empty or whitespace-only input. Callers can then tell "no barcode" apart
// from a barcode that happens to be all zeros. No padding is applied.
func CleanBarcode(raw string) *string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// PadBarcode cleans the barcode and left-pads it with zeros to 14 characters,
// the canonical form used to join against the external catalog. Values already
// 14 characters or longer pass through unchanged, so the function is
// idempotent. Returns nil for blank input.
func PadBarcode(raw string) *string {
	cleaned := CleanBarcode(raw)
	if cleaned == nil {
		return nil
	}
	if len(*cleaned) >= BarcodeLength {
		return cleaned
	}
	padded := strings.Repeat("0", BarcodeLength-len(*cleaned)) + *cleaned
	return &padded
}
