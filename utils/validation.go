package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedSpreadsheetExtensions is the set of accepted upload file extensions.
var AllowedSpreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// MaxUploadSize is the maximum allowed size for spreadsheet uploads (10MB).
const MaxUploadSize = 10 << 20

// ValidateSpreadsheetUpload checks that the uploaded file looks like a
// spreadsheet and does not exceed the maximum file size.
func ValidateSpreadsheetUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 10MB", fh.Size)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedSpreadsheetExtensions[ext] {
		return fmt.Errorf("invalid file type '%s'; allowed types: .xlsx, .xls", ext)
	}

	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly
// message without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
