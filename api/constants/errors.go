package constants

import "fmt"

// ============================================================================
// REQUEST ERRORS
// ============================================================================

const (
	ErrMethodNotAllowed = "Method Not Allowed"
	ErrRouteNotFound    = "404 - Route not found"
	ErrMissingFile      = "Please upload an Excel or CSV file in the 'file' field"
	ErrUploadTooLarge   = "Uploaded file exceeds the %d MB limit"
	ErrInvalidForm      = "Could not read the upload form"
	ErrInvalidRate      = "EUR rate must be a positive number"
)

// ============================================================================
// PROCESSING ERRORS
// ============================================================================

const (
	ErrUnsupportedFile = "Unsupported file type. Upload .xlsx, .xls or .csv"
	ErrEmptyFile       = "The uploaded file has no header row"
	ErrReadFile        = "Error reading file: %s"
	ErrMissingColumns  = "Missing required columns: %s"
	ErrExportFailed    = "Could not build the Excel report. Please try again"
	ErrInternal        = "An unexpected error occurred while processing the file"
)

// FormatUploadTooLarge renders ErrUploadTooLarge for a limit in megabytes.
func FormatUploadTooLarge(limitMB int) string {
	return fmt.Sprintf(ErrUploadTooLarge, limitMB)
}
