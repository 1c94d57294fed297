package constants

// Content types
const (
	ContentTypeJSON   = "application/json"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	HeaderContentType = "Content-Type"
	HeaderDisposition = "Content-Disposition"
	HeaderRequestID   = "X-Request-ID"
	HeaderRunID       = "X-Run-ID"
)

// Form fields of an aging upload.
const (
	FormFile     = "file"
	FormEURRate  = "eur_rate"
	FormCurrency = "currency"
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)
