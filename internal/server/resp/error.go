package resp

const (
	ErrBadRequest           = "Invalid request parameters"
	ErrInvalidParam         = "Invalid parameter"
	ErrResourceNotFound     = "Resource not found"
	ErrInternalServer       = "An unexpected error occurred"
	ErrDatabase             = "Database operation failed"
	ErrUnauthorized         = "Authentication failed"
	ErrSyncKeyNotConfigured = "Sync API key is not configured"
	ErrScraperUnavailable   = "Scraper is not configured"
)
