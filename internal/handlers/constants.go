package handlers

const (
	RequestIDHeader = "X-Request-ID"

	// request bodies are small JSON documents
	maxBodyBytes = 1 << 16

	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidFilter       = "Invalid language filter"
	ErrTooManyRequests     = "Too many requests"
	ErrNotFound            = "Not found"
	ErrInternalServerError = "Internal server error"
	ErrStorageUnavailable  = "Word storage unavailable"
)
