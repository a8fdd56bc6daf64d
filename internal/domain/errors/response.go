package errors

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "VALIDATION_FAILED"
	Details string `json:"details,omitempty"` // Detailed error information (optional)
}

// Response defines the envelope written for errors mapped by the delivery layer.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}
