package errors

// ErrorInfo contains detailed error information for API responses.
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g. "ACCOUNT_NOT_FOUND"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Detailed error information (optional)
}

// Response is the envelope the error handler renders for failures.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}
