package utils

// ErrorResponse is the JSON error body every service returns. Error carries
// a stable category, never raw driver or upstream error text.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
