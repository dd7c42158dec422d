package dto

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}

// NewErrorResponse creates an error response carrying message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
