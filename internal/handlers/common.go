package handlers

// ErrorResponse is the error payload returned by API endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
}
