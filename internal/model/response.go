package model

// ErrorResponse is the uniform error body. Success bodies are the entities
// themselves.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
