package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes a success response wrapped in the standard data envelope
func JSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// Error writes an error response wrapped in the standard error envelope
func Error(w http.ResponseWriter, status int, code, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(map[string]any{
		"error": ErrorResponse{
			Code:    code,
			Message: message,
		},
	})
}
