package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hookline/hookline/internal/domain"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors to their HTTP dispositions.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalidPayload *domain.InvalidPayloadError
	var validationErr domain.ValidationError

	switch {
	case domain.IsNotFound(err):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidSignature):
		WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &invalidPayload):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &validationErr):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
