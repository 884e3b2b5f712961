// Package handlers contains the HTTP layer: request decoding, claims
// extraction, and mapping service errors onto status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps the error taxonomy onto HTTP status codes.
// Unknown errors become opaque 500s; their detail stays in the logs.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "not permitted")
	case errors.Is(err, apperrors.ErrConflict):
		_ = ErrorResponse(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperrors.ErrValidation):
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
