package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("student: %w", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", apperrors.ErrUnauthorized, http.StatusForbidden, "forbidden"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"validation", fmt.Errorf("%w: bad cursor", apperrors.ErrValidation), http.StatusBadRequest, "validation_failed"},
		{"unknown", errors.New("pg exploded"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body not JSON: %v", err)
			}
			if body["error"] != tt.wantCode {
				t.Errorf("error code = %q, want %q", body["error"], tt.wantCode)
			}
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteServiceError(w, errors.New("password=hunter2 leaked into error"))

	if got := w.Body.String(); len(got) > 0 && (w.Code == http.StatusInternalServerError) {
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["message"] != "internal server error" {
			t.Errorf("internal errors must be opaque, got %q", body["message"])
		}
	}
}
