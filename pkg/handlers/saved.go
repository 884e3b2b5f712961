package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// SavedHandler handles the caller's saved project and student lists.
type SavedHandler struct {
	saves  services.SaveService
	logger *zap.Logger
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(saves services.SaveService, logger *zap.Logger) *SavedHandler {
	return &SavedHandler{saves: saves, logger: logger}
}

// RegisterRoutes registers the saved-list routes on the given mux.
func (h *SavedHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/saved", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PUT /api/saved/projects/{id}", authMiddleware.RequireAuth(h.SaveProject))
	mux.HandleFunc("DELETE /api/saved/projects/{id}", authMiddleware.RequireAuth(h.UnsaveProject))
	mux.HandleFunc("PUT /api/saved/students/{username}", authMiddleware.RequireAuth(h.SaveStudent))
	mux.HandleFunc("DELETE /api/saved/students/{username}", authMiddleware.RequireAuth(h.UnsaveStudent))
}

// List handles GET /api/saved.
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	saved, err := h.saves.Saved(r.Context(), claims.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, saved); err != nil {
		h.logger.Error("Failed to encode saved lists", zap.Error(err))
	}
}

// SaveProject handles PUT /api/saved/projects/{id}.
func (h *SavedHandler) SaveProject(w http.ResponseWriter, r *http.Request) {
	h.projectOp(w, r, h.saves.SaveProject)
}

// UnsaveProject handles DELETE /api/saved/projects/{id}.
func (h *SavedHandler) UnsaveProject(w http.ResponseWriter, r *http.Request) {
	h.projectOp(w, r, h.saves.UnsaveProject)
}

// SaveStudent handles PUT /api/saved/students/{username}.
func (h *SavedHandler) SaveStudent(w http.ResponseWriter, r *http.Request) {
	h.studentOp(w, r, h.saves.SaveStudent)
}

// UnsaveStudent handles DELETE /api/saved/students/{username}.
func (h *SavedHandler) UnsaveStudent(w http.ResponseWriter, r *http.Request) {
	h.studentOp(w, r, h.saves.UnsaveStudent)
}

func (h *SavedHandler) projectOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, username string, projectID int64) error) {
	claims, _ := auth.GetClaims(r.Context())

	projectID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	if err := op(r.Context(), claims.Username, projectID); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SavedHandler) studentOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, username, targetUsername string) error) {
	claims, _ := auth.GetClaims(r.Context())

	target := r.PathValue("username")
	if target == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "missing username")
		return
	}

	if err := op(r.Context(), claims.Username, target); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
