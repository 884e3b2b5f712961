package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// ProjectHandler handles project endpoints. Mutations are guarded by the
// project-owner middleware.
type ProjectHandler struct {
	projects services.ProjectService
	logger   *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// RegisterRoutes registers the project handler's routes on the given mux.
func (h *ProjectHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	ownerOnly := authMiddleware.RequireProjectOwner("id")
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects/mine", authMiddleware.RequireAuth(h.ListOwned))
	mux.HandleFunc("GET /api/projects/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/projects/{id}", ownerOnly(h.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", ownerOnly(h.Delete))
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	var details models.ProjectDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), claims.Username, &details)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// ListOwned handles GET /api/projects/mine.
func (h *ProjectHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	projects, err := h.projects.ListOwned(r.Context(), claims.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"projects": projects}); err != nil {
		h.logger.Error("Failed to encode project list", zap.Error(err))
	}
}

// Update handles PATCH /api/projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	var upd models.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, &upd)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID reads a numeric path parameter.
func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
