package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// StudentHandler handles student profile endpoints. Any authenticated
// account may view a profile; only the owning student may mutate it.
type StudentHandler struct {
	students services.StudentService
	logger   *zap.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students services.StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{students: students, logger: logger}
}

// RegisterRoutes registers the student handler's routes on the given mux.
func (h *StudentHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	studentOnly := authMiddleware.RequireUserType(models.UserTypeStudent)
	mux.HandleFunc("POST /api/students", studentOnly(h.Create))
	mux.HandleFunc("GET /api/students/{username}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/students/me", studentOnly(h.Update))
	mux.HandleFunc("DELETE /api/students/me", studentOnly(h.Delete))
}

// Create handles POST /api/students. The profile belongs to the caller.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	var profile models.StudentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	student, err := h.students.Create(r.Context(), claims.Username, &profile)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, student); err != nil {
		h.logger.Error("Failed to encode student response", zap.Error(err))
	}
}

// Get handles GET /api/students/{username}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, student); err != nil {
		h.logger.Error("Failed to encode student response", zap.Error(err))
	}
}

// Update handles PATCH /api/students/me.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	var upd models.StudentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	student, err := h.students.Update(r.Context(), claims.Username, &upd)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, student); err != nil {
		h.logger.Error("Failed to encode student response", zap.Error(err))
	}
}

// Delete handles DELETE /api/students/me.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	if err := h.students.Delete(r.Context(), claims.Username); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
