package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// ContractHandler handles contract endpoints. Project-scoped routes are
// owner-guarded by middleware; the contract-scoped status route is
// ownership-checked in the service.
type ContractHandler struct {
	contracts services.ContractService
	logger    *zap.Logger
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contracts services.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{contracts: contracts, logger: logger}
}

// RegisterRoutes registers the contract handler's routes on the given mux.
func (h *ContractHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	ownerOnly := authMiddleware.RequireProjectOwner("id")
	studentOnly := authMiddleware.RequireUserType(models.UserTypeStudent)
	mux.HandleFunc("POST /api/projects/{id}/contracts", ownerOnly(h.Create))
	mux.HandleFunc("GET /api/projects/{id}/contracts", ownerOnly(h.ListByProject))
	mux.HandleFunc("GET /api/contracts/mine", studentOnly(h.ListMine))
	mux.HandleFunc("PUT /api/contracts/{id}/status", authMiddleware.RequireAuth(h.UpdateStatus))
}

// Create handles POST /api/projects/{id}/contracts.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	var req struct {
		StudentUsername string `json:"studentUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	id, err := h.contracts.Create(r.Context(), projectID, req.StudentUsername)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]int64{"contractId": id}); err != nil {
		h.logger.Error("Failed to encode contract response", zap.Error(err))
	}
}

// ListByProject handles GET /api/projects/{id}/contracts.
func (h *ContractHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid project ID")
		return
	}

	contracts, err := h.contracts.ListByProject(r.Context(), projectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"contracts": contracts}); err != nil {
		h.logger.Error("Failed to encode contract list", zap.Error(err))
	}
}

// ListMine handles GET /api/contracts/mine for the calling student.
func (h *ContractHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	contracts, err := h.contracts.ListByStudent(r.Context(), claims.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"contracts": contracts}); err != nil {
		h.logger.Error("Failed to encode contract list", zap.Error(err))
	}
}

// UpdateStatus handles PUT /api/contracts/{id}/status.
func (h *ContractHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetClaims(r.Context())

	contractID, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid contract ID")
		return
	}

	var req struct {
		Status    string     `json:"status"`
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	if err := h.contracts.UpdateStatus(r.Context(), contractID, claims.Username, req.Status, req.StartDate, req.EndDate); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
