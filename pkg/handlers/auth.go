package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// AuthHandler handles account registration, login, and password changes.
type AuthHandler struct {
	accounts services.AccountService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts services.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("PUT /api/auth/password", authMiddleware.RequireAuth(h.ChangePassword))
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg services.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	session, err := h.accounts.Register(r.Context(), &reg)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, session); err != nil {
		h.logger.Error("Failed to encode register response", zap.Error(err))
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Bad credentials surface as 401, not the 403 used for ownership.
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	if err := WriteJSON(w, http.StatusOK, session); err != nil {
		h.logger.Error("Failed to encode login response", zap.Error(err))
	}
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), claims.Username, req.OldPassword, req.NewPassword); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
