package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
)

// ProjectOwnerResolver resolves the owning account of a project.
// Implemented by the project repository.
type ProjectOwnerResolver interface {
	OwnerUsername(ctx context.Context, projectID int64) (string, error)
}

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	projects    ProjectOwnerResolver
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, projects ProjectOwnerResolver, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		projects:    projects,
		logger:      logger,
	}
}

// RequireAuth validates the JWT and sets claims in context for
// downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireUserType validates the JWT and requires the account to have
// the given type. Use for endpoints restricted to students or clients.
func (m *Middleware) RequireUserType(userType string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.authService.ValidateRequest(r)
			if err != nil {
				m.unauthorized(w, "Authentication required")
				return
			}

			if claims.UserType != userType {
				m.logger.Warn("Account type not permitted for endpoint",
					zap.String("username", claims.Username),
					zap.String("user_type", claims.UserType),
					zap.String("path", r.URL.Path))
				m.forbidden(w, "Not permitted for this account type")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireProjectOwner validates the JWT and requires the caller to own
// the project named by the URL path parameter. Use for endpoints like
// /api/projects/{id} that mutate a project or its contracts.
// pathParamName is the name used in r.PathValue() (e.g., "id").
func (m *Middleware) RequireProjectOwner(pathParamName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.authService.ValidateRequest(r)
			if err != nil {
				m.unauthorized(w, "Authentication required")
				return
			}

			projectID, err := strconv.ParseInt(r.PathValue(pathParamName), 10, 64)
			if err != nil {
				m.badRequest(w, "Invalid project ID")
				return
			}

			owner, err := m.projects.OwnerUsername(r.Context(), projectID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					m.notFound(w, "Project not found")
					return
				}
				m.logger.Error("Failed to resolve project owner",
					zap.Error(err),
					zap.Int64("project_id", projectID))
				m.internalError(w, "Failed to resolve project owner")
				return
			}

			if owner != claims.Username {
				m.logger.Warn("Non-owner attempted project mutation",
					zap.String("username", claims.Username),
					zap.Int64("project_id", projectID))
				m.forbidden(w, "Only the project owner may do this")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	m.writeError(w, http.StatusUnauthorized, "unauthorized", message)
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	m.writeError(w, http.StatusForbidden, "forbidden", message)
}

// badRequest returns a 400 response with JSON error body.
func (m *Middleware) badRequest(w http.ResponseWriter, message string) {
	m.writeError(w, http.StatusBadRequest, "bad_request", message)
}

// notFound returns a 404 response with JSON error body.
func (m *Middleware) notFound(w http.ResponseWriter, message string) {
	m.writeError(w, http.StatusNotFound, "not_found", message)
}

// internalError returns a 500 response with JSON error body.
func (m *Middleware) internalError(w http.ResponseWriter, message string) {
	m.writeError(w, http.StatusInternalServerError, "internal_error", message)
}

func (m *Middleware) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
