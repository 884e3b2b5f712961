package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
)

type fakeAuthService struct {
	claims *Claims
	err    error
}

func (f *fakeAuthService) IssueToken(username, userType string) (string, time.Time, error) {
	return "token", time.Now().Add(time.Hour), nil
}

func (f *fakeAuthService) ValidateRequest(r *http.Request) (*Claims, error) {
	return f.claims, f.err
}

type fakeOwnerResolver struct {
	owner string
	err   error
}

func (f *fakeOwnerResolver) OwnerUsername(ctx context.Context, projectID int64) (string, error) {
	return f.owner, f.err
}

func runGuard(t *testing.T, svc AuthService, resolver ProjectOwnerResolver, path string) *httptest.ResponseRecorder {
	t.Helper()

	m := NewMiddleware(svc, resolver, zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/projects/{id}", m.RequireProjectOwner("id")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	return w
}

func TestRequireProjectOwner(t *testing.T) {
	claims := &Claims{Username: "alice"}

	tests := []struct {
		name       string
		svc        *fakeAuthService
		resolver   *fakeOwnerResolver
		path       string
		wantStatus int
	}{
		{"owner allowed", &fakeAuthService{claims: claims}, &fakeOwnerResolver{owner: "alice"}, "/api/projects/5", http.StatusNoContent},
		{"non-owner forbidden", &fakeAuthService{claims: claims}, &fakeOwnerResolver{owner: "bob"}, "/api/projects/5", http.StatusForbidden},
		{"unauthenticated", &fakeAuthService{err: ErrMissingAuthorization}, &fakeOwnerResolver{owner: "alice"}, "/api/projects/5", http.StatusUnauthorized},
		{"unknown project", &fakeAuthService{claims: claims}, &fakeOwnerResolver{err: apperrors.ErrNotFound}, "/api/projects/5", http.StatusNotFound},
		{"bad id", &fakeAuthService{claims: claims}, &fakeOwnerResolver{owner: "alice"}, "/api/projects/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runGuard(t, tt.svc, tt.resolver, tt.path)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireUserType(t *testing.T) {
	m := NewMiddleware(&fakeAuthService{claims: &Claims{Username: "alice", UserType: "client"}}, nil, zap.NewNop())

	handler := m.RequireUserType("student")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/api/students", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireAuthSetsClaims(t *testing.T) {
	claims := &Claims{Username: "alice"}
	m := NewMiddleware(&fakeAuthService{claims: claims}, nil, zap.NewNop())

	var got *Claims
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got.Username != "alice" {
		t.Errorf("claims in context = %v", got)
	}
}
