package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/search"
)

type fakeSearchService struct {
	lastProjectFilter search.ProjectFilter
	lastCursor        search.Cursor
}

func (f *fakeSearchService) SearchProjects(ctx context.Context, filter search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error) {
	f.lastProjectFilter = filter
	f.lastCursor = c
	return &search.ProjectPage{Items: []search.ProjectHit{}}, nil
}

func (f *fakeSearchService) SearchStudents(ctx context.Context, filter search.StudentFilter, c search.Cursor) (*search.StudentPage, error) {
	return &search.StudentPage{Items: []search.StudentHit{}}, nil
}

type passthroughAuth struct{}

func (passthroughAuth) IssueToken(username, userType string) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (passthroughAuth) ValidateRequest(r *http.Request) (*auth.Claims, error) {
	return &auth.Claims{Username: "alice"}, nil
}

func newSearchMux(svc *fakeSearchService) *http.ServeMux {
	mux := http.NewServeMux()
	m := auth.NewMiddleware(passthroughAuth{}, nil, zap.NewNop())
	NewSearchHandler(svc, zap.NewNop()).RegisterRoutes(mux, m)
	return mux
}

func TestSearchProjectsQueryParsing(t *testing.T) {
	svc := &fakeSearchService{}
	mux := newSearchMux(svc)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/search/projects?skills=Go&skills=SQL&roles=Backend&title=chat&status=&lastScore=6&lastId=31", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	f := svc.lastProjectFilter
	if !reflect.DeepEqual(f.Skills, []string{"Go", "SQL"}) {
		t.Errorf("Skills = %v", f.Skills)
	}
	if !reflect.DeepEqual(f.Roles, []string{"Backend"}) {
		t.Errorf("Roles = %v", f.Roles)
	}
	if f.Title == nil || *f.Title != "chat" {
		t.Errorf("Title = %v", f.Title)
	}
	// A present-but-empty parameter is a real constraint.
	if f.Status == nil || *f.Status != "" {
		t.Errorf("Status = %v, want pointer to empty string", f.Status)
	}
	// An absent parameter stays nil.
	if f.Duration != nil {
		t.Errorf("Duration = %v, want nil", f.Duration)
	}

	c := svc.lastCursor
	if c.LastScore == nil || *c.LastScore != 6 || c.LastID == nil || *c.LastID != 31 {
		t.Errorf("cursor = %+v", c)
	}
}

func TestSearchProjectsBadCursor(t *testing.T) {
	mux := newSearchMux(&fakeSearchService{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/projects?lastScore=abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
