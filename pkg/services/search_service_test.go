package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/search"
)

type fakeBackend struct {
	projectCalls int
	studentCalls int
}

func (f *fakeBackend) RankProjects(ctx context.Context, filter search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error) {
	f.projectCalls++
	return &search.ProjectPage{Items: []search.ProjectHit{}}, nil
}

func (f *fakeBackend) RankStudents(ctx context.Context, filter search.StudentFilter, c search.Cursor) (*search.StudentPage, error) {
	f.studentCalls++
	return &search.StudentPage{Items: []search.StudentHit{}}, nil
}

func TestSearchDelegatesToBackend(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewSearchService(backend, zap.NewNop())
	ctx := context.Background()

	title := "chat"
	if _, err := svc.SearchProjects(ctx, search.ProjectFilter{Title: &title, Skills: []string{"Go"}}, search.Cursor{}); err != nil {
		t.Fatalf("SearchProjects: %v", err)
	}
	if backend.projectCalls != 1 {
		t.Errorf("backend calls = %d", backend.projectCalls)
	}
}

func TestSearchRejectsInjectionInFreeText(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewSearchService(backend, zap.NewNop())
	ctx := context.Background()

	hostile := "' OR '1'='1"
	if _, err := svc.SearchProjects(ctx, search.ProjectFilter{Title: &hostile}, search.Cursor{}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("hostile title = %v, want validation error", err)
	}
	if _, err := svc.SearchStudents(ctx, search.StudentFilter{Skills: []string{"1 UNION SELECT password_hash FROM users--"}}, search.Cursor{}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("hostile tag = %v, want validation error", err)
	}
	if backend.projectCalls+backend.studentCalls != 0 {
		t.Errorf("backend must not run for rejected input")
	}
}

func TestSearchScreensAllScalarFilters(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewSearchService(backend, zap.NewNop())
	ctx := context.Background()

	hostile := "' OR '1'='1"
	projectFilters := []search.ProjectFilter{
		{Duration: &hostile},
		{TeamSize: &hostile},
		{Status: &hostile},
	}
	for i, f := range projectFilters {
		if _, err := svc.SearchProjects(ctx, f, search.Cursor{}); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("project filter %d = %v, want validation error", i, err)
		}
	}
	if _, err := svc.SearchStudents(ctx, search.StudentFilter{Degree: &hostile}, search.Cursor{}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("hostile degree = %v, want validation error", err)
	}
	if backend.projectCalls+backend.studentCalls != 0 {
		t.Errorf("backend must not run for rejected input")
	}
}
