package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/search"
	nexussql "github.com/uw-nexus/nexus-be/pkg/sql"
)

// SearchService validates incoming filters and delegates ranking to the
// configured backend.
type SearchService interface {
	SearchProjects(ctx context.Context, f search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error)
	SearchStudents(ctx context.Context, f search.StudentFilter, c search.Cursor) (*search.StudentPage, error)
}

type searchService struct {
	backend search.Backend
	logger  *zap.Logger
}

// NewSearchService creates a new SearchService over the given backend.
func NewSearchService(backend search.Backend, logger *zap.Logger) SearchService {
	return &searchService{
		backend: backend,
		logger:  logger.Named("search-service"),
	}
}

var _ SearchService = (*searchService)(nil)

func (s *searchService) SearchProjects(ctx context.Context, f search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error) {
	params := map[string]any{}
	collectScalarParam(params, "title", f.Title)
	collectScalarParam(params, "duration", f.Duration)
	collectScalarParam(params, "size", f.TeamSize)
	collectScalarParam(params, "status", f.Status)
	collectTagParams(params, "skills", f.Skills)
	collectTagParams(params, "roles", f.Roles)
	collectTagParams(params, "interests", f.Interests)
	if err := s.checkParams(params); err != nil {
		return nil, err
	}

	page, err := s.backend.RankProjects(ctx, f, c)
	if err != nil {
		s.logger.Error("Project search failed", zap.Error(err))
		return nil, err
	}
	return page, nil
}

func (s *searchService) SearchStudents(ctx context.Context, f search.StudentFilter, c search.Cursor) (*search.StudentPage, error) {
	params := map[string]any{}
	collectScalarParam(params, "name", f.Name)
	collectScalarParam(params, "degree", f.Degree)
	collectTagParams(params, "skills", f.Skills)
	collectTagParams(params, "roles", f.Roles)
	collectTagParams(params, "interests", f.Interests)
	if err := s.checkParams(params); err != nil {
		return nil, err
	}

	page, err := s.backend.RankStudents(ctx, f, c)
	if err != nil {
		s.logger.Error("Student search failed", zap.Error(err))
		return nil, err
	}
	return page, nil
}

// checkParams rejects filter values carrying SQL injection patterns.
// Every value is bound as a parameter downstream, so this is hardening,
// not correctness.
func (s *searchService) checkParams(params map[string]any) error {
	results := nexussql.CheckAllParameters(params)
	if len(results) == 0 {
		return nil
	}
	for _, r := range results {
		s.logger.Warn("Rejected search parameter",
			zap.String("param", r.ParamName),
			zap.String("fingerprint", r.Fingerprint))
	}
	return fmt.Errorf("%w: filter value rejected", apperrors.ErrValidation)
}

func collectScalarParam(params map[string]any, name string, value *string) {
	if value != nil {
		params[name] = *value
	}
}

func collectTagParams(params map[string]any, prefix string, names []string) {
	for i, name := range names {
		params[fmt.Sprintf("%s[%d]", prefix, i)] = name
	}
}
