package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// ProjectService provides project operations. Ownership is enforced by
// the route middleware; these methods trust the caller is authorized.
type ProjectService interface {
	Create(ctx context.Context, owner string, details *models.ProjectDetails) (*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	ListOwned(ctx context.Context, owner string) ([]models.ProjectDetails, error)
	Update(ctx context.Context, id int64, upd *models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	projects repositories.ProjectRepository
	indexer  ProfileIndexer
	logger   *zap.Logger
}

// NewProjectService creates a new ProjectService. indexer may be nil.
func NewProjectService(projects repositories.ProjectRepository, indexer ProfileIndexer, logger *zap.Logger) ProjectService {
	return &projectService{
		projects: projects,
		indexer:  indexer,
		logger:   logger.Named("project-service"),
	}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) Create(ctx context.Context, owner string, details *models.ProjectDetails) (*models.Project, error) {
	if details.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if details.Status == "" {
		details.Status = models.ProjectStatusActive
	}
	switch details.Status {
	case models.ProjectStatusActive, models.ProjectStatusCompleted, models.ProjectStatusClosed:
	default:
		return nil, fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, details.Status)
	}

	id, err := s.projects.Create(ctx, owner, details)
	if err != nil {
		s.logger.Error("Failed to create project",
			zap.String("owner", owner),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Project created",
		zap.Int64("project_id", id),
		zap.String("owner", owner))
	return s.refresh(ctx, id)
}

func (s *projectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *projectService) ListOwned(ctx context.Context, owner string) ([]models.ProjectDetails, error) {
	return s.projects.ListOwned(ctx, owner)
}

func (s *projectService) Update(ctx context.Context, id int64, upd *models.ProjectUpdate) (*models.Project, error) {
	if upd.Details.Status != nil {
		switch *upd.Details.Status {
		case models.ProjectStatusActive, models.ProjectStatusCompleted, models.ProjectStatusClosed:
		default:
			return nil, fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, *upd.Details.Status)
		}
	}

	if err := s.projects.Update(ctx, id, upd); err != nil {
		s.logger.Error("Failed to update project",
			zap.Int64("project_id", id),
			zap.Error(err))
		return nil, err
	}
	return s.refresh(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete project",
			zap.Int64("project_id", id),
			zap.Error(err))
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.RemoveProject(ctx, id); err != nil {
			s.logger.Error("Failed to remove project from index",
				zap.Int64("project_id", id),
				zap.Error(err))
		}
	}
	s.logger.Info("Project deleted", zap.Int64("project_id", id))
	return nil
}

// refresh reloads the project after a mutation and mirrors it into the
// index. Index failures are logged, not surfaced.
func (s *projectService) refresh(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.indexer != nil {
		if err := s.indexer.SyncProject(ctx, project); err != nil {
			s.logger.Error("Failed to sync project into index",
				zap.Int64("project_id", id),
				zap.Error(err))
		}
	}
	return project, nil
}
