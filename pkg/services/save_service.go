package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// SaveService manages an account's saved project and student lists.
type SaveService interface {
	Saved(ctx context.Context, username string) (*repositories.SavedIDs, error)
	SaveProject(ctx context.Context, username string, projectID int64) error
	UnsaveProject(ctx context.Context, username string, projectID int64) error
	SaveStudent(ctx context.Context, username, targetUsername string) error
	UnsaveStudent(ctx context.Context, username, targetUsername string) error
}

type saveService struct {
	saves  repositories.SaveRepository
	logger *zap.Logger
}

// NewSaveService creates a new SaveService.
func NewSaveService(saves repositories.SaveRepository, logger *zap.Logger) SaveService {
	return &saveService{
		saves:  saves,
		logger: logger.Named("save-service"),
	}
}

var _ SaveService = (*saveService)(nil)

func (s *saveService) Saved(ctx context.Context, username string) (*repositories.SavedIDs, error) {
	return s.saves.Saved(ctx, username)
}

func (s *saveService) SaveProject(ctx context.Context, username string, projectID int64) error {
	if err := s.saves.SaveProject(ctx, username, projectID); err != nil {
		s.logger.Error("Failed to save project",
			zap.String("username", username),
			zap.Int64("project_id", projectID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *saveService) UnsaveProject(ctx context.Context, username string, projectID int64) error {
	return s.saves.UnsaveProject(ctx, username, projectID)
}

func (s *saveService) SaveStudent(ctx context.Context, username, targetUsername string) error {
	if err := s.saves.SaveStudent(ctx, username, targetUsername); err != nil {
		s.logger.Error("Failed to save student",
			zap.String("username", username),
			zap.String("target", targetUsername),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *saveService) UnsaveStudent(ctx context.Context, username, targetUsername string) error {
	return s.saves.UnsaveStudent(ctx, username, targetUsername)
}
