package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// StudentService provides student profile operations. The caller's
// username comes from validated claims; a student may only mutate their
// own profile.
type StudentService interface {
	Create(ctx context.Context, username string, profile *models.StudentProfile) (*models.Student, error)
	Get(ctx context.Context, username string) (*models.Student, error)
	Update(ctx context.Context, username string, upd *models.StudentUpdate) (*models.Student, error)
	Delete(ctx context.Context, username string) error
}

type studentService struct {
	students repositories.StudentRepository
	indexer  ProfileIndexer
	logger   *zap.Logger
}

// NewStudentService creates a new StudentService. indexer may be nil.
func NewStudentService(students repositories.StudentRepository, indexer ProfileIndexer, logger *zap.Logger) StudentService {
	return &studentService{
		students: students,
		indexer:  indexer,
		logger:   logger.Named("student-service"),
	}
}

var _ StudentService = (*studentService)(nil)

func (s *studentService) Create(ctx context.Context, username string, profile *models.StudentProfile) (*models.Student, error) {
	if profile.FirstName == "" || profile.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrValidation)
	}

	if _, err := s.students.Create(ctx, username, profile); err != nil {
		s.logger.Error("Failed to create student profile",
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}
	return s.refresh(ctx, username)
}

func (s *studentService) Get(ctx context.Context, username string) (*models.Student, error) {
	return s.students.Get(ctx, username)
}

func (s *studentService) Update(ctx context.Context, username string, upd *models.StudentUpdate) (*models.Student, error) {
	if err := s.students.Update(ctx, username, upd); err != nil {
		s.logger.Error("Failed to update student profile",
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}
	return s.refresh(ctx, username)
}

func (s *studentService) Delete(ctx context.Context, username string) error {
	var studentID int64
	if s.indexer != nil {
		id, err := s.students.IDByUsername(ctx, username)
		if err != nil {
			return err
		}
		studentID = id
	}

	if err := s.students.Delete(ctx, username); err != nil {
		s.logger.Error("Failed to delete student profile",
			zap.String("username", username),
			zap.Error(err))
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.RemoveStudent(ctx, studentID); err != nil {
			s.logger.Error("Failed to remove student from index",
				zap.Int64("student_id", studentID),
				zap.Error(err))
		}
	}
	s.logger.Info("Student profile deleted", zap.String("username", username))
	return nil
}

// refresh reloads the profile after a mutation and mirrors it into the
// index. Index failures are logged, not surfaced: the database row is the
// source of truth.
func (s *studentService) refresh(ctx context.Context, username string) (*models.Student, error) {
	student, err := s.students.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if s.indexer != nil {
		if err := s.indexer.SyncStudent(ctx, student); err != nil {
			s.logger.Error("Failed to sync student into index",
				zap.String("username", username),
				zap.Error(err))
		}
	}
	return student, nil
}
