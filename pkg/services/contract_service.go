package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// ContractService manages project-student contracts. Creating a contract
// and listing a project's contracts are owner-guarded at the route level;
// status updates re-check ownership here because the contract ID, not the
// project ID, appears in the URL.
type ContractService interface {
	Create(ctx context.Context, projectID int64, studentUsername string) (int64, error)
	ListByStudent(ctx context.Context, studentUsername string) ([]models.Contract, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error)
	UpdateStatus(ctx context.Context, contractID int64, actor, status string, start, end *time.Time) error
}

type contractService struct {
	contracts repositories.ContractRepository
	projects  repositories.ProjectRepository
	logger    *zap.Logger
}

// NewContractService creates a new ContractService.
func NewContractService(contracts repositories.ContractRepository, projects repositories.ProjectRepository, logger *zap.Logger) ContractService {
	return &contractService{
		contracts: contracts,
		projects:  projects,
		logger:    logger.Named("contract-service"),
	}
}

var _ ContractService = (*contractService)(nil)

func (s *contractService) Create(ctx context.Context, projectID int64, studentUsername string) (int64, error) {
	if studentUsername == "" {
		return 0, fmt.Errorf("%w: student username is required", apperrors.ErrValidation)
	}

	id, err := s.contracts.Create(ctx, projectID, studentUsername)
	if err != nil {
		s.logger.Error("Failed to create contract",
			zap.Int64("project_id", projectID),
			zap.String("student", studentUsername),
			zap.Error(err))
		return 0, err
	}

	s.logger.Info("Contract created",
		zap.Int64("contract_id", id),
		zap.Int64("project_id", projectID),
		zap.String("student", studentUsername))
	return id, nil
}

func (s *contractService) ListByStudent(ctx context.Context, studentUsername string) ([]models.Contract, error) {
	return s.contracts.ListByStudent(ctx, studentUsername)
}

func (s *contractService) ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error) {
	return s.contracts.ListByProject(ctx, projectID)
}

func (s *contractService) UpdateStatus(ctx context.Context, contractID int64, actor, status string, start, end *time.Time) error {
	if !models.ValidContractStatus(status) {
		return fmt.Errorf("%w: unknown contract status %q", apperrors.ErrValidation, status)
	}

	projectID, err := s.contracts.ProjectID(ctx, contractID)
	if err != nil {
		return err
	}
	owner, err := s.projects.OwnerUsername(ctx, projectID)
	if err != nil {
		return err
	}
	if owner != actor {
		s.logger.Warn("Non-owner attempted contract status change",
			zap.Int64("contract_id", contractID),
			zap.String("actor", actor))
		return apperrors.ErrUnauthorized
	}

	if err := s.contracts.UpdateStatus(ctx, contractID, status, start, end); err != nil {
		s.logger.Error("Failed to update contract status",
			zap.Int64("contract_id", contractID),
			zap.String("status", status),
			zap.Error(err))
		return err
	}

	s.logger.Info("Contract status updated",
		zap.Int64("contract_id", contractID),
		zap.String("status", status))
	return nil
}
