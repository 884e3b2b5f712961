package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

type fakeContractRepo struct {
	projectByContract map[int64]int64
	updated           []string
}

func (f *fakeContractRepo) Create(ctx context.Context, projectID int64, studentUsername string) (int64, error) {
	return 1, nil
}

func (f *fakeContractRepo) ListByStudent(ctx context.Context, studentUsername string) ([]models.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) ProjectID(ctx context.Context, contractID int64) (int64, error) {
	projectID, ok := f.projectByContract[contractID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return projectID, nil
}

func (f *fakeContractRepo) UpdateStatus(ctx context.Context, contractID int64, status string, start, end *time.Time) error {
	f.updated = append(f.updated, status)
	return nil
}

type fakeProjectOwnerRepo struct {
	fakeProjectRepo
	owners map[int64]string
}

func (f *fakeProjectOwnerRepo) OwnerUsername(ctx context.Context, id int64) (string, error) {
	owner, ok := f.owners[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return owner, nil
}

func TestUpdateStatusOwnershipCheck(t *testing.T) {
	contracts := &fakeContractRepo{projectByContract: map[int64]int64{10: 5}}
	projects := &fakeProjectOwnerRepo{owners: map[int64]string{5: "alice"}}
	svc := NewContractService(contracts, projects, zap.NewNop())
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, 10, "bob", models.ContractStatusActive, nil, nil); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("non-owner UpdateStatus = %v, want unauthorized", err)
	}
	if len(contracts.updated) != 0 {
		t.Errorf("repository must not be touched on an ownership failure")
	}

	if err := svc.UpdateStatus(ctx, 10, "alice", models.ContractStatusActive, nil, nil); err != nil {
		t.Fatalf("owner UpdateStatus: %v", err)
	}
	if len(contracts.updated) != 1 || contracts.updated[0] != models.ContractStatusActive {
		t.Errorf("updated = %v", contracts.updated)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	contracts := &fakeContractRepo{projectByContract: map[int64]int64{10: 5}}
	projects := &fakeProjectOwnerRepo{owners: map[int64]string{5: "alice"}}
	svc := NewContractService(contracts, projects, zap.NewNop())

	if err := svc.UpdateStatus(context.Background(), 10, "alice", "Paused", nil, nil); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("unknown status = %v, want validation error", err)
	}
}

func TestUpdateStatusUnknownContract(t *testing.T) {
	contracts := &fakeContractRepo{projectByContract: map[int64]int64{}}
	projects := &fakeProjectOwnerRepo{owners: map[int64]string{}}
	svc := NewContractService(contracts, projects, zap.NewNop())

	if err := svc.UpdateStatus(context.Background(), 99, "alice", models.ContractStatusCancelled, nil, nil); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown contract = %v, want not found", err)
	}
}
