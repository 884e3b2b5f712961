package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/database"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

// ContractRepository defines the interface for contract data access.
type ContractRepository interface {
	Create(ctx context.Context, projectID int64, studentUsername string) (int64, error)
	ListByStudent(ctx context.Context, studentUsername string) ([]models.Contract, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error)
	ProjectID(ctx context.Context, contractID int64) (int64, error)
	UpdateStatus(ctx context.Context, contractID int64, status string, start, end *time.Time) error
}

type contractRepository struct {
	db *database.DB
}

// NewContractRepository creates a new contract repository.
func NewContractRepository(db *database.DB) ContractRepository {
	return &contractRepository{db: db}
}

// Create opens a contract in Pending status.
func (r *contractRepository) Create(ctx context.Context, projectID int64, studentUsername string) (int64, error) {
	query := `
		INSERT INTO contracts (project_id, student_id, status, created_at, updated_at)
		VALUES ($1,
			(SELECT S.student_id FROM students S JOIN users U ON U.user_id = S.user_id WHERE U.username = $2),
			$3, $4, $4)
		RETURNING contract_id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		projectID, studentUsername, models.ContractStatusPending, time.Now(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("contract for project %d and student %q already exists: %w",
				projectID, studentUsername, apperrors.ErrConflict)
		}
		if isMissingReference(err) {
			return 0, fmt.Errorf("project %d or student %q: %w", projectID, studentUsername, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to create contract: %w", err)
	}
	return id, nil
}

func (r *contractRepository) ListByStudent(ctx context.Context, studentUsername string) ([]models.Contract, error) {
	query := `
		SELECT C.contract_id, C.project_id, C.student_id, C.status, C.start_date, C.end_date,
		       C.created_at, C.updated_at, P.title, OWN.username
		FROM contracts C
		JOIN students S ON S.student_id = C.student_id
		JOIN users ME ON ME.user_id = S.user_id
		JOIN projects P ON P.project_id = C.project_id
		JOIN users OWN ON OWN.user_id = P.owner_id
		WHERE ME.username = $1
		ORDER BY C.contract_id`

	rows, err := r.db.Query(ctx, query, studentUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to list student contracts: %w", err)
	}
	defer rows.Close()

	contracts := []models.Contract{}
	for rows.Next() {
		var c models.Contract
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.StudentID, &c.Status, &c.StartDate, &c.EndDate,
			&c.CreatedAt, &c.UpdatedAt, &c.ProjectTitle, &c.OwnerUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error) {
	query := `
		SELECT C.contract_id, C.project_id, C.student_id, C.status, C.start_date, C.end_date,
		       C.created_at, C.updated_at, U.username, S.first_name || ' ' || S.last_name
		FROM contracts C
		JOIN students S ON S.student_id = C.student_id
		JOIN users U ON U.user_id = S.user_id
		WHERE C.project_id = $1
		ORDER BY C.contract_id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project contracts: %w", err)
	}
	defer rows.Close()

	contracts := []models.Contract{}
	for rows.Next() {
		var c models.Contract
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.StudentID, &c.Status, &c.StartDate, &c.EndDate,
			&c.CreatedAt, &c.UpdatedAt, &c.StudentUsername, &c.StudentName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) ProjectID(ctx context.Context, contractID int64) (int64, error) {
	var projectID int64
	err := r.db.QueryRow(ctx,
		`SELECT project_id FROM contracts WHERE contract_id = $1`, contractID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("contract %d: %w", contractID, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to resolve contract project: %w", err)
	}
	return projectID, nil
}

func (r *contractRepository) UpdateStatus(ctx context.Context, contractID int64, status string, start, end *time.Time) error {
	if !models.ValidContractStatus(status) {
		return fmt.Errorf("%w: unknown contract status %q", apperrors.ErrValidation, status)
	}

	result, err := r.db.Exec(ctx, `
		UPDATE contracts SET
			status     = $2,
			start_date = COALESCE($3, start_date),
			end_date   = COALESCE($4, end_date),
			updated_at = $5
		WHERE contract_id = $1`,
		contractID, status, start, end, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("contract %d: %w", contractID, apperrors.ErrNotFound)
	}
	return nil
}

var _ ContractRepository = (*contractRepository)(nil)
