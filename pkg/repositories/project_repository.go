package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/database"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, owner string, details *models.ProjectDetails) (int64, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	ListOwned(ctx context.Context, owner string) ([]models.ProjectDetails, error)
	OwnerUsername(ctx context.Context, id int64) (string, error)
	Update(ctx context.Context, id int64, upd *models.ProjectUpdate) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, owner string, details *models.ProjectDetails) (int64, error) {
	query := `
		INSERT INTO projects (owner_id, title, description, duration, team_size, status, postal, created_at, updated_at)
		VALUES ((SELECT user_id FROM users WHERE username = $1), $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING project_id`

	now := time.Now()
	details.CreatedAt = now
	details.UpdatedAt = now
	if details.Status == "" {
		details.Status = models.ProjectStatusActive
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		owner, details.Title, details.Description, details.Duration,
		details.TeamSize, details.Status, details.Postal, now,
	).Scan(&id)
	if err != nil {
		if isMissingReference(err) {
			return 0, fmt.Errorf("owner %q: %w", owner, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to create project: %w", err)
	}

	details.ID = id
	details.Owner = owner
	return id, nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	query := `
		SELECT P.project_id, U.username, P.title, P.description, P.duration,
		       P.team_size, P.status, P.postal, P.created_at, P.updated_at
		FROM projects P
		JOIN users U ON U.user_id = P.owner_id
		WHERE P.project_id = $1`

	var d models.ProjectDetails
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Owner, &d.Title, &d.Description, &d.Duration,
		&d.TeamSize, &d.Status, &d.Postal, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project := &models.Project{Details: d}
	for _, k := range catalog.Kinds(catalog.EntityProject) {
		names, err := tagNames(ctx, r.db, catalog.EntityProject, k, id)
		if err != nil {
			return nil, err
		}
		switch k {
		case catalog.KindSkill:
			project.Skills = names
		case catalog.KindRole:
			project.Roles = names
		case catalog.KindInterest:
			project.Interests = names
		}
	}

	return project, nil
}

func (r *projectRepository) ListOwned(ctx context.Context, owner string) ([]models.ProjectDetails, error) {
	query := `
		SELECT P.project_id, U.username, P.title, P.description, P.duration,
		       P.team_size, P.status, P.postal, P.created_at, P.updated_at
		FROM projects P
		JOIN users U ON U.user_id = P.owner_id
		WHERE U.username = $1
		ORDER BY P.project_id`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}
	defer rows.Close()

	projects := []models.ProjectDetails{}
	for rows.Next() {
		var d models.ProjectDetails
		if err := rows.Scan(
			&d.ID, &d.Owner, &d.Title, &d.Description, &d.Duration,
			&d.TeamSize, &d.Status, &d.Postal, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, d)
	}
	return projects, rows.Err()
}

func (r *projectRepository) OwnerUsername(ctx context.Context, id int64) (string, error) {
	var username string
	err := r.db.QueryRow(ctx, `
		SELECT U.username
		FROM projects P
		JOIN users U ON U.user_id = P.owner_id
		WHERE P.project_id = $1`, id).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("project %d: %w", id, apperrors.ErrNotFound)
		}
		return "", fmt.Errorf("failed to resolve project owner: %w", err)
	}
	return username, nil
}

// Update patches scalar columns and reconciles tag sets in one transaction.
func (r *projectRepository) Update(ctx context.Context, id int64, upd *models.ProjectUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	patch := upd.Details
	result, err := tx.Exec(ctx, `
		UPDATE projects SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			duration    = COALESCE($4, duration),
			team_size   = COALESCE($5, team_size),
			status      = COALESCE($6, status),
			postal      = COALESCE($7, postal),
			updated_at  = $8
		WHERE project_id = $1`,
		id, patch.Title, patch.Description, patch.Duration,
		patch.TeamSize, patch.Status, patch.Postal, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update project details: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %d: %w", id, apperrors.ErrNotFound)
	}

	for _, ts := range []struct {
		kind catalog.Kind
		tags []string
	}{
		{catalog.KindSkill, upd.Skills},
		{catalog.KindRole, upd.Roles},
		{catalog.KindInterest, upd.Interests},
	} {
		if ts.tags == nil {
			continue
		}
		stmts, err := catalog.Reconcile(catalog.EntityProject, id, ts.kind, ts.tags)
		if err != nil {
			return err
		}
		if err := catalog.Apply(ctx, tx, stmts); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project update: %w", err)
	}
	return nil
}

// Delete removes the project and everything hanging off it: contracts,
// saved-list rows, junction rows, then the project row itself.
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := catalog.Apply(ctx, tx, catalog.ClearAll(catalog.EntityProject, id)); err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM contracts WHERE project_id = $1`,
		`DELETE FROM saved_projects WHERE project_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete project dependents: %w", err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM projects WHERE project_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %d: %w", id, apperrors.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project delete: %w", err)
	}
	return nil
}

var _ ProjectRepository = (*projectRepository)(nil)
