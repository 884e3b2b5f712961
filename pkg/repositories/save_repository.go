package repositories

import (
	"context"
	"fmt"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/database"
)

// SavedIDs holds the identifiers of a student's saved lists.
type SavedIDs struct {
	Projects []int64  `json:"projects"`
	Students []string `json:"students"`
}

// SaveRepository defines the interface for saved-list data access. Saves are
// idempotent: saving an already-saved item is a no-op, as is unsaving an
// item that was never saved.
type SaveRepository interface {
	Saved(ctx context.Context, username string) (*SavedIDs, error)
	SaveProject(ctx context.Context, username string, projectID int64) error
	UnsaveProject(ctx context.Context, username string, projectID int64) error
	SaveStudent(ctx context.Context, username, targetUsername string) error
	UnsaveStudent(ctx context.Context, username, targetUsername string) error
}

type saveRepository struct {
	db *database.DB
}

// NewSaveRepository creates a new save repository.
func NewSaveRepository(db *database.DB) SaveRepository {
	return &saveRepository{db: db}
}

const studentIDByUsername = `(
	SELECT S.student_id FROM students S
	JOIN users U ON U.user_id = S.user_id
	WHERE U.username = `

func (r *saveRepository) Saved(ctx context.Context, username string) (*SavedIDs, error) {
	saved := &SavedIDs{Projects: []int64{}, Students: []string{}}

	rows, err := r.db.Query(ctx, `
		SELECT SP.project_id
		FROM saved_projects SP
		JOIN students S ON S.student_id = SP.student_id
		JOIN users U ON U.user_id = S.user_id
		WHERE U.username = $1
		ORDER BY SP.project_id`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved project: %w", err)
		}
		saved.Projects = append(saved.Projects, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT U2.username
		FROM saved_students SS
		JOIN students S1 ON S1.student_id = SS.student_id
		JOIN users U1 ON U1.user_id = S1.user_id
		JOIN students S2 ON S2.student_id = SS.target_student_id
		JOIN users U2 ON U2.user_id = S2.user_id
		WHERE U1.username = $1
		ORDER BY U2.username`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved students: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan saved student: %w", err)
		}
		saved.Students = append(saved.Students, name)
	}
	return saved, rows.Err()
}

func (r *saveRepository) SaveProject(ctx context.Context, username string, projectID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO saved_projects (student_id, project_id)
		VALUES (`+studentIDByUsername+`$1), $2)
		ON CONFLICT DO NOTHING`, username, projectID)
	if err != nil {
		if isMissingReference(err) {
			return fmt.Errorf("student %q or project %d: %w", username, projectID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (r *saveRepository) UnsaveProject(ctx context.Context, username string, projectID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM saved_projects
		WHERE student_id = `+studentIDByUsername+`$1)
		AND project_id = $2`, username, projectID)
	if err != nil {
		return fmt.Errorf("failed to unsave project: %w", err)
	}
	return nil
}

func (r *saveRepository) SaveStudent(ctx context.Context, username, targetUsername string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO saved_students (student_id, target_student_id)
		VALUES (`+studentIDByUsername+`$1), `+studentIDByUsername+`$2))
		ON CONFLICT DO NOTHING`, username, targetUsername)
	if err != nil {
		if isMissingReference(err) {
			return fmt.Errorf("student %q or %q: %w", username, targetUsername, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save student: %w", err)
	}
	return nil
}

func (r *saveRepository) UnsaveStudent(ctx context.Context, username, targetUsername string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM saved_students
		WHERE student_id = `+studentIDByUsername+`$1)
		AND target_student_id = `+studentIDByUsername+`$2)`, username, targetUsername)
	if err != nil {
		return fmt.Errorf("failed to unsave student: %w", err)
	}
	return nil
}

var _ SaveRepository = (*saveRepository)(nil)
