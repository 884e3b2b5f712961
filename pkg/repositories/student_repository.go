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

// StudentRepository defines the interface for student profile data access.
type StudentRepository interface {
	Create(ctx context.Context, username string, profile *models.StudentProfile) (int64, error)
	IDByUsername(ctx context.Context, username string) (int64, error)
	Get(ctx context.Context, username string) (*models.Student, error)
	Update(ctx context.Context, username string, upd *models.StudentUpdate) error
	Delete(ctx context.Context, username string) error
}

type studentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *database.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, username string, profile *models.StudentProfile) (int64, error) {
	query := `
		INSERT INTO students (user_id, first_name, last_name, email, joined_at)
		VALUES ((SELECT user_id FROM users WHERE username = $1), $2, $3, $4, $5)
		RETURNING student_id`

	profile.JoinedAt = time.Now()

	var id int64
	err := r.db.QueryRow(ctx, query,
		username, profile.FirstName, profile.LastName, profile.Email, profile.JoinedAt,
	).Scan(&id)
	if err != nil {
		if isMissingReference(err) {
			return 0, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("student profile for %q: %w", username, apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("failed to create student: %w", err)
	}

	profile.ID = id
	return id, nil
}

func (r *studentRepository) IDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		SELECT S.student_id
		FROM students S
		JOIN users U ON U.user_id = S.user_id
		WHERE U.username = $1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("student %q: %w", username, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to resolve student id: %w", err)
	}
	return id, nil
}

func (r *studentRepository) Get(ctx context.Context, username string) (*models.Student, error) {
	query := `
		SELECT S.student_id, U.username, S.first_name, S.last_name, S.email, S.dob,
		       S.school, S.degree, S.resume, S.linkedin, S.website, S.postal, S.joined_at
		FROM students S
		JOIN users U ON U.user_id = S.user_id
		WHERE U.username = $1`

	var p models.StudentProfile
	err := r.db.QueryRow(ctx, query, username).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Email, &p.DOB,
		&p.School, &p.Degree, &p.Resume, &p.LinkedIn, &p.Website, &p.Postal, &p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("student %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student := &models.Student{Profile: p}
	for _, k := range catalog.Kinds(catalog.EntityStudent) {
		names, err := tagNames(ctx, r.db, catalog.EntityStudent, k, p.ID)
		if err != nil {
			return nil, err
		}
		switch k {
		case catalog.KindSkill:
			student.Skills = names
		case catalog.KindRole:
			student.Roles = names
		case catalog.KindInterest:
			student.Interests = names
		case catalog.KindField:
			student.Fields = names
		}
	}

	return student, nil
}

// Update patches scalar columns and reconciles tag sets in one transaction.
// Nil patch fields and nil tag slices leave the corresponding state alone;
// a non-nil empty tag slice clears that tag set.
func (r *studentRepository) Update(ctx context.Context, username string, upd *models.StudentUpdate) error {
	id, err := r.IDByUsername(ctx, username)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	patch := upd.Profile
	_, err = tx.Exec(ctx, `
		UPDATE students SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			dob        = COALESCE($4, dob),
			school     = COALESCE($5, school),
			degree     = COALESCE($6, degree),
			resume     = COALESCE($7, resume),
			linkedin   = COALESCE($8, linkedin),
			website    = COALESCE($9, website),
			postal     = COALESCE($10, postal)
		WHERE student_id = $1`,
		id, patch.FirstName, patch.LastName, patch.DOB, patch.School, patch.Degree,
		patch.Resume, patch.LinkedIn, patch.Website, patch.Postal)
	if err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}

	for _, ts := range []struct {
		kind catalog.Kind
		tags []string
	}{
		{catalog.KindSkill, upd.Skills},
		{catalog.KindRole, upd.Roles},
		{catalog.KindInterest, upd.Interests},
		{catalog.KindField, upd.Fields},
	} {
		if ts.tags == nil {
			continue
		}
		stmts, err := catalog.Reconcile(catalog.EntityStudent, id, ts.kind, ts.tags)
		if err != nil {
			return err
		}
		if err := catalog.Apply(ctx, tx, stmts); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit student update: %w", err)
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, username string) error {
	id, err := r.IDByUsername(ctx, username)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := catalog.Apply(ctx, tx, catalog.ClearAll(catalog.EntityStudent, id)); err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM contracts WHERE student_id = $1`,
		`DELETE FROM saved_projects WHERE student_id = $1`,
		`DELETE FROM saved_students WHERE student_id = $1 OR target_student_id = $1`,
		`DELETE FROM students WHERE student_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit student delete: %w", err)
	}
	return nil
}

// tagNames lists the catalog names an entity is joined to in one tag set.
func tagNames(ctx context.Context, db *database.DB, e catalog.Entity, k catalog.Kind, id int64) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT C.name FROM %[1]s J JOIN %[2]s C ON C.%[3]s = J.%[3]s WHERE J.%[4]s = $1 ORDER BY C.name",
		catalog.JunctionTable(e, k), k.Table(), k.IDColumn(), e.IDColumn())

	rows, err := db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s %s: %w", e, k.Table(), err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s name: %w", k, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ StudentRepository = (*studentRepository)(nil)
