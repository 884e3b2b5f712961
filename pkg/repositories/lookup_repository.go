package repositories

import (
	"context"
	"fmt"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/database"
)

// Choice tables holding the enum-like scalar vocabularies. These are seeded
// by migrations, unlike the catalogs which grow lazily.
const (
	ChoiceDurations = "durations"
	ChoiceTeamSizes = "team_sizes"
	ChoiceDegrees   = "degrees"
)

var choiceTables = map[string]bool{
	ChoiceDurations: true,
	ChoiceTeamSizes: true,
	ChoiceDegrees:   true,
}

// LookupRepository lists the tag catalogs and choice vocabularies used to
// populate filter/selection UIs.
type LookupRepository interface {
	CatalogNames(ctx context.Context, kind catalog.Kind) ([]string, error)
	Choices(ctx context.Context, table string) ([]string, error)
}

type lookupRepository struct {
	db *database.DB
}

// NewLookupRepository creates a new lookup repository.
func NewLookupRepository(db *database.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) CatalogNames(ctx context.Context, kind catalog.Kind) ([]string, error) {
	return r.names(ctx, kind.Table())
}

func (r *lookupRepository) Choices(ctx context.Context, table string) ([]string, error) {
	if !choiceTables[table] {
		return nil, fmt.Errorf("%w: unknown choice table %q", apperrors.ErrValidation, table)
	}
	return r.names(ctx, table)
}

func (r *lookupRepository) names(ctx context.Context, table string) ([]string, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT name FROM %s ORDER BY name", table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s name: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ LookupRepository = (*lookupRepository)(nil)
