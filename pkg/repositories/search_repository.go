package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/uw-nexus/nexus-be/pkg/database"
	"github.com/uw-nexus/nexus-be/pkg/search"
)

// searchRepository is the in-database ranking backend: the relevance score
// is computed inside the query emitted by the search plan renderer.
type searchRepository struct {
	db *database.DB
}

// NewSearchRepository creates the PostgreSQL search backend.
func NewSearchRepository(db *database.DB) search.Backend {
	return &searchRepository{db: db}
}

func (r *searchRepository) RankProjects(ctx context.Context, f search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error) {
	plan, err := search.NewProjectPlan(f, c)
	if err != nil {
		return nil, err
	}

	query, args := search.Render(plan)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute project search: %w", err)
	}
	defer rows.Close()

	page := &search.ProjectPage{Items: []search.ProjectHit{}}
	for rows.Next() {
		var hit search.ProjectHit
		var skills, roles, interests string
		if err := rows.Scan(
			&hit.Details.ID, &hit.Details.Title, &hit.Details.Status,
			&hit.Details.Duration, &hit.Details.TeamSize, &hit.Details.Postal,
			&hit.Score, &skills, &roles, &interests,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project hit: %w", err)
		}
		hit.Skills = splitTags(skills)
		hit.Roles = splitTags(roles)
		hit.Interests = splitTags(interests)
		page.Items = append(page.Items, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if n := len(page.Items); n > 0 {
		last := page.Items[n-1]
		page.Next = search.NextCursor(last.Score, last.Details.ID)
	}
	return page, nil
}

func (r *searchRepository) RankStudents(ctx context.Context, f search.StudentFilter, c search.Cursor) (*search.StudentPage, error) {
	plan, err := search.NewStudentPlan(f, c)
	if err != nil {
		return nil, err
	}

	query, args := search.Render(plan)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute student search: %w", err)
	}
	defer rows.Close()

	page := &search.StudentPage{Items: []search.StudentHit{}}
	for rows.Next() {
		var hit search.StudentHit
		var skills, roles, interests, fields string
		if err := rows.Scan(
			&hit.Profile.ID, &hit.Profile.Username, &hit.Profile.FirstName,
			&hit.Profile.LastName, &hit.Profile.Degree, &hit.Profile.Postal,
			&hit.Score, &skills, &roles, &interests, &fields,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student hit: %w", err)
		}
		hit.Skills = splitTags(skills)
		hit.Roles = splitTags(roles)
		hit.Interests = splitTags(interests)
		hit.Fields = splitTags(fields)
		page.Items = append(page.Items, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if n := len(page.Items); n > 0 {
		last := page.Items[n-1]
		page.Next = search.NextCursor(last.Score, last.Profile.ID)
	}
	return page, nil
}

// splitTags turns a comma-joined hydration column into a list; the renderer
// coalesces missing memberships to "".
func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

var _ search.Backend = (*searchRepository)(nil)
