package search

import (
	"github.com/uw-nexus/nexus-be/pkg/catalog"
)

// ScalarOp is the comparison applied by a scalar predicate.
type ScalarOp int

const (
	// OpEqual is an exact match, used for enum-like columns.
	OpEqual ScalarOp = iota
	// OpContains is a case-insensitive substring match, used for free text.
	OpContains
)

// ScalarClause is one optional scalar predicate. Column is an alias-qualified
// column or expression valid inside the ranked subquery.
type ScalarClause struct {
	Column string
	Op     ScalarOp
	Value  string
}

// TagSetClause is one non-empty tag-set filter: the entity must match at
// least one of Names in this tag set to appear at all, and the match count
// feeds the relevance score.
type TagSetClause struct {
	Kind  catalog.Kind
	Names []string
}

// Join is an auxiliary inner join inside the ranked subquery (e.g. students
// to their account row for the username column).
type Join struct {
	Table string
	Alias string
	On    string
}

// Column is one scalar output column of the ranked subquery.
type Column struct {
	Expr  string
	Alias string
}

// Plan is the typed intermediate representation of one search query. It is
// assembled from a filter and a cursor, then rendered to a single SQL
// statement by Render. Keeping the plan separate from the SQL text makes the
// builder testable without a database and keeps all user input in bind
// parameters.
type Plan struct {
	Entity   catalog.Entity
	Columns  []Column
	Joins    []Join
	TagSets  []TagSetClause
	Hydrate  []catalog.Kind
	Scalars  []ScalarClause
	Cursor   Cursor
	PageSize int
}

// Score is zero (unranked) when no tag-set filter is present.
func (p *Plan) Ranked() bool {
	return len(p.TagSets) > 0
}

// tagSetClauses keeps only non-empty tag lists, normalized, in the fixed
// skill/role/interest order so rendered SQL is deterministic.
func tagSetClauses(skills, roles, interests []string) []TagSetClause {
	var clauses []TagSetClause
	for _, ts := range []struct {
		kind  catalog.Kind
		names []string
	}{
		{catalog.KindSkill, skills},
		{catalog.KindRole, roles},
		{catalog.KindInterest, interests},
	} {
		names := catalog.NormalizeTags(ts.names)
		if len(names) > 0 {
			clauses = append(clauses, TagSetClause{Kind: ts.kind, Names: names})
		}
	}
	return clauses
}

// NewProjectPlan builds the query plan for a project search.
func NewProjectPlan(f ProjectFilter, c Cursor) (*Plan, error) {
	if err := ValidateCursor(f.TagFiltered(), c); err != nil {
		return nil, err
	}

	p := &Plan{
		Entity: catalog.EntityProject,
		Columns: []Column{
			{Expr: "E.project_id", Alias: "project_id"},
			{Expr: "E.title", Alias: "title"},
			{Expr: "E.status", Alias: "status"},
			{Expr: "E.duration", Alias: "duration"},
			{Expr: "E.team_size", Alias: "team_size"},
			{Expr: "E.postal", Alias: "postal"},
		},
		TagSets:  tagSetClauses(f.Skills, f.Roles, f.Interests),
		Hydrate:  []catalog.Kind{catalog.KindSkill, catalog.KindRole, catalog.KindInterest},
		Cursor:   c,
		PageSize: DefaultPageSize,
	}

	if f.Title != nil {
		p.Scalars = append(p.Scalars, ScalarClause{Column: "E.title", Op: OpContains, Value: *f.Title})
	}
	if f.Duration != nil {
		p.Scalars = append(p.Scalars, ScalarClause{Column: "E.duration", Op: OpEqual, Value: *f.Duration})
	}
	if f.TeamSize != nil {
		p.Scalars = append(p.Scalars, ScalarClause{Column: "E.team_size", Op: OpEqual, Value: *f.TeamSize})
	}
	if f.Status != nil {
		p.Scalars = append(p.Scalars, ScalarClause{Column: "E.status", Op: OpEqual, Value: *f.Status})
	}

	return p, nil
}

// NewStudentPlan builds the query plan for a student search.
func NewStudentPlan(f StudentFilter, c Cursor) (*Plan, error) {
	if err := ValidateCursor(f.TagFiltered(), c); err != nil {
		return nil, err
	}

	p := &Plan{
		Entity: catalog.EntityStudent,
		Columns: []Column{
			{Expr: "E.student_id", Alias: "student_id"},
			{Expr: "U.username", Alias: "username"},
			{Expr: "E.first_name", Alias: "first_name"},
			{Expr: "E.last_name", Alias: "last_name"},
			{Expr: "E.degree", Alias: "degree"},
			{Expr: "E.postal", Alias: "postal"},
		},
		Joins: []Join{
			{Table: "users", Alias: "U", On: "U.user_id = E.user_id"},
		},
		TagSets: tagSetClauses(f.Skills, f.Roles, f.Interests),
		Hydrate: []catalog.Kind{
			catalog.KindSkill, catalog.KindRole, catalog.KindInterest, catalog.KindField,
		},
		Cursor:   c,
		PageSize: DefaultPageSize,
	}

	if f.Name != nil {
		p.Scalars = append(p.Scalars, ScalarClause{
			Column: "(E.first_name || ' ' || E.last_name)", Op: OpContains, Value: *f.Name,
		})
	}
	if f.Degree != nil {
		p.Scalars = append(p.Scalars, ScalarClause{Column: "E.degree", Op: OpEqual, Value: *f.Degree})
	}

	return p, nil
}
