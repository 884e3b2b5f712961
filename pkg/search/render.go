package search

import (
	"fmt"
	"strings"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
)

// Render turns a plan into one executable PostgreSQL statement plus its
// ordered bind parameters.
//
// The statement has two phases. The inner subquery computes the ranked page:
// one count subquery per tag-set filter, inner-joined on the entity id so an
// entity must overlap every supplied tag set; score is the product of
// (count+1) per tag set, or the constant 0 when no tag set is supplied;
// scalar predicates and the keyset cursor predicate are ANDed in; ordering
// is score DESC, id ASC with a fixed page limit. The outer query re-joins
// the winning ids to their full comma-joined tag lists for display, which
// cannot affect which rows won or their order.
func Render(p *Plan) (string, []any) {
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	idCol := p.Entity.IDColumn()

	// Per-tag-set match-count subqueries, joined into an intersection chain.
	var tagJoins []string
	var scoreTerms []string
	for _, ts := range p.TagSets {
		alias := strings.ToUpper(ts.Kind.Table())
		sub := fmt.Sprintf(
			"(SELECT %[1]s, COUNT(*) AS cnt FROM %[2]s J JOIN %[3]s C ON C.%[4]s = J.%[4]s WHERE C.name = ANY(%[5]s::text[]) GROUP BY %[1]s)",
			idCol, catalog.JunctionTable(p.Entity, ts.Kind), ts.Kind.Table(), ts.Kind.IDColumn(), bind(ts.Names))
		tagJoins = append(tagJoins,
			fmt.Sprintf("JOIN %s %s ON %s.%s = E.%s", sub, alias, alias, idCol, idCol))
		scoreTerms = append(scoreTerms, fmt.Sprintf("(%s.cnt + 1)", alias))
	}

	scoreExpr := "0"
	if len(scoreTerms) > 0 {
		scoreExpr = strings.Join(scoreTerms, " * ")
	}

	var where []string
	for _, sc := range p.Scalars {
		switch sc.Op {
		case OpContains:
			where = append(where, fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", sc.Column, bind(sc.Value)))
		default:
			where = append(where, fmt.Sprintf("%s = %s", sc.Column, bind(sc.Value)))
		}
	}

	// Keyset cursor. With tag filters the resume point is (score, id); the
	// score placeholder is bound once and referenced twice. Without tag
	// filters score is constantly 0 and the predicate degrades to id-only.
	if p.Ranked() {
		if p.Cursor.LastScore != nil && p.Cursor.LastID != nil {
			scorePh := bind(*p.Cursor.LastScore)
			idPh := bind(*p.Cursor.LastID)
			where = append(where, fmt.Sprintf("(%[1]s < %[2]s OR (%[1]s = %[2]s AND E.%[3]s > %[4]s))",
				scoreExpr, scorePh, idCol, idPh))
		}
	} else if p.Cursor.LastID != nil {
		where = append(where, fmt.Sprintf("E.%s > %s", idCol, bind(*p.Cursor.LastID)))
	}

	var cols []string
	for _, c := range p.Columns {
		cols = append(cols, fmt.Sprintf("%s AS %s", c.Expr, c.Alias))
	}
	cols = append(cols, fmt.Sprintf("%s AS score", scoreExpr))

	var inner strings.Builder
	inner.WriteString("SELECT " + strings.Join(cols, ", "))
	inner.WriteString(fmt.Sprintf(" FROM %s E", p.Entity.Table()))
	for _, j := range tagJoins {
		inner.WriteString(" " + j)
	}
	for _, j := range p.Joins {
		inner.WriteString(fmt.Sprintf(" JOIN %s %s ON %s", j.Table, j.Alias, j.On))
	}
	if len(where) > 0 {
		inner.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	inner.WriteString(fmt.Sprintf(" ORDER BY score DESC, E.%s ASC LIMIT %d", idCol, p.PageSize))

	// Hydration phase: re-join the page's ids to their full tag lists.
	var outerCols []string
	outerCols = append(outerCols, "T.*")
	var hydrateJoins []string
	for _, k := range p.Hydrate {
		alias := "H_" + k.Table()
		outerCols = append(outerCols, fmt.Sprintf("COALESCE(%s.names, '') AS %s", alias, k.Table()))
		hydrateJoins = append(hydrateJoins, fmt.Sprintf(
			"LEFT JOIN (SELECT %[1]s, string_agg(C.name, ',' ORDER BY C.name) AS names FROM %[2]s J JOIN %[3]s C ON C.%[4]s = J.%[4]s GROUP BY %[1]s) %[5]s ON %[5]s.%[1]s = T.%[1]s",
			idCol, catalog.JunctionTable(p.Entity, k), k.Table(), k.IDColumn(), alias))
	}

	var q strings.Builder
	q.WriteString("SELECT " + strings.Join(outerCols, ", "))
	q.WriteString(" FROM (" + inner.String() + ") T")
	for _, j := range hydrateJoins {
		q.WriteString(" " + j)
	}
	q.WriteString(fmt.Sprintf(" ORDER BY T.score DESC, T.%s ASC", idCol))

	return q.String(), args
}
