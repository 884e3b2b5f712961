package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is one parameterized SQL statement emitted by Reconcile.
type Statement struct {
	SQL  string
	Args []any
}

// Execer is the subset of pgx.Tx needed to apply statements. Reconciliation
// must run inside a single transaction so a failure leaves the junction rows
// untouched.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Reconcile computes the ordered statements that make entityID's membership
// in tag set k equal exactly target.
//
// An empty target clears the tag set with a single delete. Otherwise three
// statements are emitted in mandatory order: catalog upsert (so junction
// inserts can reference freshly created ids), stale junction delete, new
// junction insert. Re-running with the same target is a no-op: the upsert
// ignores existing names and the insert ignores existing pairs.
//
// The statements touch only entityID's junction rows; a nonexistent entityID
// surfaces as a foreign-key violation when the caller executes them.
func Reconcile(e Entity, entityID int64, k Kind, target []string) ([]Statement, error) {
	if err := validateEntity(e, k); err != nil {
		return nil, err
	}

	target = NormalizeTags(target)
	junction := JunctionTable(e, k)

	if len(target) == 0 {
		return []Statement{{
			SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s = $1", junction, e.IDColumn()),
			Args: []any{entityID},
		}}, nil
	}

	upsert := Statement{
		SQL: fmt.Sprintf(
			"INSERT INTO %s (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING",
			k.Table()),
		Args: []any{target},
	}

	deleteStale := Statement{
		SQL: fmt.Sprintf(
			"DELETE FROM %[1]s J USING %[2]s C WHERE C.%[3]s = J.%[3]s AND J.%[4]s = $1 AND C.name <> ALL($2::text[])",
			junction, k.Table(), k.IDColumn(), e.IDColumn()),
		Args: []any{entityID, target},
	}

	insertNew := Statement{
		SQL: fmt.Sprintf(
			"INSERT INTO %[1]s (%[2]s, %[3]s) SELECT $1, C.%[3]s FROM %[4]s C WHERE C.name = ANY($2::text[]) ON CONFLICT DO NOTHING",
			junction, e.IDColumn(), k.IDColumn(), k.Table()),
		Args: []any{entityID, target},
	}

	return []Statement{upsert, deleteStale, insertNew}, nil
}

// ClearAll emits one delete per tag set carried by e; used when the entity
// itself is being removed.
func ClearAll(e Entity, entityID int64) []Statement {
	kinds := kindsByEntity[e]
	stmts := make([]Statement, 0, len(kinds))
	for _, k := range kinds {
		stmts = append(stmts, Statement{
			SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s = $1", JunctionTable(e, k), e.IDColumn()),
			Args: []any{entityID},
		})
	}
	return stmts
}

// Apply executes the statements in order on the given transaction.
func Apply(ctx context.Context, tx Execer, stmts []Statement) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("failed to apply reconcile statement: %w", err)
		}
	}
	return nil
}
