// Package repositories implements data access against PostgreSQL using pgx.
// Repositories surface typed sentinel errors from pkg/apperrors; store-level
// failures are wrapped and propagated, never logged and swallowed.
package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes used for sentinel mapping.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return isPgError(err, pgUniqueViolation)
}

// isMissingReference reports whether err indicates a referenced row does not
// exist (foreign-key violation, or a NOT NULL violation from a subselect
// that found no row).
func isMissingReference(err error) bool {
	return isPgError(err, pgForeignKeyViolation) || isPgError(err, pgNotNullViolation)
}
