package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/topiklearn/srs-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
	fkViolationCode     = "23503"
)

// isUniqueViolation checks if the given error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isCheckViolation checks if the given error is a CHECK constraint violation.
// The schema mirrors the domain invariants (ease factor floor, non-negative
// counters), so this surfaces as a constraint violation to callers.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// isForeignKeyViolation checks if the given error is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolationCode
}

// isUnavailable reports whether the database itself could not be reached,
// as opposed to a query-level failure.
func isUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// mapError translates a driver error into the store error taxonomy and wraps
// it with entity/operation context. sql.ErrNoRows is mapped at call sites
// where the entity-specific not-found sentinel is known.
func mapError(entity, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return store.NewError(entity, operation, store.ErrDuplicate)
	case isCheckViolation(err):
		return store.NewError(entity, operation, store.ErrConstraintViolation)
	case isUnavailable(err):
		return store.NewError(entity, operation, store.ErrUnavailable)
	default:
		return store.NewError(entity, operation, err)
	}
}
