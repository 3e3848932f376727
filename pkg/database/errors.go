package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the services react to.
const (
	CodeUniqueViolation      = "23505"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
	CodeQueryCanceled        = "57014"
)

// IsNoRows reports whether err is pgx's "no rows in result set".
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgErrorCode(err) == CodeUniqueViolation
}

// IsContention reports whether err was caused by another transaction holding
// the rows we needed: lock_timeout expiry, a deadlock, or a serialization failure.
func IsContention(err error) bool {
	switch pgErrorCode(err) {
	case CodeLockNotAvailable, CodeDeadlockDetected, CodeSerializationFailure:
		return true
	}
	return false
}

// IsTransient reports whether retrying the whole operation could succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsContention(err) || pgErrorCode(err) == CodeQueryCanceled {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return pgconn.Timeout(err) || pgconn.SafeToRetry(err)
}

// IsServerError reports whether Postgres itself rejected the statement, as
// opposed to the connection or the driver failing.
func IsServerError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
