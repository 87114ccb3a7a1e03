package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	sqlStateUniqueViolation    = "23505"
	sqlStateExclusionViolation = "23P01"
	sqlStateSerialization      = "40001"
	sqlStateDeadlock           = "40P01"
)

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	if sqlState(err) == sqlStateUniqueViolation {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsExclusionViolation reports whether a Postgres EXCLUDE constraint rejected the write.
func IsExclusionViolation(err error) bool {
	return err != nil && sqlState(err) == sqlStateExclusionViolation
}

// IsSerializationFailure reports whether the storage layer aborted the transaction
// because of a concurrent writer. The whole transaction is safe to retry.
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	switch sqlState(err) {
	case sqlStateSerialization, sqlStateDeadlock:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
