package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// PostgreSQL error codes surfaced to clients as bad requests.
const (
	CodeNumericOutOfRange         = "22003"
	CodeInvalidTextRepresentation = "22P02"
	CodeNotNullViolation          = "23502"
	CodeForeignKeyViolation       = "23503"
	CodeUniqueViolation           = "23505"
)

// ErrorCode extracts the SQLSTATE code from an error produced by either
// supported driver. It returns "" for anything else.
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsInputViolation reports whether err is a database rejection caused by the
// client's input: malformed or out of range values, missing required columns,
// dangling references or duplicate keys.
func IsInputViolation(err error) bool {
	switch ErrorCode(err) {
	case CodeNumericOutOfRange, CodeInvalidTextRepresentation, CodeNotNullViolation,
		CodeForeignKeyViolation, CodeUniqueViolation:
		return true
	default:
		return false
	}
}
