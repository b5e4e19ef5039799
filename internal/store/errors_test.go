package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodeFromBothDrivers(t *testing.T) {
	pqErr := fmt.Errorf("insert topic: %w", &pq.Error{Code: "23505"})
	pgxErr := fmt.Errorf("insert article: %w", &pgconn.PgError{Code: "23503"})

	assert.Equal(t, CodeUniqueViolation, ErrorCode(pqErr))
	assert.Equal(t, CodeForeignKeyViolation, ErrorCode(pgxErr))
	assert.Empty(t, ErrorCode(errors.New("plain")))
}

func TestIsInputViolation(t *testing.T) {
	for _, code := range []string{"22003", "22P02", "23502", "23503", "23505"} {
		assert.True(t, IsInputViolation(&pq.Error{Code: pq.ErrorCode(code)}), code)
		assert.True(t, IsInputViolation(&pgconn.PgError{Code: code}), code)
	}

	assert.False(t, IsInputViolation(&pq.Error{Code: "40001"}))
	assert.False(t, IsInputViolation(ErrNotFound))
	assert.False(t, IsInputViolation(nil))
}
