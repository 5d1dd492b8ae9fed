package database_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"gobiblio/internal/pkg/database"
)

func pqErr(code string) error {
	return fmt.Errorf("wrap: %w", &pq.Error{Code: pq.ErrorCode(code)})
}

func TestPQCode(t *testing.T) {
	assert.Equal(t, database.CodeUniqueViolation, database.PQCode(pqErr("23505")))
	assert.Equal(t, "", database.PQCode(errors.New("boom")))
	assert.Equal(t, "", database.PQCode(nil))
}

func TestIsRetryableConflict(t *testing.T) {
	assert.True(t, database.IsRetryableConflict(pqErr(database.CodeSerializationFailure)))
	assert.True(t, database.IsRetryableConflict(pqErr(database.CodeDeadlockDetected)))
	assert.False(t, database.IsRetryableConflict(pqErr(database.CodeUniqueViolation)))
	assert.False(t, database.IsRetryableConflict(errors.New("boom")))
}

func TestIsMissingRow(t *testing.T) {
	assert.True(t, database.IsMissingRow(sql.ErrNoRows))
	assert.True(t, database.IsMissingRow(fmt.Errorf("scan: %w", sql.ErrNoRows)))
	assert.True(t, database.IsMissingRow(pqErr(database.CodeInvalidText)))
	assert.False(t, database.IsMissingRow(pqErr(database.CodeUniqueViolation)))
	assert.False(t, database.IsMissingRow(errors.New("boom")))
}
