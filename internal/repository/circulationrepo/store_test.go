package circulationrepo

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

func dbErr(code string) error {
	return apperror.NewDBError("Falha na transação", &pq.Error{Code: pq.ErrorCode(code)})
}

func TestTranslate_ConflictCodes(t *testing.T) {
	s := &Store{logger: logger.Nop()}

	for _, code := range []string{
		database.CodeSerializationFailure,
		database.CodeDeadlockDetected,
		database.CodeExclusionViolation,
		database.CodeUniqueViolation,
	} {
		err := s.translate(dbErr(code))

		assert.IsType(t, &apperror.ConflictError{}, err, code)
		status, _, _ := apperror.MapToHTTPStatus(err)
		assert.Equal(t, 400, status, code)
	}
}

func TestTranslate_RawDriverError(t *testing.T) {
	s := &Store{logger: logger.Nop()}

	err := s.translate(&pq.Error{Code: pq.ErrorCode(database.CodeSerializationFailure)})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestTranslate_AppErrorPassesThrough(t *testing.T) {
	s := &Store{logger: logger.Nop()}
	notFound := apperror.NewNotFoundError("Loan not found")
	invalid := apperror.NewInvalidRequestError("Invalid loan request")

	assert.Same(t, notFound, s.translate(notFound))
	assert.Same(t, invalid, s.translate(invalid))
}

func TestTranslate_UnknownErrorIsInternal(t *testing.T) {
	s := &Store{logger: logger.Nop()}
	cause := errors.New("conexão recusada")

	err := s.translate(cause)

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundOr(t *testing.T) {
	tx := &pgTx{logger: logger.Nop()}

	err := tx.notFoundOr(sql.ErrNoRows, "Book not found", "Falha ao bloquear livro")
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Equal(t, "Book not found", err.Error())

	err = tx.notFoundOr(&pq.Error{Code: pq.ErrorCode(database.CodeInvalidText)}, "Loan not found", "Falha ao bloquear empréstimo")
	assert.IsType(t, &apperror.NotFoundError{}, err)

	cause := &pq.Error{Code: "08006"}
	err = tx.notFoundOr(cause, "Loan not found", "Falha ao bloquear empréstimo")
	assert.IsType(t, &apperror.InternalError{}, err)
	assert.ErrorIs(t, err, cause)
}
