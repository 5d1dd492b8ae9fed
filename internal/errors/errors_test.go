package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "gobiblio/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		category string
	}{
		{apperror.NewValidationError("Invalid date format"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.NewConflictError("Book is already reserved by Ana Silva"), http.StatusBadRequest, "CONFLICT"},
		{apperror.NewInvalidStateError("Reservation is already cancelled"), http.StatusBadRequest, "INVALID_STATE"},
		{apperror.NewInvalidRequestError("Invalid loan request"), http.StatusBadRequest, "INVALID_REQUEST"},
		{apperror.NewNotFoundError("Book not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperror.NewNotAReaderError("User is not a registered reader"), http.StatusForbidden, "NOT_A_READER"},
		{apperror.NewUnauthorizedError("Token inválido ou expirado."), http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperror.NewForbiddenError(), http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		status, category, msg := apperror.MapToHTTPStatus(tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.category, category)
		assert.Equal(t, tc.err.Error(), msg)
	}
}

func TestMapToHTTPStatus_Forbidden(t *testing.T) {
	_, _, msg := apperror.MapToHTTPStatus(apperror.NewForbiddenError())
	assert.Equal(t, "Unauthorized", msg)
}

func TestMapToHTTPStatus_HidesInternalCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed for user \"gobiblio\"")
	err := fmt.Errorf("camada de serviço: %w", apperror.NewDBError("Falha ao buscar livro", cause))

	status, category, msg := apperror.MapToHTTPStatus(err)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", category)
	assert.NotContains(t, msg, "password")
	assert.ErrorIs(t, err, cause)
}

func TestMapToHTTPStatus_Untyped(t *testing.T) {
	status, category, _ := apperror.MapToHTTPStatus(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_ERROR", category)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperror.IsNotFound(fmt.Errorf("wrap: %w", apperror.NewNotFoundError("x"))))
	assert.False(t, apperror.IsNotFound(apperror.NewConflictError("x")))
	assert.False(t, apperror.IsNotFound(nil))
}

func TestNewConcurrencyError(t *testing.T) {
	cause := errors.New("pq: could not serialize access")
	err := apperror.NewConcurrencyError(cause)

	status, category, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", category)
	assert.Equal(t, "Concurrent update detected, please resubmit the request", msg)
	assert.ErrorIs(t, err, cause)
}
