package userrepo

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

func TestByIDError(t *testing.T) {
	repo := NewUserRepository(nil, time.Second, logger.Nop())

	err := repo.byIDError("u1", "Falha ao buscar usuário", sql.ErrNoRows)
	assert.IsType(t, &apperror.NotFoundError{}, err)

	// ID vindo do path que não é UUID
	err = repo.byIDError("abc", "Falha ao atualizar papel", &pq.Error{Code: pq.ErrorCode(database.CodeInvalidText)})
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Contains(t, err.Error(), "abc")

	cause := errors.New("conexão perdida")
	err = repo.byIDError("u1", "Falha ao buscar usuário", cause)
	assert.IsType(t, &apperror.InternalError{}, err)
	assert.ErrorIs(t, err, cause)
}
