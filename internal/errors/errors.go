package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados da biblioteca.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa entrada malformada (data inválida, fim antes do início...).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de uma entidade referenciada.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa sobreposição de reservas, pedido pendente duplicado ou
// uma transação abortada pelo banco por concorrência. A API responde 400, como nos
// demais erros de regra de negócio.
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string    { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ConflictError) Unwrap() error    { return e.Err }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// NewConcurrencyError é o ConflictError usado quando o banco aborta a transação.
func NewConcurrencyError(err error) AppError {
	return &ConflictError{Msg: "Concurrent update detected, please resubmit the request", Err: err}
}

// InvalidStateError representa uma pré-condição de estado não atendida
// (livro indisponível, reserva já consumida...).
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string    { return e.Msg }
func (e *InvalidStateError) Category() string { return "INVALID_STATE" }
func (e *InvalidStateError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidStateError) Unwrap() error    { return nil }

// NewInvalidStateError cria um novo erro de estado inválido.
func NewInvalidStateError(msg string) AppError {
	return &InvalidStateError{Msg: msg}
}

// InvalidRequestError é retornado pelo motor de empréstimos quando a retirada ou
// a devolução não pode ser feita. Não detalha qual condição falhou.
type InvalidRequestError struct {
	Msg string
}

func (e *InvalidRequestError) Error() string    { return e.Msg }
func (e *InvalidRequestError) Category() string { return "INVALID_REQUEST" }
func (e *InvalidRequestError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidRequestError) Unwrap() error    { return nil }

// NewInvalidRequestError cria um novo erro de requisição inválida.
func NewInvalidRequestError(msg string) AppError {
	return &InvalidRequestError{Msg: msg}
}

// NotAReaderError indica que a identidade autenticada não possui perfil de leitor.
type NotAReaderError struct {
	Msg string
}

func (e *NotAReaderError) Error() string    { return e.Msg }
func (e *NotAReaderError) Category() string { return "NOT_A_READER" }
func (e *NotAReaderError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *NotAReaderError) Unwrap() error    { return nil }

// NewNotAReaderError cria um novo erro de leitor inexistente.
func NewNotAReaderError(msg string) AppError {
	return &NotAReaderError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa uma verificação de papel que falhou.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return e.Msg }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria o erro uniforme de papel insuficiente.
func NewForbiddenError() AppError {
	return &ForbiddenError{Msg: "Unauthorized"}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
// A causa fica em Err e nunca aparece na mensagem enviada ao cliente.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(msg+" (DB)", err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e mensagem.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			// Nunca expor a causa interna ao cliente.
			return appErr.HTTPStatus(), appErr.Category(), "Ocorreu um erro interno."
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// IsNotFound informa se o erro (ou algum da cadeia) é um NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
