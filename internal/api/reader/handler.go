package reader

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gobiblio/internal/api/response"
	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/middleware"
	"gobiblio/internal/service/readerservice"
)

// ReaderService define o contrato do fluxo de cadastro de leitores.
type ReaderService interface {
	RequestRegistration(ctx context.Context, userID string, profile domain.ReaderProfile) (domain.RegistrationRequest, error)
	Approve(ctx context.Context, requestID, processorID string) (domain.Reader, error)
	Reject(ctx context.Context, requestID, processorID, reason string) error
	ListRequests(ctx context.Context, status string, page int) (readerservice.RequestPage, error)
	Status(ctx context.Context, userID string) (domain.ReaderStatus, error)
	ListReaders(ctx context.Context) ([]domain.ReaderSummary, error)
	ListUnregisteredUsers(ctx context.Context) ([]domain.User, error)
}

// RejectRequest é o payload opcional da rejeição.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Handler agrupa os endpoints de leitores.
type Handler struct {
	Service ReaderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ReaderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (middleware.UserClaims, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
	}
	return claims, ok
}

// RequestRegistrationHandler lida com POST /api/reader-requests.
// @Summary Pede cadastro como leitor
// @Description Um novo pedido é recusado enquanto houver outro pendente criado nos últimos 30 dias.
// @Tags readers
// @Accept json
// @Produce json
// @Param profile body domain.ReaderProfile true "Dados pessoais"
// @Success 201 {object} domain.RegistrationRequest
// @Failure 400 {object} domain.ErrorResponse "Dados incompletos, pedido pendente ou já leitor"
// @Security ApiKeyAuth
// @Router /reader-requests [post]
func (h *Handler) RequestRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var profile domain.ReaderProfile
	if err := response.Decode(r, &profile); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	req, err := h.Service.RequestRegistration(r.Context(), claims.UserID, profile)
	response.Handle(w, r, h.Logger, req, err, http.StatusCreated)
}

// ListRequestsHandler lida com GET /api/reader-requests.
// @Summary Lista pedidos de cadastro
// @Tags readers
// @Produce json
// @Param status query string false "pending, approved, rejected ou processed"
// @Param page query int false "Página (padrão 1)"
// @Success 200 {object} readerservice.RequestPage
// @Security ApiKeyAuth
// @Router /reader-requests [get]
func (h *Handler) ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListRequests(r.Context(), r.URL.Query().Get("status"), response.PageParam(r))
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// ApproveHandler lida com POST /api/reader-requests/{id}/approve.
// @Summary Aprova um pedido de cadastro
// @Tags readers
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {object} domain.Reader
// @Failure 400 {object} domain.ErrorResponse "Pedido já processado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /reader-requests/{id}/approve [post]
func (h *Handler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	reader, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	response.Handle(w, r, h.Logger, reader, err, http.StatusOK)
}

// RejectHandler lida com POST /api/reader-requests/{id}/reject.
// @Summary Rejeita um pedido de cadastro
// @Tags readers
// @Accept json
// @Produce json
// @Param id path string true "ID do pedido"
// @Param body body RejectRequest false "Motivo"
// @Success 200 {object} map[string]string
// @Failure 400 {object} domain.ErrorResponse "Pedido já processado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /reader-requests/{id}/reject [post]
func (h *Handler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	// O motivo é opcional; corpo vazio é aceito
	var body RejectRequest
	if r.ContentLength > 0 {
		if err := response.Decode(r, &body); err != nil {
			response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
			return
		}
	}

	err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"), claims.UserID, body.Reason)
	response.Handle(w, r, h.Logger, map[string]string{"status": string(domain.RegistrationRejected)}, err, http.StatusOK)
}

// StatusHandler lida com GET /api/readers/me/status.
// @Summary Situação de leitor do usuário autenticado
// @Tags readers
// @Produce json
// @Success 200 {object} domain.ReaderStatus
// @Security ApiKeyAuth
// @Router /readers/me/status [get]
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	status, err := h.Service.Status(r.Context(), claims.UserID)
	response.Handle(w, r, h.Logger, status, err, http.StatusOK)
}

// ListReadersHandler lida com GET /api/readers.
// @Summary Lista leitores com empréstimos ativos
// @Tags readers
// @Produce json
// @Success 200 {array} domain.ReaderSummary
// @Security ApiKeyAuth
// @Router /readers [get]
func (h *Handler) ListReadersHandler(w http.ResponseWriter, r *http.Request) {
	readers, err := h.Service.ListReaders(r.Context())
	response.Handle(w, r, h.Logger, readers, err, http.StatusOK)
}

// ListUnregisteredUsersHandler lida com GET /api/unregistered-users.
// @Summary Lista usuários sem cadastro de leitor
// @Description Usuários ativos de papel user que ainda não têm perfil de leitor.
// @Tags readers
// @Produce json
// @Success 200 {array} domain.User
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente"
// @Security ApiKeyAuth
// @Router /unregistered-users [get]
func (h *Handler) ListUnregisteredUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUnregisteredUsers(r.Context())
	response.Handle(w, r, h.Logger, users, err, http.StatusOK)
}
