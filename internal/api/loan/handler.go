package loan

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gobiblio/internal/api/response"
	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/middleware"
)

// LoanService define o contrato que o Handler espera do motor de empréstimos.
type LoanService interface {
	Checkout(ctx context.Context, bookID, readerID string) (domain.Loan, error)
	ReturnBook(ctx context.Context, loanID string) (domain.Loan, error)
	ListLoans(ctx context.Context, status string, page int) (domain.LoanPage, error)
	ListReaderLoans(ctx context.Context, userID string) ([]domain.LoanView, error)
	CheckoutCandidates(ctx context.Context) ([]domain.ReservationView, error)
}

// CheckoutRequest é o payload de registro de empréstimo.
type CheckoutRequest struct {
	BookID   string `json:"book_id"`
	ReaderID string `json:"reader_id"`
}

// CheckoutResponse é a resposta do registro de empréstimo.
type CheckoutResponse struct {
	LoanID string `json:"loan_id"`
}

// Handler agrupa os endpoints de empréstimos.
type Handler struct {
	Service LoanService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LoanService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CheckoutHandler lida com POST /api/loans.
// @Summary Registra um empréstimo
// @Description Converte a reserva pendente do leitor cuja janela contém hoje em empréstimo.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body CheckoutRequest true "Livro e leitor"
// @Success 201 {object} CheckoutResponse
// @Failure 400 {object} domain.ErrorResponse "Invalid loan request"
// @Security ApiKeyAuth
// @Router /loans [post]
func (h *Handler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := response.Decode(r, &req); err != nil {
		response.Handle(w, r, h.Logger, nil, apperror.NewInvalidRequestError("Invalid loan request"), http.StatusCreated)
		return
	}

	loan, err := h.Service.Checkout(r.Context(), req.BookID, req.ReaderID)
	response.Handle(w, r, h.Logger, CheckoutResponse{LoanID: loan.ID}, err, http.StatusCreated)
}

// ReturnHandler lida com POST /api/loans/{id}/return.
// @Summary Registra uma devolução
// @Tags loans
// @Produce json
// @Param id path string true "ID do empréstimo"
// @Success 200 {object} domain.Loan
// @Failure 400 {object} domain.ErrorResponse "Invalid return request"
// @Security ApiKeyAuth
// @Router /loans/{id}/return [post]
func (h *Handler) ReturnHandler(w http.ResponseWriter, r *http.Request) {
	loan, err := h.Service.ReturnBook(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, loan, err, http.StatusOK)
}

// ListLoansHandler lida com GET /api/loans.
// @Summary Lista empréstimos
// @Tags loans
// @Produce json
// @Param status query string false "borrowed, returned ou overdue"
// @Param page query int false "Página (padrão 1)"
// @Success 200 {object} domain.LoanPage
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Security ApiKeyAuth
// @Router /loans [get]
func (h *Handler) ListLoansHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListLoans(r.Context(), r.URL.Query().Get("status"), response.PageParam(r))
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// CandidatesHandler lida com GET /api/loans/candidates.
// @Summary Reservas prontas para empréstimo hoje
// @Tags loans
// @Produce json
// @Success 200 {array} domain.ReservationView
// @Security ApiKeyAuth
// @Router /loans/candidates [get]
func (h *Handler) CandidatesHandler(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.CheckoutCandidates(r.Context())
	response.Handle(w, r, h.Logger, views, err, http.StatusOK)
}

// MyLoansHandler lida com GET /api/users/me/loans.
// @Summary Empréstimos do usuário autenticado
// @Tags loans
// @Produce json
// @Success 200 {array} domain.LoanView
// @Security ApiKeyAuth
// @Router /users/me/loans [get]
func (h *Handler) MyLoansHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}
	views, err := h.Service.ListReaderLoans(r.Context(), claims.UserID)
	response.Handle(w, r, h.Logger, views, err, http.StatusOK)
}
