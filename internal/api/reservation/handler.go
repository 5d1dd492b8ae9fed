package reservation

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

// ReservationService define o contrato que o Handler espera do motor de reservas.
type ReservationService interface {
	CreateReservation(ctx context.Context, bookID, userID string, window domain.DateRange) (domain.Reservation, error)
	CreateReservationForReader(ctx context.Context, bookID, readerID string, window domain.DateRange) (domain.Reservation, error)
	CancelReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context, status string, page int) (domain.ReservationPage, error)
	ListReaderReservations(ctx context.Context, userID string) ([]domain.ReservationView, error)
	BookSchedule(ctx context.Context, bookID string) ([]domain.DateRange, error)
}

// CreateRequest é o payload de criação de reserva pelo próprio leitor.
type CreateRequest struct {
	BookID    string `json:"book_id"`
	StartDate string `json:"start_date" example:"2024-06-01"`
	EndDate   string `json:"end_date" example:"2024-06-05"`
}

// StaffCreateRequest é o payload de criação de reserva pela equipe.
type StaffCreateRequest struct {
	CreateRequest
	ReaderID string `json:"reader_id"`
}

// CreatedResponse é a resposta de criação de reserva.
type CreatedResponse struct {
	ReservationID string `json:"reservation_id"`
}

// Handler agrupa os endpoints de reservas.
type Handler struct {
	Service ReservationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ReservationService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// window interpreta as datas YYYY-MM-DD do payload.
func (req CreateRequest) window() (domain.DateRange, error) {
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return domain.DateRange{}, apperror.NewValidationError("Invalid date format")
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return domain.DateRange{}, apperror.NewValidationError("Invalid date format")
	}
	return domain.DateRange{Start: start, End: end}, nil
}

// CreateReservationHandler lida com POST /api/reservations.
// @Summary Reserva um livro
// @Description O usuário autenticado precisa ser um leitor cadastrado. Janelas são inclusivas nas duas pontas.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body CreateRequest true "Livro e janela"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} domain.ErrorResponse "Datas inválidas, livro indisponível ou já reservado"
// @Failure 403 {object} domain.ErrorResponse "Usuário não é leitor"
// @Failure 404 {object} domain.ErrorResponse "Livro não encontrado"
// @Security ApiKeyAuth
// @Router /reservations [post]
func (h *Handler) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var req CreateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	window, err := req.window()
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	res, err := h.Service.CreateReservation(r.Context(), req.BookID, claims.UserID, window)
	response.Handle(w, r, h.Logger, CreatedResponse{ReservationID: res.ID}, err, http.StatusCreated)
}

// CreateReservationForReaderHandler lida com POST /api/reservations/admin.
// @Summary Reserva um livro em nome de um leitor
// @Description Variante da equipe: o leitor é informado no payload e datas passadas são aceitas.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body StaffCreateRequest true "Livro, leitor e janela"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} domain.ErrorResponse "Datas inválidas, livro indisponível ou já reservado"
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente ou leitor inexistente"
// @Security ApiKeyAuth
// @Router /reservations/admin [post]
func (h *Handler) CreateReservationForReaderHandler(w http.ResponseWriter, r *http.Request) {
	var req StaffCreateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	window, err := req.window()
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	res, err := h.Service.CreateReservationForReader(r.Context(), req.BookID, req.ReaderID, window)
	response.Handle(w, r, h.Logger, CreatedResponse{ReservationID: res.ID}, err, http.StatusCreated)
}

// CancelReservationHandler lida com DELETE /api/reservations/{id}.
// @Summary Cancela uma reserva
// @Tags reservations
// @Produce json
// @Param id path string true "ID da reserva"
// @Success 200 {object} map[string]string
// @Failure 400 {object} domain.ErrorResponse "Reserva concluída ou já cancelada"
// @Failure 404 {object} domain.ErrorResponse "Reserva não encontrada"
// @Security ApiKeyAuth
// @Router /reservations/{id} [delete]
func (h *Handler) CancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.CancelReservation(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, map[string]string{"status": string(domain.ReservationCancelled)}, err, http.StatusOK)
}

// ListReservationsHandler lida com GET /api/reservations.
// @Summary Lista reservas
// @Tags reservations
// @Produce json
// @Param status query string false "pending, completed ou cancelled"
// @Param page query int false "Página (padrão 1)"
// @Success 200 {object} domain.ReservationPage
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Security ApiKeyAuth
// @Router /reservations [get]
func (h *Handler) ListReservationsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListReservations(r.Context(), r.URL.Query().Get("status"), response.PageParam(r))
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// MyReservationsHandler lida com GET /api/users/me/reservations.
// @Summary Reservas do usuário autenticado
// @Tags reservations
// @Produce json
// @Success 200 {array} domain.ReservationView
// @Security ApiKeyAuth
// @Router /users/me/reservations [get]
func (h *Handler) MyReservationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Handle(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}
	views, err := h.Service.ListReaderReservations(r.Context(), claims.UserID)
	response.Handle(w, r, h.Logger, views, err, http.StatusOK)
}

// BookScheduleHandler lida com GET /api/books/{id}/reservations.
// @Summary Janelas já reservadas de um livro
// @Description Usado pelo calendário de reserva. Não expõe dados do leitor.
// @Tags reservations
// @Produce json
// @Param id path string true "ID do livro"
// @Success 200 {array} domain.DateRange
// @Router /books/{id}/reservations [get]
func (h *Handler) BookScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.Service.BookSchedule(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, ranges, err, http.StatusOK)
}
