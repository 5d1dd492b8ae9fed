package reservationservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/metrics"
)

// DefaultPageSize é o tamanho de página da listagem de reservas para a equipe.
const DefaultPageSize = 20

// Service é o motor de reservas: admite, lista e cancela reservas.
type Service struct {
	store   domain.Store
	queries domain.CirculationQueries
	logger  logger.Logger
	clock   clock.Clock
}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio usado para calcular "hoje".
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService cria e retorna uma nova instância do Serviço de Reservas.
func NewService(store domain.Store, queries domain.CirculationQueries, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		queries: queries,
		logger:  logger,
		clock:   clock.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) validateWindow(window domain.DateRange, allowPast bool) error {
	if window.Start.IsZero() || window.End.IsZero() {
		return apperror.NewValidationError("Invalid date format")
	}
	if !allowPast && window.Start.Before(s.clock.Today()) {
		return apperror.NewValidationError("Start date cannot be in the past")
	}
	if window.End.Before(window.Start) {
		return apperror.NewValidationError("End date must be after start date")
	}
	return nil
}

// admit roda as verificações de disponibilidade e sobreposição e insere a
// reserva. Deve ser chamado dentro de uma transação, com o livro já bloqueado.
func (s *Service) admit(ctx context.Context, tx domain.Tx, book domain.Book, reader domain.Reader, window domain.DateRange) (domain.Reservation, error) {
	if book.Status != domain.BookAvailable {
		return domain.Reservation{}, apperror.NewInvalidStateError(
			fmt.Sprintf("Book is not available (current status: %s)", book.Status))
	}

	holder, overlaps, err := tx.FindOverlappingReservation(ctx, book.ID, window)
	if err != nil {
		return domain.Reservation{}, err
	}
	if overlaps {
		s.logger.Info("Reserva recusada por sobreposição.", map[string]interface{}{
			"book_id":     book.ID,
			"holder":      holder.ReservationID,
			"held_window": holder.Window.Start.String() + ".." + holder.Window.End.String(),
		})
		return domain.Reservation{}, apperror.NewConflictError(
			fmt.Sprintf("Book is already reserved by %s", holder.ReaderName))
	}

	reservation := domain.Reservation{
		ID:        uuid.NewString(),
		BookID:    book.ID,
		ReaderID:  reader.ID,
		Window:    window,
		Status:    domain.ReservationPending,
		CreatedAt: s.clock.Now(),
	}
	if err := tx.InsertReservation(ctx, reservation); err != nil {
		return domain.Reservation{}, err
	}
	return reservation, nil
}

func (s *Service) record(reservation domain.Reservation, err error) {
	if err == nil {
		metrics.ReservationsCreated.Inc()
		s.logger.Info("Reserva criada com sucesso.", map[string]interface{}{
			"reservation_id": reservation.ID,
			"book_id":        reservation.BookID,
			"reader_id":      reservation.ReaderID,
		})
		return
	}
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		metrics.ReservationConflicts.Inc()
	}
	s.logger.Debug("Reserva não criada.", map[string]interface{}{"error": err.Error()})
}

// CreateReservation reserva o livro para o leitor vinculado ao usuário autenticado.
// Verificação e inserção acontecem na mesma transação.
func (s *Service) CreateReservation(ctx context.Context, bookID, userID string, window domain.DateRange) (domain.Reservation, error) {
	s.logger.Debug("Iniciando criação de reserva.", map[string]interface{}{"book_id": bookID, "user_id": userID})

	if err := s.validateWindow(window, false); err != nil {
		return domain.Reservation{}, err
	}

	var created domain.Reservation
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		book, err := tx.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}

		reader, err := tx.GetReaderByUserID(ctx, userID)
		if apperror.IsNotFound(err) {
			return apperror.NewNotAReaderError("User is not a registered reader")
		}
		if err != nil {
			return err
		}

		created, err = s.admit(ctx, tx, book, reader, window)
		return err
	})
	s.record(created, err)
	if err != nil {
		return domain.Reservation{}, err
	}
	return created, nil
}

// CreateReservationForReader é a variante usada pela equipe: o leitor é
// informado explicitamente e a janela pode começar no passado.
func (s *Service) CreateReservationForReader(ctx context.Context, bookID, readerID string, window domain.DateRange) (domain.Reservation, error) {
	s.logger.Debug("Iniciando criação de reserva pela equipe.", map[string]interface{}{"book_id": bookID, "reader_id": readerID})

	if err := s.validateWindow(window, true); err != nil {
		return domain.Reservation{}, err
	}

	var created domain.Reservation
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		book, err := tx.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}

		reader, err := tx.GetReaderByID(ctx, readerID)
		if err != nil {
			return err
		}

		created, err = s.admit(ctx, tx, book, reader, window)
		return err
	})
	s.record(created, err)
	if err != nil {
		return domain.Reservation{}, err
	}
	return created, nil
}

// CancelReservation cancela uma reserva pendente. Reservas concluídas ou já
// canceladas são terminais.
func (s *Service) CancelReservation(ctx context.Context, id string) error {
	s.logger.Debug("Iniciando cancelamento de reserva.", map[string]interface{}{"reservation_id": id})

	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		reservation, err := tx.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}

		switch reservation.Status {
		case domain.ReservationCompleted:
			return apperror.NewInvalidStateError("Cannot cancel a completed reservation")
		case domain.ReservationCancelled:
			return apperror.NewInvalidStateError("Reservation is already cancelled")
		}

		return tx.SetReservationStatus(ctx, id, domain.ReservationCancelled)
	})
	if err != nil {
		s.logger.Debug("Cancelamento recusado.", map[string]interface{}{"reservation_id": id, "error": err.Error()})
		return err
	}

	metrics.ReservationsCancelled.Inc()
	s.logger.Info("Reserva cancelada.", map[string]interface{}{"reservation_id": id})
	return nil
}

// ListReservations lista reservas para a equipe, paginadas e com filtro opcional de status.
func (s *Service) ListReservations(ctx context.Context, status string, page int) (domain.ReservationPage, error) {
	filter := domain.ReservationFilter{Page: page, Limit: DefaultPageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}

	switch domain.ReservationStatus(status) {
	case "":
	case domain.ReservationPending, domain.ReservationCompleted, domain.ReservationCancelled:
		filter.Status = domain.ReservationStatus(status)
	default:
		return domain.ReservationPage{}, apperror.NewValidationError(fmt.Sprintf("Invalid reservation status: %s", status))
	}

	views, total, err := s.queries.ListReservations(ctx, filter)
	if err != nil {
		return domain.ReservationPage{}, err
	}

	return domain.ReservationPage{
		Reservations: views,
		Total:        total,
		Pages:        domain.TotalPages(total, filter.Limit),
		CurrentPage:  filter.Page,
	}, nil
}

// ListReaderReservations lista as reservas não canceladas do próprio usuário.
func (s *Service) ListReaderReservations(ctx context.Context, userID string) ([]domain.ReservationView, error) {
	views, _, err := s.queries.ListReservations(ctx, domain.ReservationFilter{
		ReaderUserID:     userID,
		ExcludeCancelled: true,
	})
	return views, err
}

// BookSchedule devolve as janelas ocupadas de um livro, em ordem cronológica.
// Não expõe quem reservou.
func (s *Service) BookSchedule(ctx context.Context, bookID string) ([]domain.DateRange, error) {
	views, _, err := s.queries.ListReservations(ctx, domain.ReservationFilter{
		BookID:           bookID,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, err
	}

	windows := make([]domain.DateRange, 0, len(views))
	for _, v := range views {
		windows = append(windows, domain.DateRange{Start: v.StartDate, End: v.EndDate})
	}
	return windows, nil
}
