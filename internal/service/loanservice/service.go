package loanservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/metrics"
)

// DefaultPageSize é o tamanho de página da listagem de empréstimos.
const DefaultPageSize = 20

const (
	msgInvalidLoan   = "Invalid loan request"
	msgInvalidReturn = "Invalid return request"
)

// Service é o motor de empréstimos: retirada e devolução mantêm livro,
// reserva e empréstimo sempre consistentes.
type Service struct {
	store   domain.Store
	queries domain.CirculationQueries
	logger  logger.Logger
	clock   clock.Clock
}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio usado para "agora" e "hoje".
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService cria e retorna uma nova instância do Serviço de Empréstimos.
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

// Checkout converte a reserva pendente do leitor, cuja janela contém hoje, em
// empréstimo. Empréstimo criado, reserva concluída e livro emprestado são
// confirmados juntos ou nada acontece.
func (s *Service) Checkout(ctx context.Context, bookID, readerID string) (domain.Loan, error) {
	s.logger.Debug("Iniciando empréstimo.", map[string]interface{}{"book_id": bookID, "reader_id": readerID})

	if bookID == "" || readerID == "" {
		return domain.Loan{}, apperror.NewInvalidRequestError(msgInvalidLoan)
	}

	var loan domain.Loan
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		// 1. Bloquear o livro antes de qualquer verificação
		book, err := tx.GetBookForUpdate(ctx, bookID)
		if apperror.IsNotFound(err) {
			return apperror.NewInvalidRequestError(msgInvalidLoan)
		}
		if err != nil {
			return err
		}

		// 2. Reserva pendente do leitor com hoje dentro da janela
		reservation, found, err := tx.FindCheckoutReservation(ctx, bookID, readerID, s.clock.Today())
		if err != nil {
			return err
		}
		if !found || book.Status != domain.BookAvailable {
			s.logger.Info("Empréstimo recusado.", map[string]interface{}{
				"book_id":           bookID,
				"reader_id":         readerID,
				"reservation_found": found,
				"book_status":       book.Status,
			})
			return apperror.NewInvalidRequestError(msgInvalidLoan)
		}

		// 3. Efeitos
		loan = domain.Loan{
			ID:            uuid.NewString(),
			BookID:        bookID,
			ReaderID:      readerID,
			ReservationID: reservation.ID,
			LoanDate:      s.clock.Now(),
			Status:        domain.LoanBorrowed,
		}
		if err := tx.InsertLoan(ctx, loan); err != nil {
			return err
		}
		if err := tx.SetReservationStatus(ctx, reservation.ID, domain.ReservationCompleted); err != nil {
			return err
		}
		return tx.SetBookStatus(ctx, bookID, domain.BookBorrowed)
	})
	if err != nil {
		return domain.Loan{}, err
	}

	metrics.LoansCheckedOut.Inc()
	s.logger.Info("Empréstimo registrado.", map[string]interface{}{"loan_id": loan.ID, "book_id": bookID, "reservation_id": loan.ReservationID})
	return loan, nil
}

// ReturnBook encerra um empréstimo ativo e libera o livro.
func (s *Service) ReturnBook(ctx context.Context, loanID string) (domain.Loan, error) {
	s.logger.Debug("Iniciando devolução.", map[string]interface{}{"loan_id": loanID})

	var loan domain.Loan
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		current, err := tx.GetLoanForUpdate(ctx, loanID)
		if apperror.IsNotFound(err) {
			return apperror.NewInvalidRequestError(msgInvalidReturn)
		}
		if err != nil {
			return err
		}
		if current.Status != domain.LoanBorrowed {
			return apperror.NewInvalidRequestError(msgInvalidReturn)
		}

		returnedAt := s.clock.Now()
		if err := tx.MarkLoanReturned(ctx, loanID, returnedAt); err != nil {
			return err
		}
		if err := tx.SetBookStatus(ctx, current.BookID, domain.BookAvailable); err != nil {
			return err
		}

		current.Status = domain.LoanReturned
		current.ReturnDate = &returnedAt
		loan = current
		return nil
	})
	if err != nil {
		s.logger.Debug("Devolução recusada.", map[string]interface{}{"loan_id": loanID, "error": err.Error()})
		return domain.Loan{}, err
	}

	metrics.LoansReturned.Inc()
	s.logger.Info("Devolução registrada.", map[string]interface{}{"loan_id": loanID, "book_id": loan.BookID})
	return loan, nil
}

// annotate preenche o atraso de empréstimos ativos em relação a hoje.
func (s *Service) annotate(views []domain.LoanView) {
	today := s.clock.Today()
	for i := range views {
		v := &views[i]
		if v.Status == domain.LoanBorrowed && !v.DueDate.IsZero() && today.After(v.DueDate) {
			v.IsOverdue = true
			v.DaysOverdue = v.DueDate.DaysUntil(today)
		}
	}
}

// ListLoans lista empréstimos paginados. status aceita borrowed, returned ou
// overdue (ativos com prazo vencido).
func (s *Service) ListLoans(ctx context.Context, status string, page int) (domain.LoanPage, error) {
	filter := domain.LoanFilter{Page: page, Limit: DefaultPageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}

	switch status {
	case "":
	case string(domain.LoanBorrowed), string(domain.LoanReturned):
		filter.Status = domain.LoanStatus(status)
	case "overdue":
		filter.OverdueOnly = true
		filter.Today = s.clock.Today()
	default:
		return domain.LoanPage{}, apperror.NewValidationError(fmt.Sprintf("Invalid loan status: %s", status))
	}

	views, total, err := s.queries.ListLoans(ctx, filter)
	if err != nil {
		return domain.LoanPage{}, err
	}
	s.annotate(views)

	return domain.LoanPage{
		Loans:       views,
		Total:       total,
		Pages:       domain.TotalPages(total, filter.Limit),
		CurrentPage: filter.Page,
	}, nil
}

// ListReaderLoans lista os empréstimos do próprio usuário.
func (s *Service) ListReaderLoans(ctx context.Context, userID string) ([]domain.LoanView, error) {
	views, _, err := s.queries.ListLoans(ctx, domain.LoanFilter{ReaderUserID: userID})
	if err != nil {
		return nil, err
	}
	s.annotate(views)
	return views, nil
}

// CheckoutCandidates lista reservas prontas para empréstimo hoje.
func (s *Service) CheckoutCandidates(ctx context.Context) ([]domain.ReservationView, error) {
	return s.queries.ListCheckoutCandidates(ctx, s.clock.Today())
}
