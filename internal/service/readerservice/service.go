package readerservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/metrics"
)

// DefaultWindow é o período em que um pedido pendente bloqueia um novo pedido.
const DefaultWindow = 30 * 24 * time.Hour

// DefaultPageSize é o tamanho de página da listagem de pedidos.
const DefaultPageSize = 20

// Service conduz o fluxo de cadastro de leitores: pedido, aprovação e rejeição.
type Service struct {
	store   domain.Store
	queries domain.CirculationQueries
	logger  logger.Logger
	clock   clock.Clock
	window  time.Duration
}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio do serviço.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithWindow altera o período de bloqueio de pedidos pendentes.
func WithWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// NewService cria e retorna uma nova instância do Serviço de Leitores.
func NewService(store domain.Store, queries domain.CirculationQueries, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		queries: queries,
		logger:  logger,
		clock:   clock.New(nil),
		window:  DefaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeProfile(p domain.ReaderProfile) (domain.ReaderProfile, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Address = strings.TrimSpace(p.Address)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)

	if p.FirstName == "" || p.LastName == "" {
		return p, apperror.NewValidationError("First name and last name are required")
	}
	if p.Address == "" || p.PhoneNumber == "" {
		return p, apperror.NewValidationError("Address and phone number are required")
	}
	return p, nil
}

// RequestRegistration registra o pedido de cadastro de leitor do usuário.
func (s *Service) RequestRegistration(ctx context.Context, userID string, profile domain.ReaderProfile) (domain.RegistrationRequest, error) {
	s.logger.Debug("Iniciando pedido de cadastro de leitor.", map[string]interface{}{"user_id": userID})

	profile, err := normalizeProfile(profile)
	if err != nil {
		return domain.RegistrationRequest{}, err
	}

	now := s.clock.Now()
	req := domain.RegistrationRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Profile:   profile,
		Status:    domain.RegistrationPending,
		CreatedAt: now,
	}

	err = s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if _, err := tx.GetReaderByUserID(ctx, userID); err == nil {
			return apperror.NewConflictError("User is already a registered reader")
		} else if !apperror.IsNotFound(err) {
			return err
		}

		pending, err := tx.HasPendingRegistration(ctx, userID, now.Add(-s.window))
		if err != nil {
			return err
		}
		if pending {
			return apperror.NewConflictError("You already have a pending registration request")
		}

		return tx.InsertRegistration(ctx, req)
	})
	if err != nil {
		s.logger.Debug("Pedido de cadastro recusado.", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return domain.RegistrationRequest{}, err
	}

	s.logger.Info("Pedido de cadastro registrado.", map[string]interface{}{"request_id": req.ID, "user_id": userID})
	return req, nil
}

// cardNumber gera um número de cartão de leitor.
func cardNumber() string {
	return "RDR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Approve cria o leitor a partir do pedido e marca o pedido como aprovado,
// na mesma transação.
func (s *Service) Approve(ctx context.Context, requestID, processorID string) (domain.Reader, error) {
	s.logger.Debug("Iniciando aprovação de pedido de cadastro.", map[string]interface{}{"request_id": requestID, "processor_id": processorID})

	var reader domain.Reader
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		req, err := tx.GetRegistrationForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != domain.RegistrationPending {
			return apperror.NewInvalidStateError("Request has already been processed")
		}

		if _, err := tx.GetReaderByUserID(ctx, req.UserID); err == nil {
			return apperror.NewInvalidStateError("User is already a registered reader")
		} else if !apperror.IsNotFound(err) {
			return err
		}

		var email string
		if user, err := tx.GetUserByID(ctx, req.UserID); err == nil {
			email = user.Email
		} else if !apperror.IsNotFound(err) {
			return err
		}

		now := s.clock.Now()
		reader = domain.Reader{
			ID:               uuid.NewString(),
			UserID:           req.UserID,
			FirstName:        req.Profile.FirstName,
			LastName:         req.Profile.LastName,
			Address:          req.Profile.Address,
			Email:            email,
			PhoneNumber:      req.Profile.PhoneNumber,
			CardNumber:       cardNumber(),
			RegistrationDate: now,
		}
		if err := tx.InsertReader(ctx, reader); err != nil {
			return err
		}

		req.Status = domain.RegistrationApproved
		req.ProcessedBy = processorID
		req.ProcessedAt = &now
		return tx.UpdateRegistration(ctx, req)
	})
	if err != nil {
		s.logger.Debug("Aprovação recusada.", map[string]interface{}{"request_id": requestID, "error": err.Error()})
		return domain.Reader{}, err
	}

	metrics.RegistrationDecisions.WithLabelValues(string(domain.RegistrationApproved)).Inc()
	s.logger.Info("Pedido de cadastro aprovado.", map[string]interface{}{"request_id": requestID, "reader_id": reader.ID})
	return reader, nil
}

// Reject marca o pedido como rejeitado, guardando o motivo.
func (s *Service) Reject(ctx context.Context, requestID, processorID, reason string) error {
	s.logger.Debug("Iniciando rejeição de pedido de cadastro.", map[string]interface{}{"request_id": requestID, "processor_id": processorID})

	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		req, err := tx.GetRegistrationForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != domain.RegistrationPending {
			return apperror.NewInvalidStateError("Request has already been processed")
		}

		now := s.clock.Now()
		req.Status = domain.RegistrationRejected
		req.ProcessedBy = processorID
		req.ProcessedAt = &now
		req.RejectionReason = strings.TrimSpace(reason)
		return tx.UpdateRegistration(ctx, req)
	})
	if err != nil {
		return err
	}

	metrics.RegistrationDecisions.WithLabelValues(string(domain.RegistrationRejected)).Inc()
	s.logger.Info("Pedido de cadastro rejeitado.", map[string]interface{}{"request_id": requestID})
	return nil
}

// RequestPage é uma página de pedidos de cadastro.
type RequestPage struct {
	Requests    []domain.RegistrationRequest `json:"requests"`
	Total       int                          `json:"total"`
	Pages       int                          `json:"pages"`
	CurrentPage int                          `json:"current_page"`
}

// ListRequests lista pedidos. status aceita pending, approved, rejected ou processed.
func (s *Service) ListRequests(ctx context.Context, status string, page int) (RequestPage, error) {
	switch status {
	case "", "processed",
		string(domain.RegistrationPending), string(domain.RegistrationApproved), string(domain.RegistrationRejected):
	default:
		return RequestPage{}, apperror.NewValidationError(fmt.Sprintf("Invalid request status: %s", status))
	}
	if page < 1 {
		page = 1
	}

	requests, total, err := s.queries.ListRegistrations(ctx, domain.RegistrationFilter{Status: status, Page: page, Limit: DefaultPageSize})
	if err != nil {
		return RequestPage{}, err
	}
	return RequestPage{
		Requests:    requests,
		Total:       total,
		Pages:       domain.TotalPages(total, DefaultPageSize),
		CurrentPage: page,
	}, nil
}

// Status informa se o usuário é leitor e se tem pedido pendente.
func (s *Service) Status(ctx context.Context, userID string) (domain.ReaderStatus, error) {
	return s.queries.ReaderStatus(ctx, userID, s.clock.Now().Add(-s.window))
}

// ListUnregisteredUsers lista quem ainda pode virar leitor (papel user, ativo, sem cadastro).
func (s *Service) ListUnregisteredUsers(ctx context.Context) ([]domain.User, error) {
	return s.queries.ListUnregisteredUsers(ctx)
}

// ListReaders lista os leitores com seus empréstimos ativos.
func (s *Service) ListReaders(ctx context.Context) ([]domain.ReaderSummary, error) {
	return s.queries.ListReaders(ctx)
}
