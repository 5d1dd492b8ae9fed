package circulationrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

// Store implementa domain.Store e domain.CirculationQueries sobre PostgreSQL.
// Toda escrita roda em uma transação SERIALIZABLE; conflitos detectados pelo
// banco viram ConflictError e não são repetidos.
type Store struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStore cria o Store de circulação.
func NewStore(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *Store {
	return &Store{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger.With(map[string]interface{}{"component": "circulationrepo"}),
	}
}

// WithinTx executa fn dentro de uma transação serializável. Se fn falhar, a
// transação é desfeita. Após o commit, as entradas de cache dos livros cujo
// status mudou são invalidadas.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	sqlTx, err := s.DB.BeginTx(ctxTimeout, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Error("Falha ao iniciar transação de circulação.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}

	t := &pgTx{tx: sqlTx, logger: s.logger, touched: make(map[string]struct{})}

	if err := fn(t); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("Falha ao desfazer transação.", map[string]interface{}{"error": rbErr.Error()})
		}
		return s.translate(err)
	}

	if err := sqlTx.Commit(); err != nil {
		return s.translate(err)
	}

	if len(t.touched) > 0 {
		ids := make([]string, 0, len(t.touched))
		for id := range t.touched {
			ids = append(ids, id)
		}
		if err := cache.InvalidateBooks(ctx, s.Cache, ids...); err != nil {
			s.logger.Warn("Falha ao invalidar cache de livros após a transação.", map[string]interface{}{"book_ids": ids, "error": err.Error()})
		}
	}

	return nil
}

// translate converte aborts de concorrência e violações de restrição em
// ConflictError. Os demais erros seguem como vieram.
func (s *Store) translate(err error) error {
	if database.IsRetryableConflict(err) {
		s.logger.Warn("Transação abortada por concorrência.", map[string]interface{}{"error": err.Error()})
		return apperror.NewConcurrencyError(err)
	}

	switch database.PQCode(err) {
	case database.CodeExclusionViolation:
		s.logger.Warn("Restrição de sobreposição de reservas acionada.", map[string]interface{}{"error": err.Error()})
		return &apperror.ConflictError{Msg: "Book is already reserved for the requested dates", Err: err}
	case database.CodeUniqueViolation:
		s.logger.Warn("Restrição de unicidade acionada na circulação.", map[string]interface{}{"error": err.Error()})
		return apperror.NewConcurrencyError(err)
	}

	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error("Falha inesperada na transação de circulação.", err)
	return apperror.NewDBError("Falha na transação", err)
}
