package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gobiblio/internal/pkg/logger"
)

// Códigos SQLSTATE do PostgreSQL tratados pela camada de repositório.
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeUniqueViolation      = "23505"
	CodeExclusionViolation   = "23P01"
	CodeInvalidText          = "22P02" // ex: ID que não é UUID
)

// NewPostgresDB inicializa e configura o pool de conexões com o PostgreSQL.
// Retorna a conexão *sql.DB pronta para uso.
func NewPostgresDB(dataSourceName string, log logger.Logger) (*sql.DB, error) {
	// 1. Abrir a Conexão (driver lib/pq registrado como "postgres")
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	// 2. Testar a Conexão Imediatamente
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// 3. Configuração do Connection Pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	log.Info("Pool de Conexões PostgreSQL configurado e pronto.", map[string]interface{}{"max_open_conns": 25})

	return db, nil
}

// PQCode extrai o código SQLSTATE de um erro do driver lib/pq ("" se não for um *pq.Error).
func PQCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsRetryableConflict informa se o banco abortou a transação por concorrência
// (falha de serialização ou deadlock).
func IsRetryableConflict(err error) bool {
	switch PQCode(err) {
	case CodeSerializationFailure, CodeDeadlockDetected:
		return true
	}
	return false
}

// IsMissingRow informa se a consulta não achou a linha: sql.ErrNoRows ou um
// ID malformado que o Postgres rejeita antes de procurar.
func IsMissingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || PQCode(err) == CodeInvalidText
}
