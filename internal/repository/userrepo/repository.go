package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

const userColumns = `id, username, email, password_hash, role, is_active, created_at`

// UserRepository implementa a interface domain.UserRepository
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	return user, err
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"username": user.Username})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Prepara dados e ID
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// 3. Executa o INSERT
	_, err := r.DB.ExecContext(
		ctxTimeout,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		if database.PQCode(err) == database.CodeUniqueViolation {
			r.logger.Info("Usuário ou email já cadastrado.", map[string]interface{}{"username": user.Username})
			return domain.User{}, apperror.NewConflictError("Nome de usuário ou email já está em uso.")
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao inserir usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "username": user.Username})
	return user, nil
}

// FindByUsername busca um usuário pelo nome de usuário.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	r.logger.Debug("Iniciando FindByUsername no repositório.", map[string]interface{}{"username": username})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Info("Usuário não encontrado no DB.", map[string]interface{}{"username": username})
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário '%s' não encontrado", username))
		}
		r.logger.Error("Falha ao buscar usuário por username no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}

	return user, nil
}

// byIDError traduz a falha de uma operação por ID: linha ausente ou ID
// malformado viram NotFoundError.
func (r *UserRepository) byIDError(id, msg string, err error) error {
	if database.IsMissingRow(err) {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", id))
	}
	r.logger.Error(msg, err)
	return apperror.NewDBError(msg, err)
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, r.byIDError(id, "Falha ao buscar usuário", err)
	}
	return user, nil
}

// FindAll lista todos os usuários, mais recentes primeiro.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear linha de usuário.", err)
			return nil, apperror.NewDBError("Falha ao ler usuários", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar usuários", err)
	}

	r.logger.Debug("Usuários listados.", map[string]interface{}{"count": len(users)})
	return users, nil
}

// UpdateRole altera o papel de um usuário.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return r.byIDError(id, "Falha ao atualizar papel", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", id))
	}

	r.logger.Info("Papel do usuário atualizado.", map[string]interface{}{"user_id": id, "role": role})
	return nil
}

// Count retorna o número de usuários cadastrados.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var n int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		r.logger.Error("Falha ao contar usuários.", err)
		return 0, apperror.NewDBError("Falha ao contar usuários", err)
	}
	return n, nil
}
