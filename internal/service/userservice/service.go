package userservice

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/token"
)

const minPasswordLength = 6

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register registra um novo usuário no sistema.
// O primeiro usuário cadastrado recebe o papel admin; os demais, user.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação Básica
	registration.Username = strings.TrimSpace(registration.Username)
	registration.Email = strings.TrimSpace(registration.Email)
	if registration.Username == "" || registration.Email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Username, email e senha são obrigatórios.")
	}
	if _, err := mail.ParseAddress(registration.Email); err != nil {
		return domain.User{}, apperror.NewValidationError("Email inválido.")
	}
	if len(registration.Password) < minPasswordLength {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", minPasswordLength))
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Papel: o primeiro usuário administra o sistema
	count, err := s.UserRepo.Count(ctx)
	if err != nil {
		return domain.User{}, err
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	newUser := domain.User{
		Username:     registration.Username,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	// 4. Persistência (duplicidade já chega como ConflictError)
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, username string, password string) (string, domain.User, error) {
	// 1. Validação Básica
	if username == "" || password == "" {
		return "", domain.User{}, apperror.NewUnauthorizedError("Username e senha são obrigatórios.")
	}

	// 2. Buscar Usuário
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		// NotFound vira 401 para não dar dicas a invasores.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", domain.User{}, err
	}

	// 3. Comparar Senhas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}
	if !user.IsActive {
		return "", domain.User{}, apperror.NewUnauthorizedError("Conta desativada.")
	}

	// 4. Gerar JWT
	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", domain.User{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Debug("Login realizado.", map[string]interface{}{"user_id": user.ID})
	return tokenString, user, nil
}

// ListUsers lista todos os usuários.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.UserRepo.FindAll(ctx)
}

// ChangeRole promove ou rebaixa um usuário entre user e worker.
// O papel admin não pode ser atribuído nem retirado por aqui.
func (s *UserService) ChangeRole(ctx context.Context, userID string, role string) (domain.User, error) {
	newRole, ok := domain.ParseRole(role)
	if !ok || newRole == domain.RoleAdmin {
		return domain.User{}, apperror.NewValidationError("Papel inválido: use user ou worker.")
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role == domain.RoleAdmin {
		return domain.User{}, apperror.NewInvalidStateError("O papel de um administrador não pode ser alterado.")
	}

	if err := s.UserRepo.UpdateRole(ctx, userID, newRole); err != nil {
		return domain.User{}, err
	}

	user.Role = newRole
	s.logger.Info("Papel do usuário alterado.", map[string]interface{}{"user_id": userID, "role": newRole})
	return user, nil
}
