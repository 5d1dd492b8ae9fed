package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/token"
	"gobiblio/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTokenService simula a geração de tokens.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.CustomClaims)
	return claims, args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

// TestRegister_FirstUserIsAdmin promove o primeiro cadastro a admin.
func TestRegister_FirstUserIsAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	mockRepo.On("Count", mock.Anything).Return(0, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin && u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("segredo123")) == nil
	})).Return(domain.User{ID: "u1", Username: "bibliotecaria", Role: domain.RoleAdmin}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Username: " bibliotecaria ",
		Email:    "bib@lib.test",
		Password: "segredo123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	mockRepo.AssertExpectations(t)
}

// TestRegister_DefaultRole cadastra os demais como user.
func TestRegister_DefaultRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	mockRepo.On("Count", mock.Anything).Return(3, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleUser && u.Username == "leitor"
	})).Return(domain.User{ID: "u4", Username: "leitor", Role: domain.RoleUser}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Username: "leitor", Email: "l@lib.test", Password: "123456"})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_Validation rejeita entradas inválidas sem tocar no repositório.
func TestRegister_Fail_Validation(t *testing.T) {
	cases := []domain.UserRegistration{
		{Username: "", Email: "a@b.c", Password: "123456"},
		{Username: "ana", Email: "não-é-email", Password: "123456"},
		{Username: "ana", Email: "a@b.c", Password: "123"},
	}
	for _, reg := range cases {
		mockRepo := new(MockUserRepository)
		svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

		_, err := svc.Register(context.Background(), reg)

		assert.IsType(t, &apperror.ValidationError{}, err)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	}
}

// TestRegister_Fail_Duplicate propaga o conflito do repositório.
func TestRegister_Fail_Duplicate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	conflict := apperror.NewConflictError("Nome de usuário ou email já está em uso.")
	mockRepo.On("Count", mock.Anything).Return(1, nil)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.User{}, conflict)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Username: "ana", Email: "a@b.c", Password: "123456"})

	assert.ErrorIs(t, err, conflict)
}

// TestLogin_Success gera o token com o papel do usuário.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockToken, logger.Nop())

	stored := domain.User{ID: "u1", Username: "ana", PasswordHash: hashed(t, "segredo"), Role: domain.RoleWorker, IsActive: true}
	mockRepo.On("FindByUsername", mock.Anything, "ana").Return(stored, nil)
	mockToken.On("GenerateToken", "u1", "worker").Return("jwt-token", nil)

	tok, user, err := svc.Login(context.Background(), "ana", "segredo")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", tok)
	assert.Equal(t, "u1", user.ID)
	mockRepo.AssertExpectations(t)
	mockToken.AssertExpectations(t)
}

// TestLogin_Fail_Credentials não distingue usuário inexistente de senha errada.
func TestLogin_Fail_Credentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	stored := domain.User{ID: "u1", Username: "ana", PasswordHash: hashed(t, "segredo"), IsActive: true}
	mockRepo.On("FindByUsername", mock.Anything, "ana").Return(stored, nil)
	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, _, errWrong := svc.Login(context.Background(), "ana", "errada")
	_, _, errMissing := svc.Login(context.Background(), "ghost", "segredo")
	_, _, errEmpty := svc.Login(context.Background(), "", "")

	assert.IsType(t, &apperror.UnauthorizedError{}, errWrong)
	assert.IsType(t, &apperror.UnauthorizedError{}, errMissing)
	assert.IsType(t, &apperror.UnauthorizedError{}, errEmpty)
	assert.Equal(t, errWrong.Error(), errMissing.Error())
}

// TestLogin_Fail_Inactive bloqueia contas desativadas.
func TestLogin_Fail_Inactive(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	stored := domain.User{ID: "u1", Username: "ana", PasswordHash: hashed(t, "segredo"), IsActive: false}
	mockRepo.On("FindByUsername", mock.Anything, "ana").Return(stored, nil)

	_, _, err := svc.Login(context.Background(), "ana", "segredo")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

// TestLogin_Fail_Token devolve erro interno se o token não puder ser assinado.
func TestLogin_Fail_Token(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockToken, logger.Nop())

	stored := domain.User{ID: "u1", Username: "ana", PasswordHash: hashed(t, "segredo"), Role: domain.RoleUser, IsActive: true}
	mockRepo.On("FindByUsername", mock.Anything, "ana").Return(stored, nil)
	mockToken.On("GenerateToken", "u1", "user").Return("", errors.New("sem chave"))

	_, _, err := svc.Login(context.Background(), "ana", "segredo")

	assert.IsType(t, &apperror.InternalError{}, err)
}

// TestChangeRole_Success promove um usuário a worker.
func TestChangeRole_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())

	mockRepo.On("FindByID", mock.Anything, "u2").Return(domain.User{ID: "u2", Role: domain.RoleUser}, nil)
	mockRepo.On("UpdateRole", mock.Anything, "u2", domain.RoleWorker).Return(nil)

	user, err := svc.ChangeRole(context.Background(), "u2", "worker")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleWorker, user.Role)
	mockRepo.AssertExpectations(t)
}

// TestChangeRole_Fail cobre papel inválido, promoção a admin e alteração de admin.
func TestChangeRole_Fail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService), logger.Nop())
	ctx := context.Background()

	mockRepo.On("FindByID", mock.Anything, "root").Return(domain.User{ID: "root", Role: domain.RoleAdmin}, nil)
	mockRepo.On("FindByID", mock.Anything, "ghost").Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.ChangeRole(ctx, "u2", "superuser")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.ChangeRole(ctx, "u2", "admin")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.ChangeRole(ctx, "root", "user")
	assert.IsType(t, &apperror.InvalidStateError{}, err)

	_, err = svc.ChangeRole(ctx, "ghost", "worker")
	assert.IsType(t, &apperror.NotFoundError{}, err)

	mockRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}
