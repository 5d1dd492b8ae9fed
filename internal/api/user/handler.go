package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gobiblio/internal/api/response"
	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/logger"
)

// UserService define o contrato para as operações de registro, login e papéis.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, username string, password string) (string, domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ChangeRole(ctx context.Context, userID string, role string) (domain.User, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse devolve o token e o usuário autenticado.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ChangeRoleRequest é o payload de alteração de papel.
type ChangeRoleRequest struct {
	Role string `json:"role" example:"worker"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados. O primeiro usuário vira admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou usuário já existente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(r, &reg); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	// O hash da senha nunca sai na resposta (json:"-")
	newUser, err := h.Service.Register(r.Context(), reg)
	response.Handle(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /api/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe username/senha, verifica a validade e emite um JSON Web Token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := response.Decode(r, &loginReq); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	token, user, err := h.Service.Login(r.Context(), loginReq.Username, loginReq.Password)
	response.Handle(w, r, h.Logger, LoginResponse{Token: token, User: user}, err, http.StatusOK)
}

// ListUsersHandler lida com GET /api/users.
// @Summary Lista os usuários
// @Tags users
// @Produce json
// @Success 200 {array} domain.User
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	response.Handle(w, r, h.Logger, users, err, http.StatusOK)
}

// ChangeRoleHandler lida com POST /api/users/{id}/role.
// @Summary Altera o papel de um usuário
// @Description Apenas user e worker podem ser atribuídos. O papel de um admin não muda.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do usuário"
// @Param role body ChangeRoleRequest true "Novo papel"
// @Success 200 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse "Papel inválido"
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Security ApiKeyAuth
// @Router /users/{id}/role [post]
func (h *Handler) ChangeRoleHandler(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if err := response.Decode(r, &req); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	user, err := h.Service.ChangeRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	response.Handle(w, r, h.Logger, user, err, http.StatusOK)
}
