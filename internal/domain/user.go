package domain

import (
	"context"
	"time"
)

// User representa a conta de acesso ao sistema (identidade autenticada).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole é o papel do usuário. É um conjunto fechado: user, worker, admin.
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleWorker UserRole = "worker"
	RoleAdmin  UserRole = "admin"
)

// ParseRole converte uma string no papel correspondente.
// Retorna false para qualquer valor fora do conjunto fechado.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleUser, RoleWorker, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

// Capability é uma permissão verificada pelo middleware de autorização.
type Capability int

const (
	// CapManageCirculation: empréstimos, devoluções, cancelamento e listagem de reservas.
	CapManageCirculation Capability = iota
	// CapProcessRegistrations: aprovar/rejeitar pedidos de leitor e listar leitores.
	CapProcessRegistrations
	// CapEditCatalog: alterar dados bibliográficos de livros existentes.
	CapEditCatalog
	// CapCreateCatalog: cadastrar novos livros.
	CapCreateCatalog
	// CapManageUsers: listar usuários e alterar papéis.
	CapManageUsers
)

var roleCapabilities = map[UserRole]map[Capability]bool{
	RoleUser: {},
	RoleWorker: {
		CapManageCirculation:    true,
		CapProcessRegistrations: true,
		CapEditCatalog:          true,
	},
	RoleAdmin: {
		CapManageCirculation:    true,
		CapProcessRegistrations: true,
		CapEditCatalog:          true,
		CapCreateCatalog:        true,
		CapManageUsers:          true,
	},
}

// Can informa se o papel possui a capacidade informada.
func (r UserRole) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// IsStaff informa se o papel pertence à equipe da biblioteca (worker ou admin).
func (r UserRole) IsStaff() bool {
	return r == RoleWorker || r == RoleAdmin
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role UserRole) error
	Count(ctx context.Context) (int, error)
}
