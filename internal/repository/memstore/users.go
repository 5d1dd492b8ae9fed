package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
)

// Users expõe o Store como domain.UserRepository. É um tipo à parte porque
// FindByID/FindAll colidem com os métodos do catálogo.
type Users struct {
	s *Store
}

// Users devolve a visão de usuários do Store.
func (s *Store) Users() *Users {
	return &Users{s: s}
}

// Save implementa domain.UserRepository.
func (u *Users) Save(_ context.Context, user domain.User) (domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.st.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.User{}, apperror.NewConflictError("Nome de usuário ou email já está em uso.")
		}
	}

	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u.s.st.users[user.ID] = user
	return user, nil
}

// FindByUsername implementa domain.UserRepository.
func (u *Users) FindByUsername(_ context.Context, username string) (domain.User, error) {
	var (
		found domain.User
		ok    bool
	)
	u.s.read(func(st *state) {
		for _, user := range st.users {
			if user.Username == username {
				found, ok = user, true
				return
			}
		}
	})
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário '%s' não encontrado", username))
	}
	return found, nil
}

// FindByID implementa domain.UserRepository.
func (u *Users) FindByID(_ context.Context, id string) (domain.User, error) {
	var (
		user domain.User
		ok   bool
	)
	u.s.read(func(st *state) { user, ok = st.users[id] })
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", id))
	}
	return user, nil
}

// FindAll implementa domain.UserRepository.
func (u *Users) FindAll(_ context.Context) ([]domain.User, error) {
	users := []domain.User{}
	u.s.read(func(st *state) {
		for _, user := range st.users {
			users = append(users, user)
		}
	})
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

// UpdateRole implementa domain.UserRepository.
func (u *Users) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.st.users[id]
	if !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", id))
	}
	user.Role = role
	u.s.st.users[id] = user
	return nil
}

// Count implementa domain.UserRepository.
func (u *Users) Count(_ context.Context) (int, error) {
	var n int
	u.s.read(func(st *state) { n = len(st.users) })
	return n, nil
}
