package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gobiblio/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "worker", "admin"} {
		role, ok := domain.ParseRole(s)
		assert.True(t, ok)
		assert.Equal(t, domain.UserRole(s), role)
	}
	for _, s := range []string{"", "Admin", "root", "visitor"} {
		_, ok := domain.ParseRole(s)
		assert.False(t, ok, s)
	}
}

func TestUserRole_Can(t *testing.T) {
	staffOnly := []domain.Capability{domain.CapManageCirculation, domain.CapProcessRegistrations, domain.CapEditCatalog}
	adminOnly := []domain.Capability{domain.CapCreateCatalog, domain.CapManageUsers}

	for _, c := range staffOnly {
		assert.False(t, domain.RoleUser.Can(c))
		assert.True(t, domain.RoleWorker.Can(c))
		assert.True(t, domain.RoleAdmin.Can(c))
	}
	for _, c := range adminOnly {
		assert.False(t, domain.RoleUser.Can(c))
		assert.False(t, domain.RoleWorker.Can(c))
		assert.True(t, domain.RoleAdmin.Can(c))
	}

	// Papel desconhecido não tem capacidade alguma
	assert.False(t, domain.UserRole("ghost").Can(domain.CapManageCirculation))
	assert.False(t, domain.RoleUser.IsStaff())
	assert.True(t, domain.RoleWorker.IsStaff())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, domain.TotalPages(0, 9))
	assert.Equal(t, 1, domain.TotalPages(9, 9))
	assert.Equal(t, 2, domain.TotalPages(10, 9))
	assert.Equal(t, 0, domain.TotalPages(10, 0))
}
