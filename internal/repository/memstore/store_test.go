package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/repository/memstore"
)

func newBook(t *testing.T, s *memstore.Store, title, isbn string) domain.Book {
	t.Helper()
	b, err := s.Create(context.Background(),
		domain.Book{Title: title, ISBN: isbn, Genre: "Romance"},
		domain.Author{FirstName: "Jorge", LastName: "Amado"},
		domain.Publisher{Name: "Companhia das Letras"},
	)
	require.NoError(t, err)
	return b
}

func window(from, to int) domain.DateRange {
	return domain.DateRange{Start: domain.NewDate(2024, time.June, from), End: domain.NewDate(2024, time.June, to)}
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	b := newBook(t, s, "Capitães da Areia", "9788535914061")
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx domain.Tx) error {
		require.NoError(t, tx.SetBookStatus(ctx, b.ID, domain.BookBorrowed))
		require.NoError(t, tx.InsertReservation(ctx, domain.Reservation{ID: "r1", BookID: b.ID, Window: window(1, 2), Status: domain.ReservationPending}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	stored, _ := s.Book(b.ID)
	assert.Equal(t, domain.BookAvailable, stored.Status)
	_, ok := s.Reservation("r1")
	assert.False(t, ok)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(domain.Tx) error { called = true; return nil })

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInsertReservation_EnforcesNoOverlap(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	b := newBook(t, s, "Gabriela", "9788535911459")

	insert := func(id string, w domain.DateRange, status domain.ReservationStatus) error {
		return s.WithinTx(ctx, func(tx domain.Tx) error {
			return tx.InsertReservation(ctx, domain.Reservation{ID: id, BookID: b.ID, Window: w, Status: status})
		})
	}

	require.NoError(t, insert("a", window(1, 5), domain.ReservationPending))
	assert.IsType(t, &apperror.ConflictError{}, insert("b", window(5, 6), domain.ReservationPending))
	assert.NoError(t, insert("c", window(6, 8), domain.ReservationPending))
	assert.NoError(t, insert("d", window(2, 3), domain.ReservationCancelled))
}

func TestInsertLoan_OneActivePerBook(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	b := newBook(t, s, "Tieta", "9788535912135")

	insert := func(id, reservationID string) error {
		return s.WithinTx(ctx, func(tx domain.Tx) error {
			return tx.InsertLoan(ctx, domain.Loan{ID: id, BookID: b.ID, ReservationID: reservationID, Status: domain.LoanBorrowed})
		})
	}

	require.NoError(t, insert("l1", "r1"))
	assert.Error(t, insert("l2", "r2"))
	assert.Len(t, s.Loans(), 1)
}

func TestCatalog_CreateFindUpdate(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	b := newBook(t, s, "Dona Flor e Seus Dois Maridos", "9788535911664")

	_, err := s.Create(ctx, domain.Book{Title: "Outro", ISBN: "9788535911664"}, domain.Author{FirstName: "X", LastName: "Y"}, domain.Publisher{})
	assert.IsType(t, &apperror.ConflictError{}, err)

	found, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jorge Amado", found.AuthorName)
	assert.Equal(t, "Companhia das Letras", found.PublisherName)

	// Update preserva o status de disponibilidade
	require.NoError(t, s.WithinTx(ctx, func(tx domain.Tx) error { return tx.SetBookStatus(ctx, b.ID, domain.BookBorrowed) }))
	found.Title = "Dona Flor"
	found.Status = domain.BookAvailable
	updated, err := s.Update(ctx, found, domain.Author{FirstName: "Jorge", LastName: "Amado"}, domain.Publisher{Name: "Record"})
	require.NoError(t, err)
	assert.Equal(t, "Dona Flor", updated.Title)
	assert.Equal(t, domain.BookBorrowed, updated.Status)
	assert.Equal(t, "Record", updated.PublisherName)

	_, err = s.FindByID(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalog_FindAll(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	for i, title := range []string{"Mar Morto", "Jubiabá", "Terras do Sem Fim"} {
		newBook(t, s, title, "978853591100"+string(rune('0'+i)))
	}

	page, err := s.FindAll(ctx, domain.BookFilter{Page: 1, Limit: 2, Title: "mar"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Mar Morto", page.Books[0].Title)

	page, err = s.FindAll(ctx, domain.BookFilter{Page: 2, Limit: 2, Author: "amado"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Books, 1)
	assert.Equal(t, []string{"Romance"}, page.Genres)
}

func TestUsers(t *testing.T) {
	s := memstore.New(logger.Nop())
	ctx := context.Background()
	users := s.Users()

	u, err := users.Save(ctx, domain.User{Username: "ana", Email: "ana@lib.test", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = users.Save(ctx, domain.User{Username: "ana", Email: "outra@lib.test"})
	assert.IsType(t, &apperror.ConflictError{}, err)

	require.NoError(t, users.UpdateRole(ctx, u.ID, domain.RoleWorker))
	found, err := users.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWorker, found.Role)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.True(t, apperror.IsNotFound(users.UpdateRole(ctx, "missing", domain.RoleWorker)))
}
