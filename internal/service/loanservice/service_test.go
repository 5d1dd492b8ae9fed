package loanservice_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/repository/memstore"
	"gobiblio/internal/service/loanservice"
	"gobiblio/internal/service/reservationservice"
)

func june(day int) domain.Date {
	return domain.NewDate(2024, time.June, day)
}

type fixture struct {
	store        *memstore.Store
	clock        *clock.Fixed
	loans        *loanservice.Service
	reservations *reservationservice.Service
	book         domain.Book
	userID       string
	readerID     string
}

// newFixture monta o cenário: livro B1, leitor R1 e "hoje" em 1º de maio.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New(logger.Nop())
	clk := clock.At(domain.NewDate(2024, time.May, 1))

	book, err := store.Create(ctx,
		domain.Book{Title: "Dom Casmurro", ISBN: "9788535910667"},
		domain.Author{FirstName: "Machado", LastName: "de Assis"},
		domain.Publisher{},
	)
	require.NoError(t, err)

	user, err := store.Users().Save(ctx, domain.User{Username: "r1", Email: "r1@lib.test"})
	require.NoError(t, err)
	reader := domain.Reader{ID: "reader-r1", UserID: user.ID, FirstName: "Ana", LastName: "Silva", CardNumber: "c1"}
	require.NoError(t, store.WithinTx(ctx, func(tx domain.Tx) error { return tx.InsertReader(ctx, reader) }))

	return &fixture{
		store:        store,
		clock:        clk,
		loans:        loanservice.NewService(store, store, logger.Nop(), loanservice.WithClock(clk)),
		reservations: reservationservice.NewService(store, store, logger.Nop(), reservationservice.WithClock(clk)),
		book:         book,
		userID:       user.ID,
		readerID:     reader.ID,
	}
}

// reserve cria a reserva de R1 e avança o relógio para o dia informado.
func (f *fixture) reserve(t *testing.T, start, end, now domain.Date) domain.Reservation {
	t.Helper()
	res, err := f.reservations.CreateReservation(context.Background(), f.book.ID, f.userID, domain.DateRange{Start: start, End: end})
	require.NoError(t, err)
	f.clock.Set(now.Add(10 * time.Hour))
	return res
}

// assertLockstep verifica que o livro está emprestado se e somente se existe
// exatamente um empréstimo ativo para ele.
func assertLockstep(t *testing.T, store *memstore.Store, bookID string) {
	t.Helper()
	active := 0
	for _, l := range store.Loans() {
		if l.BookID == bookID && l.Status == domain.LoanBorrowed {
			active++
		}
	}
	book, ok := store.Book(bookID)
	require.True(t, ok)
	if book.Status == domain.BookBorrowed {
		assert.Equal(t, 1, active)
	} else {
		assert.Equal(t, 0, active)
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t)
	res := f.reserve(t, june(1), june(5), june(3))

	loan, err := f.loans.Checkout(context.Background(), f.book.ID, f.readerID)

	require.NoError(t, err)
	assert.Equal(t, domain.LoanBorrowed, loan.Status)
	assert.Equal(t, res.ID, loan.ReservationID)

	book, _ := f.store.Book(f.book.ID)
	assert.Equal(t, domain.BookBorrowed, book.Status)
	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.ReservationCompleted, stored.Status)
	assertLockstep(t, f.store, f.book.ID)
}

func TestCheckout_Fail_SecondCheckout(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(3))
	ctx := context.Background()

	_, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)

	_, err = f.loans.Checkout(ctx, f.book.ID, f.readerID)

	require.Error(t, err)
	assert.IsType(t, &apperror.InvalidRequestError{}, err)
	assert.Len(t, f.store.Loans(), 1)
	assertLockstep(t, f.store, f.book.ID)
}

func TestCheckout_Fail_OutsideWindow(t *testing.T) {
	for _, now := range []domain.Date{domain.NewDate(2024, time.May, 31), june(6)} {
		t.Run(now.String(), func(t *testing.T) {
			f := newFixture(t)
			res := f.reserve(t, june(1), june(5), now)

			_, err := f.loans.Checkout(context.Background(), f.book.ID, f.readerID)

			require.Error(t, err)
			assert.IsType(t, &apperror.InvalidRequestError{}, err)
			assert.Equal(t, "Invalid loan request", err.Error())

			// Nenhum efeito parcial
			stored, _ := f.store.Reservation(res.ID)
			assert.Equal(t, domain.ReservationPending, stored.Status)
			book, _ := f.store.Book(f.book.ID)
			assert.Equal(t, domain.BookAvailable, book.Status)
			assert.Empty(t, f.store.Loans())
		})
	}
}

func TestCheckout_WindowBoundsAreInclusive(t *testing.T) {
	for _, now := range []domain.Date{june(1), june(5)} {
		t.Run(now.String(), func(t *testing.T) {
			f := newFixture(t)
			f.reserve(t, june(1), june(5), now)

			_, err := f.loans.Checkout(context.Background(), f.book.ID, f.readerID)

			assert.NoError(t, err)
		})
	}
}

func TestCheckout_Fail_WrongReaderOrBook(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(2))
	ctx := context.Background()

	_, err := f.loans.Checkout(ctx, f.book.ID, "someone-else")
	assert.IsType(t, &apperror.InvalidRequestError{}, err)

	_, err = f.loans.Checkout(ctx, "missing-book", f.readerID)
	assert.IsType(t, &apperror.InvalidRequestError{}, err)

	_, err = f.loans.Checkout(ctx, "", "")
	assert.IsType(t, &apperror.InvalidRequestError{}, err)
}

func TestCheckout_Fail_BookNotAvailable(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(2))
	ctx := context.Background()
	require.NoError(t, f.store.WithinTx(ctx, func(tx domain.Tx) error {
		return tx.SetBookStatus(ctx, f.book.ID, domain.BookBorrowed)
	}))

	_, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)

	assert.IsType(t, &apperror.InvalidRequestError{}, err)
	assert.Empty(t, f.store.Loans())
}

func TestCheckout_Fail_CancelledReservation(t *testing.T) {
	f := newFixture(t)
	res := f.reserve(t, june(1), june(5), june(2))
	ctx := context.Background()
	require.NoError(t, f.reservations.CancelReservation(ctx, res.ID))

	_, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)

	assert.IsType(t, &apperror.InvalidRequestError{}, err)
}

func TestCheckout_Concurrent_ExactlyOneLoan(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(3))
	const attempts = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.loans.Checkout(context.Background(), f.book.ID, f.readerID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if _, ok := err.(*apperror.InvalidRequestError); ok {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, rejected)
	assert.Len(t, f.store.Loans(), 1)
	assertLockstep(t, f.store, f.book.ID)
}

func TestReturnBook_Success(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(3))
	ctx := context.Background()
	loan, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)

	returned, err := f.loans.ReturnBook(ctx, loan.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, f.clock.Now(), *returned.ReturnDate)

	stored, _ := f.store.Loan(loan.ID)
	assert.Equal(t, domain.LoanReturned, stored.Status)
	assert.NotNil(t, stored.ReturnDate)
	book, _ := f.store.Book(f.book.ID)
	assert.Equal(t, domain.BookAvailable, book.Status)
	assertLockstep(t, f.store, f.book.ID)
}

func TestReturnBook_Fail(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, june(1), june(5), june(3))
	ctx := context.Background()
	loan, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)
	_, err = f.loans.ReturnBook(ctx, loan.ID)
	require.NoError(t, err)

	t.Run("already returned", func(t *testing.T) {
		_, err := f.loans.ReturnBook(ctx, loan.ID)
		assert.IsType(t, &apperror.InvalidRequestError{}, err)
		assert.Equal(t, "Invalid return request", err.Error())
	})

	t.Run("missing loan", func(t *testing.T) {
		_, err := f.loans.ReturnBook(ctx, "missing")
		assert.IsType(t, &apperror.InvalidRequestError{}, err)
	})
}

func TestFullCycle_BookCanBeLentAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.reserve(t, june(1), june(5), june(2))
	first, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)
	_, err = f.loans.ReturnBook(ctx, first.ID)
	require.NoError(t, err)

	// Nova reserva (janela futura em relação a "hoje") e novo empréstimo
	f.clock.Set(june(6).Time)
	f.reserve(t, june(10), june(12), june(11))
	second, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ReservationID, second.ReservationID)
	assertLockstep(t, f.store, f.book.ID)
}

func TestListLoans_DueDateFromOwnReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Primeiro ciclo: reserva até 5/6, devolvido
	f.reserve(t, june(1), june(5), june(2))
	first, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)
	_, err = f.loans.ReturnBook(ctx, first.ID)
	require.NoError(t, err)

	// Segundo ciclo: reserva até 12/6, ainda ativo e atrasado em 15/6
	f.clock.Set(june(6).Time)
	f.reserve(t, june(10), june(12), june(10))
	second, err := f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)
	f.clock.Set(june(15).Add(9 * time.Hour))

	page, err := f.loans.ListLoans(ctx, "", 1)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	byID := map[string]domain.LoanView{}
	for _, v := range page.Loans {
		byID[v.ID] = v
	}
	assert.Equal(t, june(5), byID[first.ID].DueDate)
	assert.False(t, byID[first.ID].IsOverdue)
	assert.Equal(t, june(12), byID[second.ID].DueDate)
	assert.True(t, byID[second.ID].IsOverdue)
	assert.Equal(t, 3, byID[second.ID].DaysOverdue)

	overdue, err := f.loans.ListLoans(ctx, "overdue", 1)
	require.NoError(t, err)
	require.Len(t, overdue.Loans, 1)
	assert.Equal(t, second.ID, overdue.Loans[0].ID)

	mine, err := f.loans.ListReaderLoans(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.loans.ListLoans(ctx, "lost", 1)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestCheckoutCandidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.reserve(t, june(1), june(5), june(3))

	candidates, err := f.loans.CheckoutCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, res.ID, candidates[0].ID)
	assert.Equal(t, "Ana Silva", candidates[0].ReaderName)

	_, err = f.loans.Checkout(ctx, f.book.ID, f.readerID)
	require.NoError(t, err)

	candidates, err = f.loans.CheckoutCandidates(ctx)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
