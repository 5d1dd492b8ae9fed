package memstore

import (
	"context"
	"time"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
)

// memTx implementa domain.Tx sobre a cópia de trabalho de uma transação.
// As mesmas restrições do esquema SQL (sobreposição de reservas, um empréstimo
// ativo por livro) são verificadas nos inserts.
type memTx struct {
	st *state
}

func (t *memTx) GetBookForUpdate(_ context.Context, bookID string) (domain.Book, error) {
	b, ok := t.st.books[bookID]
	if !ok {
		return domain.Book{}, apperror.NewNotFoundError("Book not found")
	}
	return b, nil
}

func (t *memTx) SetBookStatus(_ context.Context, bookID string, status domain.BookStatus) error {
	b, ok := t.st.books[bookID]
	if !ok {
		return apperror.NewNotFoundError("Book not found")
	}
	b.Status = status
	t.st.books[bookID] = b
	return nil
}

func (t *memTx) GetUserByID(_ context.Context, userID string) (domain.User, error) {
	u, ok := t.st.users[userID]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError("User not found")
	}
	return u, nil
}

func (t *memTx) GetReaderByUserID(_ context.Context, userID string) (domain.Reader, error) {
	for _, r := range t.st.readers {
		if userID != "" && r.UserID == userID {
			return r, nil
		}
	}
	return domain.Reader{}, apperror.NewNotFoundError("Reader not found")
}

func (t *memTx) GetReaderByID(_ context.Context, readerID string) (domain.Reader, error) {
	r, ok := t.st.readers[readerID]
	if !ok {
		return domain.Reader{}, apperror.NewNotFoundError("Reader not found")
	}
	return r, nil
}

func (t *memTx) InsertReader(_ context.Context, reader domain.Reader) error {
	for _, r := range t.st.readers {
		if (reader.UserID != "" && r.UserID == reader.UserID) || r.CardNumber == reader.CardNumber {
			return apperror.NewConflictError("Reader already exists")
		}
	}
	t.st.readers[reader.ID] = reader
	return nil
}

func (t *memTx) FindOverlappingReservation(_ context.Context, bookID string, window domain.DateRange) (domain.ReservationHolder, bool, error) {
	var (
		found  domain.Reservation
		exists bool
	)
	for _, r := range t.st.reservations {
		if r.BookID != bookID || r.Status == domain.ReservationCancelled || !r.Window.Overlaps(window) {
			continue
		}
		if !exists || r.Window.Start.Before(found.Window.Start) {
			found, exists = r, true
		}
	}
	if !exists {
		return domain.ReservationHolder{}, false, nil
	}
	return domain.ReservationHolder{
		ReservationID: found.ID,
		ReaderName:    t.st.readers[found.ReaderID].FullName(),
		Window:        found.Window,
	}, true, nil
}

func (t *memTx) InsertReservation(ctx context.Context, reservation domain.Reservation) error {
	if reservation.Status != domain.ReservationCancelled {
		if _, overlap, _ := t.FindOverlappingReservation(ctx, reservation.BookID, reservation.Window); overlap {
			return apperror.NewConflictError("Book is already reserved for the requested dates")
		}
	}
	t.st.reservations[reservation.ID] = reservation
	return nil
}

func (t *memTx) GetReservationForUpdate(_ context.Context, id string) (domain.Reservation, error) {
	r, ok := t.st.reservations[id]
	if !ok {
		return domain.Reservation{}, apperror.NewNotFoundError("Reservation not found")
	}
	return r, nil
}

func (t *memTx) SetReservationStatus(_ context.Context, id string, status domain.ReservationStatus) error {
	r, ok := t.st.reservations[id]
	if !ok {
		return apperror.NewNotFoundError("Reservation not found")
	}
	r.Status = status
	t.st.reservations[id] = r
	return nil
}

func (t *memTx) FindCheckoutReservation(_ context.Context, bookID, readerID string, today domain.Date) (domain.Reservation, bool, error) {
	var (
		found  domain.Reservation
		exists bool
	)
	for _, r := range t.st.reservations {
		if r.BookID != bookID || r.ReaderID != readerID || r.Status != domain.ReservationPending || !r.Window.Contains(today) {
			continue
		}
		if !exists || r.Window.Start.Before(found.Window.Start) {
			found, exists = r, true
		}
	}
	return found, exists, nil
}

func (t *memTx) InsertLoan(_ context.Context, loan domain.Loan) error {
	for _, l := range t.st.loans {
		if l.Status == domain.LoanBorrowed && l.BookID == loan.BookID {
			return apperror.NewConflictError("Book already has an active loan")
		}
		if l.ReservationID == loan.ReservationID {
			return apperror.NewConflictError("Reservation already consumed by a loan")
		}
	}
	t.st.loans[loan.ID] = loan
	return nil
}

func (t *memTx) GetLoanForUpdate(_ context.Context, id string) (domain.Loan, error) {
	l, ok := t.st.loans[id]
	if !ok {
		return domain.Loan{}, apperror.NewNotFoundError("Loan not found")
	}
	return l, nil
}

func (t *memTx) MarkLoanReturned(_ context.Context, id string, returnedAt time.Time) error {
	l, ok := t.st.loans[id]
	if !ok {
		return apperror.NewNotFoundError("Loan not found")
	}
	l.Status = domain.LoanReturned
	l.ReturnDate = &returnedAt
	t.st.loans[id] = l
	return nil
}

func (t *memTx) HasPendingRegistration(_ context.Context, userID string, since time.Time) (bool, error) {
	for _, req := range t.st.registrations {
		if req.UserID == userID && req.Status == domain.RegistrationPending && req.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertRegistration(_ context.Context, req domain.RegistrationRequest) error {
	t.st.registrations[req.ID] = req
	return nil
}

func (t *memTx) GetRegistrationForUpdate(_ context.Context, id string) (domain.RegistrationRequest, error) {
	req, ok := t.st.registrations[id]
	if !ok {
		return domain.RegistrationRequest{}, apperror.NewNotFoundError("Registration request not found")
	}
	return req, nil
}

func (t *memTx) UpdateRegistration(_ context.Context, req domain.RegistrationRequest) error {
	if _, ok := t.st.registrations[req.ID]; !ok {
		return apperror.NewNotFoundError("Registration request not found")
	}
	t.st.registrations[req.ID] = req
	return nil
}
