package circulationrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

// pgTx implementa domain.Tx sobre um *sql.Tx.
type pgTx struct {
	tx      *sql.Tx
	logger  logger.Logger
	touched map[string]struct{} // livros com status alterado nesta transação
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// notFoundOr devolve NotFoundError para linha inexistente ou ID malformado;
// qualquer outro erro vira um erro de DB (com a causa preservada).
func (t *pgTx) notFoundOr(err error, notFoundMsg, dbMsg string) error {
	if database.IsMissingRow(err) {
		return apperror.NewNotFoundError(notFoundMsg)
	}
	t.logger.Error(dbMsg, err)
	return apperror.NewDBError(dbMsg, err)
}

func (t *pgTx) exec(ctx context.Context, dbMsg, query string, args ...interface{}) error {
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		t.logger.Error(dbMsg, err)
		return apperror.NewDBError(dbMsg, err)
	}
	return nil
}

// --- Catálogo ---

func (t *pgTx) GetBookForUpdate(ctx context.Context, bookID string) (domain.Book, error) {
	var b domain.Book
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, title, isbn, COALESCE(publication_year, 0), genre, description, status,
		       author_id, COALESCE(publisher_id::text, '')
		FROM books
		WHERE id = $1
		FOR UPDATE`, bookID,
	).Scan(&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.Genre, &b.Description, &b.Status, &b.AuthorID, &b.PublisherID)
	if err != nil {
		return domain.Book{}, t.notFoundOr(err, "Book not found", "Falha ao bloquear livro")
	}
	return b, nil
}

func (t *pgTx) SetBookStatus(ctx context.Context, bookID string, status domain.BookStatus) error {
	if err := t.exec(ctx, "Falha ao atualizar status do livro",
		`UPDATE books SET status = $1 WHERE id = $2`, status, bookID); err != nil {
		return err
	}
	t.touched[bookID] = struct{}{}
	return nil
}

// --- Leitores ---

func (t *pgTx) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, is_active, created_at FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return domain.User{}, t.notFoundOr(err, "User not found", "Falha ao buscar usuário")
	}
	return u, nil
}

const readerColumns = `id, COALESCE(user_id::text, ''), first_name, last_name, address, email, phone_number, card_number, registration_date`

func scanReader(row rowScanner) (domain.Reader, error) {
	var r domain.Reader
	err := row.Scan(&r.ID, &r.UserID, &r.FirstName, &r.LastName, &r.Address, &r.Email, &r.PhoneNumber, &r.CardNumber, &r.RegistrationDate)
	return r, err
}

func (t *pgTx) GetReaderByUserID(ctx context.Context, userID string) (domain.Reader, error) {
	r, err := scanReader(t.tx.QueryRowContext(ctx, `SELECT `+readerColumns+` FROM readers WHERE user_id = $1`, userID))
	if err != nil {
		return domain.Reader{}, t.notFoundOr(err, "Reader not found", "Falha ao buscar leitor por usuário")
	}
	return r, nil
}

func (t *pgTx) GetReaderByID(ctx context.Context, readerID string) (domain.Reader, error) {
	r, err := scanReader(t.tx.QueryRowContext(ctx, `SELECT `+readerColumns+` FROM readers WHERE id = $1`, readerID))
	if err != nil {
		return domain.Reader{}, t.notFoundOr(err, "Reader not found", "Falha ao buscar leitor")
	}
	return r, nil
}

func (t *pgTx) InsertReader(ctx context.Context, reader domain.Reader) error {
	var userID sql.NullString
	if reader.UserID != "" {
		userID = sql.NullString{String: reader.UserID, Valid: true}
	}
	return t.exec(ctx, "Falha ao inserir leitor", `
		INSERT INTO readers (`+readerColumnsInsert+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reader.ID, userID, reader.FirstName, reader.LastName, reader.Address, reader.Email,
		reader.PhoneNumber, reader.CardNumber, reader.RegistrationDate,
	)
}

const readerColumnsInsert = `id, user_id, first_name, last_name, address, email, phone_number, card_number, registration_date`

// --- Reservas ---

const reservationColumns = `id, book_id, reader_id, start_date, end_date, status, created_at`

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var (
		r          domain.Reservation
		start, end time.Time
	)
	err := row.Scan(&r.ID, &r.BookID, &r.ReaderID, &start, &end, &r.Status, &r.CreatedAt)
	r.Window = domain.DateRange{Start: domain.DateOf(start), End: domain.DateOf(end)}
	return r, err
}

func (t *pgTx) FindOverlappingReservation(ctx context.Context, bookID string, window domain.DateRange) (domain.ReservationHolder, bool, error) {
	var (
		h          domain.ReservationHolder
		start, end time.Time
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT r.id, rd.first_name || ' ' || rd.last_name, r.start_date, r.end_date
		FROM reservations r
		JOIN readers rd ON rd.id = r.reader_id
		WHERE r.book_id = $1
		  AND r.status <> 'cancelled'
		  AND r.start_date <= $3
		  AND r.end_date >= $2
		ORDER BY r.start_date
		LIMIT 1`,
		bookID, window.Start.Time, window.End.Time,
	).Scan(&h.ReservationID, &h.ReaderName, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReservationHolder{}, false, nil
	}
	if err != nil {
		t.logger.Error("Falha ao verificar sobreposição de reservas.", err)
		return domain.ReservationHolder{}, false, apperror.NewDBError("Falha ao verificar sobreposição", err)
	}
	h.Window = domain.DateRange{Start: domain.DateOf(start), End: domain.DateOf(end)}
	return h, true, nil
}

func (t *pgTx) InsertReservation(ctx context.Context, r domain.Reservation) error {
	return t.exec(ctx, "Falha ao inserir reserva", `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.BookID, r.ReaderID, r.Window.Start.Time, r.Window.End.Time, r.Status, r.CreatedAt,
	)
}

func (t *pgTx) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	r, err := scanReservation(t.tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return domain.Reservation{}, t.notFoundOr(err, "Reservation not found", "Falha ao bloquear reserva")
	}
	return r, nil
}

func (t *pgTx) SetReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) error {
	return t.exec(ctx, "Falha ao atualizar status da reserva",
		`UPDATE reservations SET status = $1 WHERE id = $2`, status, id)
}

func (t *pgTx) FindCheckoutReservation(ctx context.Context, bookID, readerID string, today domain.Date) (domain.Reservation, bool, error) {
	r, err := scanReservation(t.tx.QueryRowContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE book_id = $1
		  AND reader_id = $2
		  AND status = 'pending'
		  AND start_date <= $3
		  AND end_date >= $3
		ORDER BY start_date
		LIMIT 1
		FOR UPDATE`,
		bookID, readerID, today.Time,
	))
	if database.IsMissingRow(err) {
		return domain.Reservation{}, false, nil
	}
	if err != nil {
		t.logger.Error("Falha ao buscar reserva para empréstimo.", err)
		return domain.Reservation{}, false, apperror.NewDBError("Falha ao buscar reserva", err)
	}
	return r, true, nil
}

// --- Empréstimos ---

func (t *pgTx) InsertLoan(ctx context.Context, l domain.Loan) error {
	return t.exec(ctx, "Falha ao inserir empréstimo", `
		INSERT INTO loans (id, book_id, reader_id, reservation_id, loan_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.BookID, l.ReaderID, l.ReservationID, l.LoanDate, l.Status,
	)
}

func (t *pgTx) GetLoanForUpdate(ctx context.Context, id string) (domain.Loan, error) {
	var (
		l          domain.Loan
		returnedAt sql.NullTime
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, book_id, reader_id, reservation_id, loan_date, return_date, status
		FROM loans
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&l.ID, &l.BookID, &l.ReaderID, &l.ReservationID, &l.LoanDate, &returnedAt, &l.Status)
	if err != nil {
		return domain.Loan{}, t.notFoundOr(err, "Loan not found", "Falha ao bloquear empréstimo")
	}
	if returnedAt.Valid {
		l.ReturnDate = &returnedAt.Time
	}
	return l, nil
}

func (t *pgTx) MarkLoanReturned(ctx context.Context, id string, returnedAt time.Time) error {
	return t.exec(ctx, "Falha ao registrar devolução",
		`UPDATE loans SET status = $1, return_date = $2 WHERE id = $3`, domain.LoanReturned, returnedAt, id)
}

// --- Pedidos de cadastro ---

func (t *pgTx) HasPendingRegistration(ctx context.Context, userID string, since time.Time) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reader_registration_requests
			WHERE user_id = $1 AND status = 'pending' AND created_at > $2
		)`, userID, since,
	).Scan(&exists)
	if err != nil {
		t.logger.Error("Falha ao verificar pedido pendente.", err)
		return false, apperror.NewDBError("Falha ao verificar pedido pendente", err)
	}
	return exists, nil
}

func (t *pgTx) InsertRegistration(ctx context.Context, req domain.RegistrationRequest) error {
	return t.exec(ctx, "Falha ao inserir pedido de cadastro", `
		INSERT INTO reader_registration_requests (id, user_id, first_name, last_name, address, phone_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.UserID, req.Profile.FirstName, req.Profile.LastName, req.Profile.Address,
		req.Profile.PhoneNumber, req.Status, req.CreatedAt,
	)
}

const registrationColumns = `id, user_id, first_name, last_name, address, phone_number, status, created_at,
	COALESCE(processed_by::text, ''), processed_at, COALESCE(rejection_reason, '')`

func scanRegistration(row rowScanner, extra ...interface{}) (domain.RegistrationRequest, error) {
	var (
		req         domain.RegistrationRequest
		processedAt sql.NullTime
	)
	dest := []interface{}{
		&req.ID, &req.UserID, &req.Profile.FirstName, &req.Profile.LastName, &req.Profile.Address,
		&req.Profile.PhoneNumber, &req.Status, &req.CreatedAt, &req.ProcessedBy, &processedAt, &req.RejectionReason,
	}
	err := row.Scan(append(dest, extra...)...)
	if processedAt.Valid {
		req.ProcessedAt = &processedAt.Time
	}
	return req, err
}

func (t *pgTx) GetRegistrationForUpdate(ctx context.Context, id string) (domain.RegistrationRequest, error) {
	req, err := scanRegistration(t.tx.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM reader_registration_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return domain.RegistrationRequest{}, t.notFoundOr(err, "Registration request not found", "Falha ao bloquear pedido de cadastro")
	}
	return req, nil
}

func (t *pgTx) UpdateRegistration(ctx context.Context, req domain.RegistrationRequest) error {
	var (
		processedBy sql.NullString
		reason      sql.NullString
	)
	if req.ProcessedBy != "" {
		processedBy = sql.NullString{String: req.ProcessedBy, Valid: true}
	}
	if req.RejectionReason != "" {
		reason = sql.NullString{String: req.RejectionReason, Valid: true}
	}
	return t.exec(ctx, "Falha ao atualizar pedido de cadastro", `
		UPDATE reader_registration_requests
		SET status = $1, processed_by = $2, processed_at = $3, rejection_reason = $4
		WHERE id = $5`,
		req.Status, processedBy, req.ProcessedAt, reason, req.ID,
	)
}
