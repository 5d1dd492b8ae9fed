package circulationrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registra o dialeto

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
)

const dialectPostgres = "postgres"

func readerName(alias string) goqu.Expression {
	return goqu.L(alias + ".first_name || ' ' || " + alias + ".last_name")
}

func reservationSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T("reservations").As("r")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("r.book_id")))).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Join(goqu.T("readers").As("rd"), goqu.On(goqu.I("rd.id").Eq(goqu.I("r.reader_id")))).
		Select(
			goqu.I("r.id"),
			goqu.I("r.book_id"),
			goqu.I("b.title"),
			readerName("a"),
			goqu.I("r.reader_id"),
			readerName("rd"),
			goqu.I("r.start_date"),
			goqu.I("r.end_date"),
			goqu.I("r.status"),
			goqu.I("b.status"),
			goqu.I("r.created_at"),
		)
}

func scanReservationView(row rowScanner, extra ...interface{}) (domain.ReservationView, error) {
	var (
		v          domain.ReservationView
		start, end time.Time
	)
	dest := []interface{}{
		&v.ID, &v.BookID, &v.BookTitle, &v.Author, &v.ReaderID, &v.ReaderName,
		&start, &end, &v.Status, &v.BookStatus, &v.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	v.StartDate, v.EndDate = domain.DateOf(start), domain.DateOf(end)
	return v, err
}

func paginate(ds *goqu.SelectDataset, page, limit int) *goqu.SelectDataset {
	if limit <= 0 {
		return ds
	}
	if page < 1 {
		page = 1
	}
	return ds.Limit(uint(limit)).Offset(uint((page - 1) * limit))
}

// ListReservations lista reservas com livro, autor e leitor.
func (s *Store) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationView, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	ds := reservationSelect().SelectAppend(goqu.L("COUNT(*) OVER()"))

	var where []goqu.Expression
	if filter.Status != "" {
		where = append(where, goqu.I("r.status").Eq(filter.Status))
	}
	if filter.ExcludeCancelled {
		where = append(where, goqu.I("r.status").Neq(domain.ReservationCancelled))
	}
	if filter.BookID != "" {
		where = append(where, goqu.L("r.book_id::text = ?", filter.BookID))
	}
	if filter.ReaderUserID != "" {
		where = append(where, goqu.L("rd.user_id::text = ?", filter.ReaderUserID))
	}
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	// A agenda de um livro é cronológica; as demais listagens mostram as mais recentes primeiro.
	if filter.BookID != "" {
		ds = ds.Order(goqu.I("r.start_date").Asc())
	} else {
		ds = ds.Order(goqu.I("r.created_at").Desc())
	}
	ds = paginate(ds, filter.Page, filter.Limit)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, apperror.NewInternalError("Falha ao montar consulta de reservas", err)
	}

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error("Falha ao listar reservas.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar reservas", err)
	}
	defer rows.Close()

	views := []domain.ReservationView{}
	total := 0
	for rows.Next() {
		v, err := scanReservationView(rows, &total)
		if err != nil {
			s.logger.Error("Falha ao mapear linha de reserva.", err)
			return nil, 0, apperror.NewDBError("Falha ao ler reservas", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("Falha ao iterar reservas", err)
	}

	s.logger.Debug("Reservas listadas.", map[string]interface{}{"count": len(views), "total": total})
	return views, total, nil
}

// ListCheckoutCandidates lista reservas pendentes cuja janela contém o dia de
// hoje e cujo livro está disponível: a fila "pronto para emprestar".
func (s *Store) ListCheckoutCandidates(ctx context.Context, today domain.Date) ([]domain.ReservationView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	query, args, err := reservationSelect().
		Where(
			goqu.I("r.status").Eq(domain.ReservationPending),
			goqu.I("r.start_date").Lte(today.Time),
			goqu.I("r.end_date").Gte(today.Time),
			goqu.I("b.status").Eq(domain.BookAvailable),
		).
		Order(goqu.I("r.start_date").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar consulta de candidatos", err)
	}

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error("Falha ao listar candidatos a empréstimo.", err)
		return nil, apperror.NewDBError("Falha ao listar candidatos a empréstimo", err)
	}
	defer rows.Close()

	views := []domain.ReservationView{}
	for rows.Next() {
		v, err := scanReservationView(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler candidatos a empréstimo", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListLoans lista empréstimos. O prazo vem da reserva que originou cada empréstimo.
func (s *Store) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.LoanView, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Join(goqu.T("readers").As("rd"), goqu.On(goqu.I("rd.id").Eq(goqu.I("l.reader_id")))).
		Join(goqu.T("reservations").As("res"), goqu.On(goqu.I("res.id").Eq(goqu.I("l.reservation_id")))).
		Select(
			goqu.I("l.id"),
			goqu.I("l.book_id"),
			goqu.I("b.title"),
			readerName("a"),
			goqu.I("l.reader_id"),
			readerName("rd"),
			goqu.I("l.loan_date"),
			goqu.I("l.return_date"),
			goqu.I("l.status"),
			goqu.I("res.end_date"),
			goqu.L("COUNT(*) OVER()"),
		)

	var where []goqu.Expression
	if filter.Status != "" {
		where = append(where, goqu.I("l.status").Eq(filter.Status))
	}
	if filter.ReaderUserID != "" {
		where = append(where, goqu.L("rd.user_id::text = ?", filter.ReaderUserID))
	}
	if filter.OverdueOnly {
		where = append(where,
			goqu.I("l.status").Eq(domain.LoanBorrowed),
			goqu.I("res.end_date").Lt(filter.Today.Time),
		)
	}
	if len(where) > 0 {
		ds = ds.Where(where...)
	}
	ds = paginate(ds.Order(goqu.I("l.loan_date").Desc()), filter.Page, filter.Limit)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, apperror.NewInternalError("Falha ao montar consulta de empréstimos", err)
	}

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error("Falha ao listar empréstimos.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar empréstimos", err)
	}
	defer rows.Close()

	views := []domain.LoanView{}
	total := 0
	for rows.Next() {
		var (
			v          domain.LoanView
			returnedAt sql.NullTime
			due        time.Time
		)
		if err := rows.Scan(&v.ID, &v.BookID, &v.BookTitle, &v.Author, &v.ReaderID, &v.ReaderName,
			&v.LoanDate, &returnedAt, &v.Status, &due, &total); err != nil {
			s.logger.Error("Falha ao mapear linha de empréstimo.", err)
			return nil, 0, apperror.NewDBError("Falha ao ler empréstimos", err)
		}
		if returnedAt.Valid {
			v.ReturnDate = &returnedAt.Time
		}
		v.DueDate = domain.DateOf(due)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("Falha ao iterar empréstimos", err)
	}

	return views, total, nil
}

// ListRegistrations lista pedidos de cadastro com os dados do usuário solicitante.
func (s *Store) ListRegistrations(ctx context.Context, filter domain.RegistrationFilter) ([]domain.RegistrationRequest, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T("reader_registration_requests").As("q")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("q.user_id")))).
		Select(
			goqu.I("q.id"),
			goqu.I("q.user_id"),
			goqu.I("q.first_name"),
			goqu.I("q.last_name"),
			goqu.I("q.address"),
			goqu.I("q.phone_number"),
			goqu.I("q.status"),
			goqu.I("q.created_at"),
			goqu.COALESCE(goqu.L("q.processed_by::text"), ""),
			goqu.I("q.processed_at"),
			goqu.COALESCE(goqu.I("q.rejection_reason"), ""),
			goqu.I("u.username"),
			goqu.I("u.email"),
			goqu.L("COUNT(*) OVER()"),
		)

	switch filter.Status {
	case "":
	case "processed":
		ds = ds.Where(goqu.I("q.status").In(domain.RegistrationApproved, domain.RegistrationRejected))
	default:
		ds = ds.Where(goqu.I("q.status").Eq(filter.Status))
	}
	ds = paginate(ds.Order(goqu.I("q.created_at").Desc()), filter.Page, filter.Limit)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, apperror.NewInternalError("Falha ao montar consulta de pedidos", err)
	}

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error("Falha ao listar pedidos de cadastro.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar pedidos de cadastro", err)
	}
	defer rows.Close()

	requests := []domain.RegistrationRequest{}
	total := 0
	for rows.Next() {
		var username, email string
		req, err := scanRegistration(rows, &username, &email, &total)
		if err != nil {
			s.logger.Error("Falha ao mapear pedido de cadastro.", err)
			return nil, 0, apperror.NewDBError("Falha ao ler pedidos de cadastro", err)
		}
		req.Username, req.Email = username, email
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("Falha ao iterar pedidos de cadastro", err)
	}

	return requests, total, nil
}

// ListReaders lista os leitores com a contagem de empréstimos ativos.
func (s *Store) ListReaders(ctx context.Context) ([]domain.ReaderSummary, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	rows, err := s.DB.QueryContext(ctxTimeout, `
		SELECT rd.id, COALESCE(rd.user_id::text, ''), rd.first_name, rd.last_name, rd.address, rd.email,
		       rd.phone_number, rd.card_number, rd.registration_date,
		       COUNT(l.id) FILTER (WHERE l.status = 'borrowed')
		FROM readers rd
		LEFT JOIN loans l ON l.reader_id = rd.id
		GROUP BY rd.id
		ORDER BY rd.last_name, rd.first_name`)
	if err != nil {
		s.logger.Error("Falha ao listar leitores.", err)
		return nil, apperror.NewDBError("Falha ao listar leitores", err)
	}
	defer rows.Close()

	readers := []domain.ReaderSummary{}
	for rows.Next() {
		var rs domain.ReaderSummary
		if err := rows.Scan(&rs.ID, &rs.UserID, &rs.FirstName, &rs.LastName, &rs.Address, &rs.Email,
			&rs.PhoneNumber, &rs.CardNumber, &rs.RegistrationDate, &rs.ActiveLoans); err != nil {
			return nil, apperror.NewDBError("Falha ao ler leitores", err)
		}
		readers = append(readers, rs)
	}
	return readers, rows.Err()
}

// ListUnregisteredUsers lista usuários ativos sem perfil de leitor, por username.
func (s *Store) ListUnregisteredUsers(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(goqu.T("users").As("u")).
		LeftJoin(goqu.T("readers").As("rd"), goqu.On(goqu.I("rd.user_id").Eq(goqu.I("u.id")))).
		Select("u.id", "u.username", "u.email", "u.role", "u.is_active", "u.created_at").
		Where(
			goqu.I("rd.id").IsNull(),
			goqu.I("u.role").Eq(domain.RoleUser),
			goqu.I("u.is_active").IsTrue(),
		).
		Order(goqu.I("u.username").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar consulta de usuários sem cadastro", err)
	}

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error("Falha ao listar usuários sem cadastro de leitor.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler usuários", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ReaderStatus informa se o usuário já é leitor e se tem pedido pendente recente.
func (s *Store) ReaderStatus(ctx context.Context, userID string, since time.Time) (domain.ReaderStatus, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	status := domain.ReaderStatus{UserID: userID}
	err := s.DB.QueryRowContext(ctxTimeout, `
		SELECT
			EXISTS (SELECT 1 FROM readers WHERE user_id::text = $1),
			EXISTS (SELECT 1 FROM reader_registration_requests
			        WHERE user_id::text = $1 AND status = 'pending' AND created_at > $2)`,
		userID, since,
	).Scan(&status.IsReader, &status.HasPendingRequest)
	if err != nil {
		s.logger.Error("Falha ao consultar status de leitor.", err)
		return domain.ReaderStatus{}, apperror.NewDBError("Falha ao consultar status de leitor", err)
	}
	return status, nil
}
