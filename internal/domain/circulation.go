package domain

import (
	"context"
	"time"
)

// ReservationStatus é o estado de uma reserva. completed e cancelled são terminais.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation é uma reserva exclusiva de um livro para a janela [Start, End].
type Reservation struct {
	ID        string            `json:"id"`
	BookID    string            `json:"book_id"`
	ReaderID  string            `json:"reader_id"`
	Window    DateRange         `json:"window"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ReservationHolder identifica quem detém uma reserva conflitante.
type ReservationHolder struct {
	ReservationID string
	ReaderName    string
	Window        DateRange
}

// LoanStatus é o estado de um empréstimo. returned é terminal.
type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
)

// Loan é um empréstimo ativo ou encerrado. ReservationID aponta para a reserva
// que originou o empréstimo; o prazo de devolução é o fim da janela dessa reserva.
type Loan struct {
	ID            string     `json:"id"`
	BookID        string     `json:"book_id"`
	ReaderID      string     `json:"reader_id"`
	ReservationID string     `json:"reservation_id"`
	LoanDate      time.Time  `json:"loan_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Status        LoanStatus `json:"status"`
}

// Tx é a unidade de trabalho transacional usada pelos motores de reserva,
// empréstimo e cadastro. Toda leitura feita via Tx participa do mesmo
// isolamento da escrita que vem depois (check-and-insert atômico).
type Tx interface {
	// Catálogo (apenas o que a circulação precisa)
	GetBookForUpdate(ctx context.Context, bookID string) (Book, error)
	SetBookStatus(ctx context.Context, bookID string, status BookStatus) error

	// Usuários e leitores
	GetUserByID(ctx context.Context, userID string) (User, error)
	GetReaderByUserID(ctx context.Context, userID string) (Reader, error)
	GetReaderByID(ctx context.Context, readerID string) (Reader, error)
	InsertReader(ctx context.Context, reader Reader) error

	// Reservas
	FindOverlappingReservation(ctx context.Context, bookID string, window DateRange) (ReservationHolder, bool, error)
	InsertReservation(ctx context.Context, reservation Reservation) error
	GetReservationForUpdate(ctx context.Context, id string) (Reservation, error)
	SetReservationStatus(ctx context.Context, id string, status ReservationStatus) error
	FindCheckoutReservation(ctx context.Context, bookID, readerID string, today Date) (Reservation, bool, error)

	// Empréstimos
	InsertLoan(ctx context.Context, loan Loan) error
	GetLoanForUpdate(ctx context.Context, id string) (Loan, error)
	MarkLoanReturned(ctx context.Context, id string, returnedAt time.Time) error

	// Pedidos de cadastro
	HasPendingRegistration(ctx context.Context, userID string, since time.Time) (bool, error)
	InsertRegistration(ctx context.Context, req RegistrationRequest) error
	GetRegistrationForUpdate(ctx context.Context, id string) (RegistrationRequest, error)
	UpdateRegistration(ctx context.Context, req RegistrationRequest) error
}

// Store abre transações. Se fn retornar erro a transação é desfeita;
// caso contrário é confirmada. Conflitos de concorrência detectados pelo
// armazenamento são retornados como ConflictError, sem nova tentativa.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// --- Lado de leitura (listagens) ---

// ReservationView é a linha de listagem de reservas.
type ReservationView struct {
	ID         string            `json:"id"`
	BookID     string            `json:"book_id"`
	BookTitle  string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	ReaderID   string            `json:"reader_id"`
	ReaderName string            `json:"reader"`
	StartDate  Date              `json:"start_date"`
	EndDate    Date              `json:"end_date"`
	Status     ReservationStatus `json:"status"`
	BookStatus BookStatus        `json:"book_status,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReservationFilter filtra a listagem de reservas.
type ReservationFilter struct {
	Status           ReservationStatus
	BookID           string
	ReaderUserID     string
	ExcludeCancelled bool
	Page             int
	Limit            int
}

// ReservationPage é uma página de reservas.
type ReservationPage struct {
	Reservations []ReservationView `json:"reservations"`
	Total        int               `json:"total"`
	Pages        int               `json:"pages"`
	CurrentPage  int               `json:"current_page"`
}

// LoanView é a linha de listagem de empréstimos. DueDate vem da reserva que
// originou o empréstimo; os campos de atraso são calculados pelo serviço.
type LoanView struct {
	ID          string     `json:"id"`
	BookID      string     `json:"book_id"`
	BookTitle   string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	ReaderID    string     `json:"reader_id"`
	ReaderName  string     `json:"reader"`
	LoanDate    time.Time  `json:"loan_date"`
	ReturnDate  *time.Time `json:"return_date"`
	Status      LoanStatus `json:"status"`
	DueDate     Date       `json:"due_date"`
	IsOverdue   bool       `json:"is_overdue"`
	DaysOverdue int        `json:"days_overdue,omitempty"`
}

// LoanFilter filtra a listagem de empréstimos.
type LoanFilter struct {
	Status       LoanStatus
	ReaderUserID string
	OverdueOnly  bool // só empréstimos ativos com prazo anterior a Today
	Today        Date
	Page         int
	Limit        int
}

// LoanPage é uma página de empréstimos.
type LoanPage struct {
	Loans       []LoanView `json:"loans"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}

// CirculationQueries agrupa as consultas somente-leitura de circulação.
type CirculationQueries interface {
	ListReservations(ctx context.Context, filter ReservationFilter) ([]ReservationView, int, error)
	ListLoans(ctx context.Context, filter LoanFilter) ([]LoanView, int, error)
	ListCheckoutCandidates(ctx context.Context, today Date) ([]ReservationView, error)
	ListRegistrations(ctx context.Context, filter RegistrationFilter) ([]RegistrationRequest, int, error)
	ListReaders(ctx context.Context) ([]ReaderSummary, error)
	// ListUnregisteredUsers lista usuários ativos de papel "user" sem perfil de leitor.
	ListUnregisteredUsers(ctx context.Context) ([]User, error)
	ReaderStatus(ctx context.Context, userID string, since time.Time) (ReaderStatus, error)
}
