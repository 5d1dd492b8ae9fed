// Package memstore é um armazenamento em memória que implementa os mesmos
// contratos do PostgreSQL (domain.Store, domain.CirculationQueries,
// domain.BookRepository e domain.UserRepository). É usado nos testes e em
// desenvolvimento local (STORE_DRIVER=memory).
//
// Cada transação roda sob um mutex exclusivo, sobre uma cópia do estado, que só
// substitui o estado visível no commit.
package memstore

import (
	"context"
	"sync"

	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/logger"
)

type state struct {
	users         map[string]domain.User
	authors       map[string]domain.Author
	publishers    map[string]domain.Publisher
	books         map[string]domain.Book
	readers       map[string]domain.Reader
	registrations map[string]domain.RegistrationRequest
	reservations  map[string]domain.Reservation
	loans         map[string]domain.Loan
}

func newState() *state {
	return &state{
		users:         map[string]domain.User{},
		authors:       map[string]domain.Author{},
		publishers:    map[string]domain.Publisher{},
		books:         map[string]domain.Book{},
		readers:       map[string]domain.Reader{},
		registrations: map[string]domain.RegistrationRequest{},
		reservations:  map[string]domain.Reservation{},
		loans:         map[string]domain.Loan{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		users:         cloneMap(s.users),
		authors:       cloneMap(s.authors),
		publishers:    cloneMap(s.publishers),
		books:         cloneMap(s.books),
		readers:       cloneMap(s.readers),
		registrations: cloneMap(s.registrations),
		reservations:  cloneMap(s.reservations),
		loans:         cloneMap(s.loans),
	}
}

// Store guarda todo o estado em memória.
type Store struct {
	mu     sync.RWMutex
	st     *state
	logger logger.Logger
}

// New cria um Store vazio.
func New(log logger.Logger) *Store {
	return &Store{st: newState(), logger: log}
}

// WithinTx executa fn sobre uma cópia do estado; a cópia só é publicada se fn
// não retornar erro.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&memTx{st: work}); err != nil {
		s.logger.Debug("Transação em memória desfeita.", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.st = work
	return nil
}

// read executa fn com o estado publicado sob lock de leitura.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// Book devolve o estado atual de um livro (útil em testes).
func (s *Store) Book(id string) (domain.Book, bool) {
	var (
		b  domain.Book
		ok bool
	)
	s.read(func(st *state) { b, ok = st.books[id] })
	return b, ok
}

// Reservation devolve o estado atual de uma reserva.
func (s *Store) Reservation(id string) (domain.Reservation, bool) {
	var (
		r  domain.Reservation
		ok bool
	)
	s.read(func(st *state) { r, ok = st.reservations[id] })
	return r, ok
}

// Loan devolve o estado atual de um empréstimo.
func (s *Store) Loan(id string) (domain.Loan, bool) {
	var (
		l  domain.Loan
		ok bool
	)
	s.read(func(st *state) { l, ok = st.loans[id] })
	return l, ok
}

// Loans devolve todos os empréstimos (ordem indefinida).
func (s *Store) Loans() []domain.Loan {
	var out []domain.Loan
	s.read(func(st *state) {
		for _, l := range st.loans {
			out = append(out, l)
		}
	})
	return out
}

// Reservations devolve todas as reservas (ordem indefinida).
func (s *Store) Reservations() []domain.Reservation {
	var out []domain.Reservation
	s.read(func(st *state) {
		for _, r := range st.reservations {
			out = append(out, r)
		}
	})
	return out
}
