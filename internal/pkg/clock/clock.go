package clock

import (
	"time"

	"gobiblio/internal/domain"
)

// Clock fornece o instante atual e o "hoje" civil no fuso da biblioteca.
type Clock interface {
	Now() time.Time
	Today() domain.Date
}

type systemClock struct {
	loc *time.Location
}

// New cria um Clock baseado no relógio do sistema, no fuso informado.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

func (c systemClock) Today() domain.Date { return domain.DateOf(c.Now()) }

// Fixed é um Clock parado, usado em testes. Set permite avançar o tempo.
type Fixed struct {
	t time.Time
}

// NewFixed cria um relógio parado no instante informado.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// At cria um relógio parado ao meio-dia UTC do dia informado.
func At(day domain.Date) *Fixed {
	return NewFixed(day.Time.Add(12 * time.Hour))
}

func (f *Fixed) Now() time.Time { return f.t }

func (f *Fixed) Today() domain.Date { return domain.DateOf(f.t) }

// Set move o relógio para t.
func (f *Fixed) Set(t time.Time) { f.t = t }
