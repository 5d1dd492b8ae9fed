package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout é o formato ISO usado para datas civis na API (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Date representa uma data civil (sem horário), sempre normalizada para meia-noite UTC.
// Reservas trabalham com janelas de dias inteiros e inclusivas.
type Date struct {
	time.Time
}

// NewDate cria uma Date a partir de ano, mês e dia.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf extrai a data civil de um instante, no fuso do próprio instante.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate interpreta uma string no formato YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("data inválida %q: use o formato YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// String formata a data como YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// Before informa se d é estritamente anterior a other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After informa se d é estritamente posterior a other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal informa se as duas datas representam o mesmo dia.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// DaysUntil retorna quantos dias inteiros separam d de other (negativo se other for anterior).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// MarshalJSON serializa a data como "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON aceita "YYYY-MM-DD" ou null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange é uma janela inclusiva [Start, End].
type DateRange struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// Overlaps implementa o teste de sobreposição inclusiva:
// existing.start <= end AND existing.end >= start.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Contains informa se o dia informado está dentro da janela (inclusive).
func (r DateRange) Contains(day Date) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}
