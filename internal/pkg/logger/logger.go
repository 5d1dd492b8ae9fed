package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	With(fields map[string]interface{}) Logger
}

// ZeroLogger é a implementação de Logger sobre o zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger cria um Logger JSON em stdout no nível informado
// ("debug", "info", "warn", "error"). Níveis desconhecidos viram "info".
func NewLogger(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewConsoleLogger cria um Logger legível para desenvolvimento.
func NewConsoleLogger(level string) Logger {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// NewWithWriter cria um Logger que escreve no writer informado.
func NewWithWriter(level string, w io.Writer) Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &ZeroLogger{zl: zl}
}

// Nop retorna um Logger que descarta tudo. Útil em testes.
func Nop() Logger {
	return &ZeroLogger{zl: zerolog.Nop()}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal registra o erro e encerra o processo.
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}

// With retorna um Logger filho com campos fixos (ex: "component").
func (l *ZeroLogger) With(fields map[string]interface{}) Logger {
	return &ZeroLogger{zl: l.zl.With().Fields(fields).Logger()}
}
