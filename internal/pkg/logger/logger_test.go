package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/pkg/logger"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]interface{}
		require.NoError(t, dec.Decode(&entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("warn", &buf)

	log.Info("ignorado", nil)
	log.Warn("livro atrasado", map[string]interface{}{"book_id": "b1"})
	log.Error("falhou", errors.New("boom"))

	entries := lines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "b1", entries[0]["book_id"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("verbose", &buf)

	log.Debug("oculto", nil)
	log.Info("visível", nil)

	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "visível", entries[0]["message"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("debug", &buf).With(map[string]interface{}{"component": "teste"})

	log.Debug("olá", map[string]interface{}{"n": 1})

	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "teste", entries[0]["component"])
	assert.EqualValues(t, 1, entries[0]["n"])
}
