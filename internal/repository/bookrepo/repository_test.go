package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

// mapCache é um cache.Client em memória para os testes do repositório.
type mapCache struct {
	data    map[string]string
	failGet bool
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	if c.failGet {
		return "", errors.New("redis fora do ar")
	}
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) GetInt(ctx context.Context, key string) (int, error) {
	v, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (c *mapCache) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.GetInt(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return 0, err
	}
	n++
	c.data[key] = strconv.Itoa(n)
	return int64(n), nil
}

func newRepo(c cache.Client) *BookRepository {
	return NewBookRepository(nil, c, time.Second, time.Minute, logger.Nop())
}

var dom = domain.Book{ID: "b1", Title: "Dom Casmurro", ISBN: "9788535910667", Status: domain.BookAvailable}

func TestCache_FillThenHit(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newMapCache())

	_, version, hit, cacheable := repo.fromCache(ctx, "b1")
	require.False(t, hit)
	require.True(t, cacheable)
	assert.Equal(t, int64(0), version)

	repo.toCache(ctx, version, dom)

	book, _, hit, _ := repo.fromCache(ctx, "b1")
	assert.True(t, hit)
	assert.Equal(t, dom, book)
}

// Uma leitura que começou antes do commit de um empréstimo não pode deixar
// o status antigo no cache depois da invalidação.
func TestCache_FillAfterInvalidationIsDiscarded(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	repo := newRepo(c)

	_, before, _, _ := repo.fromCache(ctx, "b1")

	require.NoError(t, cache.InvalidateBooks(ctx, c, "b1"))
	repo.toCache(ctx, before, dom) // status "available" lido antes do commit

	_, after, hit, cacheable := repo.fromCache(ctx, "b1")
	assert.False(t, hit)
	assert.True(t, cacheable)
	assert.Equal(t, before+1, after)

	borrowed := dom
	borrowed.Status = domain.BookBorrowed
	repo.toCache(ctx, after, borrowed)

	book, _, hit, _ := repo.fromCache(ctx, "b1")
	assert.True(t, hit)
	assert.Equal(t, domain.BookBorrowed, book.Status)
}

func TestCache_Unavailable(t *testing.T) {
	c := newMapCache()
	c.failGet = true
	repo := newRepo(c)

	_, _, hit, cacheable := repo.fromCache(context.Background(), "b1")

	assert.False(t, hit)
	assert.False(t, cacheable)
}

func TestCache_CorruptedEntry(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	c.data[cache.BookKey("b1")] = "{não é json"
	repo := newRepo(c)

	_, _, hit, cacheable := repo.fromCache(ctx, "b1")

	assert.False(t, hit)
	assert.True(t, cacheable)
}

func TestTranslateWriteError(t *testing.T) {
	repo := newRepo(cache.NoopClient{})

	err := repo.translateWriteError("Falha ao atualizar livro", &pq.Error{Code: pq.ErrorCode(database.CodeUniqueViolation)})
	assert.IsType(t, &apperror.ConflictError{}, err)

	err = repo.translateWriteError("Falha ao atualizar livro", &pq.Error{Code: pq.ErrorCode(database.CodeInvalidText)})
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Equal(t, "Book not found", err.Error())

	cause := errors.New("conexão perdida")
	err = repo.translateWriteError("Falha ao atualizar livro", cause)
	assert.IsType(t, &apperror.InternalError{}, err)
	assert.ErrorIs(t, err, cause)
}
