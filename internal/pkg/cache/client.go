package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de interface para qualquer serviço de cache que o Repositório possa usar.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetInt(ctx context.Context, key string) (int, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = redis.Nil

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente Redis e testa a conexão com PING.
func NewRedisClient(addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // Endereço do Redis (e.g., "localhost:6379")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera o valor associado a uma chave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set define um valor para uma chave com um tempo de expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete remove as chaves do cache (chaves inexistentes são ignoradas).
func (c *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// GetInt lê um contador inteiro.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// Incr incrementa um contador e retorna o novo valor.
func (c *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Close encerra as conexões com o Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// NoopClient é usado quando o cache está desabilitado: toda leitura é um miss.
type NoopClient struct{}

func (NoopClient) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }
func (NoopClient) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (NoopClient) Delete(context.Context, ...string) error     { return nil }
func (NoopClient) GetInt(context.Context, string) (int, error) { return 0, ErrCacheMiss }
func (NoopClient) Incr(context.Context, string) (int64, error) { return 0, nil }

// BookKey é a chave de cache de um livro. Compartilhada entre o catálogo
// (leitura cache-aside) e a circulação (invalidação após mudança de status).
func BookKey(id string) string {
	return "book:" + id
}

// BookVersionKey guarda a versão do livro, incrementada a cada invalidação.
// Uma entrada gravada com versão anterior é descartada na leitura.
func BookVersionKey(id string) string {
	return "book-version:" + id
}

// BookVersion lê a versão atual do livro (0 se nunca foi invalidado).
func BookVersion(ctx context.Context, c Client, id string) (int64, error) {
	v, err := c.GetInt(ctx, BookVersionKey(id))
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	return int64(v), err
}

// InvalidateBooks incrementa a versão e remove a entrada de cada livro.
// Retorna o primeiro erro encontrado, depois de tentar todos.
func InvalidateBooks(ctx context.Context, c Client, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	var firstErr error
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := c.Incr(ctx, BookVersionKey(id)); err != nil && firstErr == nil {
			firstErr = err
		}
		keys = append(keys, BookKey(id))
	}
	if err := c.Delete(ctx, keys...); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
