package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/middleware"
)

// MockCacheClient é uma implementação mock de cache.Client
type MockCacheClient struct {
	mock.Mock
}

func (m *MockCacheClient) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheClient) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheClient) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheClient) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

var ok200 = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func hit(h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.RemoteAddr = "10.0.0.7:51000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_FirstRequestOpensWindow(t *testing.T) {
	client := new(MockCacheClient)
	client.On("GetInt", mock.Anything, "rate-limit:10.0.0.7").Return(0, cache.ErrCacheMiss)
	client.On("Set", mock.Anything, "rate-limit:10.0.0.7", 1, time.Minute).Return(nil)

	rec := hit(middleware.RateLimiter(client, 5, time.Minute, logger.Nop())(ok200))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	client.AssertExpectations(t)
}

func TestRateLimiter_CountsWithinWindow(t *testing.T) {
	client := new(MockCacheClient)
	client.On("GetInt", mock.Anything, "rate-limit:10.0.0.7").Return(3, nil)
	client.On("Incr", mock.Anything, "rate-limit:10.0.0.7").Return(int64(4), nil)

	rec := hit(middleware.RateLimiter(client, 5, time.Minute, logger.Nop())(ok200))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	client.AssertExpectations(t)
}

func TestRateLimiter_Exceeded(t *testing.T) {
	client := new(MockCacheClient)
	client.On("GetInt", mock.Anything, "rate-limit:10.0.0.7").Return(5, nil)

	rec := hit(middleware.RateLimiter(client, 5, time.Minute, logger.Nop())(ok200))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	client.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything)
}

func TestRateLimiter_CacheDownFailsOpen(t *testing.T) {
	client := new(MockCacheClient)
	client.On("GetInt", mock.Anything, mock.Anything).Return(0, errors.New("connection refused"))

	rec := hit(middleware.RateLimiter(client, 5, time.Minute, logger.Nop())(ok200))

	assert.Equal(t, http.StatusOK, rec.Code)
}
