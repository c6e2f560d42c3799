package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func runRateLimited(t *testing.T, cfg RateLimitConfig, n int) []int {
	t.Helper()
	e := echo.New()
	e.GET("/v1/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RateLimitMiddleware(cfg))

	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

// Without a Redis client the limiter must be a pass-through, whatever the
// configured RPS.
func TestRateLimitMiddleware_NoRedisIsNoop(t *testing.T) {
	for _, code := range runRateLimited(t, RateLimitConfig{Redis: nil, RPS: 1}, 5) {
		assert.Equal(t, http.StatusOK, code)
	}
}

// A non-positive RPS disables limiting even when Redis is wired; pinned so a
// zero-value config never locks out the operator API. The client points at a
// dead address: the bypass must return before any Redis round trip.
func TestRateLimitMiddleware_NonPositiveRPSIsNoop(t *testing.T) {
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer dead.Close()

	for _, rps := range []int{0, -1} {
		for _, code := range runRateLimited(t, RateLimitConfig{Redis: dead, RPS: rps}, 3) {
			assert.Equal(t, http.StatusOK, code, "rps=%d", rps)
		}
	}
}

// Redis failures fail open: losing the limiter store must not take the
// operator API down with it.
func TestRateLimitMiddleware_RedisErrorFailsOpen(t *testing.T) {
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer dead.Close()

	for _, code := range runRateLimited(t, RateLimitConfig{Redis: dead, RPS: 1}, 3) {
		assert.Equal(t, http.StatusOK, code)
	}
}
