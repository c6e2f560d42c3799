package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runAPIKey(t *testing.T, configured, sent string) int {
	t.Helper()
	e := echo.New()
	e.GET("/v1/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, APIKeyMiddleware(configured))

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if sent != "" {
		req.Header.Set("X-API-Key", sent)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestAPIKeyMiddleware(t *testing.T) {
	assert.Equal(t, http.StatusOK, runAPIKey(t, "k1", "k1"))
	assert.Equal(t, http.StatusUnauthorized, runAPIKey(t, "k1", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, runAPIKey(t, "k1", ""))
	// no key configured: surface disabled outright
	assert.Equal(t, http.StatusForbidden, runAPIKey(t, "", "anything"))
}
