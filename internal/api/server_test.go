package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	app := NewApp(config.Config{BaseURL: "http://localhost:5173"}, zap.NewNop(), metrics.New())
	app.Get("/boom", func(*fiber.Ctx) error { return domain.ForbiddenError("nope") })
	app.Get("/panic", func(*fiber.Ctx) error { panic("kaboom") })
	return app
}

func TestHealthAndMetrics(t *testing.T) {
	app := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(b), `account_http_requests_total{method="GET",route="/health",status="200"} 1`))
}

func TestErrorHandler(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/boom", http.StatusForbidden},
		{"/panic", http.StatusInternalServerError},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
