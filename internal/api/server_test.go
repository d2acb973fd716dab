package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sessionapi "github.com/futig/ragchat/internal/api/session"
	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/integration/rag"
	"github.com/futig/ragchat/internal/pkg/validator"
	"github.com/futig/ragchat/internal/usecase/chat"
)

type healthFunc func(ctx context.Context) (map[string]any, error)

func (f healthFunc) Health(ctx context.Context) (map[string]any, error) { return f(ctx) }

func newRouter(t *testing.T, health HealthChecker) (http.Handler, *chat.Registry) {
	t.Helper()
	cfg := config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20, MaxQuestionLength: 100}
	registry := chat.NewRegistry(config.SessionConfig{}, rag.NewMockConnector(zap.NewNop()), validator.NewValidator(cfg))
	handler := sessionapi.NewHandler(registry, chat.NewInputGuard(), cfg)
	return SetupRouter(handler, health, registry, zap.NewNop()), registry
}

func TestHealth_Healthy(t *testing.T) {
	router, registry := newRouter(t, healthFunc(func(context.Context) (map[string]any, error) {
		return map[string]any{"status": "ok"}, nil
	}))
	registry.Create()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Backend["status"])
	assert.Equal(t, 1, resp.Sessions)
}

func TestHealth_BackendDown(t *testing.T) {
	router, _ := newRouter(t, healthFunc(func(context.Context) (map[string]any, error) {
		return nil, errors.New("connection refused")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp entity.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "connection refused", resp.Error)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newRouter(t, healthFunc(func(context.Context) (map[string]any, error) { return nil, nil }))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/sessions/abc/messages", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestSessionRoutesMounted(t *testing.T) {
	router, registry := newRouter(t, healthFunc(func(context.Context) (map[string]any, error) { return nil, nil }))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, registry.Count())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}
