package rag

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
	pkgRetry "github.com/futig/ragchat/internal/pkg/retry"
	pkghttp "github.com/futig/ragchat/pkg/http"
)

func testConfig(t *testing.T, url string) config.RAGConnectorConfig {
	t.Helper()
	cfg, err := config.Parse(env.Options{Environment: map[string]string{
		"RAG_SERVICE_URL": url,
	}})
	require.NoError(t, err)
	return cfg.RAGConnectorCfg
}

func decodeSession(t *testing.T, r *http.Request) entity.RAGSessionRequest {
	t.Helper()
	var req entity.RAGSessionRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestConnector_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)

		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF", string(content))
		w.Write([]byte(`{"message":"Successfully processed","chunks":14}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	resp, err := c.Upload(context.Background(), entity.FileData{Filename: "report.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, 14, resp.Chunks)
}

func TestConnector_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req entity.RAGChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sess-1", req.SessionID)
		assert.Equal(t, "What is this?", req.Question)

		w.Write([]byte(`{"answer":"It's a quarterly report.","source_count":3}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	resp, err := c.Chat(context.Background(), &entity.RAGChatRequest{SessionID: "sess-1", Question: "What is this?"})
	require.NoError(t, err)
	assert.Equal(t, "It's a quarterly report.", resp.Answer)
	assert.Equal(t, 3, resp.SourceCount)
}

func TestConnector_ChatWithoutSourceCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"Sure."}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	resp, err := c.Chat(context.Background(), &entity.RAGChatRequest{SessionID: "s", Question: "q"})
	require.NoError(t, err)
	assert.Zero(t, resp.SourceCount)
}

func TestConnector_ChatErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Model overloaded"}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	_, err := c.Chat(context.Background(), &entity.RAGChatRequest{SessionID: "s", Question: "q"})
	require.Error(t, err)
	assert.Equal(t, "Model overloaded", pkghttp.ErrorMessage(err))
}

func TestConnector_ClearHistoryAndDeleteDocuments(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		assert.Equal(t, "sess-1", decodeSession(t, r).SessionID)
		// Bodies are ignored, even ones reporting a failure
		w.Write([]byte(`{"error":"ignored"}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	require.NoError(t, c.ClearHistory(context.Background(), "sess-1"))
	require.NoError(t, c.DeleteDocuments(context.Background(), "sess-1"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/api/clear-history", "/api/delete-documents"}, paths)
}

func TestConnector_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy","documents":2}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(t, srv.URL), zap.NewNop())
	payload, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", payload["status"])
}

func TestConnector_WaitReadyRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Retry = pkgRetry.RetryConfig{Attempts: 5, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Timeout: time.Second}

	c := NewConnector(cfg, zap.NewNop())
	require.NoError(t, c.WaitReady(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestConnector_WaitReadyGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Retry = pkgRetry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond, Timeout: time.Second}

	c := NewConnector(cfg, zap.NewNop())
	assert.Error(t, c.WaitReady(context.Background()))
}

func TestMockConnector(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	resp, err := m.Upload(ctx, entity.FileData{Filename: "a.pdf", Content: make([]byte, 1601)})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Chunks)

	answer, err := m.Chat(ctx, &entity.RAGChatRequest{SessionID: "s", Question: "Why?"})
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "Why?")
	assert.Equal(t, 1, answer.SourceCount)

	assert.NoError(t, m.ClearHistory(ctx, "s"))
	assert.NoError(t, m.DeleteDocuments(ctx, "s"))
	assert.NoError(t, m.WaitReady(ctx))
}
