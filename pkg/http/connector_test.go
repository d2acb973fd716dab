package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequest_JSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["question"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"hi"}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithAuthToken("secret"), WithUserAgent("test-agent"), WithRequestLogging())

	var resp struct {
		Answer string `json:"answer"`
	}
	err := c.DoRequest(context.Background(), http.MethodPost, "/api/chat", map[string]string{"question": "hello"}, &resp, WithHeader("X-Extra", "yes"))
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Answer)
}

func TestDoRequest_NilResponseIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/x", map[string]string{}, nil)
	assert.NoError(t, err)
}

func TestDoRequest_EmptyTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL, WithAuthToken("")).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	assert.NoError(t, err)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Session not found"}`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/x", nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "Session not found", httpErr.Detail)
}

func TestDoRequest_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithRequestTimeout(50*time.Millisecond))
	err := c.DoRequest(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.Equal(t, "Request timeout. Please check your connection.", ErrorMessage(err))
}

func TestDoRequest_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestConnector(url).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.False(t, netErr.Timeout())
	assert.NotEmpty(t, ErrorMessage(err))
}

func TestDoMultipartRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))

		w.Write([]byte(`{"chunks":14}`))
	}))
	defer srv.Close()

	var resp struct {
		Chunks int `json:"chunks"`
	}
	err := newTestConnector(srv.URL).DoMultipartRequest(context.Background(), http.MethodPost, "/api/upload", func(mw *multipart.Writer) error {
		part, err := mw.CreateFormFile("file", "report.pdf")
		if err != nil {
			return err
		}
		_, err = part.Write([]byte("%PDF-1.4"))
		return err
	}, &resp)
	require.NoError(t, err)
	assert.Equal(t, 14, resp.Chunks)
}

func TestWithURLOverridesEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestConnector("http://127.0.0.1:1")
	err := c.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil, WithURL(srv.URL+"/other"))
	assert.NoError(t, err)
}
