package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEnv(vars map[string]string) (*Config, error) {
	return Parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parseEnv(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)

	rag := cfg.RAGConnectorCfg
	assert.Equal(t, "http://localhost:8000", rag.Url)
	assert.Equal(t, 30*time.Second, rag.RequestTimeout)
	assert.Equal(t, "/api/upload", rag.UploadEndpoint)
	assert.Equal(t, "/api/chat", rag.ChatEndpoint)
	assert.Equal(t, "/api/clear-history", rag.ClearHistoryEndpoint)
	assert.Equal(t, "/api/delete-documents", rag.DeleteDocumentsEndpoint)
	assert.Equal(t, "/health", rag.HealthEndpoint)
	assert.Equal(t, uint(10), rag.Retry.Attempts)

	assert.Equal(t, int64(10<<20), cfg.FileUploadCfg.MaxFileSize)
	assert.Equal(t, 4000, cfg.FileUploadCfg.MaxQuestionLength)
	assert.Zero(t, cfg.SessionCfg.IdleTTL)
	assert.False(t, cfg.EnableMocks)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parseEnv(map[string]string{
		"SERVER_ADDR":                 ":9090",
		"RAG_SERVICE_URL":             "https://rag.internal",
		"RAG_TIMEOUT":                 "45s",
		"RAG_CHAT_ENDPOINT":           "/chat",
		"RAG_RETRY_ATTEMPTS":          "3",
		"FILE_UPLOAD_MAX_FILE_SIZE":   "2048",
		"FILE_UPLOAD_MAX_UPLOAD_SIZE": "4096",
		"SESSION_IDLE_TTL":            "2h",
		"ENABLE_MOCKS":                "true",
		"TELEGRAM_BOT_TOKEN":          "123:abc",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "https://rag.internal", cfg.RAGConnectorCfg.Url)
	assert.Equal(t, 45*time.Second, cfg.RAGConnectorCfg.RequestTimeout)
	assert.Equal(t, "/chat", cfg.RAGConnectorCfg.ChatEndpoint)
	assert.Equal(t, uint(3), cfg.RAGConnectorCfg.Retry.Attempts)
	assert.Equal(t, int64(2048), cfg.FileUploadCfg.MaxFileSize)
	assert.Equal(t, 2*time.Hour, cfg.SessionCfg.IdleTTL)
	assert.True(t, cfg.EnableMocks)
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{
			name: "non http url",
			vars: map[string]string{"RAG_SERVICE_URL": "localhost:8000"},
			want: "RAG_SERVICE_URL",
		},
		{
			name: "upload body smaller than file",
			vars: map[string]string{"FILE_UPLOAD_MAX_FILE_SIZE": "100", "FILE_UPLOAD_MAX_UPLOAD_SIZE": "10"},
			want: "FILE_UPLOAD_MAX_UPLOAD_SIZE",
		},
		{
			name: "zero question length",
			vars: map[string]string{"FILE_UPLOAD_MAX_QUESTION_LENGTH": "0"},
			want: "FILE_UPLOAD_MAX_QUESTION_LENGTH",
		},
		{
			name: "negative ttl",
			vars: map[string]string{"SESSION_IDLE_TTL": "-1m"},
			want: "SESSION_IDLE_TTL",
		},
		{
			name: "rate limit out of range",
			vars: map[string]string{"TELEGRAM_RATE_LIMIT_PER_MINUTE": "0"},
			want: "TELEGRAM_RATE_LIMIT_PER_MINUTE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEnv(tt.vars)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := parseEnv(map[string]string{"RAG_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestValidateTelegram_RequiresToken(t *testing.T) {
	cfg, err := parseEnv(map[string]string{})
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateTelegram())
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("prod"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
