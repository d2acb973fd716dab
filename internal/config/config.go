package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/ragchat/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Gateway configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// RAG backend configuration
	RAGConnectorCfg RAGConnectorConfig `envPrefix:"RAG_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Session registry configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Wait for the backend health endpoint before serving
	WaitForBackend bool `env:"WAIT_FOR_BACKEND" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	Debug              bool   `env:"DEBUG" envDefault:"false"`
}

type RAGConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint          string               `env:"UPLOAD_ENDPOINT" envDefault:"/api/upload"`
	ChatEndpoint            string               `env:"CHAT_ENDPOINT" envDefault:"/api/chat"`
	ClearHistoryEndpoint    string               `env:"CLEAR_HISTORY_ENDPOINT" envDefault:"/api/clear-history"`
	DeleteDocumentsEndpoint string               `env:"DELETE_DOCUMENTS_ENDPOINT" envDefault:"/api/delete-documents"`
	HealthEndpoint          string               `env:"HEALTH_ENDPOINT" envDefault:"/health"`
	Retry                   pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8000"`
}

// FileUploadConfig holds upload and input limits
type FileUploadConfig struct {
	MaxFileSize       int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxUploadSize     int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB request body
	MaxQuestionLength int   `env:"MAX_QUESTION_LENGTH" envDefault:"4000"`
}

// SessionConfig controls the in-memory session registry.
// A zero IdleTTL keeps sessions for the whole run.
type SessionConfig struct {
	IdleTTL         time.Duration `env:"IDLE_TTL" envDefault:"0s"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// LoadConfig reads the -env flag, loads the matching .env file and parses the environment
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse(env.Options{})
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse builds and validates a Config from the process environment, or
// from opts.Environment when set
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !strings.HasPrefix(cfg.RAGConnectorCfg.Url, "http://") && !strings.HasPrefix(cfg.RAGConnectorCfg.Url, "https://") {
		errors = append(errors, fmt.Sprintf("RAG_SERVICE_URL must be an http(s) URL, got %q", cfg.RAGConnectorCfg.Url))
	}

	if cfg.RAGConnectorCfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RAG_TIMEOUT must be positive, got %s", cfg.RAGConnectorCfg.RequestTimeout))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.FileUploadCfg.MaxUploadSize < cfg.FileUploadCfg.MaxFileSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_UPLOAD_SIZE must be at least FILE_UPLOAD_MAX_FILE_SIZE(%d), got %d", cfg.FileUploadCfg.MaxFileSize, cfg.FileUploadCfg.MaxUploadSize))
	}

	if cfg.FileUploadCfg.MaxQuestionLength < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_QUESTION_LENGTH must be positive, got %d", cfg.FileUploadCfg.MaxQuestionLength))
	}

	if cfg.SessionCfg.IdleTTL < 0 {
		errors = append(errors, fmt.Sprintf("SESSION_IDLE_TTL must not be negative, got %s", cfg.SessionCfg.IdleTTL))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot binary needs
func (cfg *Config) ValidateTelegram() error {
	if cfg.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
