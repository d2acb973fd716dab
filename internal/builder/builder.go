package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/ragchat/internal/api"
	sessionapi "github.com/futig/ragchat/internal/api/session"
	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/integration/rag"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/pkg/validator"
	"github.com/futig/ragchat/internal/telegram"
	"github.com/futig/ragchat/internal/usecase/chat"
	"go.uber.org/zap"
)

// ragBackend is what the binaries need from a RAG connector
type ragBackend interface {
	chat.BackendConnector
	Health(ctx context.Context) (map[string]any, error)
	WaitReady(ctx context.Context) error
}

// core holds the dependencies shared by the gateway and the bot
type core struct {
	cfg       *config.Config
	logger    *zap.Logger
	backend   ragBackend
	validator *validator.Validator
	registry  *chat.Registry
	guard     *chat.InputGuard
}

func buildCore(ctx context.Context, cfg *config.Config) (*core, error) {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	var backend ragBackend
	if cfg.EnableMocks {
		log.Info("Using mock RAG connector")
		backend = rag.NewMockConnector(log)
	} else {
		log.Info("Using RAG connector", zap.String("url", cfg.RAGConnectorCfg.Url))
		backend = rag.NewConnector(cfg.RAGConnectorCfg, log)
	}

	if cfg.WaitForBackend {
		log.Info("Waiting for RAG backend to become ready")
		if err := backend.WaitReady(ctx); err != nil {
			return nil, fmt.Errorf("wait for RAG backend: %w", err)
		}
		log.Info("RAG backend is ready")
	}

	v := validator.NewValidator(cfg.FileUploadCfg)
	registry := chat.NewRegistry(cfg.SessionCfg, backend, v)
	log.Info("Session registry initialized",
		zap.Duration("idle_ttl", cfg.SessionCfg.IdleTTL),
	)

	return &core{
		cfg:       cfg,
		logger:    log,
		backend:   backend,
		validator: v,
		registry:  registry,
		guard:     chat.NewInputGuard(),
	}, nil
}

// Build assembles the HTTP chat gateway
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := buildCore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Building chat gateway",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	sessionHandler := sessionapi.NewHandler(c.registry, c.guard, cfg.FileUploadCfg)
	router := api.SetupRouter(sessionHandler, c.backend, c.registry, c.logger)

	// Chat and upload requests may take the whole backend timeout
	writeTimeout := cfg.RAGConnectorCfg.RequestTimeout + 15*time.Second

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	c.logger.Info("Application built successfully")

	return &App{
		server: server,
		logger: c.logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, err
	}

	c, err := buildCore(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("Building Telegram bot", zap.String("environment", cfg.Environment))

	bot, err := telegram.NewBot(cfg, c.registry, c.guard, c.validator, c.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return bot, c.logger, nil
}
