package telegram

import (
	"context"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/pkg/validator"
	"github.com/futig/ragchat/internal/telegram/bot"
	"github.com/futig/ragchat/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes the bot and wires the chat handlers
func NewBot(
	cfg *config.Config,
	sessions handlers.SessionStore,
	guard handlers.InputGuard,
	v *validator.Validator,
	logger *zap.Logger,
) (Bot, error) {
	api, err := bot.NewAPI(&cfg.TelegramCfg, logger)
	if err != nil {
		return nil, err
	}

	handler := handlers.NewHandler(api, sessions, guard, v, cfg.FileUploadCfg.MaxQuestionLength, logger)

	logger.Info("telegram bot initialized successfully")
	return bot.New(api, &cfg.TelegramCfg, handler, logger), nil
}
