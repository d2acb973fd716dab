package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/telegram/handlers"
	"github.com/futig/ragchat/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UpdateHandler consumes normalized updates
type UpdateHandler interface {
	HandleMessage(ctx context.Context, msg *handlers.Message)
	HandleCallback(ctx context.Context, msg *handlers.Message)
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handler     UpdateHandler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewAPI authorizes against Telegram with the configured token
func NewAPI(cfg *config.TelegramConfig, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = cfg.Debug

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)
	return api, nil
}

// New creates a new Telegram bot
func New(api *tgbotapi.BotAPI, cfg *config.TelegramConfig, handler UpdateHandler, logger *zap.Logger) *Bot {
	return &Bot{
		api:        api,
		cfg:        cfg,
		handler:    handler,
		logger:     logger,
		loggingMW:  middleware.NewLoggingMiddleware(logger),
		recoveryMW: middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(
			cfg.RateLimitPerMinute,
			cfg.RateLimitBurst,
			logger,
			api,
		),
		stopChan: make(chan struct{}),
	}
}

// Start starts polling for updates
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	go b.processUpdates(ctxzap.ToContext(ctx, b.logger))

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully, waiting for in-flight updates up to the
// shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limit, logging and recovery around the handler
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to the handler. Backend calls are not tied to
// the polling context so a shutdown lets them finish.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = context.WithoutCancel(ctx)

	switch {
	case update.CallbackQuery != nil:
		b.handler.HandleCallback(ctx, handlers.NewCallbackMessage(update.CallbackQuery))
	case update.Message != nil:
		b.handler.HandleMessage(ctx, handlers.NewMessage(update.Message))
	}
}
