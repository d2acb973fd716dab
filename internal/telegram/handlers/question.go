package handlers

import (
	"context"

	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// handleQuestion sends free text to the backend. One question per chat may
// be in flight; later ones are refused until the answer arrives.
func (h *Handler) handleQuestion(ctx context.Context, msg *Message) {
	ctx = logger.WithAction(ctx, "send_question")
	ctx, client := h.session(ctx, msg.ChatID)

	release, ok := h.guard.Acquire(SessionKey(msg.ChatID))
	if !ok {
		h.HandleError(ctx, msg.ChatID, entity.ErrChatInFlight)
		return
	}
	defer release()

	typing := NewTypingNotifier(h.sender, msg.ChatID, tgbotapi.ChatTyping)
	typing.Start(ctx)
	defer typing.Stop()

	turn, err := client.SendChatMessage(ctx, msg.Text)
	if turn == nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}
	if err != nil {
		ctxzap.Warn(ctx, "chat turn errored", zap.String("turn_id", turn.ID), zap.Error(err))
	}

	h.sender.Send(msg.ChatID, render.Reply(turn.Reply), nil)
}
