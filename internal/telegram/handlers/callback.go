package handlers

import (
	"context"

	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/telegram/keyboard"
	"github.com/futig/ragchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// HandleCallback runs the operation behind an inline button
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) {
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", msg.ChatID))

	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err))
		h.sender.AnswerCallback(msg.CallbackID, render.ErrGeneric)
		return
	}

	ctx = logger.WithAction(ctx, "callback_"+data.Action)
	h.sender.AnswerCallback(msg.CallbackID, "")
	h.sender.ClearMarkup(msg.ChatID, msg.MessageID, h.keyboard.Remove())

	switch data.Action {
	case keyboard.ActionConfirm:
		switch data.Value {
		case keyboard.OpClearHistory:
			h.handleClearHistory(ctx, msg.ChatID)
		case keyboard.OpDeleteDocuments:
			h.handleDeleteDocuments(ctx, msg.ChatID)
		default:
			ctxzap.Warn(ctx, "unknown confirm operation", zap.String("value", data.Value))
		}
	case keyboard.ActionCancel:
		h.sender.Send(msg.ChatID, render.MsgCancelled, nil)
	case keyboard.ActionExport:
		h.export(ctx, msg.ChatID, data.Value)
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", data.Action))
	}
}
