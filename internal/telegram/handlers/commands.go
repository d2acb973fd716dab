package handlers

import (
	"context"
	"strings"

	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/formatter"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// handleStart greets the user. A chat that already had a session gets a
// fresh one, like reloading the page.
func (h *Handler) handleStart(ctx context.Context, msg *Message) {
	client, created := h.sessions.GetOrCreate(SessionKey(msg.ChatID))
	if !created {
		client = h.sessions.Replace(SessionKey(msg.ChatID))
		h.sender.Send(msg.ChatID, render.MsgNewSession, nil)
	}

	ctxzap.Info(logger.WithSession(ctx, client.Session().ID), "session started")
	h.sender.Send(msg.ChatID, render.MsgWelcome, nil)
}

func (h *Handler) handleFiles(ctx context.Context, msg *Message) {
	_, client := h.session(ctx, msg.ChatID)
	h.sender.Send(msg.ChatID, render.Files(client.Files(), h.now()), nil)
}

func (h *Handler) handleClearChat(ctx context.Context, msg *Message) {
	ctx, client := h.session(ctx, msg.ChatID)
	client.ClearChat()

	ctxzap.Info(ctx, "chat cleared")
	h.sender.Send(msg.ChatID, render.MsgChatCleared, nil)
}

func (h *Handler) handleClearHistory(ctx context.Context, chatID int64) {
	ctx, client := h.session(ctx, chatID)
	if err := client.ClearHistory(ctx); err != nil {
		h.HandleError(ctx, chatID, err)
		return
	}
	h.sender.Send(chatID, render.MsgHistoryCleared, nil)
}

func (h *Handler) handleDeleteDocuments(ctx context.Context, chatID int64) {
	ctx, client := h.session(ctx, chatID)
	if err := client.DeleteDocuments(ctx); err != nil {
		h.HandleError(ctx, chatID, err)
		return
	}
	h.sender.Send(chatID, render.MsgDocsDeleted, nil)
}

// handleExportCommand exports right away when a format is given and offers
// a format keyboard otherwise
func (h *Handler) handleExportCommand(ctx context.Context, msg *Message) {
	if msg.Args == "" {
		h.sender.Send(msg.ChatID, render.MsgChooseExport, h.keyboard.ExportKeyboard())
		return
	}
	h.export(ctx, msg.ChatID, msg.Args)
}

func (h *Handler) export(ctx context.Context, chatID int64, rawFormat string) {
	ctx, client := h.session(ctx, chatID)

	format, err := entity.ParseExportFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return
	}

	messages := client.Messages()
	if len(messages) == 0 {
		h.sender.Send(chatID, render.MsgNothingToExport, nil)
		return
	}

	fmtr, err := h.formatter.Create(format)
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return
	}

	data, err := fmtr.Format(messages)
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return
	}

	filename := formatter.ExportFileName(fmtr.FileExtension(), h.now())
	ctxzap.Info(ctx, "chat exported",
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)
	h.sender.SendDocument(chatID, filename, data)
}
