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

// handleDocument uploads a PDF sent to the chat. The name and size are
// checked from Telegram metadata so rejected files are never downloaded.
func (h *Handler) handleDocument(ctx context.Context, msg *Message) {
	ctx = logger.WithAction(ctx, "upload_document")
	ctx, client := h.session(ctx, msg.ChatID)
	doc := msg.Document

	ctx = logger.AddFields(ctx,
		zap.String("filename", doc.FileName),
		zap.Int("size", doc.FileSize),
	)

	if err := h.validator.ValidateUploadHeader(doc.FileName, int64(doc.FileSize)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	typing := NewTypingNotifier(h.sender, msg.ChatID, tgbotapi.ChatUploadDocument)
	typing.Start(ctx)
	defer typing.Stop()

	content, err := h.downloader.Download(ctx, doc.FileID, h.validator.MaxFileSize())
	if err != nil {
		ctxzap.Error(ctx, "failed to download document", zap.Error(err))
		h.sender.Send(msg.ChatID, render.ErrDownload, nil)
		return
	}

	uploaded, err := client.UploadDocument(ctx, entity.FileData{
		Filename: doc.FileName,
		Content:  content,
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	h.sender.Send(msg.ChatID, render.Uploaded(uploaded), nil)
}
