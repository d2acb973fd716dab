package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/formatter"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/pkg/response"
	"github.com/futig/ragchat/internal/usecase/chat"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

type Handler struct {
	registry  SessionRegistry
	guard     InputGuard
	formatter *formatter.Factory
	uploadCfg config.FileUploadConfig
	now       func() time.Time
}

func NewHandler(
	registry SessionRegistry,
	guard InputGuard,
	uploadCfg config.FileUploadConfig,
) *Handler {
	return &Handler{
		registry:  registry,
		guard:     guard,
		formatter: formatter.NewFactory(),
		uploadCfg: uploadCfg,
		now:       time.Now,
	}
}

// CreateSession handles POST /sessions - Start a new chat session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	client := h.registry.Create()

	ctxzap.Info(ctx, "session created", zap.String("session_id", client.Session().ID))
	response.Created(w, client.Snapshot())
}

// GetSession handles GET /sessions/{id} - Session state, documents and messages
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "GetSession")
	if !ok {
		return
	}

	ctxzap.Debug(ctx, "session fetched")
	response.Success(w, client.Snapshot())
}

// EndSession handles DELETE /sessions/{id} - forget the session locally.
// Backend state is left alone; use DELETE /documents first to drop it.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "EndSession")
	if !ok {
		return
	}

	h.registry.Delete(client.Session().ID)

	ctxzap.Info(ctx, "session ended")
	w.WriteHeader(http.StatusNoContent)
}

// ListDocuments handles GET /sessions/{id}/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	_, client, ok := h.load(w, r, "ListDocuments")
	if !ok {
		return
	}

	response.Success(w, client.Files())
}

// UploadDocument handles POST /sessions/{id}/documents - multipart field "file"
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "UploadDocument")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadCfg.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.handleError(ctx, w, fmt.Errorf("%w: %w: request body exceeds %d bytes", entity.ErrValidation, entity.ErrFileTooLarge, maxBytesErr.Limit))
			return
		}
		h.handleError(ctx, w, fmt.Errorf("%w: invalid multipart form: %v", entity.ErrValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.handleError(ctx, w, fmt.Errorf("%w: %w", entity.ErrValidation, entity.ErrMissingFile))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read file", err)
		return
	}

	uploaded, err := client.UploadDocument(detach(ctx), entity.FileData{
		Filename: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	response.Created(w, entity.UploadDocumentResponse{
		FileName:   uploaded.FileName,
		ChunkCount: uploaded.ChunkCount,
	})
}

// DeleteDocuments handles DELETE /sessions/{id}/documents - drop documents and messages
func (h *Handler) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "DeleteDocuments")
	if !ok {
		return
	}

	if err := client.DeleteDocuments(detach(ctx)); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	response.Success(w, client.Snapshot())
}

// ListMessages handles GET /sessions/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	_, client, ok := h.load(w, r, "ListMessages")
	if !ok {
		return
	}

	response.Success(w, client.Messages())
}

// SendMessage handles POST /sessions/{id}/messages - ask a question.
// A backend failure still returns the errored turn, with status 502.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "SendMessage")
	if !ok {
		return
	}

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	release, acquired := h.guard.Acquire(client.Session().ID)
	if !acquired {
		h.handleError(ctx, w, entity.ErrChatInFlight)
		return
	}
	defer release()

	turn, err := client.SendChatMessage(detach(ctx), req.Question)
	if err != nil {
		if turn != nil {
			ctxzap.Warn(ctx, "chat turn errored", zap.String("turn_id", turn.ID), zap.Error(err))
			response.JSON(w, http.StatusBadGateway, entity.SendMessageResponse{
				Turn:  turn,
				Error: userMessage(err),
			})
			return
		}
		h.handleError(ctx, w, err)
		return
	}

	response.Success(w, entity.SendMessageResponse{Turn: turn})
}

// ClearChat handles DELETE /sessions/{id}/messages - local clear only
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "ClearChat")
	if !ok {
		return
	}

	client.ClearChat()

	ctxzap.Info(ctx, "chat cleared")
	response.Success(w, client.Snapshot())
}

// ClearHistory handles DELETE /sessions/{id}/history - clear backend memory and messages
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "ClearHistory")
	if !ok {
		return
	}

	if err := client.ClearHistory(detach(ctx)); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	response.Success(w, client.Snapshot())
}

// ExportChat handles GET /sessions/{id}/export?format=txt|md|docx|pdf
func (h *Handler) ExportChat(w http.ResponseWriter, r *http.Request) {
	ctx, client, ok := h.load(w, r, "ExportChat")
	if !ok {
		return
	}

	format, err := entity.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	fmtr, err := h.formatter.Create(format)
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	data, err := fmtr.Format(client.Messages())
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to export chat", err)
		return
	}

	ctxzap.Info(ctx, "chat exported", zap.Int("bytes", len(data)))
	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", formatter.ExportFileName(fmtr.FileExtension(), h.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// load resolves the {id} session and decorates the context logger
func (h *Handler) load(w http.ResponseWriter, r *http.Request, action string) (context.Context, *chat.Client, bool) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)

	client, err := h.registry.Get(sessionID)
	if err != nil {
		h.handleError(ctx, w, err)
		return ctx, nil, false
	}
	return ctx, client, true
}

// detach keeps backend calls running when the HTTP caller goes away;
// the connector's own timeout still bounds them
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrPrecondition), errors.Is(err, entity.ErrChatInFlight):
		h.respondError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, entity.ErrUpload), errors.Is(err, entity.ErrChat),
		errors.Is(err, entity.ErrHistory), errors.Is(err, entity.ErrDocument):
		h.respondError(ctx, w, http.StatusBadGateway, userMessage(err), err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}

// userMessage returns the derived backend message for remote errors
func userMessage(err error) string {
	var remoteErr *entity.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return err.Error()
}
