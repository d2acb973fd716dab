package handlers

import (
	"context"
	"errors"

	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// limits are the configured bounds quoted back to the user
type limits struct {
	maxFileSize       int64
	maxQuestionLength int
}

// classifyHandlerError maps a client error to what the chat should see
func classifyHandlerError(err error, l limits) *HandlerError {
	warn := func(user, log string) *HandlerError {
		return &HandlerError{Err: err, UserMessage: user, LogMessage: log, Severity: SeverityWarning}
	}

	switch {
	case err == nil:
		return warn(render.ErrGeneric, "unknown error")
	case errors.Is(err, entity.ErrInvalidExtension), errors.Is(err, entity.ErrMissingFile):
		return warn(render.ErrOnlyPDF, "invalid upload")
	case errors.Is(err, entity.ErrFileTooLarge):
		return warn(render.FileTooLarge(l.maxFileSize), "upload too large")
	case errors.Is(err, entity.ErrEmptyFile):
		return warn(render.ErrEmptyFile, "empty upload")
	case errors.Is(err, entity.ErrEmptyQuestion):
		return warn(render.ErrEmptyQuestion, "empty question")
	case errors.Is(err, entity.ErrQuestionTooLong):
		return warn(render.QuestionTooLong(l.maxQuestionLength), "question too long")
	case errors.Is(err, entity.ErrNoDocuments):
		return warn(render.MsgUploadFirst, "chat without documents")
	case errors.Is(err, entity.ErrChatInFlight):
		return warn(render.MsgWaitForAnswer, "chat already in flight")
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return warn(render.ErrExportFormat, "unsupported export format")
	}

	var remoteErr *entity.RemoteError
	if errors.As(err, &remoteErr) {
		user := render.OperationFailed(remoteErr.Message)
		if errors.Is(err, entity.ErrUpload) {
			user = render.UploadFailed(remoteErr.Message)
		}
		return &HandlerError{
			Err:         err,
			UserMessage: user,
			LogMessage:  "backend request failed",
			Severity:    SeverityError,
		}
	}

	return &HandlerError{
		Err:         err,
		UserMessage: render.ErrGeneric,
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}
}

// HandleError logs err with its severity and tells the user what happened
func (h *Handler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err, h.limits)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	default:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sender.Send(chatID, handlerErr.UserMessage, nil)
}
