package rag

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/integration/common"
	pkgRetry "github.com/futig/ragchat/internal/pkg/retry"
	pkghttp "github.com/futig/ragchat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the external RAG backend. It holds no session state:
// the session ID is passed explicitly on every call.
type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Upload indexes a single PDF.
// POST {upload_endpoint} with multipart/form-data, field "file"
func (c *Connector) Upload(ctx context.Context, file entity.FileData) (*entity.RAGUploadResponse, error) {
	ctxzap.Info(ctx, "uploading document to RAG service",
		zap.String("file_name", file.Filename),
		zap.Int64("size", file.Size()),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", file.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.RAGUploadResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to upload document", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "document indexed successfully", zap.Int("chunks", resp.Chunks))
	return &resp, nil
}

// Chat asks a question within a session.
// POST {chat_endpoint} {"session_id", "question"}
func (c *Connector) Chat(ctx context.Context, req *entity.RAGChatRequest) (*entity.RAGChatResponse, error) {
	ctxzap.Info(ctx, "sending question to RAG service", zap.Int("question_length", len(req.Question)))

	var resp entity.RAGChatResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to get answer", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "answer received",
		zap.Int("answer_length", len(resp.Answer)),
		zap.Int("source_count", resp.SourceCount),
	)
	return &resp, nil
}

// ClearHistory drops the backend's conversation memory for a session.
// The response body is ignored.
func (c *Connector) ClearHistory(ctx context.Context, sessionID string) error {
	ctxzap.Info(ctx, "clearing conversation history")

	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ClearHistoryEndpoint, &entity.RAGSessionRequest{SessionID: sessionID}, nil)
	if err != nil {
		ctxzap.Error(ctx, "failed to clear history", zap.Error(err))
		return err
	}

	ctxzap.Info(ctx, "history cleared successfully")
	return nil
}

// DeleteDocuments drops all indexed documents for a session.
// The response body is ignored.
func (c *Connector) DeleteDocuments(ctx context.Context, sessionID string) error {
	ctxzap.Info(ctx, "deleting indexed documents")

	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.DeleteDocumentsEndpoint, &entity.RAGSessionRequest{SessionID: sessionID}, nil)
	if err != nil {
		ctxzap.Error(ctx, "failed to delete documents", zap.Error(err))
		return err
	}

	ctxzap.Info(ctx, "documents deleted successfully")
	return nil
}

// Health returns the backend's health payload
func (c *Connector) Health(ctx context.Context) (map[string]any, error) {
	resp := map[string]any{}
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return resp, nil
}

// WaitReady polls Health with backoff until the backend answers
func (c *Connector) WaitReady(ctx context.Context) error {
	retryCfg := c.config.Retry
	return pkgRetry.Do(ctx, &retryCfg, func(ctx context.Context) error {
		_, err := c.Health(ctx)
		return err
	}, func(attempt uint, err error) {
		c.logger.Warn("RAG service is not ready yet",
			zap.Uint("attempt", attempt+1),
			zap.Error(err),
		)
	})
}
