package rag

import (
	"context"
	"fmt"

	"github.com/futig/ragchat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// mockChunkSize approximates the backend splitter's chunk size in bytes
const mockChunkSize = 800

// MockConnector answers locally without a backend, for demos and local runs
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Upload(ctx context.Context, file entity.FileData) (*entity.RAGUploadResponse, error) {
	chunks := int((file.Size() + mockChunkSize - 1) / mockChunkSize)

	ctxzap.Info(ctx, "[MOCK] indexing document",
		zap.String("file_name", file.Filename),
		zap.Int("chunks", chunks),
	)

	return &entity.RAGUploadResponse{Message: "Indexed PDF", Chunks: chunks}, nil
}

func (m *MockConnector) Chat(ctx context.Context, req *entity.RAGChatRequest) (*entity.RAGChatResponse, error) {
	ctxzap.Info(ctx, "[MOCK] answering question",
		zap.String("session_id", req.SessionID),
	)

	return &entity.RAGChatResponse{
		Answer:      fmt.Sprintf("This is a mock answer to: %q", req.Question),
		SourceCount: 1,
	}, nil
}

func (m *MockConnector) ClearHistory(ctx context.Context, sessionID string) error {
	ctxzap.Info(ctx, "[MOCK] clearing history", zap.String("session_id", sessionID))
	return nil
}

func (m *MockConnector) DeleteDocuments(ctx context.Context, sessionID string) error {
	ctxzap.Info(ctx, "[MOCK] deleting documents", zap.String("session_id", sessionID))
	return nil
}

func (m *MockConnector) Health(ctx context.Context) (map[string]any, error) {
	return map[string]any{"status": "healthy", "mock": true}, nil
}

func (m *MockConnector) WaitReady(ctx context.Context) error {
	return nil
}
