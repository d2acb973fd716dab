package chat

import (
	"context"

	"github.com/futig/ragchat/internal/entity"
)

// BackendConnector is the RAG backend contract used by the session client
type BackendConnector interface {
	Upload(ctx context.Context, file entity.FileData) (*entity.RAGUploadResponse, error)
	Chat(ctx context.Context, req *entity.RAGChatRequest) (*entity.RAGChatResponse, error)
	ClearHistory(ctx context.Context, sessionID string) error
	DeleteDocuments(ctx context.Context, sessionID string) error
}
