package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/formatter"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/pkg/validator"
	pkghttp "github.com/futig/ragchat/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	fallbackUploadMessage = "Failed to upload file"
	fallbackChatMessage   = "Failed to get response"
	fallbackClearMessage  = "Failed to clear history"
	fallbackDeleteMessage = "Failed to delete documents"

	chatErrorPrefix = "Sorry, I encountered an error: "
)

// Client is the session client: it owns one backend session, the uploaded
// documents and the message log, and mediates every backend call.
//
// The mutex protects the collections only and is never held across a
// network call. Overlapping SendChatMessage calls are not queued or
// rejected here; callers serialise chat input with an InputGuard.
type Client struct {
	session   entity.Session
	backend   BackendConnector
	validator *validator.Validator
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	inflight int
	files    []entity.UploadedFile
	messages []entity.Message
	lastTurn *entity.Turn
}

type Option func(*Client)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for sessions, messages and turns
func WithIDGenerator(newID func() string) Option {
	return func(c *Client) {
		c.newID = newID
	}
}

// NewClient creates a client with a fresh session
func NewClient(backend BackendConnector, validator *validator.Validator, opts ...Option) *Client {
	c := &Client{
		backend:   backend,
		validator: validator,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}

	c.session = entity.Session{
		ID:        c.newID(),
		CreatedAt: c.now(),
	}
	return c
}

// Session returns the immutable session identity
func (c *Client) Session() entity.Session {
	return c.session
}

func (c *Client) State() entity.ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Client) stateLocked() entity.ClientState {
	if c.inflight > 0 {
		return entity.ClientStateSending
	}
	return entity.ClientStateIdle
}

func (c *Client) Files() []entity.UploadedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.UploadedFile{}, c.files...)
}

func (c *Client) Messages() []entity.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Message{}, c.messages...)
}

// LastTurn returns a copy of the most recent chat turn, or nil
func (c *Client) LastTurn() *entity.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyTurn(c.lastTurn)
}

func (c *Client) Snapshot() *entity.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &entity.Snapshot{
		Session:  c.session,
		State:    c.stateLocked(),
		Files:    append([]entity.UploadedFile{}, c.files...),
		Messages: append([]entity.Message{}, c.messages...),
		LastTurn: copyTurn(c.lastTurn),
	}
}

// UploadDocument validates and uploads a PDF. On success one UploadedFile
// is appended; on any failure the file list is left untouched.
func (c *Client) UploadDocument(ctx context.Context, file entity.FileData) (*entity.UploadedFile, error) {
	ctx = c.logContext(ctx, "UploadDocument")

	if err := c.validator.ValidateUpload(file); err != nil {
		ctxzap.Warn(ctx, "document rejected", zap.String("file_name", file.Filename), zap.Error(err))
		return nil, err
	}

	resp, err := c.backend.Upload(ctx, file)
	if err != nil {
		return nil, entity.NewRemoteError(entity.ErrUpload, describe(err, fallbackUploadMessage), err)
	}

	uploaded := entity.UploadedFile{
		FileName:   file.Filename,
		ChunkCount: max(resp.Chunks, 0),
		UploadedAt: c.now(),
	}

	c.mu.Lock()
	c.files = append(c.files, uploaded)
	c.mu.Unlock()

	ctxzap.Info(ctx, "document uploaded",
		zap.String("file_name", uploaded.FileName),
		zap.Int("chunk_count", uploaded.ChunkCount),
	)
	return &uploaded, nil
}

// SendChatMessage runs one chat turn. The user message is appended before
// the request is sent and is kept whatever the outcome; exactly one
// assistant message (answer or error-flagged) is appended afterwards.
// A backend failure returns the errored turn together with the error.
func (c *Client) SendChatMessage(ctx context.Context, question string) (*entity.Turn, error) {
	ctx = c.logContext(ctx, "SendChatMessage")

	question, err := c.validator.ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	turn, err := c.beginTurn(question)
	if err != nil {
		ctxzap.Warn(ctx, "chat rejected", zap.Error(err))
		return nil, err
	}

	resp, err := c.backend.Chat(ctx, &entity.RAGChatRequest{
		SessionID: c.session.ID,
		Question:  question,
	})
	if err != nil {
		message := describe(err, fallbackChatMessage)
		ctxzap.Error(ctx, "chat turn failed", zap.String("turn_id", turn.ID), zap.Error(err))
		return c.resolveTurn(turn, entity.Message{
			Content: chatErrorPrefix + message,
			IsError: true,
		}), entity.NewRemoteError(entity.ErrChat, message, err)
	}

	ctxzap.Info(ctx, "chat turn resolved",
		zap.String("turn_id", turn.ID),
		zap.Int("source_count", resp.SourceCount),
	)
	return c.resolveTurn(turn, entity.Message{
		Content:     resp.Answer,
		SourceCount: max(resp.SourceCount, 0),
	}), nil
}

// beginTurn checks the document precondition, appends the user message
// and opens a pending turn in one critical section
func (c *Client) beginTurn(question string) (*entity.Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.files) == 0 {
		return nil, fmt.Errorf("%w: %w: please upload a PDF document first before asking questions", entity.ErrPrecondition, entity.ErrNoDocuments)
	}

	userMsg := entity.Message{
		ID:        c.newID(),
		Role:      entity.RoleUser,
		Content:   question,
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, userMsg)
	c.inflight++

	turn := &entity.Turn{
		ID:       c.newID(),
		State:    entity.TurnStatePending,
		Question: userMsg,
	}
	c.lastTurn = turn
	return copyTurn(turn), nil
}

// resolveTurn appends the assistant reply and closes the turn
func (c *Client) resolveTurn(turn *entity.Turn, reply entity.Message) *entity.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply.ID = c.newID()
	reply.Role = entity.RoleAssistant
	reply.Timestamp = c.now()
	c.messages = append(c.messages, reply)
	c.inflight--

	turn.Reply = &reply
	turn.State = entity.TurnStateResolved
	if reply.IsError {
		turn.State = entity.TurnStateErrored
	}

	if c.lastTurn != nil && c.lastTurn.ID == turn.ID {
		c.lastTurn = copyTurn(turn)
	}
	return turn
}

// ClearChat empties the local message log. No backend call is made.
func (c *Client) ClearChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.lastTurn = nil
}

// ClearHistory asks the backend to drop the session's conversation memory,
// then empties the message log. On failure nothing changes locally.
func (c *Client) ClearHistory(ctx context.Context) error {
	ctx = c.logContext(ctx, "ClearHistory")

	if err := c.backend.ClearHistory(ctx, c.session.ID); err != nil {
		return entity.NewRemoteError(entity.ErrHistory, describe(err, fallbackClearMessage), err)
	}

	c.ClearChat()
	ctxzap.Info(ctx, "history cleared")
	return nil
}

// DeleteDocuments asks the backend to drop the session's indexed documents,
// then empties both the message log and the uploaded file list.
// On failure nothing changes locally.
func (c *Client) DeleteDocuments(ctx context.Context) error {
	ctx = c.logContext(ctx, "DeleteDocuments")

	if err := c.backend.DeleteDocuments(ctx, c.session.ID); err != nil {
		return entity.NewRemoteError(entity.ErrDocument, describe(err, fallbackDeleteMessage), err)
	}

	c.mu.Lock()
	c.messages = nil
	c.files = nil
	c.lastTurn = nil
	c.mu.Unlock()

	ctxzap.Info(ctx, "documents deleted")
	return nil
}

// ExportChat renders a message log as plain text. It is pure: no I/O.
func (c *Client) ExportChat(messages []entity.Message) string {
	return formatter.Transcript(messages)
}

func (c *Client) logContext(ctx context.Context, action string) context.Context {
	return logger.WithSession(logger.WithAction(ctx, action), c.session.ID)
}

// describe picks the backend detail, then the transport text, then fallback
func describe(err error, fallback string) string {
	if msg := pkghttp.ErrorMessage(err); msg != "" {
		return msg
	}
	return fallback
}

func copyTurn(turn *entity.Turn) *entity.Turn {
	if turn == nil {
		return nil
	}
	cp := *turn
	if turn.Reply != nil {
		reply := *turn.Reply
		cp.Reply = &reply
	}
	return &cp
}
