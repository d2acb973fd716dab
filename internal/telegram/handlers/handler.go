package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/ragchat/internal/pkg/formatter"
	"github.com/futig/ragchat/internal/pkg/logger"
	"github.com/futig/ragchat/internal/pkg/validator"
	"github.com/futig/ragchat/internal/telegram/keyboard"
	"github.com/futig/ragchat/internal/telegram/render"
	"github.com/futig/ragchat/internal/usecase/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message or button press
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Args         string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// NewMessage normalizes an incoming Telegram message
func NewMessage(m *tgbotapi.Message) *Message {
	msg := &Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Document:  m.Document,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
	}
	if m.IsCommand() {
		msg.Command = m.Command()
		msg.Args = strings.TrimSpace(m.CommandArguments())
	}
	return msg
}

// NewCallbackMessage normalizes an inline keyboard press
func NewCallbackMessage(q *tgbotapi.CallbackQuery) *Message {
	msg := &Message{
		UserID:       q.From.ID,
		CallbackData: q.Data,
		CallbackID:   q.ID,
	}
	if q.Message != nil {
		msg.ChatID = q.Message.Chat.ID
		msg.MessageID = q.Message.MessageID
	}
	return msg
}

// Handler turns chat events into session client operations.
// Every Telegram chat owns one session.
type Handler struct {
	sessions   SessionStore
	guard      InputGuard
	validator  *validator.Validator
	formatter  *formatter.Factory
	keyboard   *keyboard.Builder
	sender     *MessageSender
	downloader *Downloader
	limits     limits
	now        func() time.Time
}

func NewHandler(
	api BotAPI,
	sessions SessionStore,
	guard InputGuard,
	v *validator.Validator,
	maxQuestionLength int,
	log *zap.Logger,
) *Handler {
	return &Handler{
		sessions:   sessions,
		guard:      guard,
		validator:  v,
		formatter:  formatter.NewFactory(),
		keyboard:   keyboard.NewBuilder(),
		sender:     NewMessageSender(api, log),
		downloader: NewDownloader(api),
		limits: limits{
			maxFileSize:       v.MaxFileSize(),
			maxQuestionLength: maxQuestionLength,
		},
		now: time.Now,
	}
}

// SessionKey is the registry key of a chat's session
func SessionKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// HandleMessage routes commands, documents and questions
func (h *Handler) HandleMessage(ctx context.Context, msg *Message) {
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", msg.ChatID))

	switch {
	case msg.Command != "":
		h.handleCommand(ctx, msg)
	case msg.Document != nil:
		h.handleDocument(ctx, msg)
	case strings.TrimSpace(msg.Text) != "":
		h.handleQuestion(ctx, msg)
	default:
		h.sender.Send(msg.ChatID, render.MsgUnsupported, nil)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *Message) {
	ctx = logger.WithAction(ctx, "command_"+msg.Command)

	switch msg.Command {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case "files":
		h.handleFiles(ctx, msg)
	case "clear":
		h.handleClearChat(ctx, msg)
	case "clearhistory":
		h.sender.Send(msg.ChatID, render.MsgConfirmClearHistory, h.keyboard.ConfirmKeyboard(keyboard.OpClearHistory))
	case "deletedocs":
		h.sender.Send(msg.ChatID, render.MsgConfirmDeleteDocs, h.keyboard.ConfirmKeyboard(keyboard.OpDeleteDocuments))
	case "export":
		h.handleExportCommand(ctx, msg)
	default:
		h.sender.Send(msg.ChatID, render.MsgUnknownCommand, nil)
	}
}

// session returns the chat's client, creating it on first contact
func (h *Handler) session(ctx context.Context, chatID int64) (context.Context, *chat.Client) {
	client, created := h.sessions.GetOrCreate(SessionKey(chatID))
	ctx = logger.WithSession(ctx, client.Session().ID)
	if created {
		ctxzap.Info(ctx, "session created for chat")
	}
	return ctx, client
}
