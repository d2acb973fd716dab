package handlers

import (
	"github.com/futig/ragchat/internal/usecase/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handlers use
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// SessionStore hands out one chat client per Telegram chat
type SessionStore interface {
	GetOrCreate(key string) (*chat.Client, bool)
	Replace(key string) *chat.Client
}

// InputGuard serializes questions per chat
type InputGuard interface {
	Acquire(key string) (release func(), ok bool)
}
