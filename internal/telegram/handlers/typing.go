package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// typingInterval stays below the 5 second lifetime of a Telegram chat action
const typingInterval = 4 * time.Second

// TypingNotifier repeats a chat action while a slow operation runs
type TypingNotifier struct {
	sender *MessageSender
	chatID int64
	action string
	done   chan struct{}
	once   sync.Once
}

func NewTypingNotifier(sender *MessageSender, chatID int64, action string) *TypingNotifier {
	if action == "" {
		action = tgbotapi.ChatTyping
	}
	return &TypingNotifier{
		sender: sender,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
	}
}

// Start sends the action immediately and then every typingInterval until
// Stop is called or ctx ends
func (t *TypingNotifier) Start(ctx context.Context) {
	t.sender.Action(t.chatID, t.action)

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.sender.Action(t.chatID, t.action)
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop is safe to call more than once
func (t *TypingNotifier) Stop() {
	t.once.Do(func() { close(t.done) })
}
