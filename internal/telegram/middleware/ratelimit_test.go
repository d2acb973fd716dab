package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func messageUpdate(userID, chatID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: "hi",
	}}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(t *testing.T, perMinute, burst int) (*RateLimiterMiddleware, *recordingSender, *fakeClock) {
	t.Helper()
	sender := &recordingSender{}
	clock := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiterMiddleware(perMinute, burst, zap.NewNop(), sender)
	rl.now = clock.now
	t.Cleanup(rl.Close)
	return rl, sender, clock
}

func TestRateLimiter_BurstThenDrop(t *testing.T) {
	rl, sender, _ := newLimiter(t, 60, 3)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }
	for i := 0; i < 5; i++ {
		rl.Handle(messageUpdate(1, 10), next)
	}

	assert.Equal(t, 3, handled)
	assert.Equal(t, []string{noticeSlowDown}, sender.texts())
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, _, clock := newLimiter(t, 60, 1)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(messageUpdate(1, 10), next)
	rl.Handle(messageUpdate(1, 10), next)
	require.Equal(t, 1, handled)

	clock.advance(time.Second)
	rl.Handle(messageUpdate(1, 10), next)
	assert.Equal(t, 2, handled)
}

func TestRateLimiter_UsersAreIndependent(t *testing.T) {
	rl, _, _ := newLimiter(t, 60, 1)

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(messageUpdate(1, 10), next)
	rl.Handle(messageUpdate(2, 20), next)
	assert.Equal(t, 2, handled)
}

func TestRateLimiter_EscalatesWarning(t *testing.T) {
	rl, sender, clock := newLimiter(t, 1, 1)
	next := func(tgbotapi.Update) {}

	rl.Handle(messageUpdate(1, 10), next)
	rl.Handle(messageUpdate(1, 10), next)
	clock.advance(warningInterval + time.Second)
	rl.Handle(messageUpdate(1, 10), next)

	assert.Equal(t, []string{noticeSlowDown, noticeStop}, sender.texts())
}

func TestRateLimiter_UpdatesWithoutUserPass(t *testing.T) {
	rl, _, _ := newLimiter(t, 1, 0)

	handled := false
	rl.Handle(tgbotapi.Update{}, func(tgbotapi.Update) { handled = true })
	assert.True(t, handled)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl, _, clock := newLimiter(t, 60, 1)
	rl.Handle(messageUpdate(1, 10), func(tgbotapi.Update) {})

	rl.evictIdle(clock.t.Add(inactiveThreshold + time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limits)
}
