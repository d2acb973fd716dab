package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(config.SessionConfig{}, &fakeBackend{}, testValidator())

	first := r.Create()
	second := r.Create()
	assert.NotEqual(t, first.Session().ID, second.Session().ID)
	assert.Equal(t, 2, r.Count())

	got, err := r.Get(first.Session().ID)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry(config.SessionConfig{}, &fakeBackend{}, testValidator())

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry(config.SessionConfig{}, &fakeBackend{}, testValidator())

	client, created := r.GetOrCreate("tg:1")
	require.True(t, created)

	again, created := r.GetOrCreate("tg:1")
	assert.False(t, created)
	assert.Same(t, client, again)

	other, created := r.GetOrCreate("tg:2")
	assert.True(t, created)
	assert.NotEqual(t, client.Session().ID, other.Session().ID)
}

func TestRegistry_ReplaceStartsNewSession(t *testing.T) {
	r := NewRegistry(config.SessionConfig{}, &fakeBackend{}, testValidator())

	old, _ := r.GetOrCreate("tg:1")
	fresh := r.Replace("tg:1")
	assert.NotEqual(t, old.Session().ID, fresh.Session().ID)

	got, err := r.Get("tg:1")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(config.SessionConfig{}, &fakeBackend{}, testValidator())

	client := r.Create()
	r.Delete(client.Session().ID)

	_, err := r.Get(client.Session().ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.Zero(t, r.Count())
}

func TestRegistry_IdleTTLExpiresSessions(t *testing.T) {
	r := NewRegistry(config.SessionConfig{
		IdleTTL:         20 * time.Millisecond,
		CleanupInterval: time.Hour,
	}, &fakeBackend{}, testValidator())

	client := r.Create()
	_, err := r.Get(client.Session().ID)
	require.NoError(t, err)

	// Get refreshes the idle timer, so stay away until it lapses
	time.Sleep(60 * time.Millisecond)

	_, err = r.Get(client.Session().ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}
