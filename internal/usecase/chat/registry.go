package chat

import (
	"sync"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/validator"
	"github.com/patrickmn/go-cache"
)

// Registry keeps session clients in memory so many sessions can live in
// one process. Keys are session IDs for the gateway and chat keys for the
// Telegram bot.
type Registry struct {
	cache     *cache.Cache
	backend   BackendConnector
	validator *validator.Validator
	opts      []Option
	ttl       bool

	mu sync.Mutex
}

func NewRegistry(cfg config.SessionConfig, backend BackendConnector, validator *validator.Validator, opts ...Option) *Registry {
	expiration := cache.NoExpiration
	cleanup := cfg.CleanupInterval
	if cfg.IdleTTL > 0 {
		expiration = cfg.IdleTTL
	} else {
		cleanup = 0
	}

	return &Registry{
		cache:     cache.New(expiration, cleanup),
		backend:   backend,
		validator: validator,
		opts:      opts,
		ttl:       cfg.IdleTTL > 0,
	}
}

// Create starts a new session keyed by its own ID
func (r *Registry) Create() *Client {
	client := NewClient(r.backend, r.validator, r.opts...)
	r.cache.Set(client.Session().ID, client, cache.DefaultExpiration)
	return client
}

// Get returns the client stored under key and refreshes its idle timer
func (r *Registry) Get(key string) (*Client, error) {
	item, ok := r.cache.Get(key)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	client := item.(*Client)
	r.touch(key, client)
	return client, nil
}

// GetOrCreate returns the client stored under key, creating a new session
// when there is none. The boolean reports whether a session was created.
func (r *Registry) GetOrCreate(key string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.cache.Get(key); ok {
		client := item.(*Client)
		r.touch(key, client)
		return client, false
	}

	client := NewClient(r.backend, r.validator, r.opts...)
	r.cache.Set(key, client, cache.DefaultExpiration)
	return client, true
}

// Replace drops whatever is stored under key and starts a new session
func (r *Registry) Replace(key string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	client := NewClient(r.backend, r.validator, r.opts...)
	r.cache.Set(key, client, cache.DefaultExpiration)
	return client
}

func (r *Registry) Delete(key string) {
	r.cache.Delete(key)
}

func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

func (r *Registry) touch(key string, client *Client) {
	if r.ttl {
		r.cache.Set(key, client, cache.DefaultExpiration)
	}
}
