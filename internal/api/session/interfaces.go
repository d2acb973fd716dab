package session

import (
	"github.com/futig/ragchat/internal/usecase/chat"
)

type SessionRegistry interface {
	Create() *chat.Client
	Get(sessionID string) (*chat.Client, error)
	Delete(sessionID string)
}

type InputGuard interface {
	Acquire(key string) (release func(), ok bool)
}
