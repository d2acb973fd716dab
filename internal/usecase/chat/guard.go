package chat

import "sync"

// InputGuard allows one in-flight chat per key, the way a UI disables its
// input while an answer is pending
type InputGuard struct {
	busy sync.Map
}

func NewInputGuard() *InputGuard {
	return &InputGuard{}
}

// Acquire marks key busy. It returns false when a chat is already in
// flight for key. The release func is safe to call more than once.
func (g *InputGuard) Acquire(key string) (release func(), ok bool) {
	if _, loaded := g.busy.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() { g.busy.Delete(key) })
	}, true
}

func (g *InputGuard) Busy(key string) bool {
	_, ok := g.busy.Load(key)
	return ok
}
