package chat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputGuard_AcquireRelease(t *testing.T) {
	g := NewInputGuard()

	release, ok := g.Acquire("s1")
	require.True(t, ok)
	assert.True(t, g.Busy("s1"))

	_, ok = g.Acquire("s1")
	assert.False(t, ok)

	_, ok = g.Acquire("s2")
	assert.True(t, ok, "keys are independent")

	release()
	release()
	assert.False(t, g.Busy("s1"))

	_, ok = g.Acquire("s1")
	assert.True(t, ok)
}

func TestInputGuard_OneWinnerUnderContention(t *testing.T) {
	g := NewInputGuard()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.Acquire("s1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
