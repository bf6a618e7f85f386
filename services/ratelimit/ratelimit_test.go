package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowLimiter(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 5)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	// exactly five admissions succeed within the window
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("1.2.3.4"), "admission %d", i+1)
		current = current.Add(time.Second)
	}

	// the sixth within the same window is denied
	assert.False(t, limiter.Allow("1.2.3.4"))

	// denials are not recorded: still denied, not pushed further out
	assert.False(t, limiter.Allow("1.2.3.4"))

	// other clients are unaffected
	assert.True(t, limiter.Allow("5.6.7.8"))

	// after the window fully elapses, admission succeeds again
	current = current.Add(61 * time.Second)
	assert.True(t, limiter.Allow("1.2.3.4"))
}

func TestSlidingWindowPartialExpiry(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 2)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow("c"))
	current = current.Add(30 * time.Second)
	assert.True(t, limiter.Allow("c"))
	assert.False(t, limiter.Allow("c"))

	// the first timestamp slides out of the window, freeing one slot
	current = current.Add(31 * time.Second)
	assert.True(t, limiter.Allow("c"))
	assert.False(t, limiter.Allow("c"))
}

func TestSweepRemovesIdleClients(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 5)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("idle")
	limiter.Allow("active")

	current = current.Add(2 * time.Minute)
	limiter.Allow("active")

	removed := limiter.sweep()
	assert.Equal(t, 1, removed)

	limiter.mu.Lock()
	_, idleKept := limiter.clients["idle"]
	_, activeKept := limiter.clients["active"]
	limiter.mu.Unlock()
	assert.False(t, idleKept)
	assert.True(t, activeKept)
}
