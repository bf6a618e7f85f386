package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/on1659/DanggeunSearch/logger"
)

// SlidingWindowLimiter admits at most max requests per client within the
// trailing window. Denial is a normal outcome, not an error; the caller
// rejects the request and the denied attempt is not recorded.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	clients map[string][]time.Time

	now func() time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting max requests per
// window for each client
func NewSlidingWindowLimiter(window time.Duration, max int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window:  window,
		max:     max,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow checks whether the client may proceed, recording the admission
// timestamp only when it does
func (l *SlidingWindowLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	timestamps := l.clients[clientID]
	pruned := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= l.max {
		l.clients[clientID] = pruned
		return false
	}

	l.clients[clientID] = append(pruned, now)
	return true
}

// StartSweeper periodically removes clients with no in-window timestamps so
// the client map does not grow without bound. Returns when ctx is cancelled.
func (l *SlidingWindowLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	log := logger.ForLimiter()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := l.sweep()
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("Swept idle clients")
			}
		}
	}
}

// sweep removes idle clients and reports how many were dropped
func (l *SlidingWindowLimiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for clientID, timestamps := range l.clients {
		active := false
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		if !active {
			delete(l.clients, clientID)
			removed++
		}
	}
	return removed
}
