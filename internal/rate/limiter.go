package rate

import (
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// Limiter reports whether key may act now. When it may not, the duration is
// how long the caller should wait.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) (bool, time.Duration)
}

// MemoryLimiter keeps one token bucket per key. A bucket refills limit tokens
// per window and holds at most limit.
type MemoryLimiter struct {
	mu      sync.Mutex
	store   map[string]*bucket
	now     func() time.Time
	calls   int
	maxIdle time.Duration
}

type bucket struct {
	lim      *xrate.Limiter
	limit    int
	window   time.Duration
	lastSeen time.Time
}

const sweepEvery = 1024

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{store: make(map[string]*bucket), now: time.Now, maxIdle: time.Hour}
}

func (m *MemoryLimiter) Allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	if limit <= 0 || window <= 0 {
		return true, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(now)
	}

	b, ok := m.store[key]
	if !ok || b.limit != limit || b.window != window {
		every := xrate.Every(window / time.Duration(limit))
		b = &bucket{lim: xrate.NewLimiter(every, limit), limit: limit, window: window}
		m.store[key] = b
	}
	b.lastSeen = now

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (m *MemoryLimiter) sweep(now time.Time) {
	for k, b := range m.store {
		if now.Sub(b.lastSeen) > m.maxIdle && now.Sub(b.lastSeen) > b.window {
			delete(m.store, k)
		}
	}
}
