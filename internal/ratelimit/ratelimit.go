package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Limiter throttles actions per key, e.g. per chat.
type Limiter interface {
	Allow(key int64) bool
}

// InMemoryLimiter keeps one token bucket per key.
type InMemoryLimiter struct {
	mu    sync.Mutex
	keys  map[int64]*rate.Limiter
	r     rate.Limit
	b     int
	clock clockwork.Clock
}

// NewInMemoryLimiter allows requests every per, bursting up to burst.
// Example: NewInMemoryLimiter(1, 2*time.Second, 5, clock) allows one command every two seconds after a burst of five.
func NewInMemoryLimiter(requests int, per time.Duration, burst int, clock clockwork.Clock) *InMemoryLimiter {
	r := rate.Inf
	if requests > 0 && per > 0 {
		r = rate.Every(per / time.Duration(requests))
	}
	if burst < 1 {
		burst = 1
	}

	return &InMemoryLimiter{
		keys:  make(map[int64]*rate.Limiter),
		r:     r,
		b:     burst,
		clock: clock,
	}
}

func (l *InMemoryLimiter) Allow(key int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.keys[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.keys[key] = limiter
	}

	return limiter.AllowN(l.clock.Now(), 1)
}
