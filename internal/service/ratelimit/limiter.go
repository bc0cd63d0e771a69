package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket refilled continuously at refillRate per second.
type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64
	last       time.Time
}

// Limiter holds one token bucket per key. The quote client keys buckets by
// provider so every monitored symbol draws from the same request budget.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket)}
}

// Allow consumes one token for key if available. New keys start full.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
