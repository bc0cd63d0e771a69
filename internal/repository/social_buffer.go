package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
)

const socialRetention = time.Hour

// SocialBuffer holds recently observed social signals per symbol. External
// consumers (the Kafka feed) push into it; evaluations read from it. When a
// fallback feed is configured its signals are appended to the buffered ones,
// which keeps demo traffic flowing while the broker is idle.
type SocialBuffer struct {
	mu       sync.RWMutex
	bySymbol map[string][]models.SocialSignal
	fallback domrepo.SocialFeed
}

// NewSocialBuffer creates a buffer with an optional fallback feed.
func NewSocialBuffer(fallback domrepo.SocialFeed) *SocialBuffer {
	return &SocialBuffer{
		bySymbol: make(map[string][]models.SocialSignal),
		fallback: fallback,
	}
}

var _ domrepo.SocialFeed = (*SocialBuffer)(nil)

// Add records a signal against a symbol and prunes expired entries.
func (b *SocialBuffer) Add(symbol string, sig models.SocialSignal) {
	key := strings.ToUpper(symbol)
	cutoff := time.Now().UTC().Add(-socialRetention)

	b.mu.Lock()
	kept := make([]models.SocialSignal, 0, len(b.bySymbol[key])+1)
	for _, s := range b.bySymbol[key] {
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}
	b.bySymbol[key] = append(kept, sig)
	b.mu.Unlock()
}

// SignalsFor returns buffered signals for the symbol plus any fallback feed
// output.
func (b *SocialBuffer) SignalsFor(ctx context.Context, symbol string) ([]models.SocialSignal, error) {
	key := strings.ToUpper(symbol)
	cutoff := time.Now().UTC().Add(-socialRetention)

	b.mu.RLock()
	out := make([]models.SocialSignal, 0, len(b.bySymbol[key]))
	for _, s := range b.bySymbol[key] {
		if s.Timestamp.After(cutoff) {
			out = append(out, s)
		}
	}
	b.mu.RUnlock()

	if b.fallback != nil {
		extra, err := b.fallback.SignalsFor(ctx, symbol)
		if err != nil {
			return out, nil
		}
		out = append(out, extra...)
	}
	return out, nil
}
