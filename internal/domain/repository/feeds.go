package repository

import (
	"context"

	"SentinelShield/internal/domain/models"
)

// MarketFeed supplies time-ordered sample series for a symbol. Implementations
// may be a real quote provider or a seeded synthetic generator; the core is
// agnostic.
type MarketFeed interface {
	Fetch(ctx context.Context, symbol, interval string, n int) (models.Series, error)
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// SocialFeed supplies recent social-media signals for a symbol.
type SocialFeed interface {
	SignalsFor(ctx context.Context, symbol string) ([]models.SocialSignal, error)
}
