package feed

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/domain/repository"
)

// Config controls the synthetic generators. A fixed Seed makes every
// generated series reproducible per symbol.
type Config struct {
	Seed            int64
	BasePrice       float64
	BaseVolume      int64
	SpikeChance     float64
	SpikeMultiplier float64
}

// DefaultConfig returns generator defaults suitable for demos.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		BasePrice:       100,
		BaseVolume:      10000,
		SpikeChance:     0.08,
		SpikeMultiplier: 1.25,
	}
}

// SyntheticMarket generates random-walk price/volume series. It implements
// repository.MarketFeed so demos and tests run without a quote provider.
type SyntheticMarket struct {
	cfg      Config
	universe []models.SymbolMatch
}

// NewSyntheticMarket creates a generator over a small built-in universe.
func NewSyntheticMarket(cfg Config) *SyntheticMarket {
	if cfg.BasePrice <= 0 {
		cfg.BasePrice = 100
	}
	if cfg.BaseVolume <= 0 {
		cfg.BaseVolume = 10000
	}
	if cfg.SpikeMultiplier <= 1 {
		cfg.SpikeMultiplier = 1.25
	}
	return &SyntheticMarket{
		cfg: cfg,
		universe: []models.SymbolMatch{
			{Symbol: "AAPL", Exchange: "NASDAQ", InstrumentName: "Apple Inc"},
			{Symbol: "TSLA", Exchange: "NASDAQ", InstrumentName: "Tesla Inc"},
			{Symbol: "GME", Exchange: "NYSE", InstrumentName: "GameStop Corp"},
			{Symbol: "AMC", Exchange: "NYSE", InstrumentName: "AMC Entertainment Holdings"},
			{Symbol: "MSFT", Exchange: "NASDAQ", InstrumentName: "Microsoft Corporation"},
			{Symbol: "NVDA", Exchange: "NASDAQ", InstrumentName: "NVIDIA Corporation"},
			{Symbol: "BBBYQ", Exchange: "OTC", InstrumentName: "Bed Bath and Beyond Inc"},
		},
	}
}

var _ repository.MarketFeed = (*SyntheticMarket)(nil)

// Fetch generates n samples ending at the current time, spaced by the
// interval. The walk is seeded per symbol so repeated fetches agree.
func (m *SyntheticMarket) Fetch(ctx context.Context, symbol, interval string, n int) (models.Series, error) {
	if err := ctx.Err(); err != nil {
		return models.Series{}, err
	}
	if n <= 0 {
		n = 60
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed + symbolSeed(symbol)))
	step := intervalDuration(interval)
	start := time.Now().UTC().Truncate(step).Add(-time.Duration(n-1) * step)

	series := models.Series{Symbol: strings.ToUpper(symbol), Samples: make([]models.Sample, 0, n)}
	price := m.cfg.BasePrice * (0.5 + rng.Float64())
	for i := 0; i < n; i++ {
		price *= 1 + (rng.Float64()-0.5)*0.01
		volume := m.cfg.BaseVolume + int64(rng.Intn(int(m.cfg.BaseVolume/2)+1))

		// Occasionally inject a pump-like spike on the final bar.
		if i == n-1 && rng.Float64() < m.cfg.SpikeChance {
			price *= m.cfg.SpikeMultiplier
			volume *= 6
		}

		series.Samples = append(series.Samples, models.Sample{
			Timestamp: start.Add(time.Duration(i) * step),
			Price:     price,
			Volume:    volume,
		})
	}
	return series, nil
}

// SearchSymbols matches the query against the built-in universe by symbol
// or instrument name, case-insensitive.
func (m *SyntheticMarket) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var out []models.SymbolMatch
	for _, s := range m.universe {
		if strings.Contains(strings.ToLower(s.Symbol), q) ||
			strings.Contains(strings.ToLower(s.InstrumentName), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(symbol)))
	return int64(h.Sum64() & 0x7fffffff)
}

func intervalDuration(interval string) time.Duration {
	switch interval {
	case "5min":
		return 5 * time.Minute
	case "15min":
		return 15 * time.Minute
	case "1h":
		return time.Hour
	default:
		return time.Minute
	}
}
