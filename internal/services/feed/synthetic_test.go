package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	m := NewSyntheticMarket(Config{Seed: 42, BasePrice: 100, BaseVolume: 10000, SpikeMultiplier: 1.25})

	first, err := m.Fetch(ctx, "AAPL", "1min", 50)
	require.NoError(t, err)
	second, err := m.Fetch(ctx, "AAPL", "1min", 50)
	require.NoError(t, err)

	require.Len(t, first.Samples, 50)
	for i := range first.Samples {
		assert.Equal(t, first.Samples[i].Price, second.Samples[i].Price)
		assert.Equal(t, first.Samples[i].Volume, second.Samples[i].Volume)
	}

	// Distinct symbols walk differently.
	other, err := m.Fetch(ctx, "TSLA", "1min", 50)
	require.NoError(t, err)
	assert.NotEqual(t, first.Samples[10].Price, other.Samples[10].Price)
}

func TestFetchTimestampsAreOrdered(t *testing.T) {
	m := NewSyntheticMarket(DefaultConfig())
	series, err := m.Fetch(context.Background(), "gme", "5min", 30)
	require.NoError(t, err)

	assert.Equal(t, "GME", series.Symbol)
	for i := 1; i < len(series.Samples); i++ {
		assert.True(t, series.Samples[i].Timestamp.After(series.Samples[i-1].Timestamp))
	}
}

func TestSearchSymbols(t *testing.T) {
	m := NewSyntheticMarket(DefaultConfig())
	ctx := context.Background()

	matches, err := m.SearchSymbols(ctx, "apple")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "AAPL", matches[0].Symbol)

	matches, err = m.SearchSymbols(ctx, "ts")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "TSLA", matches[0].Symbol)

	matches, err = m.SearchSymbols(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSocialSignalsBounds(t *testing.T) {
	s := NewSyntheticSocial(7)
	ctx := context.Background()

	for _, symbol := range []string{"AAPL", "TSLA", "GME", "AMC", "MSFT"} {
		signals, err := s.SignalsFor(ctx, symbol)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(signals), 5)
		for _, sig := range signals {
			assert.NotEmpty(t, sig.ID)
			assert.NotEmpty(t, sig.Handle)
			assert.Contains(t, sig.Message, symbol)
			assert.GreaterOrEqual(t, sig.SentimentScore, 0.0)
			assert.LessOrEqual(t, sig.SentimentScore, 1.0)
			assert.GreaterOrEqual(t, sig.ManipulationConfidence, 0.0)
			assert.LessOrEqual(t, sig.ManipulationConfidence, 1.0)
		}
	}
}
