package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/services/ml"
	"SentinelShield/internal/services/risk"
	"SentinelShield/internal/services/signals"
	"SentinelShield/internal/services/trust"
)

func newTestEvaluator(opts ...EvaluatorOption) *Evaluator {
	return NewEvaluator(
		signals.NewExtractor(),
		ml.NewDetector(),
		risk.NewClassifier(),
		trust.NewScorer([]models.RegistryEntry{
			{Handle: "sec_news", Name: "SEC", Type: "regulator", Score: 98},
		}),
		opts...,
	)
}

func quietSeries(n int) models.Series {
	s := models.Series{Symbol: "AAPL"}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, models.Sample{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Price:     100,
			Volume:    1000,
		})
	}
	return s
}

func pumpedSeries(n int) models.Series {
	s := quietSeries(n)
	last := len(s.Samples) - 1
	s.Samples[last].Price = 160
	s.Samples[last].Volume = 6000
	return s
}

func TestEvaluateQuietSeries(t *testing.T) {
	e := newTestEvaluator()

	res := e.Evaluate(quietSeries(60), nil)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, models.CategoryNormal, res.Classification.Category)
	assert.Zero(t, res.Severity)
	assert.False(t, res.IsAnomalous())
}

func TestEvaluatePumpedSeries(t *testing.T) {
	e := newTestEvaluator()

	res := e.Evaluate(pumpedSeries(60), nil)
	assert.True(t, res.IsAnomalous())
	assert.GreaterOrEqual(t, res.Severity, 3)
	assert.Greater(t, res.ManipulationConfidence, 30.0)
	assert.NotEqual(t, models.CategoryNormal, res.Classification.Category)
	assert.Equal(t, res.Classification.Label(), res.Reason)
}

func TestEvaluateSocialEscalatesSeverity(t *testing.T) {
	e := newTestEvaluator()
	series := pumpedSeries(60)

	plain := e.Evaluate(series, nil)
	social := []models.SocialSignal{
		{Handle: "vip_stocks99", Message: "buy now guaranteed", ManipulationConfidence: 0.9},
		{Handle: "moonshot_mike", Message: "to the moon", ManipulationConfidence: 0.85},
		{Handle: "quickgains4u", Message: "insider secret", ManipulationConfidence: 0.95},
	}
	boosted := e.Evaluate(series, social)

	assert.GreaterOrEqual(t, boosted.Severity, plain.Severity)
	assert.True(t, boosted.Classification.SocialConfirmed)
	assert.Contains(t, boosted.Reason, "(Social Media Confirmed)")
	assert.Greater(t, boosted.ManipulationConfidence, plain.ManipulationConfidence)
}

func TestBuildAlertResolvesSuspectedSource(t *testing.T) {
	e := newTestEvaluator()
	series := pumpedSeries(60)
	social := []models.SocialSignal{
		{Handle: "sec_news", Message: "unusual activity noted", ManipulationConfidence: 0.1},
		{Handle: "vip_stocks99", Message: "guaranteed insider 10x, buy now", ManipulationConfidence: 0.95},
	}

	res := e.Evaluate(series, social)
	require.True(t, res.IsAnomalous())

	alert := e.BuildAlert(res, series)
	assert.Equal(t, "AAPL", alert.Symbol)
	assert.Equal(t, 160.0, alert.Price)
	assert.Equal(t, int64(6000), alert.Volume)
	assert.Equal(t, "vip_stocks99", alert.SourceHandle)
	assert.False(t, alert.Registered)
	assert.LessOrEqual(t, alert.TrustScore, 10)
	assert.Equal(t, 2, alert.SocialSignalsCount)
	require.Len(t, alert.SocialSnippets, 2)
	assert.False(t, alert.CreatedAt.IsZero())
}

func TestBuildAlertRegisteredSource(t *testing.T) {
	e := newTestEvaluator()
	series := pumpedSeries(60)
	social := []models.SocialSignal{
		{Handle: "SEC_News", Message: "halting trading pending review", ManipulationConfidence: 0.2},
	}

	res := e.Evaluate(series, social)
	alert := e.BuildAlert(res, series)
	assert.Equal(t, "SEC_News", alert.SourceHandle)
	assert.True(t, alert.Registered)
	assert.Equal(t, 98, alert.TrustScore)
}

func TestEvaluateCachesByWindow(t *testing.T) {
	e := newTestEvaluator(WithEvaluationCache(time.Minute))
	series := pumpedSeries(60)

	first := e.Evaluate(series, nil)
	second := e.Evaluate(series, nil)
	assert.Equal(t, first, second)
}

func TestEvaluateCachedWindowStillEscalatesOnNewSocial(t *testing.T) {
	e := newTestEvaluator(WithEvaluationCache(time.Minute))
	series := pumpedSeries(60)

	plain := e.Evaluate(series, nil)
	require.True(t, plain.IsAnomalous())
	require.False(t, plain.Classification.SocialConfirmed)

	social := []models.SocialSignal{
		{Handle: "vip_stocks99", Message: "buy now guaranteed", ManipulationConfidence: 0.9},
		{Handle: "moonshot_mike", Message: "to the moon", ManipulationConfidence: 0.85},
		{Handle: "quickgains4u", Message: "insider secret", ManipulationConfidence: 0.95},
	}
	boosted := e.Evaluate(series, social)

	assert.True(t, boosted.Classification.SocialConfirmed)
	assert.Contains(t, boosted.Reason, "(Social Media Confirmed)")
	assert.Greater(t, boosted.Severity, plain.Severity)
	assert.Greater(t, boosted.ManipulationConfidence, plain.ManipulationConfidence)
	assert.Equal(t, plain.Signals, boosted.Signals)
}
