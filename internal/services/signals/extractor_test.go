package signals

import (
	"math"
	"testing"

	"SentinelShield/internal/domain/models"
)

func flatSeries(n int, price float64, volume int64) models.Series {
	s := models.Series{Symbol: "TEST"}
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, models.Sample{Price: price, Volume: volume})
	}
	return s
}

func TestExtractFlatSeriesIsNeutral(t *testing.T) {
	e := NewExtractor()
	got := e.Extract(flatSeries(50, 100, 1000))

	if math.Abs(got.EWMAZScore) > 1e-6 {
		t.Fatalf("expected neutral ewma z-score, got %v", got.EWMAZScore)
	}
	if math.Abs(got.VolumeZScore) > 1e-6 {
		t.Fatalf("expected neutral volume z-score, got %v", got.VolumeZScore)
	}
	if math.Abs(got.VolumeRatio-1) > 1e-6 {
		t.Fatalf("expected volume ratio 1, got %v", got.VolumeRatio)
	}
	if math.Abs(got.MomentumScore) > 1e-6 {
		t.Fatalf("expected neutral momentum, got %v", got.MomentumScore)
	}
	if got.EWMAValue != 100 {
		t.Fatalf("expected ewma to track flat price, got %v", got.EWMAValue)
	}
}

func TestExtractEmptySeries(t *testing.T) {
	e := NewExtractor()
	got := e.Extract(models.Series{Symbol: "TEST"})
	if got.EWMAZScore != 0 || got.VolumeRatio != 0 || got.MomentumScore != 0 {
		t.Fatalf("expected zero signals for empty series, got %+v", got)
	}
}

func TestEWMASignalFlagsPriceSpike(t *testing.T) {
	e := NewExtractor()
	s := flatSeries(50, 100, 1000)
	s.Samples[len(s.Samples)-1].Price = 150

	z, _ := e.EWMASignal(s.Prices())
	if z < 3 {
		t.Fatalf("expected strong positive score for 50%% spike, got %v", z)
	}

	// Symmetric crash should score strongly negative.
	s.Samples[len(s.Samples)-1].Price = 50
	z, _ = e.EWMASignal(s.Prices())
	if z > -3 {
		t.Fatalf("expected strong negative score for crash, got %v", z)
	}
}

func TestVolumeSignalFlagsSurge(t *testing.T) {
	e := NewExtractor()
	s := flatSeries(50, 100, 1000)
	s.Samples[len(s.Samples)-1].Volume = 5000

	z, ratio := e.VolumeSignal(s.Volumes())
	if ratio < 3 {
		t.Fatalf("expected elevated volume ratio, got %v", ratio)
	}
	if z < 3 {
		t.Fatalf("expected elevated volume z-score, got %v", z)
	}
}

func TestMomentumSignalDetectsAcceleration(t *testing.T) {
	e := NewExtractor()
	s := models.Series{Symbol: "TEST"}
	price := 100.0
	for i := 0; i < 40; i++ {
		s.Samples = append(s.Samples, models.Sample{Price: price, Volume: 1000})
	}
	// Last five samples accelerate upward.
	for i := 0; i < 5; i++ {
		price *= 1.02
		s.Samples = append(s.Samples, models.Sample{Price: price, Volume: 1000})
	}

	score, shortMom := e.MomentumSignal(s.Prices())
	if score <= 0 {
		t.Fatalf("expected positive momentum score, got %v", score)
	}
	if shortMom <= 0 {
		t.Fatalf("expected positive short momentum, got %v", shortMom)
	}
}

func TestEWMAShortTracksFasterThanLong(t *testing.T) {
	e := NewExtractor(WithEWMASpan(5))
	prices := make([]float64, 0, 30)
	for i := 0; i < 20; i++ {
		prices = append(prices, 100)
	}
	for i := 0; i < 10; i++ {
		prices = append(prices, 110)
	}

	short := ewma(prices, 5)
	long := ewma(prices, 10)
	last := len(prices) - 1
	if short[last] <= long[last] {
		t.Fatalf("short ewma %v should lead long ewma %v after a step up", short[last], long[last])
	}

	combined, _ := e.EWMASignal(prices)
	if combined <= 0 {
		t.Fatalf("expected positive combined score after step up, got %v", combined)
	}
}
