package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steadySeries(n int) ([]float64, []int64) {
	rng := rand.New(rand.NewSource(7))
	prices := make([]float64, n)
	volumes := make([]int64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price *= 1 + (rng.Float64()-0.5)*0.002
		prices[i] = price
		volumes[i] = 1000 + int64(rng.Intn(50))
	}
	return prices, volumes
}

func TestScoreInsufficientHistory(t *testing.T) {
	d := NewDetector()
	prices, volumes := steadySeries(minSamples - 1)

	got := d.Score(prices, volumes)
	assert.Zero(t, got.Score)
	assert.False(t, got.Flag)
	assert.False(t, got.Degraded)
}

func TestWithHistoryWindowRaisesFitThreshold(t *testing.T) {
	d := NewDetector(WithHistoryWindow(40, 60))
	prices, volumes := steadySeries(35)

	// Enough for the default threshold but below the configured one.
	got := d.Score(prices, volumes)
	assert.Zero(t, got.Score)
	assert.False(t, got.Flag)
	assert.False(t, got.Degraded)

	prices, volumes = steadySeries(45)
	assert.NotPanics(t, func() { d.Score(prices, volumes) })
}

func TestScoreMismatchedLengths(t *testing.T) {
	d := NewDetector()
	prices, volumes := steadySeries(50)

	got := d.Score(prices, volumes[:len(volumes)-1])
	assert.Zero(t, got.Score)
	assert.False(t, got.Flag)
}

func TestScoreIsDeterministic(t *testing.T) {
	d := NewDetector()
	prices, volumes := steadySeries(80)

	first := d.Score(prices, volumes)
	second := d.Score(prices, volumes)
	require.Equal(t, first, second)
}

func TestScoreFlatWindowIsNotAnomalous(t *testing.T) {
	d := NewDetector()
	prices := make([]float64, 60)
	volumes := make([]int64, 60)
	for i := range prices {
		prices[i] = 100
		volumes[i] = 1000
	}

	got := d.Score(prices, volumes)
	assert.False(t, got.Flag, "a constant series has no outliers")
	assert.False(t, got.Degraded)
}

func TestColumnStatsConstantColumn(t *testing.T) {
	rows := [][]float64{{3, 1}, {3, 2}, {3, 3}}

	mean, std := columnStats(rows)
	assert.Equal(t, 3.0, mean[0])
	assert.InDelta(t, epsilon, std[0], epsilon/10)

	z := standardizeRow(rows[0], mean, std)
	assert.Zero(t, z[0])
	assert.False(t, math.IsNaN(z[1]) || math.IsInf(z[1], 0))
}

func TestScoreExtremeSpikeRanksAboveBaseline(t *testing.T) {
	d := NewDetector()
	prices, volumes := steadySeries(80)

	baseline := d.Score(prices, volumes)

	spikedPrices := append(append([]float64{}, prices...), prices[len(prices)-1]*1.6)
	spikedVolumes := append(append([]int64{}, volumes...), volumes[len(volumes)-1]*20)

	spiked := d.Score(spikedPrices, spikedVolumes)
	require.False(t, spiked.Degraded)
	assert.Greater(t, spiked.Score, baseline.Score,
		"a 60%% price jump with 20x volume should score above quiet tape")
	assert.True(t, spiked.Flag)
}

func TestForestScoresWithinUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	rows := make([][]float64, 200)
	for i := range rows {
		rows[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}

	f := fitForest(rows, defaultForestConfig())
	require.NotNil(t, f)

	for _, row := range rows[:20] {
		s := f.anomalyScore(row)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}

	// A point far outside the training cloud isolates quickly.
	far := f.anomalyScore([]float64{25, -25, 25})
	near := f.anomalyScore([]float64{0, 0, 0})
	assert.Greater(t, far, near)
}
