package ml

import (
	"math"

	"SentinelShield/internal/domain/service"
)

const (
	// minSamples is the default shortest window the model will fit on.
	minSamples = 30
	// trainWindow is the default cap on history feeding a single fit.
	trainWindow = 100

	volWindow      = 10
	volumeWindow   = 10
	momentumWindow = 5

	// epsilon guards standardization against zero-variance columns.
	epsilon = 1e-9
)

// Detector scores the latest observation of a price/volume window against an
// isolation forest fitted on the preceding observations. It implements
// service.OutlierDetector and never fails the caller: any fit or scoring
// problem degrades to a neutral result.
type Detector struct {
	cfg         forestConfig
	minSamples  int
	trainWindow int
}

// DetectorOption configures Detector.
type DetectorOption func(*Detector)

// NewDetector creates a detector with deterministic defaults.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		cfg:         defaultForestConfig(),
		minSamples:  minSamples,
		trainWindow: trainWindow,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithForestParams overrides the forest hyperparameters. Zero values keep
// the defaults.
func WithForestParams(trees, subsample int, contamination float64, seed int64) DetectorOption {
	return func(d *Detector) {
		if trees > 0 {
			d.cfg.Trees = trees
		}
		if subsample > 0 {
			d.cfg.Subsample = subsample
		}
		if contamination > 0 {
			d.cfg.Contamination = contamination
		}
		if seed != 0 {
			d.cfg.Seed = seed
		}
	}
}

// WithHistoryWindow overrides the shortest fittable window and the cap on
// training history. Zero values keep the defaults.
func WithHistoryWindow(min, train int) DetectorOption {
	return func(d *Detector) {
		if min > 0 {
			d.minSamples = min
		}
		if train > 0 {
			d.trainWindow = train
		}
	}
}

// Score fits on all but the last observation and scores the last one.
// The returned score is the distance of the point's anomaly score above the
// fitted decision threshold; positive means more anomalous than the cutoff.
func (d *Detector) Score(prices []float64, volumes []int64) service.OutlierResult {
	if len(prices) < d.minSamples || len(volumes) != len(prices) {
		return service.Neutral()
	}

	features := buildFeatures(prices, volumes)

	// Train on history only; keep the most recent trainWindow rows before
	// the scored point.
	last := len(features) - 1
	start := last - d.trainWindow
	if start < 0 {
		start = 0
	}
	train := features[start:last]
	if len(train) < 2 {
		return service.Neutral()
	}

	mean, std := columnStats(train)
	standardized := make([][]float64, len(train))
	for i, row := range train {
		standardized[i] = standardizeRow(row, mean, std)
	}

	forest := fitForest(standardized, d.cfg)
	if forest == nil {
		return service.DegradedResult()
	}

	point := standardizeRow(features[last], mean, std)
	score := forest.anomalyScore(point)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return service.DegradedResult()
	}

	return service.OutlierResult{
		Score: score - forest.threshold(),
		Flag:  forest.predict(point),
	}
}

// buildFeatures derives one feature row per observation: return, log volume,
// rolling return volatility, rolling volume ratio, and rolling return
// momentum.
func buildFeatures(prices []float64, volumes []int64) [][]float64 {
	n := len(prices)
	returns := make([]float64, n)
	for i := 1; i < n; i++ {
		if prices[i-1] != 0 {
			returns[i] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = []float64{
			returns[i],
			math.Log(float64(volumes[i]) + 1),
			rollingStdev(returns, i, volWindow),
			rollingVolumeRatio(volumes, i, volumeWindow),
			rollingMean(returns, i, momentumWindow),
		}
	}
	return rows
}

func rollingMean(xs []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for i := start; i <= end; i++ {
		sum += xs[i]
	}
	return sum / float64(end-start+1)
}

func rollingStdev(xs []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	n := end - start + 1
	if n < 2 {
		return 0
	}
	mean := rollingMean(xs, end, window)
	sum2 := 0.0
	for i := start; i <= end; i++ {
		d := xs[i] - mean
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n-1))
}

func rollingVolumeRatio(volumes []int64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for i := start; i <= end; i++ {
		sum += float64(volumes[i])
	}
	mean := sum / float64(end-start+1)
	if mean <= 0 {
		return 0
	}
	return float64(volumes[end]) / mean
}

// columnStats computes per-feature mean and epsilon-padded standard
// deviation over the training rows.
func columnStats(rows [][]float64) ([]float64, []float64) {
	dims := len(rows[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		// stdev + epsilon keeps constant columns finite after division.
		std[j] = math.Sqrt(std[j]/float64(len(rows))) + epsilon
	}
	return mean, std
}

func standardizeRow(row, mean, std []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - mean[j]) / std[j]
	}
	return out
}
