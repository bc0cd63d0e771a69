package signals

import (
	"math"

	"SentinelShield/internal/domain/models"
)

const epsilon = 1e-9

// Extractor computes statistical manipulation signals over an aligned
// price/volume window. All methods are pure and safe for concurrent use.
type Extractor struct {
	ewmaSpan      int
	volumeWindow  int
	momentumShort int
	momentumLong  int
}

// Option configures Extractor.
type Option func(*Extractor)

// NewExtractor creates an extractor with the default windows.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		ewmaSpan:      10,
		volumeWindow:  20,
		momentumShort: 5,
		momentumLong:  20,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithEWMASpan sets the short EWMA span. The long span is always twice it.
func WithEWMASpan(span int) Option {
	return func(e *Extractor) {
		if span > 1 {
			e.ewmaSpan = span
		}
	}
}

// WithVolumeWindow sets the trailing window for volume statistics.
func WithVolumeWindow(w int) Option {
	return func(e *Extractor) {
		if w > 1 {
			e.volumeWindow = w
		}
	}
}

// WithMomentumWindows sets the short and long momentum windows.
func WithMomentumWindows(short, long int) Option {
	return func(e *Extractor) {
		if short > 0 && long > short {
			e.momentumShort = short
			e.momentumLong = long
		}
	}
}

// Extract computes the full signal set for a series. ML fields are left
// zeroed; the outlier detector fills them in separately.
func (e *Extractor) Extract(series models.Series) models.SignalSet {
	prices := series.Prices()
	volumes := series.Volumes()

	var s models.SignalSet
	s.EWMAZScore, s.EWMAValue = e.EWMASignal(prices)
	s.VolumeZScore, s.VolumeRatio = e.VolumeSignal(volumes)
	s.MomentumScore, s.ShortMomentum = e.MomentumSignal(prices)
	return s
}

// EWMASignal computes a combined deviation score from short and long
// exponentially weighted moving averages. The combined score is the z-score
// of the last residual against the short EWMA plus twice the relative
// divergence between the short and long EWMA. Returns the combined score
// and the last short EWMA value.
func (e *Extractor) EWMASignal(prices []float64) (float64, float64) {
	if len(prices) == 0 {
		return 0, 0
	}
	short := ewma(prices, e.ewmaSpan)
	long := ewma(prices, e.ewmaSpan*2)

	residuals := make([]float64, len(prices))
	for i := range prices {
		residuals[i] = prices[i] - short[i]
	}

	last := len(prices) - 1
	sd := sampleStdev(residuals)
	if sd <= 0 {
		sd = epsilon
	}
	z := residuals[last] / sd

	divergence := 0.0
	if long[last] != 0 {
		divergence = (short[last] - long[last]) / long[last]
	}

	return z + 2*divergence, short[last]
}

// VolumeSignal computes the z-score and ratio of the most recent volume
// against a trailing window. When the series is shorter than the window the
// whole series is used.
func (e *Extractor) VolumeSignal(volumes []int64) (float64, float64) {
	if len(volumes) == 0 {
		return 0, 0
	}
	start := len(volumes) - e.volumeWindow
	if start < 0 {
		start = 0
	}
	window := make([]float64, 0, len(volumes)-start)
	for _, v := range volumes[start:] {
		window = append(window, float64(v))
	}

	mean := meanOf(window)
	sd := sampleStdev(window)
	if sd <= 0 {
		sd = epsilon
	}

	lastVol := float64(volumes[len(volumes)-1])
	z := (lastVol - mean) / sd

	ratio := 0.0
	if mean > 0 {
		ratio = lastVol / mean
	}
	return z, ratio
}

// MomentumSignal compares short and long window mean returns, scaled by the
// volatility of the long window. Returns the momentum score and the short
// window mean return.
func (e *Extractor) MomentumSignal(prices []float64) (float64, float64) {
	returns := pctChange(prices)
	if len(returns) == 0 {
		return 0, 0
	}

	shortMean := tailMean(returns, e.momentumShort)
	longMean := tailMean(returns, e.momentumLong)

	longStart := len(returns) - e.momentumLong
	if longStart < 0 {
		longStart = 0
	}
	sd := sampleStdev(returns[longStart:])
	if sd <= 0 {
		sd = epsilon
	}

	return (shortMean - longMean) / sd, shortMean
}

// ewma computes an exponentially weighted moving average with
// alpha = 2/(span+1), seeded from the first observation.
func ewma(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// pctChange computes simple percentage returns with the first element zero.
func pctChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			out[i] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return out
}

func tailMean(xs []float64, n int) float64 {
	start := len(xs) - n
	if start < 0 {
		start = 0
	}
	return meanOf(xs[start:])
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdev computes the n-1 standard deviation.
func sampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := meanOf(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - mean
		sum2 += d * d
	}
	variance := sum2 / float64(len(xs)-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
