package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	threatScore prometheus.Gauge
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinelshield_evaluations_total",
				Help: "Total number of symbol evaluations performed",
			},
			[]string{"symbol"},
		),
		alerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinelshield_alerts_total",
				Help: "Total number of alerts raised",
			},
			[]string{"symbol", "severity"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinelshield_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentinelshield_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		threatScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinelshield_threat_score",
				Help: "Current aggregated threat score",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinelshield_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation records a completed evaluation for a symbol.
func (r *Recorder) RecordEvaluation(symbol string) {
	r.evaluations.WithLabelValues(symbol).Inc()
}

// RecordAlert records a raised alert with its severity label.
func (r *Recorder) RecordAlert(symbol string, severity int) {
	r.alerts.WithLabelValues(symbol, strconv.Itoa(severity)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordThreatScore records the current aggregated threat score.
func (r *Recorder) RecordThreatScore(score float64) {
	r.threatScore.Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
