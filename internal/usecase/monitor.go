package usecase

import (
	"context"
	"fmt"
	"time"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/middleware"
	applogger "SentinelShield/pkg/logger"
)

// Monitor polls the market feed for the configured symbols, evaluates each
// window and files alerts for anomalous ones.
type Monitor struct {
	market    domrepo.MarketFeed
	social    domrepo.SocialFeed
	evaluator *Evaluator
	ledger    domrepo.Ledger
	pipeline  *middleware.AlertPipeline
	metrics   domrepo.Metrics
	l         *applogger.Logger

	symbols  []string
	interval string
	window   int
	poll     time.Duration
}

// NewMonitor creates a monitor. The pipeline may be nil when no external
// fan-out is configured.
func NewMonitor(
	market domrepo.MarketFeed,
	social domrepo.SocialFeed,
	evaluator *Evaluator,
	ledger domrepo.Ledger,
	pipeline *middleware.AlertPipeline,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	symbols []string,
	interval string,
	window int,
	poll time.Duration,
) *Monitor {
	if interval == "" {
		interval = "1min"
	}
	if window <= 0 {
		window = 60
	}
	if poll <= 0 {
		poll = time.Minute
	}
	return &Monitor{
		market:    market,
		social:    social,
		evaluator: evaluator,
		ledger:    ledger,
		pipeline:  pipeline,
		metrics:   metrics,
		l:         l,
		symbols:   symbols,
		interval:  interval,
		window:    window,
		poll:      poll,
	}
}

// Run scans all symbols on the poll interval until the context is canceled.
func (m *Monitor) Run(ctx context.Context) {
	if m.pipeline != nil {
		m.pipeline.Start(ctx)
		defer m.pipeline.Stop()
	}

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	m.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *Monitor) scan(ctx context.Context) {
	for _, symbol := range m.symbols {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := m.EvaluateSymbol(ctx, symbol, m.interval); err != nil {
			m.metrics.RecordError("monitor_scan")
			m.l.Warn("symbol scan failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
}

// Snapshot fetches a fresh window for the symbol and scores it without
// filing an alert. The read-only endpoints use it.
func (m *Monitor) Snapshot(ctx context.Context, symbol, interval string) (models.Series, models.EvaluationResult, error) {
	return m.evaluate(ctx, symbol, interval)
}

// EvaluateSymbol fetches a fresh window for the symbol, scores it and files
// an alert when the evaluation is anomalous. It returns the evaluation and
// the filed alert, if any.
func (m *Monitor) EvaluateSymbol(ctx context.Context, symbol, interval string) (models.EvaluationResult, *models.Alert, error) {
	series, res, err := m.evaluate(ctx, symbol, interval)
	if err != nil {
		return models.EvaluationResult{}, nil, err
	}
	if !res.IsAnomalous() {
		return res, nil, nil
	}

	alert := m.ledger.Append(m.evaluator.BuildAlert(res, series))
	m.metrics.RecordAlert(alert.Symbol, alert.Severity)
	m.l.Info("alert filed",
		applogger.String("symbol", alert.Symbol),
		applogger.String("reason", alert.Reason),
		applogger.Int("severity", alert.Severity),
		applogger.Float64("confidence", alert.ManipulationConfidence),
	)

	if m.pipeline != nil {
		if err := m.pipeline.Process(ctx, alert); err != nil {
			m.l.Warn("alert fan-out failed",
				applogger.String("alert_id", alert.ID),
				applogger.Error(err),
			)
		}
	}
	return res, &alert, nil
}

func (m *Monitor) evaluate(ctx context.Context, symbol, interval string) (models.Series, models.EvaluationResult, error) {
	start := time.Now()
	if interval == "" {
		interval = m.interval
	}

	series, err := m.market.Fetch(ctx, symbol, interval, m.window)
	if err != nil {
		return models.Series{}, models.EvaluationResult{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(series.Samples) == 0 {
		return models.Series{}, models.EvaluationResult{}, fmt.Errorf("fetch %s: empty series", symbol)
	}

	social, err := m.social.SignalsFor(ctx, symbol)
	if err != nil {
		// Social context is optional; score the window without it.
		m.metrics.RecordError("social_feed")
		social = nil
	}

	res := m.evaluator.Evaluate(series, social)
	m.metrics.RecordEvaluation(series.Symbol)
	m.metrics.RecordLastPrice(series.Symbol, series.Last().Price)
	m.metrics.RecordLatency("evaluate", time.Since(start).Seconds())

	if res.MLDegraded {
		m.l.Debug("ml detector degraded", applogger.String("symbol", series.Symbol))
	}
	return series, res, nil
}
