package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
)

// Sink is the downstream the pipeline dispatches alerts to (Kafka fan-out,
// archive writes).
type Sink interface {
	Dispatch(ctx context.Context, a models.Alert) error
}

// AlertPipeline sits between the evaluator and external alert sinks. It
// validates, throttles per-symbol alert storms, and buffers when the
// downstream is unavailable so the scoring loop never blocks on a broker.
type AlertPipeline struct {
	sink    Sink
	metrics domrepo.Metrics

	minGap   time.Duration
	bufSize  int
	bufCh    chan models.Alert
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-symbol last dispatched time
}

type PipelineOption func(*AlertPipeline)

// WithMinGap sets the minimum spacing between dispatched alerts per symbol.
func WithMinGap(d time.Duration) PipelineOption {
	return func(p *AlertPipeline) {
		if d > 0 {
			p.minGap = d
		}
	}
}

// WithBufferSize sets the retry buffer size used when downstream is
// unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewAlertPipeline creates a pipeline in front of the given sink.
func NewAlertPipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		sink:     sink,
		metrics:  metrics,
		minGap:   time.Second,
		bufSize:  1000,
		bufCh:    make(chan models.Alert, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan models.Alert, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered alerts.
func (p *AlertPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case a := <-p.bufCh:
				if err := p.sink.Dispatch(ctx, a); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *AlertPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and forwards an alert downstream, buffering on errors.
// Alerts arriving faster than the per-symbol gap are dropped: a storm of
// identical alerts carries no extra information for downstream consumers.
func (p *AlertPipeline) Process(ctx context.Context, a models.Alert) error {
	start := time.Now()
	if err := validateAlert(a); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(a.Symbol, start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Dispatch(ctx, a); err != nil {
		p.metrics.RecordError("pipeline_dispatch")
		// buffer non-blocking
		select {
		case p.bufCh <- a:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_dispatch", time.Since(start).Seconds())
	return nil
}

func validateAlert(a models.Alert) error {
	if a.ID == "" {
		return fmt.Errorf("alert id empty")
	}
	if a.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if a.Severity < 0 || a.Severity > 4 {
		return fmt.Errorf("severity out of range: %d", a.Severity)
	}
	if a.CreatedAt.IsZero() {
		return fmt.Errorf("created_at missing")
	}
	return nil
}

func (p *AlertPipeline) allow(symbol string, now time.Time) bool {
	if p.minGap <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if !last.IsZero() && now.Sub(last) < p.minGap {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
