package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
)

type recordingSink struct {
	mu    sync.Mutex
	got   []models.Alert
	fail  bool
	calls int
}

func (s *recordingSink) Dispatch(_ context.Context, a models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return errors.New("downstream unavailable")
	}
	s.got = append(s.got, a)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluation(string)         {}
func (nopMetrics) RecordAlert(string, int)         {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordThreatScore(float64)       {}
func (nopMetrics) RecordLatency(string, float64)   {}

func validTestAlert(symbol string) models.Alert {
	return models.Alert{
		ID:        "a-1",
		Symbol:    symbol,
		Severity:  2,
		CreatedAt: time.Now().UTC(),
	}
}

func TestProcessDispatchesValidAlert(t *testing.T) {
	sink := &recordingSink{}
	p := NewAlertPipeline(sink, nopMetrics{})

	err := p.Process(context.Background(), validTestAlert("AAPL"))
	require.NoError(t, err)
	require.Len(t, sink.got, 1)
	assert.Equal(t, "AAPL", sink.got[0].Symbol)
}

func TestProcessRejectsInvalidAlerts(t *testing.T) {
	sink := &recordingSink{}
	p := NewAlertPipeline(sink, nopMetrics{})
	ctx := context.Background()

	a := validTestAlert("AAPL")
	a.ID = ""
	assert.Error(t, p.Process(ctx, a))

	a = validTestAlert("")
	assert.Error(t, p.Process(ctx, a))

	a = validTestAlert("AAPL")
	a.Severity = 7
	assert.Error(t, p.Process(ctx, a))

	a = validTestAlert("AAPL")
	a.CreatedAt = time.Time{}
	assert.Error(t, p.Process(ctx, a))

	assert.Empty(t, sink.got)
}

func TestProcessThrottlesPerSymbol(t *testing.T) {
	sink := &recordingSink{}
	p := NewAlertPipeline(sink, nopMetrics{}, WithMinGap(time.Minute))
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, validTestAlert("AAPL")))
	require.NoError(t, p.Process(ctx, validTestAlert("AAPL"))) // throttled, dropped
	require.NoError(t, p.Process(ctx, validTestAlert("TSLA"))) // other symbol passes

	assert.Len(t, sink.got, 2)
}

func TestProcessBuffersOnDownstreamFailure(t *testing.T) {
	sink := &recordingSink{fail: true}
	p := NewAlertPipeline(sink, nopMetrics{}, WithMinGap(time.Nanosecond))
	ctx := context.Background()

	err := p.Process(ctx, validTestAlert("AAPL"))
	require.Error(t, err)

	// Recover the downstream and let the background flusher drain.
	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	p.Start(ctx)
	defer p.Stop()

	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.got) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
