package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
)

func seededLedger(t *testing.T) *AlertLedger {
	t.Helper()
	l := NewAlertLedger()
	now := time.Now().UTC()

	l.Append(models.Alert{Symbol: "AAPL", SourceHandle: "vip_stocks99", Severity: 4, CreatedAt: now.Add(-3 * time.Hour)})
	l.Append(models.Alert{Symbol: "TSLA", SourceHandle: "sec_news", Severity: 2, CreatedAt: now.Add(-2 * time.Hour)})
	l.Append(models.Alert{Symbol: "AAPL", SourceHandle: "trader_joe", Severity: 1, CreatedAt: now.Add(-30 * time.Minute)})
	l.Append(models.Alert{Symbol: "GME", SourceHandle: "vip_stocks99", Severity: 3, CreatedAt: now.Add(-10 * time.Minute)})
	return l
}

func TestAppendAssignsIDAndCreatedAt(t *testing.T) {
	l := NewAlertLedger()

	got := l.Append(models.Alert{Symbol: "AAPL"})
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, 1, l.Len())

	// Provided identity is preserved.
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got = l.Append(models.Alert{ID: "alert-1", Symbol: "TSLA", CreatedAt: fixed})
	assert.Equal(t, "alert-1", got.ID)
	assert.Equal(t, fixed, got.CreatedAt)
}

func TestQueryFiltersAreConjunctive(t *testing.T) {
	l := seededLedger(t)

	bySymbol := l.Query(domrepo.AlertFilter{Symbol: "aapl"})
	require.Len(t, bySymbol, 2)
	for _, a := range bySymbol {
		assert.Equal(t, "AAPL", a.Symbol)
	}

	byHandle := l.Query(domrepo.AlertFilter{Handle: "VIP_STOCKS99"})
	require.Len(t, byHandle, 2)

	both := l.Query(domrepo.AlertFilter{Symbol: "AAPL", Handle: "vip_stocks99"})
	require.Len(t, both, 1)
	assert.Equal(t, 4, both[0].Severity)
}

func TestQuerySortsNewestFirstAndLimits(t *testing.T) {
	l := seededLedger(t)

	got := l.Query(domrepo.AlertFilter{Limit: 3})
	require.Len(t, got, 3)
	assert.Equal(t, "GME", got[0].Symbol)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	assert.True(t, got[1].CreatedAt.After(got[2].CreatedAt))
}

func TestQueryIsIdempotent(t *testing.T) {
	l := seededLedger(t)
	filter := domrepo.AlertFilter{Symbol: "AAPL", Limit: 10}

	first := l.Query(filter)
	require.Len(t, first, 2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, l.Query(filter))
	}

	// Results are copies: mutating one response must not leak into the next.
	first[0].Symbol = "MUTATED"
	again := l.Query(filter)
	assert.Equal(t, "AAPL", again[0].Symbol)
}

func TestQueryTimeBoundsAreInclusive(t *testing.T) {
	l := NewAlertLedger()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.Append(models.Alert{Symbol: "AAPL", CreatedAt: ts})

	got := l.Query(domrepo.AlertFilter{From: &ts, To: &ts})
	assert.Len(t, got, 1)

	after := ts.Add(time.Second)
	got = l.Query(domrepo.AlertFilter{From: &after})
	assert.Empty(t, got)
}

func TestQuerySinceHours(t *testing.T) {
	l := seededLedger(t)

	got := l.Query(domrepo.AlertFilter{SinceHours: 1})
	require.Len(t, got, 2)
	assert.Equal(t, "GME", got[0].Symbol)
	assert.Equal(t, "AAPL", got[1].Symbol)
}

func TestByID(t *testing.T) {
	l := NewAlertLedger()
	stored := l.Append(models.Alert{Symbol: "AAPL"})

	got, ok := l.ByID(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored.ID, got.ID)

	_, ok = l.ByID("missing")
	assert.False(t, ok)
}

func TestRecentAndCountSince(t *testing.T) {
	l := seededLedger(t)

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "GME", recent[0].Symbol)
	assert.Equal(t, "AAPL", recent[1].Symbol)

	n := l.CountSince(time.Now().UTC().Add(-time.Hour))
	assert.Equal(t, 2, n)
}

func TestLeaderboard(t *testing.T) {
	l := seededLedger(t)

	rows := l.Leaderboard(24*time.Hour, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, models.LeaderboardRow{Symbol: "AAPL", Count: 2}, rows[0])

	// Window excludes old alerts.
	rows = l.Leaderboard(time.Hour, 10)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 1, r.Count)
	}
}

func TestSubscribeReceivesAppends(t *testing.T) {
	l := NewAlertLedger()
	ch, cancel := l.Subscribe()
	defer cancel()

	stored := l.Append(models.Alert{Symbol: "AAPL"})

	select {
	case got := <-ch:
		assert.Equal(t, stored.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected alert on subscription channel")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestConcurrentAppendsAndQueries(t *testing.T) {
	l := NewAlertLedger()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Append(models.Alert{Symbol: "AAPL"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Query(domrepo.AlertFilter{Symbol: "AAPL", Limit: 10})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, l.Len())
}
