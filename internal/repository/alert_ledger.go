package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
)

// AlertLedger is the authoritative in-memory alert store. Appends are
// append-only; queries never mutate. Subscribers receive new alerts on
// buffered channels and slow subscribers drop rather than block.
type AlertLedger struct {
	mu     sync.RWMutex
	alerts []models.Alert

	subMu  sync.Mutex
	subs   map[int]chan models.Alert
	nextID int
}

// NewAlertLedger creates an empty ledger.
func NewAlertLedger() *AlertLedger {
	return &AlertLedger{subs: make(map[int]chan models.Alert)}
}

var _ domrepo.Ledger = (*AlertLedger)(nil)

// Append stores the alert, assigning an ID and creation time when missing,
// and fans it out to subscribers.
func (l *AlertLedger) Append(a models.Alert) models.Alert {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	l.mu.Lock()
	l.alerts = append(l.alerts, a)
	l.mu.Unlock()

	l.subMu.Lock()
	for _, ch := range l.subs {
		select {
		case ch <- a:
		default:
			// subscriber is behind; drop instead of blocking the writer
		}
	}
	l.subMu.Unlock()

	return a
}

// Query returns alerts matching every set filter, newest first.
func (l *AlertLedger) Query(f domrepo.AlertFilter) []models.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var cutoff time.Time
	if f.SinceHours > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(f.SinceHours) * time.Hour)
	}

	out := make([]models.Alert, 0)
	for _, a := range l.alerts {
		if f.Symbol != "" && !strings.EqualFold(a.Symbol, f.Symbol) {
			continue
		}
		if f.Handle != "" && !strings.EqualFold(a.SourceHandle, f.Handle) {
			continue
		}
		if f.From != nil && a.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && a.CreatedAt.After(*f.To) {
			continue
		}
		if !cutoff.IsZero() && a.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// ByID looks up a single alert.
func (l *AlertLedger) ByID(id string) (models.Alert, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.alerts {
		if l.alerts[i].ID == id {
			return l.alerts[i], true
		}
	}
	return models.Alert{}, false
}

// Recent returns up to n most recent alerts, newest first.
func (l *AlertLedger) Recent(n int) []models.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := len(l.alerts) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.Alert, 0, len(l.alerts)-start)
	for i := len(l.alerts) - 1; i >= start; i-- {
		out = append(out, l.alerts[i])
	}
	return out
}

// CountSince counts alerts created at or after the cutoff.
func (l *AlertLedger) CountSince(cutoff time.Time) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, a := range l.alerts {
		if !a.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// Leaderboard returns the symbols with the most alerts inside the window,
// sorted by count descending with symbol as tiebreak.
func (l *AlertLedger) Leaderboard(window time.Duration, top int) []models.LeaderboardRow {
	cutoff := time.Now().UTC().Add(-window)

	l.mu.RLock()
	counts := make(map[string]int)
	for _, a := range l.alerts {
		if a.CreatedAt.Before(cutoff) {
			continue
		}
		counts[a.Symbol]++
	}
	l.mu.RUnlock()

	rows := make([]models.LeaderboardRow, 0, len(counts))
	for sym, n := range counts {
		rows = append(rows, models.LeaderboardRow{Symbol: sym, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Symbol < rows[j].Symbol
	})

	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return rows
}

// Subscribe registers a live alert feed. The returned cancel func must be
// called to release the subscription.
func (l *AlertLedger) Subscribe() (<-chan models.Alert, func()) {
	ch := make(chan models.Alert, 64)

	l.subMu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.subMu.Unlock()

	cancel := func() {
		l.subMu.Lock()
		if sub, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub)
		}
		l.subMu.Unlock()
	}
	return ch, cancel
}

// Len reports the total number of stored alerts.
func (l *AlertLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.alerts)
}
