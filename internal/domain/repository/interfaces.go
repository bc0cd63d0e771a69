package repository

import (
	"context"
	"time"

	"SentinelShield/internal/domain/models"
)

// AlertFilter is the conjunctive filter set for ledger queries. Zero values
// mean "no constraint". From/To bound CreatedAt inclusively; CreatedAt is
// advisory for filtering only, never for insertion order.
type AlertFilter struct {
	Symbol     string
	Handle     string
	From       *time.Time
	To         *time.Time
	SinceHours int
	Limit      int
}

// Ledger is the append-only alert store. Appends from concurrent evaluation
// pipelines and reads from the query/aggregation path must both be safe.
type Ledger interface {
	Append(a models.Alert) models.Alert
	Query(f AlertFilter) []models.Alert
	ByID(id string) (models.Alert, bool)
	Recent(n int) []models.Alert
	CountSince(t time.Time) int
	Leaderboard(window time.Duration, top int) []models.LeaderboardRow
	Subscribe() (<-chan models.Alert, func())
	Len() int
}

// Publisher fans out recorded alerts to an external broker.
type Publisher interface {
	Publish(ctx context.Context, a models.Alert) error
	Close() error
}

// Archive persists alerts to long-term storage. The in-process ledger stays
// authoritative; the archive is a write-behind sink.
type Archive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, a models.Alert) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics abstracts the process-level counters the pipeline records.
type Metrics interface {
	RecordEvaluation(symbol string)
	RecordAlert(symbol string, severity int)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordThreatScore(score float64)
	RecordLatency(op string, seconds float64)
}
