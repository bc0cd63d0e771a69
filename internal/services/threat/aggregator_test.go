package threat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/repository"
)

func TestScoreEmptyLedger(t *testing.T) {
	a := NewAggregator(repository.NewAlertLedger())

	got := a.Score()
	assert.Zero(t, got.Score)
	assert.Equal(t, levelMinimal, got.Level)
	assert.Equal(t, "#22c55e", got.Color)
	assert.Zero(t, got.Details.TotalRecentAlerts)
}

func TestScoreSingleIrregularity(t *testing.T) {
	ledger := repository.NewAlertLedger()
	ledger.Append(models.Alert{
		Symbol:    "AAPL",
		Reason:    string(models.CategoryIrregularity),
		Severity:  1,
		CreatedAt: time.Now().UTC().Add(-5 * time.Minute),
	})

	a := NewAggregator(ledger)
	got := a.Score()

	// 8 * 1.3 plus the one-alert recency boost of 3.
	require.Equal(t, 13, got.Score)
	assert.Equal(t, levelMinimal, got.Level)
	assert.Equal(t, 1, got.Details.TotalRecentAlerts)
	assert.Equal(t, 1, got.Details.AlertsLastHour)
	assert.Zero(t, got.Details.HighSeverityAlerts)
}

func TestScoreSevereBurstIsCritical(t *testing.T) {
	ledger := repository.NewAlertLedger()
	for i := 0; i < 5; i++ {
		ledger.Append(models.Alert{
			Symbol:                 "GME",
			Reason:                 string(models.CategorySevere),
			Severity:               4,
			ManipulationConfidence: 90,
			CreatedAt:              time.Now().UTC().Add(-time.Duration(i) * time.Minute),
		})
	}

	a := NewAggregator(ledger)
	got := a.Score()

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, levelCritical, got.Level)
	assert.Equal(t, "#dc2626", got.Color)
	assert.Equal(t, 5, got.Details.HighSeverityAlerts)
	assert.Equal(t, 5, got.Details.AlertsLastHour)
}

func TestHighSeverityCountEscalatesLevel(t *testing.T) {
	ledger := repository.NewAlertLedger()
	// Old manually-filed alerts: low weight, no recency boost, but still
	// high severity.
	for i := 0; i < 3; i++ {
		ledger.Append(models.Alert{
			Symbol:    "TSLA",
			Reason:    "Manual Review",
			Severity:  3,
			CreatedAt: time.Now().UTC().Add(-5 * time.Hour),
		})
	}

	a := NewAggregator(ledger)
	got := a.Score()

	// Score alone sits below the High band; the severity count forces it.
	assert.Less(t, got.Score, 60)
	assert.Equal(t, levelHigh, got.Level)
	assert.Equal(t, 3, got.Details.HighSeverityAlerts)
	assert.Zero(t, got.Details.AlertsLastHour)
}

func TestScoreMonotonicUnderHighSeverityAppends(t *testing.T) {
	ledger := repository.NewAlertLedger()
	a := NewAggregator(ledger)

	prev := a.Score().Score
	for i := 0; i < 12; i++ {
		ledger.Append(models.Alert{
			Symbol:                 "AMC",
			Reason:                 string(models.CategorySevere),
			Severity:               4,
			ManipulationConfidence: 85,
			CreatedAt:              time.Now().UTC().Add(-time.Duration(i) * time.Minute),
		})

		got := a.Score().Score
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
	assert.Equal(t, 100, prev)
}

func TestWeightForEscalationSuffixes(t *testing.T) {
	base := weightFor(string(models.CategoryPumpDump))
	assert.Equal(t, 20.0, base)

	verified := weightFor(string(models.CategoryPumpDump) + " (ML-Verified)")
	assert.Equal(t, 23.0, verified)

	full := weightFor(string(models.CategoryPumpDump) + " (Social Media Confirmed) (ML-Verified)")
	assert.Equal(t, 27.0, full)

	assert.Equal(t, 5.0, weightFor("something else entirely"))
}

func TestColorBands(t *testing.T) {
	assert.Equal(t, "#dc2626", colorFor(85))
	assert.Equal(t, "#ea580c", colorFor(65))
	assert.Equal(t, "#f59e0b", colorFor(40))
	assert.Equal(t, "#eab308", colorFor(20))
	assert.Equal(t, "#22c55e", colorFor(5))
}
