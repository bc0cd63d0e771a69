package threat

import (
	"math"
	"strings"
	"time"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/domain/repository"
)

const (
	recentWindow = 100

	levelCritical = "Critical"
	levelHigh     = "High"
	levelMedium   = "Medium"
	levelLow      = "Low"
	levelMinimal  = "Minimal"
)

// categoryWeights are the base contribution of each alert category to the
// aggregate score.
var categoryWeights = map[models.RiskCategory]float64{
	models.CategorySevere:       25,
	models.CategoryPumpDump:     20,
	models.CategoryInsiderSpike: 15,
	models.CategoryVolumeSurge:  12,
	models.CategoryIrregularity: 8,
	models.CategoryMLReview:     10,
}

const unknownWeight = 5

// Aggregator folds the recent alert history into a single market threat
// score with a qualitative level and display color.
type Aggregator struct {
	ledger repository.Ledger
	now    func() time.Time
}

// NewAggregator creates an aggregator over the given ledger.
func NewAggregator(ledger repository.Ledger) *Aggregator {
	return &Aggregator{ledger: ledger, now: time.Now}
}

// Score computes the current threat score from the most recent alerts.
// Each alert contributes its category weight scaled by severity and
// manipulation confidence; a burst within the last hour adds a recency boost.
func (a *Aggregator) Score() models.ThreatScore {
	now := a.now()
	recent := a.ledger.Recent(recentWindow)
	lastHour := a.ledger.CountSince(now.Add(-time.Hour))

	total := 0.0
	highSeverity := 0
	for _, alert := range recent {
		if alert.Severity >= 3 {
			highSeverity++
		}
		weight := weightFor(alert.Reason)
		total += weight *
			(1 + 0.3*float64(alert.Severity)) *
			(1 + alert.ManipulationConfidence/100*0.5)
	}

	total += math.Min(20, float64(lastHour)*3)

	score := int(math.Min(100, math.Round(total)))
	level := levelFor(score, highSeverity)

	return models.ThreatScore{
		Score: score,
		Level: level,
		Color: colorFor(score),
		Details: models.ThreatDetails{
			TotalRecentAlerts:  len(recent),
			HighSeverityAlerts: highSeverity,
			AlertsLastHour:     lastHour,
		},
	}
}

// weightFor resolves the category weight from an alert reason label. Labels
// carry escalation suffixes, so match on the base category prefix; the
// suffixes add small fixed bonuses.
func weightFor(reason string) float64 {
	for cat, w := range categoryWeights {
		if strings.HasPrefix(reason, string(cat)) {
			if strings.Contains(reason, "(ML-Verified)") {
				w += 3
			}
			if strings.Contains(reason, "(Social Media Confirmed)") {
				w += 4
			}
			return w
		}
	}
	return unknownWeight
}

func levelFor(score, highSeverity int) string {
	switch {
	case score >= 80 || highSeverity >= 5:
		return levelCritical
	case score >= 60 || highSeverity >= 3:
		return levelHigh
	case score >= 35 || highSeverity >= 1:
		return levelMedium
	case score >= 15:
		return levelLow
	default:
		return levelMinimal
	}
}

// colorFor maps a score to the dashboard threat meter color.
func colorFor(score int) string {
	switch {
	case score >= 80:
		return "#dc2626"
	case score >= 60:
		return "#ea580c"
	case score >= 35:
		return "#f59e0b"
	case score >= 15:
		return "#eab308"
	default:
		return "#22c55e"
	}
}
