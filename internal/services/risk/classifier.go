package risk

import (
	"math"

	"SentinelShield/internal/domain/models"
)

const maxSeverity = 4

// Classifier maps a signal set plus corroborating social activity to a risk
// category, severity and manipulation confidence. Thresholds are fixed; the
// ladder is evaluated top down and the first matching rung wins.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the classification and severity for a signal set.
// Social corroboration and an ML anomaly flag escalate a non-normal base
// category; an ML anomaly on an otherwise quiet tape yields a review
// category at fixed severity.
func (c *Classifier) Classify(s models.SignalSet, social []models.SocialSignal) (models.Classification, int) {
	base, severity := baseCategory(s)

	cls := models.Classification{Category: base}
	if base == models.CategoryNormal {
		if s.MLIsAnomaly {
			cls.Category = models.CategoryMLReview
			return cls, 1
		}
		return cls, 0
	}

	confident := confidentSocialCount(social)
	if confident >= 3 {
		severity += 2
		cls.SocialConfirmed = true
	} else if confident >= 1 {
		severity++
		cls.SocialConfirmed = true
	}

	if s.MLIsAnomaly {
		severity++
		cls.MLVerified = true
	}

	if severity > maxSeverity {
		severity = maxSeverity
	}
	return cls, severity
}

// Confidence estimates how likely the window reflects deliberate
// manipulation, on a 0..100 scale.
func (c *Classifier) Confidence(s models.SignalSet, social []models.SocialSignal) float64 {
	total := math.Min(20, math.Abs(s.EWMAZScore)*5)
	total += math.Min(20, (s.VolumeRatio-1)*8)
	total += math.Min(30, s.MLScore*15)

	if len(social) > 0 {
		sum := 0.0
		for _, sig := range social {
			sum += sig.ManipulationConfidence
		}
		total += (sum / float64(len(social))) * 20
		total += math.Min(10, float64(len(social))*2)
	}

	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

func baseCategory(s models.SignalSet) (models.RiskCategory, int) {
	absEWMA := math.Abs(s.EWMAZScore)
	ratio := s.VolumeRatio

	switch {
	case absEWMA > 4 && ratio > 5:
		return models.CategorySevere, 4
	case absEWMA > 3 && ratio > 3:
		return models.CategoryPumpDump, 3
	case absEWMA > 2.5:
		return models.CategoryInsiderSpike, 2
	case ratio > 4:
		return models.CategoryVolumeSurge, 2
	case absEWMA > 1.5 || ratio > 2:
		return models.CategoryIrregularity, 1
	default:
		return models.CategoryNormal, 0
	}
}

func confidentSocialCount(social []models.SocialSignal) int {
	n := 0
	for _, sig := range social {
		if sig.ManipulationConfidence > 0.7 {
			n++
		}
	}
	return n
}
