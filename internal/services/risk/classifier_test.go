package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SentinelShield/internal/domain/models"
)

func TestClassifyLadder(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		name     string
		signals  models.SignalSet
		category models.RiskCategory
		severity int
	}{
		{"severe", models.SignalSet{EWMAZScore: 4.5, VolumeRatio: 6}, models.CategorySevere, 4},
		{"severe negative spike", models.SignalSet{EWMAZScore: -4.5, VolumeRatio: 6}, models.CategorySevere, 4},
		{"pump dump", models.SignalSet{EWMAZScore: 3.5, VolumeRatio: 3.5}, models.CategoryPumpDump, 3},
		{"insider spike", models.SignalSet{EWMAZScore: 2.8, VolumeRatio: 1}, models.CategoryInsiderSpike, 2},
		{"volume surge", models.SignalSet{EWMAZScore: 0.5, VolumeRatio: 4.5}, models.CategoryVolumeSurge, 2},
		{"irregularity by price", models.SignalSet{EWMAZScore: 1.8, VolumeRatio: 1}, models.CategoryIrregularity, 1},
		{"irregularity by volume", models.SignalSet{EWMAZScore: 0.1, VolumeRatio: 2.5}, models.CategoryIrregularity, 1},
		{"normal", models.SignalSet{EWMAZScore: 0.5, VolumeRatio: 1.2}, models.CategoryNormal, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls, sev := c.Classify(tc.signals, nil)
			assert.Equal(t, tc.category, cls.Category)
			assert.Equal(t, tc.severity, sev)
			assert.False(t, cls.SocialConfirmed)
			assert.False(t, cls.MLVerified)
		})
	}
}

func TestClassifySocialEscalation(t *testing.T) {
	c := NewClassifier()
	signals := models.SignalSet{EWMAZScore: 2.8, VolumeRatio: 1}

	one := []models.SocialSignal{{ManipulationConfidence: 0.8}}
	cls, sev := c.Classify(signals, one)
	assert.True(t, cls.SocialConfirmed)
	assert.Equal(t, 3, sev)

	three := []models.SocialSignal{
		{ManipulationConfidence: 0.8},
		{ManipulationConfidence: 0.9},
		{ManipulationConfidence: 0.75},
	}
	cls, sev = c.Classify(signals, three)
	assert.True(t, cls.SocialConfirmed)
	assert.Equal(t, 4, sev)

	// Low-confidence chatter does not escalate.
	weak := []models.SocialSignal{{ManipulationConfidence: 0.4}}
	cls, sev = c.Classify(signals, weak)
	assert.False(t, cls.SocialConfirmed)
	assert.Equal(t, 2, sev)
}

func TestClassifyMLEscalationAndReview(t *testing.T) {
	c := NewClassifier()

	cls, sev := c.Classify(models.SignalSet{EWMAZScore: 2.8, VolumeRatio: 1, MLIsAnomaly: true}, nil)
	assert.Equal(t, models.CategoryInsiderSpike, cls.Category)
	assert.True(t, cls.MLVerified)
	assert.Equal(t, 3, sev)

	// ML anomaly on a quiet tape routes to review at fixed severity.
	cls, sev = c.Classify(models.SignalSet{MLIsAnomaly: true}, nil)
	assert.Equal(t, models.CategoryMLReview, cls.Category)
	assert.False(t, cls.MLVerified)
	assert.Equal(t, 1, sev)
}

func TestClassifySeverityIsCapped(t *testing.T) {
	c := NewClassifier()
	signals := models.SignalSet{EWMAZScore: 5, VolumeRatio: 8, MLIsAnomaly: true}
	social := []models.SocialSignal{
		{ManipulationConfidence: 0.9},
		{ManipulationConfidence: 0.9},
		{ManipulationConfidence: 0.9},
	}

	cls, sev := c.Classify(signals, social)
	assert.Equal(t, models.CategorySevere, cls.Category)
	assert.Equal(t, 4, sev)
	assert.Equal(t, "Severe Market Manipulation (Social Media Confirmed) (ML-Verified)", cls.Label())
}

func TestConfidenceClamping(t *testing.T) {
	c := NewClassifier()

	assert.Zero(t, c.Confidence(models.SignalSet{VolumeRatio: 0}, nil))

	social := []models.SocialSignal{
		{ManipulationConfidence: 1},
		{ManipulationConfidence: 1},
		{ManipulationConfidence: 1},
		{ManipulationConfidence: 1},
		{ManipulationConfidence: 1},
	}
	got := c.Confidence(models.SignalSet{EWMAZScore: 10, VolumeRatio: 10, MLScore: 5}, social)
	assert.Equal(t, 100.0, got)
}

func TestConfidenceScalesWithSignals(t *testing.T) {
	c := NewClassifier()

	quiet := c.Confidence(models.SignalSet{EWMAZScore: 0.2, VolumeRatio: 1.1}, nil)
	loud := c.Confidence(models.SignalSet{EWMAZScore: 3, VolumeRatio: 4, MLScore: 1}, nil)
	assert.Greater(t, loud, quiet)
}
