package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
)

func testRegistry() []models.RegistryEntry {
	return []models.RegistryEntry{
		{Handle: "SEC_News", Name: "U.S. Securities and Exchange Commission", Type: "regulator", Score: 98},
		{Handle: "reuters_markets", Name: "Reuters Markets", Type: "news", Score: 92},
		{Handle: "midtier_analyst", Name: "Mid Tier Analyst", Type: "analyst", Score: 75},
	}
}

func TestResolveAnonymousHandle(t *testing.T) {
	s := NewScorer(testRegistry())

	got := s.Resolve("", "")
	assert.False(t, got.Registered)
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, models.RiskVeryHigh, got.RiskLevel)
	assert.Nil(t, got.Entity)
}

func TestResolveRegisteredEntity(t *testing.T) {
	s := NewScorer(testRegistry())

	got := s.Resolve("sec_news", "ignore the message for registered sources")
	require.True(t, got.Registered)
	assert.Equal(t, 98, got.Score)
	assert.Equal(t, models.RiskLow, got.RiskLevel)
	require.NotNil(t, got.Entity)
	assert.Equal(t, "regulator", got.Entity.Type)
	assert.Equal(t, 98, got.Entity.RegistryScore)
}

func TestResolveRegisteredMidScoreIsMediumRisk(t *testing.T) {
	s := NewScorer(testRegistry())

	got := s.Resolve("MIDTIER_ANALYST", "")
	require.True(t, got.Registered)
	assert.Equal(t, 75, got.Score)
	assert.Equal(t, models.RiskMedium, got.RiskLevel)
}

func TestResolveUnregisteredHeuristics(t *testing.T) {
	s := NewScorer(nil)

	// "official" grants the larger bonus and suppresses "verified".
	got := s.Resolve("official_verified_desk", "")
	assert.Equal(t, 25, got.Score)
	assert.Empty(t, got.Flags)

	// Promotional plus numeric handle penalties stack.
	got = s.Resolve("vip_stocks99", "")
	assert.Equal(t, 5, got.Score)
	assert.Contains(t, got.Flags, "promotional handle")
	assert.Contains(t, got.Flags, "numeric handle")
	assert.Equal(t, models.RiskVeryHigh, got.RiskLevel)

	// Short handles are penalized.
	got = s.Resolve("abc", "")
	assert.Equal(t, 5, got.Score)
	assert.Contains(t, got.Flags, "short handle")
}

func TestResolveMessagePenalties(t *testing.T) {
	s := NewScorer(nil)

	got := s.Resolve("official_trading_desk", "guaranteed insider secret, buy now!")
	assert.Equal(t, 5, got.Score)
	assert.Contains(t, got.Flags, "high manipulation language")

	got = s.Resolve("official_trading_desk", "act now before close")
	assert.Equal(t, 15, got.Score)
	assert.Contains(t, got.Flags, "suspicious language")
}

func TestAnalyzeContentBounds(t *testing.T) {
	s := NewScorer(nil)

	got := s.AnalyzeContent("guaranteed 10x, insider secret, buy now, hurry, easy money")
	assert.Equal(t, 1.0, got.Sentiment)
	assert.Equal(t, 1.0, got.ManipulationConfidence)
	assert.NotEmpty(t, got.Keywords)

	neutral := s.AnalyzeContent("quarterly earnings report released")
	assert.Zero(t, neutral.ManipulationConfidence)
	assert.Empty(t, neutral.Keywords)
}
