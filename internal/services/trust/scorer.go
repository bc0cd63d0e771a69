package trust

import (
	"strings"

	"SentinelShield/internal/domain/models"
)

const (
	baseScore      = 10
	floorScore     = 5
	anonymousScore = 5
)

// Scorer resolves source handles into credibility profiles. Registered
// entities come from a configured registry; unknown handles fall back to
// naming heuristics and content analysis.
type Scorer struct {
	registry map[string]models.RegistryEntry
}

// NewScorer builds a scorer from registry entries. Lookup is
// case-insensitive on the handle.
func NewScorer(entries []models.RegistryEntry) *Scorer {
	registry := make(map[string]models.RegistryEntry, len(entries))
	for _, e := range entries {
		registry[strings.ToLower(e.Handle)] = e
	}
	return &Scorer{registry: registry}
}

// Resolve scores a handle, optionally weighing the message it posted.
// An empty handle is an anonymous source and gets the floor score.
func (s *Scorer) Resolve(handle, message string) models.TrustProfile {
	if handle == "" {
		return models.TrustProfile{
			Registered: false,
			Score:      anonymousScore,
			RiskLevel:  models.RiskVeryHigh,
		}
	}

	if entry, ok := s.registry[strings.ToLower(handle)]; ok {
		level := models.RiskMedium
		if entry.Score >= 90 {
			level = models.RiskLow
		}
		return models.TrustProfile{
			Registered: true,
			Score:      entry.Score,
			RiskLevel:  level,
			Entity: &models.TrustEntity{
				Name:          entry.Name,
				Type:          entry.Type,
				RegistryScore: entry.Score,
			},
		}
	}

	return s.scoreUnregistered(handle, message)
}

func (s *Scorer) scoreUnregistered(handle, message string) models.TrustProfile {
	lower := strings.ToLower(handle)
	adjustment := 0
	var flags []string

	switch {
	case strings.Contains(lower, "official"):
		adjustment += 15
	case strings.Contains(lower, "verified"):
		adjustment += 10
	}

	if strings.Contains(lower, "premium") || strings.Contains(lower, "vip") {
		adjustment -= 10
		flags = append(flags, "promotional handle")
	}
	if strings.ContainsAny(lower, "0123456789") {
		adjustment -= 5
		flags = append(flags, "numeric handle")
	}
	if len(lower) < 5 {
		adjustment -= 5
		flags = append(flags, "short handle")
	}

	if message != "" {
		analysis := s.AnalyzeContent(message)
		if analysis.ManipulationConfidence > 0.6 {
			adjustment -= 20
			flags = append(flags, "high manipulation language")
		} else if analysis.ManipulationConfidence > 0.3 {
			adjustment -= 10
			flags = append(flags, "suspicious language")
		}
	}

	score := baseScore + adjustment
	if score < floorScore {
		score = floorScore
	}

	level := models.RiskVeryHigh
	switch {
	case score >= 70:
		level = models.RiskMedium
	case score >= 40:
		level = models.RiskHigh
	}

	return models.TrustProfile{
		Registered: false,
		Score:      score,
		RiskLevel:  level,
		Flags:      flags,
	}
}
