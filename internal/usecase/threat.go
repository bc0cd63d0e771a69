package usecase

import (
	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/services/threat"
)

// ThreatService computes the aggregate threat score on demand and mirrors it
// into metrics.
type ThreatService struct {
	aggregator *threat.Aggregator
	metrics    domrepo.Metrics
}

// NewThreatService creates the service.
func NewThreatService(aggregator *threat.Aggregator, metrics domrepo.Metrics) *ThreatService {
	return &ThreatService{aggregator: aggregator, metrics: metrics}
}

// Current returns the present threat score.
func (s *ThreatService) Current() models.ThreatScore {
	score := s.aggregator.Score()
	s.metrics.RecordThreatScore(float64(score.Score))
	return score
}
