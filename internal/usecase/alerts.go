package usecase

import (
	"strings"
	"time"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	xhttp "SentinelShield/pkg/http"
	"SentinelShield/pkg/util"
)

// AlertService exposes ledger queries for the API layer.
type AlertService struct {
	ledger domrepo.Ledger
}

// NewAlertService creates the service.
func NewAlertService(ledger domrepo.Ledger) *AlertService {
	return &AlertService{ledger: ledger}
}

// Query lists alerts matching the request filters, newest first. Malformed
// timestamp bounds are rejected as invalid arguments.
func (s *AlertService) Query(req *models.AlertsQueryRequest) ([]models.Alert, error) {
	filter := domrepo.AlertFilter{
		Symbol:     strings.TrimSpace(req.Symbol),
		Handle:     strings.TrimSpace(req.Handle),
		SinceHours: req.SinceHours,
		Limit:      req.Limit,
	}

	if req.FromTS != "" {
		t, ok := util.ParseTime(req.FromTS)
		if !ok {
			return nil, xhttp.InvalidArgumentErrorf("from_ts", "invalid timestamp %q", req.FromTS)
		}
		filter.From = &t
	}
	if req.ToTS != "" {
		t, ok := util.ParseTime(req.ToTS)
		if !ok {
			return nil, xhttp.InvalidArgumentErrorf("to_ts", "invalid timestamp %q", req.ToTS)
		}
		filter.To = &t
	}

	return s.ledger.Query(filter), nil
}

// Get returns the alert detail for an ID, including social context and
// source verification rollups.
func (s *AlertService) Get(id string) (models.AlertDetail, error) {
	alert, ok := s.ledger.ByID(id)
	if !ok {
		return models.AlertDetail{}, xhttp.NotFoundErrorf("alert %s not found", id)
	}

	verification := models.EntityVerification{}
	if alert.SourceHandle != "" {
		if alert.Registered {
			verification.VerifiedEntities = 1
		} else {
			verification.UnverifiedEntities = 1
			if alert.TrustScore < 40 {
				verification.HighRiskSources = 1
			}
		}
	}

	return models.AlertDetail{
		Alert:              alert,
		SocialSnippets:     alert.SocialSnippets,
		EntityVerification: &verification,
		CoordinationAnalysis: &models.CoordinationAnalysis{
			NetworkAnalysis: coordinationSummary(alert),
		},
	}, nil
}

// Leaderboard returns the most-alerted symbols inside the window.
func (s *AlertService) Leaderboard(hours, top int) []models.LeaderboardRow {
	if hours <= 0 {
		hours = 24
	}
	if top <= 0 {
		top = 10
	}
	return s.ledger.Leaderboard(time.Duration(hours)*time.Hour, top)
}

func coordinationSummary(a models.Alert) string {
	switch {
	case a.SocialSignalsCount >= 3:
		return "coordinated promotion pattern: multiple synchronized posts detected"
	case a.SocialSignalsCount > 0:
		return "limited social activity detected around the event window"
	default:
		return "no social coordination signals observed"
	}
}
