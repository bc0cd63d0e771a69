package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/repository"
	xhttp "SentinelShield/pkg/http"
)

func TestAlertQueryRejectsBadTimestamps(t *testing.T) {
	svc := NewAlertService(repository.NewAlertLedger())

	_, err := svc.Query(&models.AlertsQueryRequest{FromTS: "not-a-time"})
	require.Error(t, err)

	var appErr *xhttp.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ERR_INVALID_ARGUMENT", appErr.Code)
	assert.Equal(t, "from_ts", appErr.Field)

	_, err = svc.Query(&models.AlertsQueryRequest{ToTS: "2026/99/99"})
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "to_ts", appErr.Field)
}

func TestAlertQueryFilters(t *testing.T) {
	ledger := repository.NewAlertLedger()
	svc := NewAlertService(ledger)

	for i := 0; i < 3; i++ {
		ledger.Append(models.Alert{Symbol: "GME", Reason: "Volume Surge", Severity: 2})
	}
	ledger.Append(models.Alert{Symbol: "AAPL", Reason: "Market Irregularity", Severity: 1})

	got, err := svc.Query(&models.AlertsQueryRequest{Symbol: "gme", Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, "GME", a.Symbol)
	}

	all, err := svc.Query(&models.AlertsQueryRequest{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAlertGetNotFound(t *testing.T) {
	svc := NewAlertService(repository.NewAlertLedger())

	_, err := svc.Get("missing")
	require.Error(t, err)

	var appErr *xhttp.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ERR_NOT_FOUND", appErr.Code)
}

func TestAlertGetRegisteredSourceDetail(t *testing.T) {
	ledger := repository.NewAlertLedger()
	svc := NewAlertService(ledger)

	stored := ledger.Append(models.Alert{
		Symbol:             "TSLA",
		Reason:             "Pump & Dump Risk (Social Media Confirmed)",
		Severity:           3,
		SourceHandle:       "verified_analyst_desk",
		TrustScore:         80,
		Registered:         true,
		SocialSignalsCount: 4,
		SocialSnippets: []models.SocialSnippet{
			{Handle: "verified_analyst_desk", Text: "TSLA moving fast"},
		},
	})

	detail, err := svc.Get(stored.ID)
	require.NoError(t, err)

	assert.Equal(t, stored.ID, detail.Alert.ID)
	require.Len(t, detail.SocialSnippets, 1)

	require.NotNil(t, detail.EntityVerification)
	assert.Equal(t, 1, detail.EntityVerification.VerifiedEntities)
	assert.Zero(t, detail.EntityVerification.UnverifiedEntities)
	assert.Zero(t, detail.EntityVerification.HighRiskSources)

	require.NotNil(t, detail.CoordinationAnalysis)
	assert.Contains(t, detail.CoordinationAnalysis.NetworkAnalysis, "coordinated promotion")
}

func TestAlertGetUnregisteredLowTrustDetail(t *testing.T) {
	ledger := repository.NewAlertLedger()
	svc := NewAlertService(ledger)

	stored := ledger.Append(models.Alert{
		Symbol:             "GME",
		Reason:             "Market Irregularity",
		Severity:           1,
		SourceHandle:       "vip_stocks99",
		TrustScore:         5,
		Registered:         false,
		SocialSignalsCount: 1,
	})

	detail, err := svc.Get(stored.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.EntityVerification)
	assert.Zero(t, detail.EntityVerification.VerifiedEntities)
	assert.Equal(t, 1, detail.EntityVerification.UnverifiedEntities)
	assert.Equal(t, 1, detail.EntityVerification.HighRiskSources)
	assert.Contains(t, detail.CoordinationAnalysis.NetworkAnalysis, "limited social activity")
}

func TestAlertGetNoSocialContext(t *testing.T) {
	ledger := repository.NewAlertLedger()
	svc := NewAlertService(ledger)

	stored := ledger.Append(models.Alert{Symbol: "MSFT", Reason: "Volume Surge", Severity: 2})

	detail, err := svc.Get(stored.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.EntityVerification.VerifiedEntities)
	assert.Zero(t, detail.EntityVerification.UnverifiedEntities)
	assert.Contains(t, detail.CoordinationAnalysis.NetworkAnalysis, "no social coordination")
}

func TestAlertLeaderboardDefaults(t *testing.T) {
	ledger := repository.NewAlertLedger()
	svc := NewAlertService(ledger)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		ledger.Append(models.Alert{Symbol: "GME", Severity: 2, CreatedAt: now})
	}
	ledger.Append(models.Alert{Symbol: "AAPL", Severity: 1, CreatedAt: now})

	rows := svc.Leaderboard(0, 0)
	require.NotEmpty(t, rows)
	assert.Equal(t, "GME", rows[0].Symbol)
	assert.Equal(t, 3, rows[0].Count)
}
