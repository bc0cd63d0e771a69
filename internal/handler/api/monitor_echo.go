package api

import (
	"context"
	"time"

	models "SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/usecase"
	xhttp "SentinelShield/pkg/http"
	xlogger "SentinelShield/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MonitorHandler implements the Echo-based HTTP surface for evaluations,
// alerts and threat aggregation.
type MonitorHandler struct {
	logger  *xlogger.Logger
	monitor *usecase.Monitor
	alerts  *usecase.AlertService
	threat  *usecase.ThreatService
	market  domrepo.MarketFeed
	ledger  domrepo.Ledger
	archive domrepo.Archive
}

func NewMonitorHandler(
	logger *xlogger.Logger,
	monitor *usecase.Monitor,
	alerts *usecase.AlertService,
	threat *usecase.ThreatService,
	market domrepo.MarketFeed,
	ledger domrepo.Ledger,
	archive domrepo.Archive,
) *MonitorHandler {
	return &MonitorHandler{
		logger:  logger,
		monitor: monitor,
		alerts:  alerts,
		threat:  threat,
		market:  market,
		ledger:  ledger,
		archive: archive,
	}
}

func (h *MonitorHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/fetch_live", h.FetchLive)
	e.GET("/fetch_live_alert", h.FetchLiveAlert)
	e.GET("/alerts", h.Alerts)
	e.GET("/alerts/:id", h.AlertByID)
	e.GET("/threat_score", h.ThreatScore)
	e.GET("/leaderboard", h.Leaderboard)
	e.GET("/search_symbols", h.SearchSymbols)
}

func (h *MonitorHandler) Health(c echo.Context) error {
	res := models.HealthResponse{
		Status:        "ok",
		AlertsTracked: h.ledger.Len(),
	}
	if h.archive != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.archive.Health(ctx); err != nil {
			res.Archive = "unreachable"
		} else {
			res.Archive = "ok"
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MonitorHandler) FetchLive(c echo.Context) error {
	req := &models.FetchLiveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, eval, err := h.monitor.Snapshot(c.Request().Context(), req.Symbol, req.Interval)
	if err != nil {
		h.logger.Error("fetch_live usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.FetchLiveResponse{
		Symbol:     series.Symbol,
		Interval:   req.Interval,
		Timestamps: series.Timestamps(),
		Prices:     series.Prices(),
		Volumes:    series.Volumes(),
		Signals:    eval.Signals,
		IsAnomaly:  eval.IsAnomalous(),
	})
}

func (h *MonitorHandler) FetchLiveAlert(c echo.Context) error {
	req := &models.FetchLiveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	eval, alert, err := h.monitor.EvaluateSymbol(c.Request().Context(), req.Symbol, req.Interval)
	if err != nil {
		h.logger.Error("fetch_live_alert usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.FetchLiveAlertResponse{
		Evaluation: eval,
		Alert:      alert,
	})
}

func (h *MonitorHandler) Alerts(c echo.Context) error {
	req := &models.AlertsQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.alerts.Query(req)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MonitorHandler) AlertByID(c echo.Context) error {
	id := c.Param("id")
	res, err := h.alerts.Get(id)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MonitorHandler) ThreatScore(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.threat.Current())
}

func (h *MonitorHandler) Leaderboard(c echo.Context) error {
	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows := h.alerts.Leaderboard(req.Hours, req.Top)
	return xhttp.SuccessResponse(c, models.LeaderboardResponse{Top: rows})
}

func (h *MonitorHandler) SearchSymbols(c echo.Context) error {
	req := &models.SearchSymbolsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	matches, err := h.market.SearchSymbols(c.Request().Context(), req.Query)
	if err != nil {
		h.logger.Error("symbol search error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.SearchSymbolsResponse{Matches: matches})
}
