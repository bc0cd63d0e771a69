package models

import "time"

// Requests for monitor HTTP endpoints. Defined in domain for consistency and reuse.

type FetchLiveRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1min" validate:"oneof=1min 5min 15min 1h"`
}

type AlertsQueryRequest struct {
	Symbol     string `query:"symbol" json:"symbol"`
	Handle     string `query:"handle" json:"handle"`
	FromTS     string `query:"from_ts" json:"from_ts"`
	ToTS       string `query:"to_ts" json:"to_ts"`
	SinceHours int    `query:"since_hours" json:"since_hours" validate:"gte=0,lte=720"`
	Limit      int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type SearchSymbolsRequest struct {
	Query string `query:"query" json:"query" validate:"required,min=1,max=32"`
}

type LeaderboardRequest struct {
	Hours int `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=168"`
	Top   int `query:"top" json:"top" default:"10" validate:"gte=1,lte=50"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	AlertsTracked int    `json:"alerts_tracked"`
	Archive       string `json:"archive,omitempty"`
}

type FetchLiveResponse struct {
	Symbol     string      `json:"symbol"`
	Interval   string      `json:"interval"`
	Timestamps []time.Time `json:"timestamps"`
	Prices     []float64   `json:"prices"`
	Volumes    []int64     `json:"volumes"`
	Signals    SignalSet   `json:"signals"`
	IsAnomaly  bool        `json:"is_anomaly"`
}

type FetchLiveAlertResponse struct {
	Evaluation EvaluationResult `json:"evaluation"`
	Alert      *Alert           `json:"alert,omitempty"`
}

type LeaderboardResponse struct {
	Top []LeaderboardRow `json:"top"`
}

type SearchSymbolsResponse struct {
	Matches []SymbolMatch `json:"matches"`
}
