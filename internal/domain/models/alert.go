package models

import "time"

// Alert is one detected anomaly, created exactly once when an evaluation
// crosses severity 0 and immutable afterwards. The ledger owns every alert.
type Alert struct {
	ID                     string          `json:"id"`
	Symbol                 string          `json:"symbol"`
	Price                  float64         `json:"price"`
	Volume                 int64           `json:"volume"`
	Time                   time.Time       `json:"time"`
	Reason                 string          `json:"reason"`
	Severity               int             `json:"severity_level"` // 0..4
	ManipulationConfidence float64         `json:"manipulation_confidence"`
	SourceHandle           string          `json:"source_handle"`
	TrustScore             int             `json:"trust_score"`
	Registered             bool            `json:"registered"`
	MLScore                float64         `json:"ml_score"`
	MLFlag                 bool            `json:"ml_flag"`
	SocialSignalsCount     int             `json:"social_signals_count"`
	SocialSnippets         []SocialSnippet `json:"-"`
	CreatedAt              time.Time       `json:"created_at"`
}

// EntityVerification summarizes the trust picture of the social sources seen
// around an alert.
type EntityVerification struct {
	VerifiedEntities   int `json:"verified_entities"`
	UnverifiedEntities int `json:"unverified_entities"`
	HighRiskSources    int `json:"high_risk_sources"`
}

// CoordinationAnalysis is the human-readable coordination summary shown on the
// alert deep-dive.
type CoordinationAnalysis struct {
	NetworkAnalysis string `json:"network_analysis"`
}

// AlertDetail is the deep-dive view of one alert.
type AlertDetail struct {
	Alert                Alert                 `json:"alert"`
	SocialSnippets       []SocialSnippet       `json:"social_snippets"`
	EntityVerification   *EntityVerification   `json:"entity_verification,omitempty"`
	CoordinationAnalysis *CoordinationAnalysis `json:"coordination_analysis,omitempty"`
}

// LeaderboardRow is one entry of the most-alerted-symbols ranking.
type LeaderboardRow struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}
