package models

// SignalSet carries every signal derived for one evaluation. Derived fresh per
// call and never persisted on its own; the alert, if any, snapshots the fields
// it needs.
type SignalSet struct {
	EWMAZScore    float64 `json:"ewma_zscore"`
	EWMAValue     float64 `json:"ewma"`
	VolumeZScore  float64 `json:"volume_zscore"`
	VolumeRatio   float64 `json:"volume_ratio"`
	MomentumScore float64 `json:"momentum_score"`
	ShortMomentum float64 `json:"short_momentum"`
	MLScore       float64 `json:"ml_score"`
	MLIsAnomaly   bool    `json:"ml_is_anomaly"`
}

// EvaluationResult is the outcome of a single synchronous evaluation of a
// series plus its social context.
type EvaluationResult struct {
	Symbol                 string         `json:"symbol"`
	Signals                SignalSet      `json:"signals"`
	Classification         Classification `json:"classification"`
	Severity               int            `json:"severity_level"`
	Reason                 string         `json:"risk_reason"`
	ManipulationConfidence float64        `json:"manipulation_confidence"`
	MLDegraded             bool           `json:"-"`
	SocialSignals          []SocialSignal `json:"social_signals,omitempty"`
}

// IsAnomalous reports whether the evaluation produced a non-Normal severity.
func (r EvaluationResult) IsAnomalous() bool { return r.Severity > 0 }
