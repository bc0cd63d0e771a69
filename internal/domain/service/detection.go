package service

import "SentinelShield/internal/domain/models"

// OutlierDetector scores the most recent sample of an aligned price/volume
// window. Implementations must never fail the pipeline: on insufficient data
// or a degenerate fit they return a neutral, degraded result.
type OutlierDetector interface {
	Score(prices []float64, volumes []int64) OutlierResult
}

// OutlierResult makes the "fall back to neutral" path a visible value instead
// of a swallowed error. Degraded results always carry Score 0 and Flag false.
type OutlierResult struct {
	Score    float64
	Flag     bool
	Degraded bool
}

// Neutral is the result used when there is not enough history to model.
func Neutral() OutlierResult { return OutlierResult{} }

// DegradedResult marks a fit/score failure that was absorbed.
func DegradedResult() OutlierResult { return OutlierResult{Degraded: true} }

// TrustScorer resolves a source handle (and optionally the message it posted)
// to a credibility profile.
type TrustScorer interface {
	Resolve(handle, message string) models.TrustProfile
	AnalyzeContent(message string) models.ContentAnalysis
}
