package usecase

import (
	"time"

	"SentinelShield/internal/domain/models"
	domsvc "SentinelShield/internal/domain/service"
	svccache "SentinelShield/internal/service/cache"
	"SentinelShield/internal/services/risk"
	"SentinelShield/internal/services/signals"
	pkgcache "SentinelShield/pkg/cache"
)

// Evaluator runs the full scoring pipeline for one symbol window:
// statistical signals and the ML detector feed the classifier, and the trust
// scorer resolves the suspected source when the window is anomalous.
type Evaluator struct {
	extractor  *signals.Extractor
	detector   domsvc.OutlierDetector
	classifier *risk.Classifier
	trust      domsvc.TrustScorer

	evalCache *svccache.TTLCache
	cacheTTL  time.Duration
}

// EvaluatorOption configures Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvaluationCache caches the signal and ML stage per
// (symbol, last-sample, window) for the given ttl. Classification is
// never cached: it reruns against the caller's social context, so social
// signals arriving between polls still escalate the result.
func WithEvaluationCache(ttl time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		if ttl > 0 {
			e.evalCache = svccache.NewTTLCache()
			e.cacheTTL = ttl
		}
	}
}

// NewEvaluator wires the scoring stages together.
func NewEvaluator(
	extractor *signals.Extractor,
	detector domsvc.OutlierDetector,
	classifier *risk.Classifier,
	trust domsvc.TrustScorer,
	opts ...EvaluatorOption,
) *Evaluator {
	e := &Evaluator{
		extractor:  extractor,
		detector:   detector,
		classifier: classifier,
		trust:      trust,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores a series against its social context. It is synchronous
// and side effect free; callers decide what to do with an anomalous result.
func (e *Evaluator) Evaluate(series models.Series, social []models.SocialSignal) models.EvaluationResult {
	sig, degraded := e.signalStage(series)

	cls, severity := e.classifier.Classify(sig, social)

	return models.EvaluationResult{
		Symbol:                 series.Symbol,
		Signals:                sig,
		Classification:         cls,
		Severity:               severity,
		Reason:                 cls.Label(),
		ManipulationConfidence: e.classifier.Confidence(sig, social),
		MLDegraded:             degraded,
		SocialSignals:          social,
	}
}

type cachedStage struct {
	sig      models.SignalSet
	degraded bool
}

// signalStage computes the social-independent half of an evaluation:
// statistical signals plus the ML outlier score. This is the only part
// the cache may serve, keyed on the series window alone.
func (e *Evaluator) signalStage(series models.Series) (models.SignalSet, bool) {
	key, cacheable := "", false
	if e.evalCache != nil {
		if key, cacheable = evalCacheKey(series); cacheable {
			if v, hit := e.evalCache.Get(key); hit {
				if st, ok := v.(cachedStage); ok {
					return st.sig, st.degraded
				}
			}
		}
	}

	sig := e.extractor.Extract(series)
	ml := e.detector.Score(series.Prices(), series.Volumes())
	sig.MLScore = ml.Score
	sig.MLIsAnomaly = ml.Flag

	if cacheable {
		e.evalCache.Set(key, cachedStage{sig: sig, degraded: ml.Degraded}, e.cacheTTL)
	}
	return sig, ml.Degraded
}

// BuildAlert materializes an alert from an anomalous evaluation. The social
// signal with the highest manipulation confidence is treated as the
// suspected source and resolved through the trust scorer.
func (e *Evaluator) BuildAlert(res models.EvaluationResult, series models.Series) models.Alert {
	last := series.Last()

	handle, message := suspectedSource(res.SocialSignals)
	profile := e.trust.Resolve(handle, message)

	snippets := make([]models.SocialSnippet, 0, len(res.SocialSignals))
	for _, s := range res.SocialSignals {
		snippets = append(snippets, s.Snippet())
	}

	return models.Alert{
		Symbol:                 res.Symbol,
		Price:                  last.Price,
		Volume:                 last.Volume,
		Time:                   last.Timestamp,
		Reason:                 res.Reason,
		Severity:               res.Severity,
		ManipulationConfidence: res.ManipulationConfidence,
		SourceHandle:           handle,
		TrustScore:             profile.Score,
		Registered:             profile.Registered,
		MLScore:                res.Signals.MLScore,
		MLFlag:                 res.Signals.MLIsAnomaly,
		SocialSignalsCount:     len(res.SocialSignals),
		SocialSnippets:         snippets,
		CreatedAt:              time.Now().UTC(),
	}
}

func suspectedSource(social []models.SocialSignal) (string, string) {
	var handle, message string
	best := -1.0
	for _, s := range social {
		if s.ManipulationConfidence > best {
			best = s.ManipulationConfidence
			handle = s.Handle
			message = s.Message
		}
	}
	return handle, message
}

func evalCacheKey(series models.Series) (string, bool) {
	if len(series.Samples) == 0 {
		return "", false
	}
	last := series.Last()
	return pkgcache.GenerateKeyWithParams("eval", series.Symbol,
		last.Timestamp.UnixNano(), len(series.Samples)), true
}
