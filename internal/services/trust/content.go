package trust

import (
	"strings"

	"SentinelShield/internal/domain/models"
)

var (
	positiveWords = []string{"moon", "rocket", "buy", "bullish", "breakout", "winner"}
	urgencyWords  = []string{"now", "hurry", "quick", "today", "immediately", "last chance"}
	greedWords    = []string{"guaranteed", "insider", "secret", "double", "10x", "easy money", "can't lose"}
)

// AnalyzeContent scans a message for promotional, urgency and greed language
// and folds the occurrence counts into bounded sentiment and manipulation
// scores.
func (s *Scorer) AnalyzeContent(message string) models.ContentAnalysis {
	lower := strings.ToLower(message)

	var keywords []string
	positive := countOccurrences(lower, positiveWords, &keywords)
	urgency := countOccurrences(lower, urgencyWords, &keywords)
	greed := countOccurrences(lower, greedWords, &keywords)

	sentiment := 0.3*float64(positive) + 0.4*float64(urgency) + 0.5*float64(greed)
	if sentiment > 1 {
		sentiment = 1
	}
	manipulation := 0.4*float64(urgency) + 0.6*float64(greed)
	if manipulation > 1 {
		manipulation = 1
	}

	return models.ContentAnalysis{
		Sentiment:              sentiment,
		ManipulationConfidence: manipulation,
		Keywords:               keywords,
	}
}

func countOccurrences(text string, words []string, matched *[]string) int {
	total := 0
	for _, w := range words {
		n := strings.Count(text, w)
		if n > 0 {
			total += n
			*matched = append(*matched, w)
		}
	}
	return total
}
