package models

import "time"

// SocialSignal is one social-media observation about a symbol, supplied by an
// external feed. The core consumes these, it never originates them.
type SocialSignal struct {
	ID                     string    `json:"id"`
	Channel                string    `json:"channel"`
	Handle                 string    `json:"handle"`
	Message                string    `json:"message"`
	Timestamp              time.Time `json:"timestamp"`
	SentimentScore         float64   `json:"sentiment_score"`         // 0..1
	ManipulationConfidence float64   `json:"manipulation_confidence"` // 0..1
	Keywords               []string  `json:"keywords,omitempty"`
}

// SocialSnippet is the shape social context is stored in on an alert detail,
// matching the historical dashboard contract.
type SocialSnippet struct {
	Handle                 string    `json:"handle"`
	Platform               string    `json:"platform"`
	Text                   string    `json:"text"`
	TS                     time.Time `json:"ts"`
	SentimentScore         float64   `json:"sentiment_score"`
	ManipulationConfidence float64   `json:"manipulation_confidence"`
}

// Snippet converts a signal to its alert-detail representation.
func (s SocialSignal) Snippet() SocialSnippet {
	return SocialSnippet{
		Handle:                 s.Handle,
		Platform:               s.Channel,
		Text:                   s.Message,
		TS:                     s.Timestamp,
		SentimentScore:         s.SentimentScore,
		ManipulationConfidence: s.ManipulationConfidence,
	}
}
