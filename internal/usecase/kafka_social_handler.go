package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/repository"
	pkgkafka "SentinelShield/pkg/kafka"
)

// KafkaSocialHandler consumes external social posts and feeds the social
// buffer the evaluator reads from.
type KafkaSocialHandler struct {
	topic   string
	buffer  *repository.SocialBuffer
	metrics domrepo.Metrics
}

func NewKafkaSocialHandler(topic string, buffer *repository.SocialBuffer, metrics domrepo.Metrics) *KafkaSocialHandler {
	return &KafkaSocialHandler{topic: topic, buffer: buffer, metrics: metrics}
}

func (h *KafkaSocialHandler) Topic() string { return h.topic }

// incoming message schema:
// {symbol, channel, handle, message, timestamp, sentiment_score, manipulation_confidence, keywords}
func (h *KafkaSocialHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol                 string   `json:"symbol"`
		Channel                string   `json:"channel"`
		Handle                 string   `json:"handle"`
		Message                string   `json:"message"`
		Timestamp              int64    `json:"timestamp"`
		SentimentScore         float64  `json:"sentiment_score"`
		ManipulationConfidence float64  `json:"manipulation_confidence"`
		Keywords               []string `json:"keywords"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("social_consumer_unmarshal")
		return err
	}
	if m.Timestamp > 1e11 { // ms
		m.Timestamp = m.Timestamp / 1000
	}
	ts := time.Unix(m.Timestamp, 0).UTC()
	if m.Timestamp <= 0 {
		ts = time.Now().UTC()
	}

	h.buffer.Add(m.Symbol, models.SocialSignal{
		Channel:                m.Channel,
		Handle:                 m.Handle,
		Message:                m.Message,
		Timestamp:              ts,
		SentimentScore:         clamp01(m.SentimentScore),
		ManipulationConfidence: clamp01(m.ManipulationConfidence),
		Keywords:               m.Keywords,
	})
	h.metrics.RecordLatency("social_ingest_e2e_seconds", time.Since(ts).Seconds())
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ pkgkafka.MessageHandler = (*KafkaSocialHandler)(nil)
