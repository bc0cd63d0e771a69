package repository

import (
	"context"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	pkgkafka "SentinelShield/pkg/kafka"
)

// KafkaAlertPublisher fans alerts out to a Kafka topic, keyed by symbol so
// per-symbol ordering survives partitioning.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates a publisher over an existing producer.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

var _ domrepo.Publisher = (*KafkaAlertPublisher)(nil)

func (p *KafkaAlertPublisher) Publish(ctx context.Context, a models.Alert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Symbol), a)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when no fan-out backend is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.Alert) error { return nil }
func (NoopPublisher) Close() error                                { return nil }
