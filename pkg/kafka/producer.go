package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Producer publishes messages through a shared kafka-go writer.
type Producer struct {
	writer *kafka.Writer
	comp   string
}

// NewProducer builds a writer from the given options. At least one
// broker is required.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := &ProducerConfig{
		RequiredAcks: -1,
		Compression:  "gzip",
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		BatchSize:    100,
		BatchBytes:   1048576,
		BatchTimeout: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	balancer := kafka.Balancer(&kafka.LeastBytes{})
	if cfg.HashByKey {
		balancer = &kafka.Hash{}
	}

	producerMetricsOnce.Do(registerProducerMetrics)
	return &Producer{
		comp: cfg.Compression,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     balancer,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			Compression:  parseCompression(cfg.Compression),
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			BatchSize:    cfg.BatchSize,
			BatchBytes:   int64(cfg.BatchBytes),
			BatchTimeout: cfg.BatchTimeout,
			Async:        cfg.Async,
		},
	}, nil
}

// Publish writes one message to topic. Values that are not already
// []byte or string are JSON-encoded.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	start := time.Now()

	payload, err := encodeValue(value)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: payload,
		Time:  time.Now(),
	})
	observeProducerMetrics(topic, p.comp, int64(len(payload)), time.Since(start), err)
	return err
}

// Close flushes and releases the writer.
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal value: %w", err)
		}
		return payload, nil
	}
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

var (
	producerMetricsOnce sync.Once
	producerMsgsTotal   *prometheus.CounterVec
	producerErrsTotal   *prometheus.CounterVec
	producerBytesTotal  *prometheus.CounterVec
	producerLatencyHist *prometheus.HistogramVec
)

func registerProducerMetrics() {
	producerMsgsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelshield_kafka_producer_messages_total",
			Help: "Total messages published to Kafka",
		},
		[]string{"topic", "compression", "result"},
	)
	producerErrsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelshield_kafka_producer_errors_total",
			Help: "Total producer errors",
		},
		[]string{"topic"},
	)
	producerBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelshield_kafka_producer_bytes_total",
			Help: "Total payload bytes published",
		},
		[]string{"topic", "compression"},
	)
	producerLatencyHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinelshield_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
}

func observeProducerMetrics(topic, comp string, bytes int64, dur time.Duration, err error) {
	if producerMsgsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		producerErrsTotal.WithLabelValues(topic).Inc()
	}
	producerMsgsTotal.WithLabelValues(topic, comp, result).Inc()
	producerBytesTotal.WithLabelValues(topic, comp).Add(float64(bytes))
	producerLatencyHist.WithLabelValues(topic).Observe(dur.Seconds())
}
