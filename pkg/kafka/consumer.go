package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler consumes messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ConsumerOption configures Consumer.
type ConsumerOption func(*ConsumerConfig)

// ConsumerConfig holds reader and worker-pool settings.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	MinBytes    int
	MaxBytes    int
}

// WithConsumerBrokers sets the broker addresses.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Brokers = brokers
	}
}

// WithConsumerGroupID sets the consumer group.
func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.GroupID = groupID
	}
}

// WithConsumerWorkers sets the worker pool size.
func WithConsumerWorkers(count int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.WorkerCount = count
	}
}

// WithConsumerRetry configures per-message retry attempts and the
// backoff range between them.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerDLQ routes messages that exhaust their retries to the
// named dead-letter topic.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.DLQTopic = topic
	}
}

// WithConsumerFetch sets reader fetch min/max bytes.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.MinBytes = minBytes
		c.MaxBytes = maxBytes
	}
}

// WithConsumerBufferSize sets the internal queue capacity.
func WithConsumerBufferSize(n int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// Consumer reads registered topics and dispatches messages to a worker
// pool. Messages on the same partition are handled one at a time so
// per-symbol ordering survives the fan-out.
type Consumer struct {
	cfg       *ConsumerConfig
	readers   map[string]*kafka.Reader
	handlers  map[string]MessageHandler
	stopChan  chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	queue     chan *inflight
	dlq       *kafka.Writer
	partMu    sync.Mutex
	partLocks map[string]map[int]*sync.Mutex
	hook      ConsumerHook
}

type inflight struct {
	topic string
	data  []byte
	km    kafka.Message
}

// NewConsumer builds a consumer from the given options. At least one
// broker is required.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		WorkerCount: 1,
		BufferSize:  10,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := &Consumer{
		cfg:       cfg,
		readers:   make(map[string]*kafka.Reader),
		handlers:  make(map[string]MessageHandler),
		stopChan:  make(chan struct{}),
		queue:     make(chan *inflight, cfg.BufferSize),
		partLocks: make(map[string]map[int]*sync.Mutex),
		hook:      NoopHook{},
	}
	consumerMetricsOnce.Do(registerConsumerMetrics)

	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}
	return c, nil
}

// WithConsumerHook installs a lifecycle hook. Call before Start.
func (c *Consumer) WithConsumerHook(h ConsumerHook) {
	if h != nil {
		c.hook = h
	}
}

// RegisterHandler binds a handler to its topic. Call before Start;
// later registrations for the same topic are ignored.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		log.Printf("warn: handler already registered for topic %s", topic)
		return
	}
	c.handlers[topic] = handler
}

// Start opens one reader per registered topic and launches the worker pool.
func (c *Consumer) Start() error {
	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		log.Printf("kafka consumer: registered topic=%s", topic)
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.readLoop(topic, reader)
	}

	log.Printf("kafka consumer: started workers=%d topics=%d", c.cfg.WorkerCount, len(c.readers))
	return nil
}

// Stop shuts the consumer down, waiting for in-flight work until ctx expires.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		log.Println("kafka consumer: stopping...")
		close(c.stopChan)
		close(c.queue)

		stopErr = c.waitForWorkers(ctx)

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				log.Printf("error closing reader for topic %s: %v", topic, err)
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				log.Printf("error closing dlq writer: %v", err)
			}
		}
		if stopErr == nil {
			log.Println("kafka consumer: stopped")
		}
	})
	return stopErr
}

func (c *Consumer) waitForWorkers(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func (c *Consumer) readLoop(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		msg, err := reader.ReadMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				log.Printf("error reading message from topic %s: %v", topic, err)
			}
			continue
		}

		if !c.enqueue(topic, msg) {
			return
		}
	}
}

// enqueue hands a message to the worker pool, blocking with adaptive
// backoff rather than dropping when the queue is full. It returns false
// when the consumer is stopping.
func (c *Consumer) enqueue(topic string, msg kafka.Message) bool {
	for {
		select {
		case c.queue <- &inflight{topic: topic, data: msg.Value, km: msg}:
			consumerQueueDepth.WithLabelValues(topic).Set(float64(len(c.queue)))
			consumerQueueFullness.WithLabelValues(topic).Set(float64(len(c.queue)) / float64(cap(c.queue)))
			return true
		case <-c.stopChan:
			return false
		default:
			full := float64(len(c.queue)) / float64(cap(c.queue))
			consumerQueueFullness.WithLabelValues(topic).Set(full)
			if full > 0.8 {
				time.Sleep(10 * time.Millisecond)
			} else {
				runtime.Gosched()
			}
		}
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for msg := range c.queue {
		handler, ok := c.handlers[msg.topic]
		if !ok {
			continue
		}
		c.process(handler, msg)
	}
}

// process runs one message through the handler with retries, DLQ
// fallback and offset commit. Panics are contained so one bad message
// cannot kill a worker.
func (c *Consumer) process(handler MessageHandler, msg *inflight) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in message handler for topic %s: %v", msg.topic, r)
		}
		consumerHandleLatency.WithLabelValues(msg.topic).Observe(time.Since(start).Seconds())
	}()

	// One in-flight message per (topic, partition) preserves ordering.
	pl := c.partitionLock(msg.topic, msg.km.Partition)
	pl.Lock()
	defer pl.Unlock()

	var err error
	attempts := 0
	for {
		attempts++
		hctx, hmsg, hdata, berr := c.hook.BeforeHandle(context.Background(), msg.topic, msg.km, msg.data)
		if berr != nil {
			err = berr
			break
		}

		err = handler.Handle(hctx, hdata)
		c.hook.AfterHandle(hctx, msg.topic, hmsg, hdata, err)
		if err == nil || attempts > c.cfg.RetryMax {
			break
		}

		c.hook.OnError(hctx, msg.topic, hmsg, hdata, err)
		select {
		case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempts)):
		case <-c.stopChan:
			return
		}
	}

	if err != nil {
		c.hook.OnError(context.Background(), msg.topic, msg.km, msg.data, err)
		log.Printf("error handling message from topic %s after %d attempts: %v", msg.topic, attempts-1, err)
		c.sendToDLQ(msg)
	}

	// Commit on success, or after DLQ handoff so a poison message does
	// not loop forever.
	if err == nil || c.dlq != nil {
		if reader := c.readers[msg.topic]; reader != nil {
			_ = c.commitWithRetry(reader, msg.km, 3)
		}
	}
}

func (c *Consumer) sendToDLQ(msg *inflight) {
	if c.dlq == nil || c.cfg.DLQTopic == "" {
		return
	}
	err := c.dlq.WriteMessages(context.Background(), kafka.Message{
		Topic:   c.cfg.DLQTopic,
		Value:   msg.data,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "source_topic", Value: []byte(msg.topic)}},
	})
	if err != nil {
		log.Printf("error writing to DLQ topic %s: %v", c.cfg.DLQTopic, err)
	}
}

func (c *Consumer) commitWithRetry(reader *kafka.Reader, km kafka.Message, max int) error {
	if max <= 0 {
		max = 1
	}
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = reader.CommitMessages(ctx, km)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(backoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	log.Printf("error committing message after %d attempts: %v", max, err)
	return err
}

func (c *Consumer) partitionLock(topic string, partition int) *sync.Mutex {
	c.partMu.Lock()
	defer c.partMu.Unlock()

	if _, ok := c.partLocks[topic]; !ok {
		c.partLocks[topic] = make(map[int]*sync.Mutex)
	}
	if _, ok := c.partLocks[topic][partition]; !ok {
		c.partLocks[topic][partition] = &sync.Mutex{}
	}
	return c.partLocks[topic][partition]
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max {
		exp = max
	}
	jitter := time.Duration(rand.Int63n(int64(exp) / 2))
	return exp - jitter
}

var (
	consumerMetricsOnce   sync.Once
	consumerQueueDepth    *prometheus.GaugeVec
	consumerQueueFullness *prometheus.GaugeVec
	consumerHandleLatency *prometheus.HistogramVec
)

func registerConsumerMetrics() {
	consumerQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: "sentinelshield_kafka_consumer_queue_depth", Help: "Number of messages waiting in the consumer queue"},
		[]string{"topic"},
	)
	consumerQueueFullness = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: "sentinelshield_kafka_consumer_queue_fullness", Help: "Queue utilization ratio (len/cap)"},
		[]string{"topic"},
	)
	consumerHandleLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{Name: "sentinelshield_kafka_consumer_handle_seconds", Help: "Handling time per message"},
		[]string{"topic"},
	)
}
