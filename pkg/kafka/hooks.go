package kafka

import (
	"context"
	"fmt"
	"time"

	applogger "SentinelShield/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook defines lifecycle hooks around message handling.
// Hooks can mutate context, message, and payload.
// Returning a non-nil error from BeforeHandle will skip handler execution
// and trigger error processing (OnError, DLQ, and offset commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is a default hook that does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

// HookError represents an error produced by a hook.
// Code can be used to classify errors (e.g., "ERR_VALIDATION", "ERR_TRANSFORM").
type HookError struct {
	Code string
	Err  error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

type ctxKey string

const ctxStartTime ctxKey = "kafka_hook_start_time"

// LoggingHook records per-message handling latency and surfaces failures.
type LoggingHook struct {
	L *applogger.Logger
}

func (h LoggingHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return context.WithValue(ctx, ctxStartTime, time.Now()), km, data, nil
}

func (h LoggingHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if err == nil || h.L == nil {
		return
	}
	var elapsed time.Duration
	if t, ok := ctx.Value(ctxStartTime).(time.Time); ok {
		elapsed = time.Since(t)
	}
	h.L.Warn("kafka message handling failed",
		applogger.String("topic", topic),
		applogger.Int64("offset", km.Offset),
		applogger.Int("partition", km.Partition),
		applogger.Duration("elapsed", elapsed),
		applogger.Error(err),
	)
}

func (h LoggingHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.L == nil {
		return
	}
	h.L.Error("kafka message dropped",
		applogger.String("topic", topic),
		applogger.Int64("offset", km.Offset),
		applogger.Error(err),
	)
}
