package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"bouncely/pkg/kafka"
	"bouncely/pkg/logger"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	consume := m.ConsumerMiddleware()
	publish := m.ProducerMiddleware()
	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, fail)
	_ = publish(context.Background(), kafka.Message{}, ok)

	s := m.Snapshot()
	if s.Consumed != 1 || s.ConsumeFailed != 1 || s.Published != 1 || s.PublishFailed != 0 {
		t.Errorf("unexpected snapshot %+v", s)
	}

	m.Reset()
	if s := m.Snapshot(); s.Consumed != 0 || s.Published != 0 {
		t.Errorf("Reset should clear counters, got %+v", s)
	}
}

func TestLoggingMiddleware_PassesErrorThrough(t *testing.T) {
	want := errors.New("handler failed")
	mw := LoggingConsumerMiddleware(logger.Discard())

	err := mw(context.Background(), kafka.Message{Topic: "payments.succeeded"}, func(ctx context.Context, msg kafka.Message) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected handler error, got %v", err)
	}
}
