package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafka_config "bouncely/pkg/kafka/config"
	"bouncely/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Publisher is the part of Producer that domain code depends on.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Producer wraps a kafka-go writer with a middleware chain and an optional
// dead letter topic for messages that could not be written.
type Producer struct {
	writer     *kafka.Writer
	dlqWriter  *kafka.Writer
	topic      string
	middleware []ProducerMiddleware
	closed     bool
	mu         sync.RWMutex
}

type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

func NewProducer(cfg *kafka_config.Config, log *logger.Logger, topic string, dlqTopic string) (*Producer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	compression := compressionCodec(cfg.ProducerCompression)
	producer := &Producer{
		writer:     newWriter(cfg.Brokers, transport, topic, requiredAcks(cfg.ProducerRequireAcks), compression, cfg.ProducerMaxAttempts, log),
		topic:      topic,
		middleware: make([]ProducerMiddleware, 0),
	}
	producer.writer.BatchTimeout = cfg.ProducerBatchTimeout
	producer.writer.Async = cfg.ProducerAsync

	if dlqTopic != "" {
		producer.dlqWriter = newWriter(cfg.Brokers, transport, dlqTopic, kafka.RequireAll, compression, 3, log)
	}

	return producer, nil
}

// newTransport carries the client id and broker authentication for writers.
func newTransport(cfg *kafka_config.Config) (*kafka.Transport, error) {
	mechanism, err := cfg.Mechanism()
	if err != nil {
		return nil, fmt.Errorf("failed to configure SASL: %w", err)
	}
	return &kafka.Transport{
		ClientID: cfg.ClientID,
		TLS:      cfg.TLSConfig(),
		SASL:     mechanism,
	}, nil
}

func newWriter(brokers []string, transport *kafka.Transport, topic string, acks kafka.RequiredAcks, compression compress.Compression, attempts int, log *logger.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Transport:    transport,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		Compression:  compression,
		MaxAttempts:  attempts,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  errorLogger(log),
	}
}

func errorLogger(log *logger.Logger) kafka.Logger {
	if log == nil {
		return kafka.LoggerFunc(func(string, ...any) {})
	}
	return kafka.LoggerFunc(func(msg string, args ...any) {
		log.Error("kafka client error", "detail", fmt.Sprintf(msg, args...))
	})
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "none":
		return compress.None
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.Snappy
	}
}

func requiredAcks(acks int) kafka.RequiredAcks {
	switch acks {
	case 0:
		return kafka.RequireNone
	case 1:
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

func (p *Producer) Topic() string {
	return p.topic
}

// Publish runs msg through the middleware chain and writes it. Messages are
// partitioned by key, so all messages sharing a key stay ordered.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	middleware := p.middleware
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}
	msg.Topic = p.topic

	handler := p.publishInternal
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return mw(ctx, m, next)
		}
	}

	return handler(ctx, msg)
}

func (p *Producer) publishInternal(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, toKafkaMessage(msg, msg.Timestamp))
	if err == nil {
		return nil
	}

	if p.dlqWriter != nil {
		if dlqErr := writeDLQ(ctx, p.dlqWriter, msg, p.topic, err, nil); dlqErr != nil {
			return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", dlqErr, err)
		}
	}
	return err
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

func toKafkaMessage(msg Message, at time.Time) kafka.Message {
	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  at,
	}
	for k, v := range msg.Headers {
		kafkaMsg.Headers = append(kafkaMsg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafkaMsg
}

// writeDLQ copies msg to the dead letter writer with failure metadata.
func writeDLQ(ctx context.Context, w *kafka.Writer, msg Message, topic string, cause error, extra map[string]string) error {
	headers := make(map[string]string, len(msg.Headers)+4)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = topic
	headers[HeaderDLQError] = cause.Error()
	headers[HeaderDLQTimestamp] = time.Now().UTC().Format(time.RFC3339)
	for k, v := range extra {
		headers[k] = v
	}
	msg.Headers = headers

	return w.WriteMessages(ctx, toKafkaMessage(msg, time.Now()))
}
