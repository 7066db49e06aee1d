// Package events publishes committed vlog changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// DefaultTopic receives every vlog event, keyed by vlog ID.
const DefaultTopic = "vlog.events"

// ClientConfig holds configuration for the Kafka producer.
type ClientConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implements repository.EventPublisher.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

var _ repository.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates an async producer. Write failures are logged
// from the completion callback since callers never wait on delivery.
func NewKafkaPublisher(cfg ClientConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("failed to deliver vlog events",
					"topic", cfg.Topic,
					"count", len(messages),
					"error", err,
				)
			}
		},
	}

	return newPublisherWithWriter(writer, cfg.Topic), nil
}

// newPublisherWithWriter is used for dependency injection in tests.
func newPublisherWithWriter(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish enqueues the event. Messages for one vlog share a partition so
// consumers see them in commit order.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.VlogEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.VlogID.String()),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

var _ repository.EventPublisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, model.VlogEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
