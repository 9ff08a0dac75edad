// Package kafka publishes committed elevator events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/example/gmao/internal/ports/secondary"
)

// SchemaVersion tags every message payload.
const SchemaVersion = "v1"

var errNilWriter = errors.New("publisher requires a writer")

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaWriteCloser interface {
	Close() error
}

// Message is the JSON payload of one event.
type Message struct {
	SchemaVersion string                 `json:"schema_version"`
	Event         *secondary.EventRecord `json:"event"`
}

// Publisher writes events keyed by elevator id, so one elevator's events
// land on one partition in log order.
type Publisher struct {
	topic  string
	writer kafkaMessageWriter
	closer kafkaWriteCloser
	logger *zap.Logger
}

// NewPublisher creates a publisher backed by a kafka-go writer.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) (*Publisher, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newPublisherWithWriter(topic, writer, writer, logger)
}

// newPublisherWithWriter wires the provided writer into the publisher. It is used in tests.
func newPublisherWithWriter(topic string, writer kafkaMessageWriter, closer kafkaWriteCloser, logger *zap.Logger) (*Publisher, error) {
	if writer == nil {
		return nil, errNilWriter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		topic:  topic,
		writer: writer,
		closer: closer,
		logger: logger.With(zap.String("component", "event_publisher")),
	}, nil
}

// Publish writes one message per event in a single batch.
func (p *Publisher) Publish(ctx context.Context, events []*secondary.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(Message{SchemaVersion: SchemaVersion, Event: e})
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", e.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.ElevatorID),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(e.Kind)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d event(s) to %s: %w", len(msgs), p.topic, err)
	}

	p.logger.Debug("events published",
		zap.String("topic", p.topic),
		zap.String("elevator_id", events[0].ElevatorID),
		zap.Int("count", len(msgs)),
	)
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Ensure Publisher implements the interface.
var _ secondary.EventPublisher = (*Publisher)(nil)
