// Package kafka publishes recommendation audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/krishimitra/crop-advisor/internal/recommend"
	kafkago "github.com/segmentio/kafka-go"
)

// Auditor produces one message per generated recommendation set.
// It implements recommend.AuditPublisher.
type Auditor struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditor creates a Kafka producer for the audit topic.
func NewAuditor(brokers []string, topic string, logger *slog.Logger) *Auditor {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Auditor{writer: w, logger: logger}
}

// Publish serializes and writes one audit event.
func (a *Auditor) Publish(ctx context.Context, event recommend.AuditEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return a.writer.WriteMessages(ctx, msg)
}

func (a *Auditor) Close() error {
	return a.writer.Close()
}

// serializeToMessage marshals an audit event into a Kafka message keyed
// by event ID so replays of the same run land in the same partition.
func serializeToMessage(event recommend.AuditEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "state", Value: []byte(event.State)},
			{Key: "generated_at", Value: []byte(event.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
