package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mes-platform/scheduling-service/internal/domain"
	"github.com/mes-platform/scheduling-service/pkg/metrics"
)

// EventPublisher implements domain.EventPublisher over Kafka.
type EventPublisher struct {
	writer  *kafka.Writer
	topic   string
	metrics *metrics.Metrics
}

// NewEventPublisher creates a Kafka-based plan event publisher. The metrics
// handle may be nil.
func NewEventPublisher(brokers []string, topic string, m *metrics.Metrics) *EventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return &EventPublisher{writer: writer, topic: topic, metrics: m}
}

// PublishPlanCreated publishes a plan created event keyed by plan ID.
func (p *EventPublisher) PublishPlanCreated(ctx context.Context, event *domain.PlanCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.PlanID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
		},
		Time: event.CreatedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.metrics != nil {
			p.metrics.RecordEventPublished(p.topic, event.EventType(), "error")
		}
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordEventPublished(p.topic, event.EventType(), "success")
	}
	return nil
}

// Close releases the underlying writer.
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
