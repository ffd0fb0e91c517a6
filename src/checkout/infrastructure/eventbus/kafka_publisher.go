package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventEnvelope es el sobre estándar de los eventos de dominio
// (los consumidores downstream esperan este formato)
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	TenantID      string          `json:"tenant_id"`
	OccurredAt    string          `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaPublisher publica eventos de dominio en un topic de Kafka
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher crea un publisher para el topic dado
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish arma el envelope y lo escribe en Kafka con el aggregateID
// como key para preservar el orden por orden
func (p *KafkaPublisher) Publish(ctx context.Context, tenantID, aggregateID, aggregateType, eventType string, payload []byte) error {
	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		EventVersion:  1,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		TenantID:      tenantID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(aggregateID),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

// Close cierra el writer subyacente
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
