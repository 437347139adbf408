// Package publish delivers purchase events to Kafka or to the log.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

// Producer writes a single message. The traced kafka writer satisfies it.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Kafka publishes purchase events as JSON keyed by transaction id.
type Kafka struct {
	producer Producer
	topic    string
}

func NewKafka(producer Producer, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic}
}

// DialKafka builds a traced writer for cfg.KafkaBroker and cfg.KafkaTopic.
func DialKafka(cfg config.Config, tp trace.TracerProvider) (*Kafka, error) {
	base := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBroker),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	w, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(cfg.KafkaTopic),
				attribute.String("messaging.kafka.client_id", config.ServiceName),
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka writer: %w", err)
	}
	return NewKafka(w, cfg.KafkaTopic), nil
}

func (k *Kafka) Publish(ctx context.Context, ev model.PurchaseEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.TransactionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "outcome", Value: []byte(ev.Outcome)},
		},
	}
	if err := k.producer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", k.topic, err)
	}
	obs.Logger.Debug("purchase_event_published", "transaction_id", ev.TransactionID, "topic", k.topic)
	return nil
}

func (k *Kafka) Close() error { return k.producer.Close() }

// Log writes each purchase event as a structured log line.
type Log struct{}

func (Log) Publish(_ context.Context, ev model.PurchaseEvent) error {
	obs.Logger.Info("purchase_event",
		"transaction_id", ev.TransactionID,
		"request_id", ev.RequestID,
		"sequence", ev.Sequence,
		"recipe_index", ev.RecipeIndex,
		"recipe", ev.Recipe,
		"amount_paid", ev.AmountPaid,
		"change", ev.Change,
		"outcome", ev.Outcome,
	)
	return nil
}

func (Log) Close() error { return nil }
