package publish

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
)

type fakeProducer struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeProducer) WriteMessage(_ context.Context, msg kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublishWritesKeyedJSON(t *testing.T) {
	p := &fakeProducer{}
	k := NewKafka(p, "CoffeePurchased")
	ev := model.PurchaseEvent{TransactionID: "tx-1", Sequence: 3, Recipe: "Latte", Price: 60, AmountPaid: 100, Change: 40, Outcome: "dispensed"}
	if err := k.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("want 1 message got %d", len(p.msgs))
	}
	msg := p.msgs[0]
	if string(msg.Key) != "tx-1" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	var got model.PurchaseEvent
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Change != 40 || got.Outcome != "dispensed" || got.Sequence != 3 {
		t.Fatalf("unexpected payload %+v", got)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "dispensed" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
	if err := k.Close(); err != nil || !p.closed {
		t.Fatalf("close should reach the producer")
	}
}

func TestKafkaPublishWrapsProducerError(t *testing.T) {
	boom := errors.New("leader not available")
	k := NewKafka(&fakeProducer{err: boom}, "CoffeePurchased")
	err := k.Publish(context.Background(), model.PurchaseEvent{TransactionID: "tx-2"})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped producer error, got %v", err)
	}
	if !strings.Contains(err.Error(), "CoffeePurchased") {
		t.Fatalf("error should name the topic: %v", err)
	}
}

func TestDialKafkaBuildsWriter(t *testing.T) {
	cfg := config.Config{KafkaBroker: "127.0.0.1:9092", KafkaTopic: "CoffeePurchased"}
	k, err := DialKafka(cfg, noop.NewTracerProvider())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if k.topic != "CoffeePurchased" {
		t.Fatalf("unexpected topic %q", k.topic)
	}
	_ = k.Close()
}

func TestLogPublisher(t *testing.T) {
	if err := (Log{}).Publish(context.Background(), model.PurchaseEvent{TransactionID: "tx-3"}); err != nil {
		t.Fatalf("log publish: %v", err)
	}
}
