package notification

import (
	"encoding/json"
	"testing"

	"endurance-api/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

func delivery(t *testing.T, pattern string, data any) *amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(rabbitmq.PubsubBody{Pattern: pattern, Data: data})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &amqp.Delivery{Body: body}
}

func TestHandleKnownPatterns(t *testing.T) {
	svc := NewService()

	events := []*amqp.Delivery{
		delivery(t, "registration.created", map[string]any{"name": "Ana Souza", "email": "ana@example.com"}),
		delivery(t, "checkout.pending", map[string]any{"order_id": "ord_1", "payment_method": "PIX"}),
		delivery(t, "checkout.paid", map[string]any{"order_id": "ord_1", "amount_cents": 9000}),
		delivery(t, "checkout.expired", map[string]any{"order_id": "ord_1"}),
	}

	for _, msg := range events {
		if _, err := svc.Handle(msg); err != nil {
			t.Errorf("Handle(%s) returned error: %v", msg.Body, err)
		}
	}
}

func TestHandleUnknownPatternIsAcked(t *testing.T) {
	svc := NewService()

	if _, err := svc.Handle(delivery(t, "plan.renamed", map[string]any{"id": "p1"})); err != nil {
		t.Errorf("unknown pattern should not error, got %v", err)
	}
}

func TestHandleMalformedBody(t *testing.T) {
	svc := NewService()

	if _, err := svc.Handle(&amqp.Delivery{Body: []byte("not-json")}); err == nil {
		t.Error("expected error for malformed body")
	}
}
