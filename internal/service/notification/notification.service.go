package notification

import (
	"encoding/json"
	"fmt"

	"endurance-api/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Service consumes the domain events the registration and checkout services
// publish and turns them into member notifications. Delivery is log-based for
// now; the consumed messages double as the audit trail for payment state
// changes.
type Service struct{}

type IService interface {
	Handle(msg *amqp.Delivery) (interface{}, error)
}

func NewService() IService {
	return &Service{}
}

type envelope struct {
	Pattern string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	ID      string          `json:"id"`
}

type userEvent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type transactionEvent struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
	AmountCents   int64  `json:"amount_cents"`
	ExpiresAt     string `json:"expires_at"`
}

func (s *Service) Handle(msg *amqp.Delivery) (interface{}, error) {
	var ev envelope
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		return nil, fmt.Errorf("malformed event body: %w", err)
	}

	switch ev.Pattern {
	case "registration.created":
		var u userEvent
		if err := json.Unmarshal(ev.Data, &u); err != nil {
			return nil, fmt.Errorf("registration.created: %w", err)
		}
		logger.Info.Printf("Welcome notification queued for %s <%s>\n", u.Name, u.Email)
	case "checkout.pending":
		var t transactionEvent
		if err := json.Unmarshal(ev.Data, &t); err != nil {
			return nil, fmt.Errorf("checkout.pending: %w", err)
		}
		logger.Info.Printf("Payment instructions queued for order %s (%s, expires %s)\n", t.OrderID, t.PaymentMethod, t.ExpiresAt)
	case "checkout.paid":
		var t transactionEvent
		if err := json.Unmarshal(ev.Data, &t); err != nil {
			return nil, fmt.Errorf("checkout.paid: %w", err)
		}
		logger.Info.Printf("Receipt queued for order %s (R$ %d,%02d)\n", t.OrderID, t.AmountCents/100, t.AmountCents%100)
	case "checkout.expired":
		var t transactionEvent
		if err := json.Unmarshal(ev.Data, &t); err != nil {
			return nil, fmt.Errorf("checkout.expired: %w", err)
		}
		logger.Info.Printf("Expired payment notice queued for order %s\n", t.OrderID)
	default:
		// Unknown patterns are acked, not retried: a newer publisher may be
		// emitting events this build does not know yet.
		logger.Warning.Printf("Ignoring event with unknown pattern %q\n", ev.Pattern)
	}

	return nil, nil
}
