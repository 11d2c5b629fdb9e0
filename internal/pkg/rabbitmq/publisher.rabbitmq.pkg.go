package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher wraps a channel manager for fire-and-forget publishing to named queues.
type Publisher struct {
	channelManager *ChannelManager
	ctx            context.Context
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("connection manager is required")
	}

	return &Publisher{
		channelManager: NewChannelManager(ctx, connManager),
		ctx:            ctx,
	}, nil
}

// Publish declares the queue (idempotent) and publishes the message to it.
func (p *Publisher) Publish(queueName string, msg *Message) error {
	ch, err := p.channelManager.GetChannel()
	if err != nil || ch == nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	cfg := DefaultQueueConfig()
	if _, err = ch.QueueDeclare(
		queueName,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	ctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()

	if err = ch.PublishWithContext(
		ctx,
		"",
		queueName,
		false,
		false,
		*msg.GeneratePayload(),
	); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	return nil
}

// PublishEvent is the convenience most services use: wraps the payload in a pubsub
// body keyed by pattern and publishes it.
func (p *Publisher) PublishEvent(queueName, pattern string, payload interface{}) error {
	msg, err := NewMessage(PubsubBody{Pattern: pattern, Data: payload}, &amqp.Table{"pattern": pattern})
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	return p.Publish(queueName, msg)
}

func (p *Publisher) Close() error {
	return p.channelManager.Close()
}
