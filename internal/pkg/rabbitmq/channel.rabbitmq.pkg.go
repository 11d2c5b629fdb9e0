package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelManager lazily opens a channel on the managed connection and reopens it
// after connection loss. Safe for use by a single worker goroutine at a time.
type ChannelManager struct {
	connManager *ConnectionManager
	channel     *amqp.Channel
	mu          sync.Mutex
	ctx         context.Context
}

func NewChannelManager(ctx context.Context, connManager *ConnectionManager) *ChannelManager {
	return &ChannelManager{
		connManager: connManager,
		ctx:         ctx,
	}
}

func (cm *ChannelManager) GetChannel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := cm.ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}

	if cm.channel != nil && !cm.channel.IsClosed() {
		return cm.channel, nil
	}

	conn := cm.connManager.GetConnection()
	if conn == nil || conn.IsClosed() {
		return nil, fmt.Errorf("connection not available")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	cm.channel = ch
	return cm.channel, nil
}

func (cm *ChannelManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.channel != nil && !cm.channel.IsClosed() {
		if err := cm.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}

	cm.channel = nil
	return nil
}
