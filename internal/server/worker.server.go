package serverApp

import (
	"context"
	"fmt"
	"time"

	"endurance-api/internal/pkg/logger"
	"endurance-api/internal/pkg/rabbitmq"
	checkoutService "endurance-api/internal/service/checkout"
	notificationService "endurance-api/internal/service/notification"

	"github.com/panjf2000/ants"
)

const (
	expirySweepInterval = 30 * time.Second
	eventsQueue         = "endurance.events"
)

// InitWorker starts background workers on a shared pool. The expiry sweep is
// the safety net for pending transactions whose in-process countdown was lost
// to a restart; the event consumer drains the domain event queue into member
// notifications.
func InitWorker(
	ctx context.Context,
	rb *rabbitmq.ConnectionManager,
	checkout checkoutService.IService,
) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(10, ants.WithOptions(poolOpts))
	if err != nil {
		panic(fmt.Errorf("failed to create worker pool: %w", err))
	}

	err = pool.Submit(func() {
		ticker := time.NewTicker(expirySweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				pool.Release()
				return
			case <-ticker.C:
				expired, err := checkout.ExpireSweep()
				if err != nil {
					logger.Error.Printf("Expiry sweep failed: %v\n", err)
					continue
				}
				if expired > 0 {
					logger.Info.Printf("Expiry sweep timed out %d transaction(s)\n", expired)
				}
			}
		}
	})
	if err != nil {
		panic(fmt.Errorf("failed to submit task to pool: %w", err))
	}

	initEventConsumer(ctx, rb)
}

func initEventConsumer(ctx context.Context, rb *rabbitmq.ConnectionManager) {
	if rb == nil {
		logger.Warning.Println("RabbitMQ unavailable, event consumer disabled")
		return
	}

	svc := notificationService.NewService()
	sub, err := rabbitmq.NewSubscriber(ctx, rb, svc.Handle, rabbitmq.DefaultSubscribeOptions(eventsQueue, false))
	if err != nil {
		panic(fmt.Errorf("failed to create event consumer: %w", err))
	}

	if err := sub.Start(); err != nil {
		panic(fmt.Errorf("failed to start event consumer: %w", err))
	}
}
