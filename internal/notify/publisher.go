package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/titanshop/shop-svc/internal/dal/rabbitmq"
	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/outbox"
)

const contentTypeJSON = "application/json"

// outboxRepository parks events whose first publish attempt failed.
type outboxRepository interface {
	Insert(ctx context.Context, msg outbox.Message) error
}

// Publisher queues notification events to RabbitMQ. When the broker is
// unreachable the event goes to the outbox table instead, so a committed
// order transition never loses its notification silently.
type Publisher struct {
	rabbitClient *rabbitmq.Client
	outboxRepo   outboxRepository
	queueName    string
	maxRetries   int
}

// NewPublisher creates a Publisher and declares the notification queue.
func NewPublisher(rabbitClient *rabbitmq.Client, outboxRepo outboxRepository) *Publisher {
	queueName := viper.GetString("rabbitmq.notifications.queue")
	if queueName == "" {
		panic("rabbitmq.notifications.queue is not set in config")
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	}); err != nil {
		panic(err)
	}

	return &Publisher{
		rabbitClient: rabbitClient,
		outboxRepo:   outboxRepo,
		queueName:    queueName,
		maxRetries:   maxRetries,
	}
}

// Publish sends the event to the notification queue, falling back to the
// outbox on broker failure. The caller treats any returned error as
// best-effort: it is logged, never propagated as an operation failure.
func (p *Publisher) Publish(ctx context.Context, event notification.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	if err := p.rabbitClient.Publish(p.queueName, contentTypeJSON, body); err != nil {
		now := time.Now()
		insertErr := p.outboxRepo.Insert(ctx, outbox.Message{
			QueueName:   p.queueName,
			RoutingKey:  p.queueName,
			Payload:     body,
			ContentType: contentTypeJSON,
			MaxRetries:  p.maxRetries,
			LastError:   err.Error(),
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		})
		if insertErr != nil {
			return fmt.Errorf("failed to publish event and park it in outbox: %w", insertErr)
		}

		return fmt.Errorf("event parked in outbox after publish failure: %w", err)
	}

	return nil
}
