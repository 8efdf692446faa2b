package outbox

import (
	"time"
)

// Message is a notification event that could not be published to RabbitMQ
// on the first attempt and is parked for retry by the outbox worker.
type Message struct {
	ID          int64
	QueueName   string
	RoutingKey  string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
