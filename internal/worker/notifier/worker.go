package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"github.com/titanshop/shop-svc/internal/dal/rabbitmq"
	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/user"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// sender delivers a rendered message to a chat.
type sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// userDirectory resolves notification recipients and customer identities.
type userDirectory interface {
	GetUser(ctx context.Context, telegramID int64) (*user.User, error)
	ListAdmins(ctx context.Context) ([]user.User, error)
}

// Worker consumes notification events from RabbitMQ and delivers them to
// Telegram chats: every event to the customer, creation events also to
// every administrator.
type Worker struct {
	client *rabbitmq.Client
	sender sender
	users  userDirectory
	queue  amqp.Queue
	stop   chan struct{}
	done   chan struct{}
}

// NewWorker creates a new notifier worker bound to the notification queue.
func NewWorker(client *rabbitmq.Client, sender sender, users userDirectory) *Worker {
	queueName := viper.GetString("rabbitmq.notifications.queue")
	if queueName == "" {
		panic("rabbitmq.notifications.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return &Worker{
		client: client,
		sender: sender,
		users:  users,
		queue:  queue,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run starts consuming notification events.
func (w *Worker) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.notifications.consumer_tag")
	if consumerTag == "" {
		consumerTag = "shop-svc-notifier"
	}

	msgs, err := w.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    w.queue.Name,
		Consumer: consumerTag,
	})
	if err != nil {
		return err
	}

	slog.Info("Notifier started", "queue", w.queue.Name, "consumer_tag", consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(10)

	go func() {
		for {
			select {
			case <-w.stop:
				slog.Info("Stopping notifier")
				close(w.done)

				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Notification channel closed")
					close(w.done)

					return
				}

				g.Go(func() error {
					return w.processMessage(gctx, msg)
				})
			}
		}
	}()

	<-w.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing notifications", "error", err)
	}

	return nil
}

// processMessage delivers a single notification event. Delivery is
// best-effort: a chat that rejects the message must not wedge the queue,
// so send failures are logged and the event is acknowledged anyway.
func (w *Worker) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("notifier").Start(ctx, "Worker.processMessage")
	defer span.End()

	var event notification.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.Error("Failed to unmarshal notification event", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	if text := renderCustomer(event); text != "" {
		if err := w.sender.SendText(ctx, event.Order.UserID, text); err != nil {
			slog.Warn("Failed to notify customer",
				"order_number", event.Order.Number,
				"chat_id", event.Order.UserID,
				"error", err,
			)
		}
	}

	if event.Kind == notification.KindOrderCreated {
		w.notifyAdmins(ctx, event)
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	return nil
}

func (w *Worker) notifyAdmins(ctx context.Context, event notification.Event) {
	admins, err := w.users.ListAdmins(ctx)
	if err != nil {
		slog.Error("Failed to list admins for notification",
			"order_number", event.Order.Number, "error", err)

		return
	}

	customer := user.User{TelegramID: event.Order.UserID}
	if found, err := w.users.GetUser(ctx, event.Order.UserID); err == nil {
		customer = *found
	}

	text := renderAdmin(event, customer)
	for _, admin := range admins {
		if err := w.sender.SendText(ctx, admin.TelegramID, text); err != nil {
			slog.Warn("Failed to notify admin",
				"order_number", event.Order.Number,
				"chat_id", admin.TelegramID,
				"error", err,
			)
		}
	}
}

// Shutdown gracefully shuts down the worker.
func (w *Worker) Shutdown() error {
	slog.Info("Shutting down notifier")
	close(w.stop)

	select {
	case <-w.done:
		slog.Info("Notifier stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Notifier shutdown timeout")
	}

	return nil
}
