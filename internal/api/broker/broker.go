// Package broker publishes messages to RabbitMQ for the API service.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/homelab-dev/homelab/internal/api/config"
)

// ErrUnavailable is returned when the broker cannot be reached.
var ErrUnavailable = errors.New("rabbitmq unavailable")

// Message is the payload published to a messages queue.
type Message struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	Timestamp string `json:"timestamp"`
}

// NewMessage creates a message with a fresh id and the current timestamp.
func NewMessage(content, priority string) Message {
	return Message{
		ID:        "msg_" + uuid.NewString(),
		Message:   content,
		Priority:  priority,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// QueueName returns the durable queue messages of the given priority go to.
func QueueName(priority string) string {
	return "messages_" + priority
}

// Publisher publishes persistent messages to RabbitMQ. Each publish opens a
// fresh connection; the broker is treated as optional, so the API stays up
// while it is down.
type Publisher struct {
	url string
}

// NewPublisher creates a publisher for the configured broker.
func NewPublisher(settings config.RabbitMQSettings) *Publisher {
	return &Publisher{url: settings.URL()}
}

// Publish declares the priority queue and publishes the message to it with
// persistent delivery.
func (p *Publisher) Publish(ctx context.Context, message Message) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = conn.Close() }()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = channel.Close() }()

	queue, err := channel.QueueDeclare(
		QueueName(message.Priority),
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	err = channel.PublishWithContext(ctx, "", queue.Name, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    message.ID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Ping reports whether the broker is reachable.
func (p *Publisher) Ping(context.Context) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	_ = conn.Close()

	return nil
}
