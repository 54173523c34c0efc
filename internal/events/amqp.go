package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var _ Publisher = (*AMQPPublisher)(nil)

// AMQPPublisher delivers events to a durable RabbitMQ queue via the
// default exchange.
type AMQPPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
}

// NewAMQPPublisher dials the broker and declares the queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, queue: queue}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
