package events

import (
	"context"
	"encoding/json"
	"fmt"

	"job-board/internal/common/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes events to a topic exchange and consumes them from a
// durable queue bound to every routing key.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      logger.Logger
}

func NewRabbitMQ(url, exchange, queue string, log logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "#", exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	log.Info("Connected to RabbitMQ", map[string]interface{}{"exchange": exchange, "queue": queue})

	return &RabbitMQ{conn: conn, channel: ch, exchange: exchange, queue: queue, log: log}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, event Event) error {
	msg, err := toPublishing(event)
	if err != nil {
		return err
	}
	return r.channel.PublishWithContext(ctx, r.exchange, string(event.Type), false, false, msg)
}

// Consume delivers queued events to handler until ctx is done or the
// channel closes. A failed event is requeued once and then dropped.
func (r *RabbitMQ) Consume(ctx context.Context, handler Handler) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, r.queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			r.handleDelivery(ctx, d, handler)
		}
	}()
	return nil
}

func (r *RabbitMQ) handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	event, err := fromDelivery(d)
	if err != nil {
		r.log.Warn("Dropping malformed event", map[string]interface{}{"messageId": d.MessageId, "error": err.Error()})
		_ = d.Reject(false)
		return
	}

	if err := handler(ctx, event); err != nil {
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func toPublishing(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

func fromDelivery(d amqp.Delivery) (Event, error) {
	var event Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return Event{}, fmt.Errorf("invalid event body: %w", err)
	}
	if event.Type == "" {
		event.Type = Type(d.Type)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("event %s has no type", d.MessageId)
	}
	return event, nil
}
