package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MarketExchange is the topic exchange every market event is published to;
// the routing key is the event type.
const MarketExchange = "market.events"

// PayloadContentType marks bodies encoded by this package.
const PayloadContentType = "application/x-protobuf"

// DeclareExchange declares the durable topic exchange on ch.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
}

// RabbitMQPublisher implements EventPublisher
type RabbitMQPublisher struct {
	channel *amqp.Channel
}

// NewRabbitMQPublisher opens a channel on conn and makes sure exchange exists.
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := DeclareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{channel: ch}, nil
}

// Close closes the channel
func (p *RabbitMQPublisher) Close() error {
	return p.channel.Close()
}

// Publish sends event as a persistent message routed by its type.
func (p *RabbitMQPublisher) Publish(ctx context.Context, exchange string, event *OutboxEvent) error {
	return p.channel.PublishWithContext(ctx,
		exchange,        // exchange
		event.EventType, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  PayloadContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Type:         event.EventType,
			Timestamp:    event.CreatedAt,
			Body:         event.Payload,
		},
	)
}
