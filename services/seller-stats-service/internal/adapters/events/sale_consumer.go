package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	pkgevents "github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
)

// SalesQueue is the durable queue bound to item.sold on the market exchange.
const SalesQueue = "seller_stats_sales"

// SaleProcessor is implemented by sellerstats.Service.
type SaleProcessor interface {
	ProcessItemSold(ctx context.Context, event sellerstats.SaleEvent) error
}

// SaleConsumer consumes item.sold events and feeds them to the seller stats.
type SaleConsumer struct {
	conn      *amqp.Connection
	processor SaleProcessor
	logger    *slog.Logger
}

func NewSaleConsumer(conn *amqp.Connection, processor SaleProcessor, logger *slog.Logger) *SaleConsumer {
	return &SaleConsumer{
		conn:      conn,
		processor: processor,
		logger:    logger,
	}
}

// Run consumes until ctx is cancelled, then returns nil.
func (c *SaleConsumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if setupErr := setupQueue(ch); setupErr != nil {
		return fmt.Errorf("failed to setup rabbitmq: %w", setupErr)
	}

	msgs, err := ch.Consume(
		SalesQueue, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("Waiting for sales...", "queue", SalesQueue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle acks processed and duplicate sales, drops undecodable or incomplete
// ones and requeues on processing failures.
func (c *SaleConsumer) handle(ctx context.Context, d amqp.Delivery) {
	sold, err := pkgevents.UnmarshalItemSold(d.Body)
	if err != nil {
		c.logger.Error("Failed to decode item.sold", "message_id", d.MessageId, "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.Error("Failed to Nack message", "error", nackErr)
		}
		return
	}

	err = c.processor.ProcessItemSold(ctx, sellerstats.SaleEvent{
		EventID:    sold.EventID,
		SellerID:   sold.SellerID,
		FinalPrice: sold.FinalPrice,
		OccurredAt: sold.OccurredAt,
	})
	switch {
	case errors.Is(err, sellerstats.ErrInvalidSale):
		c.logger.Error("Dropping invalid sale", "event_id", sold.EventID, "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.Error("Failed to Nack message", "error", nackErr)
		}
	case err != nil:
		c.logger.Error("Failed to process sale", "event_id", sold.EventID, "error", err)
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Error("Failed to Nack message (requeue)", "error", nackErr)
		}
	default:
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error("Failed to Ack message", "error", ackErr)
		}
		c.logger.Info("Processed sale", "event_id", sold.EventID, "seller_id", sold.SellerID)
	}
}

func setupQueue(ch *amqp.Channel) error {
	if err := pkgevents.DeclareExchange(ch, pkgevents.MarketExchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare(
		SalesQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(
		q.Name,                      // queue name
		pkgevents.EventTypeItemSold, // routing key
		pkgevents.MarketExchange,    // exchange
		false,
		nil,
	)
}
