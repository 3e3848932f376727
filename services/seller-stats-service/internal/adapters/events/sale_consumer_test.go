package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgevents "github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessItemSold(ctx context.Context, event sellerstats.SaleEvent) error {
	return m.Called(ctx, event).Error(0)
}

// recordingAcknowledger remembers how a delivery was settled.
type recordingAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func soldDelivery(t *testing.T, sold *pkgevents.ItemSold) (amqp.Delivery, *recordingAcknowledger) {
	t.Helper()
	body, err := sold.Marshal()
	require.NoError(t, err)
	ack := &recordingAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, Body: body, RoutingKey: pkgevents.EventTypeItemSold}, ack
}

func TestSaleConsumer_Handle(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sold := &pkgevents.ItemSold{
		EventID:    uuid.New(),
		PurchaseID: uuid.New(),
		ItemID:     uuid.New(),
		SellerID:   uuid.New(),
		BuyerID:    uuid.New(),
		FinalPrice: 120,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	want := sellerstats.SaleEvent{
		EventID:    sold.EventID,
		SellerID:   sold.SellerID,
		FinalPrice: 120,
		OccurredAt: sold.OccurredAt,
	}

	t.Run("acks processed sale", func(t *testing.T) {
		processor := new(MockProcessor)
		processor.On("ProcessItemSold", ctx, want).Return(nil)
		d, ack := soldDelivery(t, sold)

		NewSaleConsumer(nil, processor, logger).handle(ctx, d)

		assert.True(t, ack.acked)
		processor.AssertExpectations(t)
	})

	t.Run("requeues on failure", func(t *testing.T) {
		processor := new(MockProcessor)
		processor.On("ProcessItemSold", ctx, want).Return(errors.New("db down"))
		d, ack := soldDelivery(t, sold)

		NewSaleConsumer(nil, processor, logger).handle(ctx, d)

		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drops invalid sale", func(t *testing.T) {
		processor := new(MockProcessor)
		processor.On("ProcessItemSold", ctx, want).Return(sellerstats.ErrInvalidSale)
		d, ack := soldDelivery(t, sold)

		NewSaleConsumer(nil, processor, logger).handle(ctx, d)

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})

	t.Run("drops undecodable body", func(t *testing.T) {
		processor := new(MockProcessor)
		ack := &recordingAcknowledger{}
		d := amqp.Delivery{Acknowledger: ack, Body: []byte("not a struct")}

		NewSaleConsumer(nil, processor, logger).handle(ctx, d)

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
		processor.AssertNotCalled(t, "ProcessItemSold", mock.Anything, mock.Anything)
	})
}
