package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floroz/marketplace/pkg/testhelpers"
)

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) GetPendingEvents(ctx context.Context, tx pgx.Tx, limit int) ([]*OutboxEvent, error) {
	args := m.Called(ctx, tx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) UpdateEventStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status OutboxStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, exchange string, event *OutboxEvent) error {
	args := m.Called(ctx, exchange, event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingEvents(n int) []*OutboxEvent {
	out := make([]*OutboxEvent, n)
	for i := range out {
		out[i] = NewOutboxEvent(uuid.New(), EventTypeBidPlaced, []byte{byte(i)}, time.Now())
	}
	return out
}

func TestOutboxRelay_ProcessBatch(t *testing.T) {
	cfg := RelayConfig{BatchSize: 5, Interval: time.Second, Exchange: MarketExchange}

	t.Run("publishes and marks every pending event", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		pub := new(MockPublisher)
		txm := testhelpers.NewFakeTxManager()
		batch := pendingEvents(3)

		repo.On("GetPendingEvents", mock.Anything, txm.Tx, 5).Return(batch, nil)
		for _, e := range batch {
			pub.On("Publish", mock.Anything, MarketExchange, e).Return(nil).Once()
			repo.On("UpdateEventStatus", mock.Anything, txm.Tx, e.ID, OutboxStatusPublished).Return(nil).Once()
		}

		relay := NewOutboxRelay(repo, pub, txm, cfg, discardLogger())
		n, err := relay.processBatch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.True(t, txm.Tx.Committed())
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("nothing pending commits nothing", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		pub := new(MockPublisher)
		txm := testhelpers.NewFakeTxManager()

		repo.On("GetPendingEvents", mock.Anything, txm.Tx, 5).Return([]*OutboxEvent{}, nil)

		relay := NewOutboxRelay(repo, pub, txm, cfg, discardLogger())
		n, err := relay.processBatch(context.Background())

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.False(t, txm.Tx.Committed())
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stops at first publish failure and keeps earlier progress", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		pub := new(MockPublisher)
		txm := testhelpers.NewFakeTxManager()
		batch := pendingEvents(3)

		repo.On("GetPendingEvents", mock.Anything, txm.Tx, 5).Return(batch, nil)
		pub.On("Publish", mock.Anything, MarketExchange, batch[0]).Return(nil)
		repo.On("UpdateEventStatus", mock.Anything, txm.Tx, batch[0].ID, OutboxStatusPublished).Return(nil)
		pub.On("Publish", mock.Anything, MarketExchange, batch[1]).Return(errors.New("broker down"))

		relay := NewOutboxRelay(repo, pub, txm, cfg, discardLogger())
		n, err := relay.processBatch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.True(t, txm.Tx.Committed())
		pub.AssertNotCalled(t, "Publish", mock.Anything, MarketExchange, batch[2])
	})

	t.Run("first event failing rolls back", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		pub := new(MockPublisher)
		txm := testhelpers.NewFakeTxManager()
		batch := pendingEvents(1)

		repo.On("GetPendingEvents", mock.Anything, txm.Tx, 5).Return(batch, nil)
		pub.On("Publish", mock.Anything, MarketExchange, batch[0]).Return(errors.New("broker down"))

		relay := NewOutboxRelay(repo, pub, txm, cfg, discardLogger())
		_, err := relay.processBatch(context.Background())

		require.Error(t, err)
		assert.False(t, txm.Tx.Committed())
		assert.True(t, txm.Tx.RolledBack())
	})

	t.Run("begin failure", func(t *testing.T) {
		txm := testhelpers.NewFakeTxManager()
		txm.BeginErr = errors.New("pool closed")

		relay := NewOutboxRelay(new(MockOutboxRepository), new(MockPublisher), txm, cfg, discardLogger())
		_, err := relay.processBatch(context.Background())
		assert.ErrorContains(t, err, "pool closed")
	})
}

func TestOutboxRelay_RunStopsOnCancel(t *testing.T) {
	repo := new(MockOutboxRepository)
	txm := testhelpers.NewFakeTxManager()
	repo.On("GetPendingEvents", mock.Anything, mock.Anything, mock.Anything).Return([]*OutboxEvent{}, nil)

	relay := NewOutboxRelay(repo, new(MockPublisher), txm, RelayConfig{Interval: 10 * time.Millisecond}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancellation")
	}
}

func TestNewOutboxRelay_Defaults(t *testing.T) {
	relay := NewOutboxRelay(nil, nil, nil, RelayConfig{}, discardLogger())
	assert.Equal(t, DefaultRelayConfig(), relay.cfg)
}
