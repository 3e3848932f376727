package sellerstats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/pkg/testhelpers"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RecordSale(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, finalPrice int64, soldAt time.Time) error {
	return m.Called(ctx, tx, sellerID, finalPrice, soldAt).Error(0)
}

func (m *MockRepository) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SellerStats), args.Error(1)
}

func (m *MockRepository) IsEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MarkEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) error {
	return m.Called(ctx, tx, eventID).Error(0)
}

func newSale() SaleEvent {
	return SaleEvent{
		EventID:    uuid.New(),
		SellerID:   uuid.New(),
		FinalPrice: 250,
		OccurredAt: time.Now().UTC(),
	}
}

func TestService_ProcessItemSold(t *testing.T) {
	ctx := context.Background()

	t.Run("records a new sale", func(t *testing.T) {
		repo := new(MockRepository)
		txm := testhelpers.NewFakeTxManager()
		svc := NewService(repo, txm)
		sale := newSale()

		repo.On("IsEventProcessed", ctx, mock.Anything, sale.EventID).Return(false, nil)
		repo.On("RecordSale", ctx, mock.Anything, sale.SellerID, sale.FinalPrice, sale.OccurredAt).Return(nil)
		repo.On("MarkEventProcessed", ctx, mock.Anything, sale.EventID).Return(nil)

		require.NoError(t, svc.ProcessItemSold(ctx, sale))
		assert.True(t, txm.Tx.Committed())
		repo.AssertExpectations(t)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		repo := new(MockRepository)
		txm := testhelpers.NewFakeTxManager()
		svc := NewService(repo, txm)
		sale := newSale()

		repo.On("IsEventProcessed", ctx, mock.Anything, sale.EventID).Return(true, nil)

		require.NoError(t, svc.ProcessItemSold(ctx, sale))
		repo.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.False(t, txm.Tx.Committed())
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		repo := new(MockRepository)
		txm := testhelpers.NewFakeTxManager()
		svc := NewService(repo, txm)
		sale := newSale()

		repo.On("IsEventProcessed", ctx, mock.Anything, sale.EventID).Return(false, nil)
		repo.On("RecordSale", ctx, mock.Anything, sale.SellerID, sale.FinalPrice, sale.OccurredAt).Return(errors.New("disk full"))

		err := svc.ProcessItemSold(ctx, sale)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record sale")
		assert.True(t, txm.Tx.RolledBack())
		assert.False(t, txm.Tx.Committed())
	})

	t.Run("incomplete events are rejected", func(t *testing.T) {
		svc := NewService(new(MockRepository), testhelpers.NewFakeTxManager())

		for name, mutate := range map[string]func(*SaleEvent){
			"no event id":  func(e *SaleEvent) { e.EventID = uuid.Nil },
			"no seller":    func(e *SaleEvent) { e.SellerID = uuid.Nil },
			"zero revenue": func(e *SaleEvent) { e.FinalPrice = 0 },
		} {
			sale := newSale()
			mutate(&sale)
			assert.ErrorIs(t, svc.ProcessItemSold(ctx, sale), ErrInvalidSale, name)
		}
	})
}

func TestService_GetSellerStats(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	stats := &SellerStats{SellerID: sellerID, ItemsSold: 4, TotalRevenue: 1000}

	tests := []struct {
		name    string
		caller  auth.Identity
		wantErr error
	}{
		{"seller", auth.NewIdentity(sellerID, auth.RoleUser), nil},
		{"admin", auth.NewIdentity(uuid.New(), auth.RoleAdmin), nil},
		{"someone else", auth.NewIdentity(uuid.New(), auth.RoleUser), ErrNotStatsOwner},
		{"anonymous", auth.Identity{}, ErrMissingIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetSellerStats", ctx, sellerID).Return(stats, nil).Maybe()
			svc := NewService(repo, testhelpers.NewFakeTxManager())

			got, err := svc.GetSellerStats(ctx, tt.caller, sellerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "GetSellerStats", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(250), got.AverageSalePrice())
		})
	}
}
