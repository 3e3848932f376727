package bids

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floroz/marketplace/pkg/auth"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/pagination"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveBid(ctx context.Context, tx pgx.Tx, bid *Bid) error {
	return m.Called(ctx, tx, bid).Error(0)
}

func (m *MockRepository) GetBidByID(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (*Bid, error) {
	args := m.Called(ctx, tx, bidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Bid), args.Error(1)
}

func (m *MockRepository) ItemIDForBid(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, tx, bidID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, tx pgx.Tx, bidID uuid.UUID, status BidStatus, callerID uuid.UUID) error {
	return m.Called(ctx, tx, bidID, status, callerID).Error(0)
}

func (m *MockRepository) HasOutstandingBid(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListUniqueItemsBidOn(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]*Bid, error) {
	return m.list(m.Called(ctx, bidderID, limit, offset))
}

func (m *MockRepository) ListBidsOnItemByUser(ctx context.Context, bidderID, itemID uuid.UUID, limit, offset int) ([]*Bid, error) {
	return m.list(m.Called(ctx, bidderID, itemID, limit, offset))
}

func (m *MockRepository) ListBidsReceivedOnOwnedItems(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Bid, error) {
	return m.list(m.Called(ctx, ownerID, limit, offset))
}

func (m *MockRepository) ListBidsByBidderOnOwnedItem(ctx context.Context, ownerID, itemID, bidderID uuid.UUID, limit, offset int) ([]*Bid, error) {
	return m.list(m.Called(ctx, ownerID, itemID, bidderID, limit, offset))
}

func (m *MockRepository) list(args mock.Arguments) ([]*Bid, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Bid), args.Error(1)
}

func TestService_PaginationIsTranslatedToLimitOffset(t *testing.T) {
	ctx := context.Background()
	caller := auth.NewIdentity(uuid.New(), auth.RoleUser)
	itemID := uuid.New()
	bidderID := uuid.New()
	page := pagination.Page{Index: 3, Size: 25}
	want := []*Bid{{ID: uuid.New(), ItemID: itemID, Status: StatusPending}}

	repo := new(MockRepository)
	repo.On("ListUniqueItemsBidOn", mock.Anything, caller.UserID, 25, 75).Return(want, nil)
	repo.On("ListBidsOnItemByUser", mock.Anything, caller.UserID, itemID, 25, 75).Return(want, nil)
	repo.On("ListBidsReceivedOnOwnedItems", mock.Anything, caller.UserID, 25, 75).Return(want, nil)
	repo.On("ListBidsByBidderOnOwnedItem", mock.Anything, caller.UserID, itemID, bidderID, 25, 75).Return(want, nil)

	svc := NewService(repo)

	got, err := svc.ListUniqueItemsBidOn(ctx, caller, page)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.ListBidsOnItem(ctx, caller, itemID, page)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.ListReceivedBids(ctx, caller, page)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.ListBidderBidsOnItem(ctx, caller, itemID, bidderID, page)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	repo.AssertExpectations(t)
}

func TestService_ListRejections(t *testing.T) {
	ctx := context.Background()
	caller := auth.NewIdentity(uuid.New(), auth.RoleUser)

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := NewService(new(MockRepository)).ListReceivedBids(ctx, auth.Identity{}, pagination.Page{Size: 10})
		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	})

	t.Run("invalid page", func(t *testing.T) {
		_, err := NewService(new(MockRepository)).ListUniqueItemsBidOn(ctx, caller, pagination.Page{Index: 0, Size: 0})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListBidsReceivedOnOwnedItems", mock.Anything, caller.UserID, 10, 0).Return(nil, errors.New("timeout"))

		_, err := NewService(repo).ListReceivedBids(ctx, caller, pagination.Page{Size: 10})
		assert.ErrorIs(t, err, domainerrors.ErrTransient)
	})
}

func TestBidStatus(t *testing.T) {
	assert.True(t, StatusAccepted.IsAnswer())
	assert.True(t, StatusDeclined.IsAnswer())
	assert.False(t, StatusPending.IsAnswer())
	assert.False(t, BidStatus("withdrawn").IsValid())

	assert.False(t, (&Bid{Status: StatusPending}).IsAnswered())
	assert.True(t, (&Bid{Status: StatusDeclined}).IsAnswered())
}
