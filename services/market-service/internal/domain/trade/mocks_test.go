package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/market-service/internal/domain/bids"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
	"github.com/floroz/marketplace/services/market-service/internal/domain/purchases"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CreateItem(ctx context.Context, item *items.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*items.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*items.Item), args.Error(1)
}

func (m *MockItemRepository) GetItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*items.Item, error) {
	args := m.Called(ctx, tx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so assertions on the original are not affected by the coordinator
	item := *args.Get(0).(*items.Item)
	return &item, args.Error(1)
}

func (m *MockItemRepository) UpdateState(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, state items.ItemState) error {
	return m.Called(ctx, tx, itemID, state).Error(0)
}

func (m *MockItemRepository) UpdateDetails(ctx context.Context, tx pgx.Tx, item *items.Item) error {
	return m.Called(ctx, tx, item).Error(0)
}

func (m *MockItemRepository) ListAvailable(ctx context.Context, category string, limit, offset int) ([]*items.Item, error) {
	args := m.Called(ctx, category, limit, offset)
	return args.Get(0).([]*items.Item), args.Error(1)
}

func (m *MockItemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*items.Item, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]*items.Item), args.Error(1)
}

type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) SaveBid(ctx context.Context, tx pgx.Tx, bid *bids.Bid) error {
	return m.Called(ctx, tx, bid).Error(0)
}

func (m *MockBidRepository) GetBidByID(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (*bids.Bid, error) {
	args := m.Called(ctx, tx, bidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	bid := *args.Get(0).(*bids.Bid)
	return &bid, args.Error(1)
}

func (m *MockBidRepository) ItemIDForBid(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, tx, bidID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBidRepository) SetStatus(ctx context.Context, tx pgx.Tx, bidID uuid.UUID, status bids.BidStatus, callerID uuid.UUID) error {
	return m.Called(ctx, tx, bidID, status, callerID).Error(0)
}

func (m *MockBidRepository) HasOutstandingBid(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBidRepository) ListUniqueItemsBidOn(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	args := m.Called(ctx, bidderID, limit, offset)
	return args.Get(0).([]*bids.Bid), args.Error(1)
}

func (m *MockBidRepository) ListBidsOnItemByUser(ctx context.Context, bidderID, itemID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	args := m.Called(ctx, bidderID, itemID, limit, offset)
	return args.Get(0).([]*bids.Bid), args.Error(1)
}

func (m *MockBidRepository) ListBidsReceivedOnOwnedItems(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*bids.Bid), args.Error(1)
}

func (m *MockBidRepository) ListBidsByBidderOnOwnedItem(ctx context.Context, ownerID, itemID, bidderID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	args := m.Called(ctx, ownerID, itemID, bidderID, limit, offset)
	return args.Get(0).([]*bids.Bid), args.Error(1)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Record(ctx context.Context, tx pgx.Tx, purchase *purchases.Purchase) error {
	return m.Called(ctx, tx, purchase).Error(0)
}

func (m *MockPurchaseRepository) GetByItemID(ctx context.Context, itemID uuid.UUID) (*purchases.Purchase, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchases.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*purchases.Purchase, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]*purchases.Purchase), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error {
	return m.Called(ctx, tx, event).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, itemID uuid.UUID) (*items.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*items.Item), args.Error(1)
}

func (m *MockCache) Reserve(ctx context.Context, itemID uuid.UUID) (string, error) {
	args := m.Called(ctx, itemID)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Fill(ctx context.Context, item *items.Item, token string) (bool, error) {
	args := m.Called(ctx, item, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Invalidate(ctx context.Context, itemID uuid.UUID) error {
	return m.Called(ctx, itemID).Error(0)
}

// spyRecorder keeps what the coordinator reported.
type spyRecorder struct {
	ops         []string
	errs        []error
	transitions [][2]items.ItemState
	sales       []int64
}

func (r *spyRecorder) ObserveOperation(op string, _ time.Time, err error) {
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
}

func (r *spyRecorder) ObserveTransition(from, to items.ItemState) {
	r.transitions = append(r.transitions, [2]items.ItemState{from, to})
}

func (r *spyRecorder) ObserveSale(finalPrice int64) {
	r.sales = append(r.sales, finalPrice)
}
