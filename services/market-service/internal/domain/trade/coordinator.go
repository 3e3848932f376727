// Package trade coordinates the operations that move an item through its sale
// lifecycle. Each operation runs in a single transaction that starts by
// locking the item row, so concurrent bids, answers and purchases on the same
// item are serialized by the database.
package trade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/pkg/database"
	"github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/market-service/internal/domain/bids"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
	"github.com/floroz/marketplace/services/market-service/internal/domain/purchases"
)

// Operation names reported to the Recorder.
const (
	OpPlaceBid       = "place_bid"
	OpAnswerBid      = "answer_bid"
	OpBuyItem        = "buy_item"
	OpBuyItemFromBid = "buy_item_from_bid"
)

// OutboxRepository stores events in the caller's transaction.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}

// Recorder receives the outcome of every coordinator operation.
type Recorder interface {
	ObserveOperation(op string, started time.Time, err error)
	ObserveTransition(from, to items.ItemState)
	ObserveSale(finalPrice int64)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, time.Time, error)          {}
func (noopRecorder) ObserveTransition(items.ItemState, items.ItemState) {}
func (noopRecorder) ObserveSale(int64)                                  {}

type PlaceBidCommand struct {
	ItemID      uuid.UUID
	AskingPrice int64
}

type AnswerBidCommand struct {
	BidID  uuid.UUID
	Status bids.BidStatus
}

// Option configures optional collaborators of the Coordinator.
type Option func(*Coordinator)

func WithCache(cache items.Cache) Option {
	return func(c *Coordinator) {
		if cache != nil {
			c.cache = cache
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Coordinator) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Coordinator owns the cross-entity rules between items, bids and purchases.
type Coordinator struct {
	txManager database.TransactionManager
	items     items.Repository
	bids      bids.Repository
	purchases purchases.Repository
	outbox    OutboxRepository
	cache     items.Cache
	recorder  Recorder
	logger    *slog.Logger
}

// NewCoordinator creates a coordinator. Without options it caches nothing,
// records nothing and logs to slog.Default().
func NewCoordinator(
	txManager database.TransactionManager,
	itemRepo items.Repository,
	bidRepo bids.Repository,
	purchaseRepo purchases.Repository,
	outboxRepo OutboxRepository,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		txManager: txManager,
		items:     itemRepo,
		bids:      bidRepo,
		purchases: purchaseRepo,
		outbox:    outboxRepo,
		cache:     items.NoopCache{},
		recorder:  noopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceBid records a pending bid from caller and reserves the item if it was
// available.
func (c *Coordinator) PlaceBid(ctx context.Context, caller auth.Identity, cmd PlaceBidCommand) (bid *bids.Bid, err error) {
	defer c.observe(OpPlaceBid, time.Now(), &err)

	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if cmd.AskingPrice <= 0 {
		return nil, domainerrors.ErrInvalidBidAmount
	}

	err = c.withLockedItem(ctx, OpPlaceBid, fixedItem(cmd.ItemID), func(tx pgx.Tx, item *items.Item) error {
		if !item.State.AcceptsBids() {
			return domainerrors.ErrItemNotBiddable
		}
		if item.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrSellerCannotBid
		}

		bid = &bids.Bid{
			ID:          uuid.New(),
			ItemID:      item.ID,
			UserID:      caller.UserID,
			AskingPrice: cmd.AskingPrice,
			Status:      bids.StatusPending,
			Published:   time.Now().UTC(),
			ItemName:    item.Name,
		}
		if err := c.bids.SaveBid(ctx, tx, bid); err != nil {
			return err
		}

		if item.State == items.StateAvailable {
			if err := c.moveItem(ctx, tx, item, items.StateReserved); err != nil {
				return err
			}
		}

		event := &events.BidPlaced{
			EventID:     uuid.New(),
			BidID:       bid.ID,
			ItemID:      item.ID,
			BidderID:    caller.UserID,
			AskingPrice: bid.AskingPrice,
			ItemState:   item.State.String(),
			OccurredAt:  bid.Published,
		}
		return c.saveEvent(ctx, tx, events.EventTypeBidPlaced, event.EventID, event)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// AnswerBid lets the item's seller accept or decline a pending bid. Once no
// bid on a reserved item is outstanding the item becomes available again.
func (c *Coordinator) AnswerBid(ctx context.Context, caller auth.Identity, cmd AnswerBidCommand) (bid *bids.Bid, err error) {
	defer c.observe(OpAnswerBid, time.Now(), &err)

	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if !cmd.Status.IsAnswer() {
		return nil, domainerrors.ErrInvalidAnswer
	}

	err = c.withLockedItem(ctx, OpAnswerBid, c.itemOfBid(ctx, cmd.BidID), func(tx pgx.Tx, item *items.Item) error {
		if item.State.IsTerminal() {
			return domainerrors.ErrItemClosed
		}
		if !item.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrNotItemOwner
		}

		var err error
		bid, err = c.bids.GetBidByID(ctx, tx, cmd.BidID)
		if err != nil {
			return err
		}
		if bid.IsAnswered() {
			return domainerrors.ErrBidAlreadyAnswered
		}

		if err := c.bids.SetStatus(ctx, tx, bid.ID, cmd.Status, caller.UserID); err != nil {
			return err
		}
		bid.Status = cmd.Status
		bid.ItemName = item.Name

		outstanding, err := c.bids.HasOutstandingBid(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if !outstanding && item.State == items.StateReserved {
			if err := c.moveItem(ctx, tx, item, items.StateAvailable); err != nil {
				return err
			}
		}

		event := &events.BidAnswered{
			EventID:    uuid.New(),
			BidID:      bid.ID,
			ItemID:     item.ID,
			SellerID:   item.SellerID,
			BidderID:   bid.UserID,
			Status:     string(bid.Status),
			ItemState:  item.State.String(),
			OccurredAt: time.Now().UTC(),
		}
		return c.saveEvent(ctx, tx, events.EventTypeBidAnswered, event.EventID, event)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// BuyItem sells an available item to caller at its listed price.
func (c *Coordinator) BuyItem(ctx context.Context, caller auth.Identity, itemID uuid.UUID) (purchase *purchases.Purchase, err error) {
	defer c.observe(OpBuyItem, time.Now(), &err)

	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}

	err = c.withLockedItem(ctx, OpBuyItem, fixedItem(itemID), func(tx pgx.Tx, item *items.Item) error {
		switch item.State {
		case items.StateAvailable:
		case items.StateSold:
			return domainerrors.ErrItemAlreadySold
		default:
			return domainerrors.ErrItemNotPurchasable
		}
		if item.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrSellerCannotBuy
		}

		var err error
		purchase, err = c.settle(ctx, tx, item, caller.UserID, uuid.Nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.recorder.ObserveSale(purchase.FinalPrice)
	return purchase, nil
}

// BuyItemFromBid completes the sale behind one of caller's accepted bids.
func (c *Coordinator) BuyItemFromBid(ctx context.Context, caller auth.Identity, bidID uuid.UUID) (purchase *purchases.Purchase, err error) {
	defer c.observe(OpBuyItemFromBid, time.Now(), &err)

	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}

	err = c.withLockedItem(ctx, OpBuyItemFromBid, c.itemOfBid(ctx, bidID), func(tx pgx.Tx, item *items.Item) error {
		switch item.State {
		case items.StateSold:
			return domainerrors.ErrItemAlreadySold
		case items.StateArchived:
			return domainerrors.ErrItemClosed
		}

		bid, err := c.bids.GetBidByID(ctx, tx, bidID)
		if err != nil {
			return err
		}
		if bid.UserID != caller.UserID || bid.Status != bids.StatusAccepted {
			return domainerrors.ErrBidNotRedeemable
		}

		// The sale settles at the item's listed price, not the accepted
		// asking price. Sellers see the listed price in their stats, so this
		// is kept, but it is probably not what bidders expect.
		purchase, err = c.settle(ctx, tx, item, caller.UserID, bid.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.recorder.ObserveSale(purchase.FinalPrice)
	return purchase, nil
}

// settle records the purchase, marks the item sold and queues item.sold.
// Purchases from a bid also settle at the listed price, not the asking price.
func (c *Coordinator) settle(ctx context.Context, tx pgx.Tx, item *items.Item, buyerID, bidID uuid.UUID) (*purchases.Purchase, error) {
	purchase := purchases.NewPurchase(item.ID, buyerID, item.Price)
	if err := c.purchases.Record(ctx, tx, purchase); err != nil {
		return nil, err
	}
	if err := c.moveItem(ctx, tx, item, items.StateSold); err != nil {
		return nil, err
	}

	event := &events.ItemSold{
		EventID:    uuid.New(),
		PurchaseID: purchase.ID,
		ItemID:     item.ID,
		SellerID:   item.SellerID,
		BuyerID:    buyerID,
		BidID:      bidID,
		Category:   item.Category,
		FinalPrice: purchase.FinalPrice,
		OccurredAt: purchase.PurchasedAt,
	}
	if err := c.saveEvent(ctx, tx, events.EventTypeItemSold, event.EventID, event); err != nil {
		return nil, err
	}
	return purchase, nil
}

// moveItem applies a state machine transition to the locked item.
func (c *Coordinator) moveItem(ctx context.Context, tx pgx.Tx, item *items.Item, next items.ItemState) error {
	if !item.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: item cannot move from %s to %s", domainerrors.ErrInvalidState, item.State, next)
	}
	if err := c.items.UpdateState(ctx, tx, item.ID, next); err != nil {
		return err
	}
	item.State = next
	return nil
}

type eventPayload interface {
	Marshal() ([]byte, error)
}

func (c *Coordinator) saveEvent(ctx context.Context, tx pgx.Tx, eventType string, eventID uuid.UUID, payload eventPayload) error {
	data, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := c.outbox.SaveEvent(ctx, tx, events.NewOutboxEvent(eventID, eventType, data, time.Now().UTC())); err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}
	return nil
}

// itemLocator resolves which item row an operation must lock.
type itemLocator func(tx pgx.Tx) (uuid.UUID, error)

func fixedItem(itemID uuid.UUID) itemLocator {
	return func(pgx.Tx) (uuid.UUID, error) {
		return itemID, nil
	}
}

func (c *Coordinator) itemOfBid(ctx context.Context, bidID uuid.UUID) itemLocator {
	return func(tx pgx.Tx) (uuid.UUID, error) {
		return c.bids.ItemIDForBid(ctx, tx, bidID)
	}
}

// withLockedItem runs fn inside one transaction holding the item's row lock.
// Errors that are not domain errors are reported as Transient.
func (c *Coordinator) withLockedItem(ctx context.Context, op string, locate itemLocator, fn func(tx pgx.Tx, item *items.Item) error) error {
	tx, err := c.txManager.BeginTx(ctx)
	if err != nil {
		return domainerrors.Classify("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	itemID, err := locate(tx)
	if err != nil {
		return domainerrors.Classify(op, err)
	}

	item, err := c.items.GetItemByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return domainerrors.Classify(op, err)
	}
	from := item.State

	if err := fn(tx, item); err != nil {
		return domainerrors.Classify(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domainerrors.Classify("commit transaction", err)
	}

	if item.State != from {
		c.recorder.ObserveTransition(from, item.State)
		c.logger.Info("Item state changed", "op", op, "item_id", item.ID, "from", from, "to", item.State)
	}
	if err := c.cache.Invalidate(ctx, item.ID); err != nil {
		c.logger.Warn("Item cache invalidation failed", "item_id", item.ID, "error", err)
	}
	return nil
}

func (c *Coordinator) observe(op string, started time.Time, err *error) {
	c.recorder.ObserveOperation(op, started, *err)
}
