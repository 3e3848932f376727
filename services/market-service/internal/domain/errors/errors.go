// Package errors defines the error kinds the market domain reports and the
// specific errors that wrap them. Callers classify with errors.Is against the
// kind sentinels.
package errors

import (
	"errors"
	"fmt"

	"github.com/floroz/marketplace/pkg/database"
)

// Kinds
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTransient       = errors.New("transient failure")
)

var (
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrBidNotFound      = fmt.Errorf("bid %w", ErrNotFound)
	ErrPurchaseNotFound = fmt.Errorf("purchase %w", ErrNotFound)

	ErrItemNotBiddable    = fmt.Errorf("%w: item is no longer accepting bids", ErrInvalidState)
	ErrItemNotPurchasable = fmt.Errorf("%w: item is not available for purchase", ErrInvalidState)
	ErrItemAlreadySold    = fmt.Errorf("%w: item has already been sold", ErrInvalidState)
	ErrItemClosed         = fmt.Errorf("%w: item is sold or archived", ErrInvalidState)
	ErrItemNotEditable    = fmt.Errorf("%w: sold or archived items cannot be edited", ErrInvalidState)
	ErrItemNotArchivable  = fmt.Errorf("%w: only available items can be archived", ErrInvalidState)
	ErrBidAlreadyAnswered = fmt.Errorf("%w: bid has already been answered", ErrInvalidState)

	ErrNotItemOwner     = fmt.Errorf("%w: caller does not own the item", ErrForbidden)
	ErrSellerCannotBid  = fmt.Errorf("%w: seller cannot bid on their own item", ErrForbidden)
	ErrSellerCannotBuy  = fmt.Errorf("%w: seller cannot buy their own item", ErrForbidden)
	ErrBidNotRedeemable = fmt.Errorf("%w: bid is not an accepted bid of the caller", ErrForbidden)
	ErrNotPurchaser     = fmt.Errorf("%w: caller is not the buyer", ErrForbidden)

	ErrMissingIdentity = fmt.Errorf("%w: caller identity is required", ErrUnauthenticated)

	ErrInvalidBidAmount = fmt.Errorf("%w: asking price must be positive", ErrInvalidInput)
	ErrInvalidAnswer    = fmt.Errorf("%w: answer must be accepted or declined", ErrInvalidInput)
	ErrInvalidPrice     = fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	ErrInvalidItemName  = fmt.Errorf("%w: item name is required", ErrInvalidInput)
	ErrInvalidPage      = fmt.Errorf("%w: page must be >= 0 and page size between 1 and 100", ErrInvalidInput)
)

var kinds = []error{
	ErrNotFound,
	ErrInvalidState,
	ErrForbidden,
	ErrUnauthenticated,
	ErrInvalidInput,
	ErrTransient,
}

// Transient marks err as a storage failure the caller may retry.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Kind returns the kind sentinel err wraps, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Classify leaves domain errors untouched and wraps storage errors with op as
// context. Statements Postgres rejected for good (constraint violations,
// malformed SQL) carry no kind and surface as internal; lock contention,
// cancellation and connection failures are Transient.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	if database.IsServerError(err) && !database.IsTransient(err) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, Transient(err))
}

// KindName is a short stable label for metrics and logs.
func KindName(err error) string {
	switch Kind(err) {
	case nil:
		if err == nil {
			return "ok"
		}
		return "internal"
	case ErrNotFound:
		return "not_found"
	case ErrInvalidState:
		return "invalid_state"
	case ErrForbidden:
		return "forbidden"
	case ErrUnauthenticated:
		return "unauthenticated"
	case ErrInvalidInput:
		return "invalid_input"
	default:
		return "transient"
	}
}
