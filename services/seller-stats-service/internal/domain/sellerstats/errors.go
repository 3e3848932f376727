package sellerstats

import "errors"

var (
	ErrStatsNotFound   = errors.New("seller stats not found")
	ErrMissingIdentity = errors.New("caller identity is required")
	ErrNotStatsOwner   = errors.New("stats belong to another seller")
	ErrInvalidSale     = errors.New("sale event is incomplete")
)
