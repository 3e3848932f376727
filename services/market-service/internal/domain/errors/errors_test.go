package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/floroz/marketplace/pkg/database"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
		name string
	}{
		{ErrItemNotFound, ErrNotFound, "not_found"},
		{fmt.Errorf("lookup: %w", ErrBidNotFound), ErrNotFound, "not_found"},
		{ErrItemNotBiddable, ErrInvalidState, "invalid_state"},
		{ErrBidAlreadyAnswered, ErrInvalidState, "invalid_state"},
		{ErrSellerCannotBid, ErrForbidden, "forbidden"},
		{ErrBidNotRedeemable, ErrForbidden, "forbidden"},
		{ErrMissingIdentity, ErrUnauthenticated, "unauthenticated"},
		{ErrInvalidPage, ErrInvalidInput, "invalid_input"},
		{Transient(errors.New("conn reset")), ErrTransient, "transient"},
		{errors.New("boom"), nil, "internal"},
		{nil, nil, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
			assert.Equal(t, tt.name, KindName(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify("noop", nil))

	// domain errors pass through unchanged
	assert.Same(t, ErrItemNotFound, Classify("get item", ErrItemNotFound))

	cause := errors.New("connection refused")
	err := Classify("get item", cause)
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to get item: transient failure: connection refused", err.Error())
}

func TestClassify_PostgresErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"lock timeout", &pgconn.PgError{Code: database.CodeLockNotAvailable}, ErrTransient},
		{"deadlock", &pgconn.PgError{Code: database.CodeDeadlockDetected}, ErrTransient},
		{"query canceled", &pgconn.PgError{Code: database.CodeQueryCanceled}, ErrTransient},
		{"deadline exceeded", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTransient},
		{"unique violation", &pgconn.PgError{Code: database.CodeUniqueViolation}, nil},
		{"undefined column", &pgconn.PgError{Code: "42703"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("save bid", tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.kind, Kind(err))
		})
	}

	assert.Equal(t, "internal", KindName(Classify("save bid", &pgconn.PgError{Code: database.CodeUniqueViolation})))
}

func TestSpecificErrorsKeepReadableMessages(t *testing.T) {
	assert.Equal(t, "item not found", ErrItemNotFound.Error())
	assert.Equal(t, "forbidden: seller cannot bid on their own item", ErrSellerCannotBid.Error())
}
