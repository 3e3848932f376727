package testhelpers

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
)

// FakeTx is a pgx.Tx for unit tests of services whose repositories are mocked.
// Only Commit and Rollback are implemented; any other method panics.
type FakeTx struct {
	pgx.Tx

	mu         sync.Mutex
	CommitErr  error
	committed  bool
	rolledBack bool
}

func (tx *FakeTx) Commit(context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.CommitErr != nil {
		return tx.CommitErr
	}
	tx.committed = true
	return nil
}

func (tx *FakeTx) Rollback(context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

func (tx *FakeTx) Committed() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.committed
}

func (tx *FakeTx) RolledBack() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.rolledBack
}

// FakeTxManager hands out Tx, or fails with BeginErr.
type FakeTxManager struct {
	Tx       *FakeTx
	BeginErr error
}

func NewFakeTxManager() *FakeTxManager {
	return &FakeTxManager{Tx: &FakeTx{}}
}

func (m *FakeTxManager) BeginTx(context.Context) (pgx.Tx, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	return m.Tx, nil
}
