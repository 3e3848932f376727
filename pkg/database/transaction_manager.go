package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager opens the transactions every multi-row write runs in.
type TransactionManager interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repositories can share
// one query implementation for pooled reads and transactional reads.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

// PostgresTransactionManager implements TransactionManager using pgx
type PostgresTransactionManager struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewPostgresTransactionManager creates a new PostgreSQL transaction manager.
// lockTimeout bounds how long a statement inside the transaction may wait on a
// row lock (0 = no timeout).
func NewPostgresTransactionManager(pool *pgxpool.Pool, lockTimeout time.Duration) *PostgresTransactionManager {
	return &PostgresTransactionManager{
		pool:        pool,
		lockTimeout: lockTimeout,
	}
}

// BeginTx starts a new transaction with the configured lock timeout
func (m *PostgresTransactionManager) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if m.lockTimeout > 0 {
		_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds()))
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	return tx, nil
}
