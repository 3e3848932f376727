package testhelpers

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/floroz/marketplace/pkg/database"
)

// TestDatabase is a throwaway Postgres with a service's migrations applied.
type TestDatabase struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// NewTestDatabase starts postgres:16-alpine, applies the goose migrations found
// at the root of migrations and returns a connected pool.
func NewTestDatabase(t *testing.T, migrations fs.FS) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "failed to connect to database")
	require.NoError(t, pool.Ping(ctx), "failed to ping database")

	require.NoError(t, database.Migrate(ctx, pool, migrations), "failed to run migrations")

	return &TestDatabase{
		Container: pgContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Truncate empties the given tables between subtests sharing one container.
func (td *TestDatabase) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}
	_, err := td.Pool.Exec(context.Background(), "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	require.NoError(t, err, "failed to truncate %v", tables)
}

func (td *TestDatabase) Close() {
	ctx := context.Background()
	td.Pool.Close()
	if termErr := td.Container.Terminate(ctx); termErr != nil {
		fmt.Printf("failed to terminate container: %v\n", termErr)
	}
}
