package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectPoolStats samples pool usage every interval until ctx is done.
func CollectPoolStats(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		recordPoolStats(pool.Stat())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func recordPoolStats(stat *pgxpool.Stat) {
	DBConnectionsAcquired.Set(float64(stat.AcquiredConns()))
	DBConnectionsIdle.Set(float64(stat.IdleConns()))
}
