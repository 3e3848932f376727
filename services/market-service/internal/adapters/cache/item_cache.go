// Package cache keeps single items in Redis so GetItem does not hit Postgres
// on every catalogue view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
)

// DefaultTTL bounds how stale a cached item can get if an invalidation is lost.
const DefaultTTL = 5 * time.Minute

// DefaultLeaseTTL bounds the store read between Reserve and Fill. A slower
// read just leaves the item uncached.
const DefaultLeaseTTL = 10 * time.Second

// fillScript stores the item only while the caller's lease is the live one.
// KEYS[1] item key, KEYS[2] lease key; ARGV[1] token, ARGV[2] value, ARGV[3] ttl ms.
var fillScript = redis.NewScript(`
if redis.call("GET", KEYS[2]) ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
redis.call("DEL", KEYS[2])
return 1
`)

// NewRedisClient accepts either a redis:// URL or a bare host:port and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// cachedItem is the stored JSON shape.
type cachedItem struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	State       string    `json:"state"`
	Published   time.Time `json:"published"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RedisItemCache implements items.Cache.
type RedisItemCache struct {
	client   *redis.Client
	ttl      time.Duration
	leaseTTL time.Duration
}

func NewRedisItemCache(client *redis.Client, ttl time.Duration) *RedisItemCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisItemCache{client: client, ttl: ttl, leaseTTL: DefaultLeaseTTL}
}

// Both keys of an item share a hash tag so the fill script stays in one slot.
func itemKey(itemID uuid.UUID) string {
	return "market:item:{" + itemID.String() + "}"
}

func leaseKey(itemID uuid.UUID) string {
	return itemKey(itemID) + ":lease"
}

// Get returns (nil, nil) on a miss.
func (c *RedisItemCache) Get(ctx context.Context, itemID uuid.UUID) (*items.Item, error) {
	data, err := c.client.Get(ctx, itemKey(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached item: %w", err)
	}

	var cached cachedItem
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached item: %w", err)
	}
	state, err := items.ParseState(cached.State)
	if err != nil {
		return nil, err
	}

	return &items.Item{
		ID:          cached.ID,
		SellerID:    cached.SellerID,
		Name:        cached.Name,
		Description: cached.Description,
		Category:    cached.Category,
		Price:       cached.Price,
		State:       state,
		Published:   cached.Published,
		UpdatedAt:   cached.UpdatedAt,
	}, nil
}

// Reserve starts a leased fill and returns its token. A later Reserve for the
// same item replaces the lease.
func (c *RedisItemCache) Reserve(ctx context.Context, itemID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := c.client.Set(ctx, leaseKey(itemID), token, c.leaseTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to reserve item fill: %w", err)
	}
	return token, nil
}

// Fill caches item if token still holds the lease. It reports false when an
// invalidation or a newer reservation got there first.
func (c *RedisItemCache) Fill(ctx context.Context, item *items.Item, token string) (bool, error) {
	data, err := json.Marshal(cachedItem{
		ID:          item.ID,
		SellerID:    item.SellerID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		State:       item.State.String(),
		Published:   item.Published,
		UpdatedAt:   item.UpdatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode item: %w", err)
	}

	keys := []string{itemKey(item.ID), leaseKey(item.ID)}
	stored, err := fillScript.Run(ctx, c.client, keys, token, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache item: %w", err)
	}
	return stored == 1, nil
}

// Invalidate drops the cached item and revokes any lease on it in one command.
func (c *RedisItemCache) Invalidate(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Del(ctx, itemKey(itemID), leaseKey(itemID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached item: %w", err)
	}
	return nil
}
