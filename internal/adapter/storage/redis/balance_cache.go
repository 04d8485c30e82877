package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.BalanceCache using Redis. The cache is an
// accelerator only: Postgres stays the source of truth, and every balance
// write invalidates the affected entries.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
	}
}

// Get retrieves a cached balance. Returns found=false on a cache miss.
func (c *BalanceCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+userID.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis balance get: %w", err)
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Corrupt entry: treat as a miss so the caller reloads from Postgres.
		return 0, false, nil
	}
	return balance, true, nil
}

// Set stores a balance with TTL.
func (c *BalanceCache) Set(ctx context.Context, userID uuid.UUID, balance int64, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+userID.String(), strconv.FormatInt(balance, 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate removes the cached balances for the given users.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.prefix + id.String()
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis balance invalidate: %w", err)
	}
	return nil
}
