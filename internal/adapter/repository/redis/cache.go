package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

// BalanceCache implements usecase.BalanceCache using Redis.
type BalanceCache struct {
	client *redis.Client
	prefix string
}

// NewBalanceCache creates a new BalanceCache.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
	}
}

type cachedTally struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type cachedBalance struct {
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transaction_count"`
	Incoming         cachedTally     `json:"incoming"`
	Outgoing         cachedTally     `json:"outgoing"`
}

// Get retrieves a balance by key. It returns usecase.ErrCacheMiss when absent.
func (c *BalanceCache) Get(ctx context.Context, key string) (*domain.RelativeBalance, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var cached cachedBalance
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached balance: %w", err)
	}

	return &domain.RelativeBalance{
		Amount:           cached.Amount,
		TransactionCount: cached.TransactionCount,
		Incoming:         domain.Tally{Total: cached.Incoming.Total, Count: cached.Incoming.Count},
		Outgoing:         domain.Tally{Total: cached.Outgoing.Total, Count: cached.Outgoing.Count},
	}, nil
}

// Set stores a balance with TTL.
func (c *BalanceCache) Set(ctx context.Context, key string, balance *domain.RelativeBalance, ttl time.Duration) error {
	raw, err := json.Marshal(cachedBalance{
		Amount:           balance.Amount,
		TransactionCount: balance.TransactionCount,
		Incoming:         cachedTally{Total: balance.Incoming.Total, Count: balance.Incoming.Count},
		Outgoing:         cachedTally{Total: balance.Outgoing.Total, Count: balance.Outgoing.Count},
	})
	if err != nil {
		return fmt.Errorf("failed to encode balance: %w", err)
	}

	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}
