package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/relbalance/internal/domain"
)

// ErrCacheMiss is returned by BalanceCache.Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// TransactionSource supplies the records a balance is computed from.
type TransactionSource interface {
	// ID identifies the source contents; it is part of the cache key.
	ID() string
	// Transactions returns at least every record touching accountID,
	// including reversals outside any window.
	Transactions(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error)
}

// BalanceCache stores computed balances.
type BalanceCache interface {
	Get(ctx context.Context, key string) (*domain.RelativeBalance, error)
	Set(ctx context.Context, key string, balance *domain.RelativeBalance, ttl time.Duration) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder records calculation metrics.
type MetricsRecorder interface {
	ObserveCalculation(source, status string, duration time.Duration)
	ObserveTransactions(source string, loaded, counted int)
	ObserveCache(hit bool)
}
