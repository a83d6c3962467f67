package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/relbalance/internal/domain"
)

// BalanceConfig holds settings for BalanceUseCase.
type BalanceConfig struct {
	DateLayout  string
	CacheTTL    time.Duration
	LoadTimeout time.Duration
}

// BalanceUseCase validates a balance request, loads records and computes the
// relative balance.
type BalanceUseCase struct {
	cfg     BalanceConfig
	idGen   IDGenerator
	cache   BalanceCache
	metrics MetricsRecorder
	logger  zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase. cache and metrics may be nil.
func NewBalanceUseCase(
	cfg BalanceConfig,
	idGen IDGenerator,
	cache BalanceCache,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *BalanceUseCase {
	if cfg.DateLayout == "" {
		cfg.DateLayout = domain.DefaultDateLayout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &BalanceUseCase{
		cfg:     cfg,
		idGen:   idGen,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// CalculateInput is the raw user input for a calculation.
type CalculateInput struct {
	AccountID string
	From      string
	To        string
}

// CalculateOutput is the result of a calculation.
type CalculateOutput struct {
	CalculationID string
	AccountID     string
	Window        domain.Window
	Balance       domain.RelativeBalance
	Cached        bool
}

// DateLayout returns the layout used to parse window bounds.
func (uc *BalanceUseCase) DateLayout() string {
	return uc.cfg.DateLayout
}

// Calculate computes the relative balance of input.AccountID over the window
// using the records from source.
func (uc *BalanceUseCase) Calculate(ctx context.Context, input CalculateInput, source TransactionSource) (*CalculateOutput, error) {
	window, err := domain.ValidateInputs(input.AccountID, input.From, input.To, uc.cfg.DateLayout)
	if err != nil {
		return nil, err
	}

	accountID := strings.TrimSpace(input.AccountID)
	kind := sourceKind(source.ID())
	start := time.Now()

	out := &CalculateOutput{
		CalculationID: uc.idGen.Generate(),
		AccountID:     accountID,
		Window:        window,
	}

	log := uc.logger.With().
		Str("calculation_id", out.CalculationID).
		Str("account_id", accountID).
		Str("source", kind).
		Logger()

	key := cacheKey(source.ID(), accountID, window)
	if cached, ok := uc.lookup(ctx, log, key); ok {
		out.Balance = *cached
		out.Cached = true
		uc.metrics.ObserveCalculation(kind, statusOK, time.Since(start))
		log.Debug().Msg("balance served from cache")
		return out, nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, uc.cfg.LoadTimeout)
	defer cancel()

	records, err := source.Transactions(loadCtx, accountID)
	if err != nil {
		uc.metrics.ObserveCalculation(kind, statusError, time.Since(start))
		log.Error().Err(err).Msg("failed to load transactions")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	if len(records) == 0 {
		log.Warn().Msg("transaction source has no records")
	}

	out.Balance = domain.ComputeRelativeBalance(accountID, window, records)

	uc.store(ctx, log, key, &out.Balance)
	uc.metrics.ObserveTransactions(kind, len(records), out.Balance.TransactionCount)
	uc.metrics.ObserveCalculation(kind, statusOK, time.Since(start))

	log.Info().
		Str("balance", out.Balance.Amount.StringFixed(2)).
		Int("transaction_count", out.Balance.TransactionCount).
		Int("records_loaded", len(records)).
		Dur("duration", time.Since(start)).
		Msg("balance calculated")

	return out, nil
}

func (uc *BalanceUseCase) lookup(ctx context.Context, log zerolog.Logger, key string) (*domain.RelativeBalance, bool) {
	if uc.cache == nil {
		return nil, false
	}

	balance, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Msg("balance cache read failed")
		}
		uc.metrics.ObserveCache(false)
		return nil, false
	}

	uc.metrics.ObserveCache(true)
	return balance, true
}

func (uc *BalanceUseCase) store(ctx context.Context, log zerolog.Logger, key string, balance *domain.RelativeBalance) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Set(ctx, key, balance, uc.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("balance cache write failed")
	}
}

func cacheKey(sourceID, accountID string, window domain.Window) string {
	return fmt.Sprintf("%s:%s:%d:%d",
		sourceID,
		strings.ToUpper(accountID),
		window.From.Unix(),
		window.To.Unix(),
	)
}

// sourceKind returns the scheme part of a source ID, e.g. "file" for "file:/tmp/a.csv".
func sourceKind(id string) string {
	if kind, _, found := strings.Cut(id, ":"); found {
		return kind
	}
	return id
}

type noopMetrics struct{}

func (noopMetrics) ObserveCalculation(string, string, time.Duration) {}
func (noopMetrics) ObserveTransactions(string, int, int) {}
func (noopMetrics) ObserveCache(bool) {}
