package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/relbalance/internal/adapter/csvsource"
	postgresRepo "github.com/iho/relbalance/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/relbalance/internal/adapter/repository/redis"
	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/infrastructure/config"
	"github.com/iho/relbalance/internal/infrastructure/idgen"
	"github.com/iho/relbalance/internal/infrastructure/logger"
	"github.com/iho/relbalance/internal/infrastructure/metrics"
	"github.com/iho/relbalance/internal/infrastructure/postgres"
	"github.com/iho/relbalance/internal/infrastructure/redis"
	"github.com/iho/relbalance/internal/usecase"
)

// deps holds the wired application graph for one command invocation.
type deps struct {
	cfg     *config.Config
	logger  zerolog.Logger
	pool    *pgxpool.Pool
	redis   *goredis.Client
	metrics *metrics.Metrics
	balance *usecase.BalanceUseCase
}

type depsOptions struct {
	// postgres connects DATABASE_URL when set.
	postgres bool
	// registry enables metrics when non-nil.
	registry prometheus.Registerer
}

func loadConfig(logOutput io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: logOutput,
	})

	return cfg, log, nil
}

func newDeps(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts depsOptions) (*deps, error) {
	d := &deps{cfg: cfg, logger: log}

	if opts.postgres && cfg.DatabaseURL != "" {
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		d.pool = pool
		log.Info().Msg("connected to postgres")
	}

	var cache usecase.BalanceCache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{URL: cfg.RedisURL, Timeout: cfg.RedisTimeout})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			d.redis = client
			cache = redisRepo.NewBalanceCache(client)
			log.Info().Msg("connected to redis")
		}
	}

	var recorder usecase.MetricsRecorder
	if opts.registry != nil {
		d.metrics = metrics.New(opts.registry)
		recorder = d.metrics
	}

	d.balance = usecase.NewBalanceUseCase(
		usecase.BalanceConfig{
			DateLayout:  cfg.DateLayout,
			CacheTTL:    cfg.CacheTTL,
			LoadTimeout: cfg.DatabaseTimeout,
		},
		idgen.NewULIDGenerator(),
		cache,
		recorder,
		log,
	)

	return d, nil
}

// postgresSource returns the read-only transactions table source.
func (d *deps) postgresSource() (usecase.TransactionSource, error) {
	if d.pool == nil {
		return nil, domain.ErrSourceUnavailable
	}

	retrier := postgresRepo.NewRetrier().WithLogger(d.logger)
	return postgresRepo.NewTransactionRepository(d.pool, retrier), nil
}

// defaultSource prefers TRANSACTIONS_FILE over Postgres. It returns nil when
// neither is configured.
func (d *deps) defaultSource() (usecase.TransactionSource, error) {
	if d.cfg.TransactionsFile != "" {
		source, err := csvsource.NewFileSource(d.cfg.TransactionsFile, d.cfg.DateLayout)
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	if d.pool != nil {
		return d.postgresSource()
	}

	return nil, nil
}

func (d *deps) Close() {
	if d.redis != nil {
		d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
