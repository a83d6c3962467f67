package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	grpcserver "github.com/iho/relbalance/internal/adapter/grpc/server"
	httpAdapter "github.com/iho/relbalance/internal/adapter/http"
	"github.com/iho/relbalance/internal/adapter/http/handler"
	"github.com/iho/relbalance/internal/adapter/http/middleware"
	"github.com/iho/relbalance/internal/infrastructure/config"
)

const rateLimiterEvictInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cmd)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, log, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	d, err := newDeps(ctx, cfg, log, depsOptions{postgres: true, registry: registry})
	if err != nil {
		return err
	}
	defer d.Close()

	source, err := d.defaultSource()
	if err != nil {
		return err
	}
	if source == nil {
		log.Warn().Msg("no TRANSACTIONS_FILE or DATABASE_URL configured, only uploads will be served")
	}

	var checks []handler.HealthCheck
	if d.pool != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: d.pool.Ping})
	}
	if d.redis != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return d.redis.Ping(ctx).Err()
		}})
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Run(ctx, rateLimiterEvictInterval)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BalanceHandler: handler.NewBalanceHandler(d.balance, source, cfg.MaxUploadBytes),
		HealthHandler:  handler.NewHealthHandler(checks...),
		Logger:         log,
		Metrics:        d.metrics,
		Gatherer:       registry,
		RateLimiter:    limiter,
	})

	server := newServer(cfg, router)

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("failed to listen on grpc port: %w", err)
		}

		grpcServer, healthServer := grpcserver.New(log, grpcserver.NewBalanceServer(d.balance, source))
		defer func() {
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		}()

		go func() {
			log.Info().Str("port", cfg.GRPCPort).Msg("starting grpc server")
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server failed: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}
}
