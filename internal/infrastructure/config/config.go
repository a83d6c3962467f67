package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Input
	DateLayout       string `env:"DATE_LAYOUT"       envDefault:"02/01/2006 15:04:05"`
	TransactionsFile string `env:"TRANSACTIONS_FILE" envDefault:""`

	// Database (optional - leave empty to disable the postgres source)
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"1"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH"    envDefault:"migrations"`

	// Redis (optional - leave empty to disable caching)
	RedisURL     string        `env:"REDIS_URL"     envDefault:""`
	RedisTimeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"3s"`
	CacheTTL     time.Duration `env:"CACHE_TTL"     envDefault:"5m"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes      int64         `env:"MAX_UPLOAD_BYTES"      envDefault:"10485760"`

	// gRPC Server (optional - leave empty to disable)
	GRPCPort string `env:"GRPC_PORT" envDefault:""`

	// Rate limiting for /api/v1 (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from a .env file, if present, and environment variables.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
