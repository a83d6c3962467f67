package usecase

import "time"

const (
	// DefaultLoadTimeout bounds a single read from a transaction source.
	DefaultLoadTimeout = 30 * time.Second

	// DefaultCacheTTL is how long computed balances are cached.
	DefaultCacheTTL = 5 * time.Minute

	statusOK    = "ok"
	statusError = "error"
)
