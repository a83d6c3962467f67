package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/relbalance/internal/infrastructure/metrics"
)

// Metrics returns middleware that records HTTP metrics.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

const accountsPrefix = "/api/v1/accounts/"

// normalizePath replaces account IDs to keep label cardinality bounded.
// /api/v1/accounts/ACC334455/balance -> /api/v1/accounts/:id/balance
func normalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, accountsPrefix)
	if !ok || rest == "" || rest[0] == '/' {
		return path
	}

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return accountsPrefix + ":id" + rest[i:]
	}

	return accountsPrefix + ":id"
}
