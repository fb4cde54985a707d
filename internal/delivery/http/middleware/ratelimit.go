package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	h "guestrsvp/internal/delivery/http/helpers"
)

const limiterPrefix = "guestrsvp_limiter"

// NewRateLimiter builds a per-client-IP limiter from a formatted rate such as "60-M".
// Counters live in redis when client is non-nil so every instance shares them, else in memory.
func NewRateLimiter(formatted string, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", formatted, err)
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix, MaxRetry: 3})
		if err != nil {
			return nil, fmt.Errorf("create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix})
	}
	return limiter.New(store, rate), nil
}

// RateLimit wraps next with l. Over-limit requests get 429 in the API envelope.
func RateLimit(l *limiter.Limiter, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	mw := stdlib.NewMiddleware(l,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.InfoContext(r.Context(), "rate limited", "path", r.URL.Path)
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "rate limiter store failed", "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		}),
	)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return mw.Handler(next).ServeHTTP
	}
}
