package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/authbase/authbase/internal/audit"
	"github.com/authbase/authbase/internal/cache"
	"github.com/authbase/authbase/internal/metrics"
)

// msgRateLimited is the fixed message returned for throttled requests.
const msgRateLimited = "Too many requests from this IP, please try again later."

// RateLimitConfig holds configuration for the rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Cache   *cache.Cache
	Metrics metrics.Recorder
	Audit   audit.Sink

	Enabled  bool
	Requests int           // Max requests per window
	Window   time.Duration // Fixed window length
}

// RateLimit returns middleware enforcing a fixed-window limit per client
// address. Applied to the register and login endpoints.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)

			result, err := cfg.Cache.CheckRateLimit(r.Context(), ip, cfg.Requests, cfg.Window)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				recorder.IncRateLimited()
				if cfg.Audit != nil {
					cfg.Audit.PublishAsync(audit.Event{
						Kind:       audit.KindRateLimited,
						IPHash:     audit.HashIP(ip),
						RequestID:  GetRequestID(r.Context()),
						OccurredAt: time.Now().UnixMilli(),
					})
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				writeFailure(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the client address for rate limit bucketing and
// audit records. chi's RealIP middleware has already rewritten
// RemoteAddr from X-Forwarded-For / X-Real-IP when present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
