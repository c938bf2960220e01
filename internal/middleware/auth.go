package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/authbase/authbase/internal/auth"
	"github.com/authbase/authbase/internal/metrics"
)

// Guard responses. Both carry the same generic wording so callers learn
// nothing about why verification failed beyond presence vs. validity.
const (
	msgNoToken      = "No token provided. Authorization denied."
	msgInvalidToken = "Invalid or expired token. Authorization denied."
)

// AuthConfig holds configuration for the access guard middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  *auth.TokenManager
	Metrics metrics.Recorder
}

// Auth returns a middleware gating protected endpoints.
// It extracts the bearer token from the Authorization header, verifies
// it, and injects the verified claims into the request context. The
// guard is stateless; it holds no session state between requests.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncTokenVerification(metrics.OutcomeRejected)
				writeFailure(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("error", err.Error()),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncTokenVerification(metrics.OutcomeRejected)
				writeFailure(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			recorder.IncTokenVerification(metrics.OutcomeSuccess)

			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// Reports false when the header is absent or not bearer-shaped.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}
