package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	t.Parallel()

	r := NewPrometheus()

	r.IncRegistration(OutcomeSuccess)
	r.IncRegistration(OutcomeConflict)
	r.IncLogin(OutcomeRejected)
	r.IncTokenVerification(OutcomeSuccess)
	r.IncRateLimited()

	if got := testutil.ToFloat64(r.registrations.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("expected 1 successful registration, got %v", got)
	}
	if got := testutil.ToFloat64(r.registrations.WithLabelValues(OutcomeConflict)); got != 1 {
		t.Errorf("expected 1 conflicting registration, got %v", got)
	}
	if got := testutil.ToFloat64(r.logins.WithLabelValues(OutcomeRejected)); got != 1 {
		t.Errorf("expected 1 rejected login, got %v", got)
	}
	if got := testutil.ToFloat64(r.rateLimited); got != 1 {
		t.Errorf("expected 1 rate-limited request, got %v", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := NewPrometheus()
	r.IncLogin(OutcomeSuccess)
	r.ObserveRequestDuration("POST", "/api/auth/login", 200, 42*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "authbase_logins_total") {
		t.Error("expected logins counter in exposition")
	}
	if !strings.Contains(body, "authbase_http_request_duration_seconds") {
		t.Error("expected request duration histogram in exposition")
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	// Must not panic
	n := NewNoop()
	n.IncRegistration(OutcomeSuccess)
	n.IncLogin(OutcomeError)
	n.IncTokenVerification(OutcomeRejected)
	n.IncRateLimited()
	n.IncAuditEventPublished("success")
	n.IncAuditEventProcessed("failed")
	n.ObserveRequestDuration("GET", "/health", 200, time.Millisecond)
}
