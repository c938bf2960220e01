package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pingFunc adapts a function to the HealthChecker interface.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func pingOK(context.Context) error   { return nil }
func pingFail(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("expected success=true")
	}
	if body["message"] != "Server is running" {
		t.Errorf("message = %v", body["message"])
	}
	if body["timestamp"] == nil {
		t.Error("expected a timestamp")
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  pingFunc
		wantStatus int
		wantDB     string
	}{
		{"all healthy", pingOK, pingOK, http.StatusOK, "ok"},
		{"db down", pingFail, pingOK, http.StatusServiceUnavailable, "error: connection refused"},
		{"cache down", pingOK, pingFail, http.StatusServiceUnavailable, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.cache)

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := decodeBody(t, rec)
			if want := tt.wantStatus == http.StatusOK; body["success"] != want {
				t.Errorf("success = %v, want %v", body["success"], want)
			}
			checks, ok := body["checks"].(map[string]any)
			if !ok {
				t.Fatalf("expected a checks object, got %v", body["checks"])
			}
			if checks["postgres"] != tt.wantDB {
				t.Errorf("postgres check = %v, want %q", checks["postgres"], tt.wantDB)
			}
		})
	}
}

func TestReadyUnconfiguredDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	// Missing dependencies are reported but do not fail the probe
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeBody(t, rec)
	checks, _ := body["checks"].(map[string]any)
	if checks["postgres"] != "not configured" || checks["redis"] != "not configured" {
		t.Errorf("unexpected checks: %v", checks)
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Route not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
