package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-signing-secret"

func TestTokenManager_RoundTrip(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, time.Hour)

	token, err := mgr.Issue("user-123", "ann@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("expected UserID 'user-123', got %s", claims.UserID)
	}
	if claims.Email != "ann@example.com" {
		t.Errorf("expected Email 'ann@example.com', got %s", claims.Email)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected ExpiresAt to be set")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 59*time.Minute || ttl > time.Hour {
		t.Errorf("expected expiry roughly one hour out, got %s", ttl)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, -time.Minute)

	token, err := mgr.Issue("user-123", "ann@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = mgr.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenManager_TamperedSignature(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, time.Hour)

	token, err := mgr.Issue("user-123", "ann@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = mgr.Verify(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("rotated-secret-value", time.Hour)

	token, err := mgr.Issue("user-123", "ann@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = other.Verify(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid after secret rotation, got %v", err)
	}
}

func TestTokenManager_Malformed(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Verify(tt.token); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager(testSecret, time.Hour)
	token, err := mgr.Issue("user-123", "ann@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	ctx := ContextWithClaims(context.Background(), claims)

	if got := ClaimsFromContext(ctx); got == nil || got.UserID != "user-123" {
		t.Errorf("expected claims in context, got %+v", got)
	}
	if got := UserIDFromContext(ctx); got != "user-123" {
		t.Errorf("expected user ID from context, got %s", got)
	}
	if got := ClaimsFromContext(context.Background()); got != nil {
		t.Errorf("expected nil claims for empty context, got %+v", got)
	}
}
