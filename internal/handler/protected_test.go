package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authbase/authbase/internal/auth"
)

func getWithClaims(t *testing.T, handler http.HandlerFunc, path string, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if claims != nil {
		req = req.WithContext(auth.ContextWithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	rec := postJSON(t, env.auth.Register, "/api/auth/register", registerBody)
	registered := decodeBody(t, rec)
	userID := registered["user"].(map[string]any)["id"].(string)

	res := getWithClaims(t, env.protected.Profile, "/api/protected/profile",
		&auth.Claims{UserID: userID, Email: "ann@example.com"})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", res.Code, http.StatusOK, res.Body.String())
	}

	body := decodeBody(t, res)
	if body["success"] != true {
		t.Error("expected success=true")
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatal("expected a user object")
	}
	if user["id"] != userID {
		t.Errorf("id = %v, want %q", user["id"], userID)
	}
	if user["email"] != "ann@example.com" {
		t.Errorf("email = %v", user["email"])
	}
}

func TestProfileUnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	res := getWithClaims(t, env.protected.Profile, "/api/protected/profile",
		&auth.Claims{UserID: "missing", Email: "ghost@example.com"})
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusNotFound)
	}
	body := decodeBody(t, res)
	if body["message"] != "User not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestUsers(t *testing.T) {
	env := newTestEnv(t)
	postJSON(t, env.auth.Register, "/api/auth/register", registerBody)
	postJSON(t, env.auth.Register, "/api/auth/register",
		`{"name":"Bob Ray","dob":"1985-03-02","email":"bob@example.com","password":"secret2"}`)

	res := getWithClaims(t, env.protected.Users, "/api/protected/users",
		&auth.Claims{UserID: "whoever", Email: "ann@example.com"})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusOK)
	}

	body := decodeBody(t, res)
	if body["message"] != "Users retrieved successfully" {
		t.Errorf("message = %v", body["message"])
	}
	users, ok := body["users"].([]any)
	if !ok || len(users) != 2 {
		t.Fatalf("expected 2 users, got %v", body["users"])
	}
	for _, raw := range users {
		u := raw.(map[string]any)
		if _, leaked := u["password"]; leaked {
			t.Error("listing must not carry password fields")
		}
	}
}

func TestUsersEmptyStoreFallsBackToDemoData(t *testing.T) {
	env := newTestEnv(t)

	res := getWithClaims(t, env.protected.Users, "/api/protected/users",
		&auth.Claims{UserID: "whoever", Email: "ann@example.com"})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusOK)
	}

	body := decodeBody(t, res)
	if body["message"] != "Static demo data (no users in database yet)" {
		t.Errorf("message = %v", body["message"])
	}
	users, ok := body["users"].([]any)
	if !ok || len(users) == 0 {
		t.Fatal("expected demo users")
	}
}

func TestUsersStoreError(t *testing.T) {
	env := newTestEnv(t)
	env.store.listErr = errors.New("connection reset")

	res := getWithClaims(t, env.protected.Users, "/api/protected/users",
		&auth.Claims{UserID: "whoever", Email: "ann@example.com"})
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusInternalServerError)
	}
	body := decodeBody(t, res)
	if body["message"] != "Server error while fetching users" {
		t.Errorf("message = %v, internal detail must stay server-side", body["message"])
	}
}
