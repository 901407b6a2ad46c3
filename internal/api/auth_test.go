// ABOUTME: Tests for login, register, and logout
// ABOUTME: Verifies tokens land in the session and failures leave it untouched

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openrental/rentctl/internal/session"
)

func TestLoginStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login/" {
			t.Errorf("expected POST /auth/login/, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "anna" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(TokenPair{
			Access: "acc123", Refresh: "ref456", Role: session.RoleManager, Username: "anna",
		})
	}))
	defer srv.Close()

	sess := newSession(t, "", "")
	auth := NewAuthClient(New(srv.URL, sess), sess)

	pair, err := auth.Login(context.Background(), "anna", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.Username != "anna" {
		t.Errorf("unexpected pair: %+v", pair)
	}
	if !sess.Authenticated() || sess.AccessToken() != "acc123" || sess.RefreshToken() != "ref456" {
		t.Error("expected tokens installed in session")
	}
	if !sess.IsManager() {
		t.Errorf("expected manager role, got %q", sess.Role())
	}
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No active account found with the given credentials"})
	}))
	defer srv.Close()

	sess := newSession(t, "", "")
	auth := NewAuthClient(New(srv.URL, sess), sess)

	_, err := auth.Login(context.Background(), "anna", "wrong")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
	if sess.Authenticated() {
		t.Error("expected session to stay empty after failed login")
	}
}

func TestRegisterSendsProfileFields(t *testing.T) {
	var got RegisterInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register/" {
			t.Errorf("expected POST /auth/register/, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sess := newSession(t, "", "")
	auth := NewAuthClient(New(srv.URL, sess), sess)

	err := auth.Register(context.Background(), RegisterInput{
		Username: "anna", Email: "anna@example.com", Password: "secret",
		FirstName: "Anna", PhoneNumber: "+359888123456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "anna@example.com" || got.PhoneNumber != "+359888123456" {
		t.Errorf("unexpected body: %+v", got)
	}
	if sess.Authenticated() {
		t.Error("register must not log the user in")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	sess := newSession(t, "tok", "ref")
	auth := NewAuthClient(New("http://localhost:8000/api", sess), sess)

	if err := auth.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Authenticated() {
		t.Error("expected session cleared")
	}
}
