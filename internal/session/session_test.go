// ABOUTME: Tests for the credential store and auth session
// ABOUTME: Covers persistence, state transitions, and the change feed

package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(NewStore(t.TempDir()))
}

func TestFreshSessionIsSignedOut(t *testing.T) {
	s := newSession(t)
	if s.Authenticated() {
		t.Error("expected fresh session to be signed out")
	}
	if s.Role() != "" {
		t.Errorf("expected empty role, got %q", s.Role())
	}
}

func TestSetTokensPersists(t *testing.T) {
	dir := t.TempDir()
	s := New(NewStore(dir))

	if err := s.SetTokens("acc", "ref", RoleManager); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if !s.Authenticated() || !s.IsManager() {
		t.Error("expected authenticated manager session")
	}

	// A second session over the same store rehydrates the credentials.
	restored := New(NewStore(dir))
	if restored.AccessToken() != "acc" || restored.RefreshToken() != "ref" {
		t.Errorf("expected tokens restored, got %q/%q", restored.AccessToken(), restored.RefreshToken())
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 session file, got %v", info.Mode().Perm())
	}
}

func TestSetAccessReplacesInPlace(t *testing.T) {
	dir := t.TempDir()
	s := New(NewStore(dir))
	s.SetTokens("old", "ref", RoleUser)

	if err := s.SetAccess("new"); err != nil {
		t.Fatalf("set access: %v", err)
	}
	if s.AccessToken() != "new" || s.RefreshToken() != "ref" {
		t.Errorf("expected access replaced and refresh kept, got %q/%q", s.AccessToken(), s.RefreshToken())
	}
}

func TestClearSignsOut(t *testing.T) {
	dir := t.TempDir()
	s := New(NewStore(dir))
	s.SetTokens("acc", "ref", RoleUser)

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Authenticated() {
		t.Error("expected signed out after clear")
	}
	if New(NewStore(dir)).Authenticated() {
		t.Error("expected persisted credentials removed")
	}
}

func TestChangesFeed(t *testing.T) {
	s := newSession(t)
	ch, cancel := s.Changes()
	defer cancel()

	s.SetTokens("acc", "ref", RoleUser)
	s.Clear()

	if got := <-ch; got != true {
		t.Errorf("expected login transition true, got %v", got)
	}
	if got := <-ch; got != false {
		t.Errorf("expected logout transition false, got %v", got)
	}
}

func TestCorruptSessionFileReadsAsSignedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if New(NewStore(dir)).Authenticated() {
		t.Error("expected corrupt session file to read as signed out")
	}
}

// unsignedToken builds a syntactically valid JWT with the given payload and
// an empty signature, enough for unverified decoding.
func unsignedToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	enc := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	return enc(header) + "." + enc(payload) + "."
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Unix()
	tok := unsignedToken(t, map[string]any{
		"username": "ivan",
		"role":     "manager",
		"exp":      exp,
	})

	claims, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Username != "ivan" || claims.Role != "manager" {
		t.Errorf("expected claims decoded, got %+v", claims)
	}
	if left := claims.ExpiresIn(time.Now()); left <= 0 || left > 30*time.Minute {
		t.Errorf("expected positive time to expiry, got %v", left)
	}
}

func TestParseClaims_Malformed(t *testing.T) {
	if _, err := ParseClaims("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
