// ABOUTME: Tests for the notifications commands
// ABOUTME: Verifies listing, unread filtering, and bulk mark-read behavior

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openrental/rentctl/internal/api"
)

func notificationsFixture() []api.Notification {
	return []api.Notification{
		{ID: 1, Type: "info", Message: "Reservation confirmed", IsRead: false},
		{ID: 2, Type: "warning", Message: "Pickup tomorrow", IsRead: true},
		{ID: 3, Type: "info", Message: "Vehicle ready", IsRead: false},
	}
}

func TestNotificationsCommand_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(notificationsFixture())
	}))
	defer server.Close()

	dir := setupCmdTest(t, server.URL)
	seedSession(t, dir, "acc", "ref")
	notificationsUnread = false

	var buf bytes.Buffer
	if exitCode := runNotifications(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Reservation confirmed")) {
		t.Errorf("expected message, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("3 notification(s), 2 unread")) {
		t.Errorf("expected summary, got %q", buf.String())
	}
}

func TestNotificationsCommand_UnreadOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(notificationsFixture())
	}))
	defer server.Close()

	dir := setupCmdTest(t, server.URL)
	seedSession(t, dir, "acc", "ref")
	notificationsUnread = true
	defer func() { notificationsUnread = false }()

	var buf bytes.Buffer
	if exitCode := runNotifications(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if bytes.Contains(buf.Bytes(), []byte("Pickup tomorrow")) {
		t.Errorf("expected read entry hidden, got %q", buf.String())
	}
}

func TestNotificationsCommand_RequiresAuth(t *testing.T) {
	setupCmdTest(t, "http://127.0.0.1:1/api")

	var buf bytes.Buffer
	if exitCode := runNotifications(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestNotificationsReadCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/notifications/2/" {
			t.Errorf("expected PATCH /notifications/2/, got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Notification{ID: 2, IsRead: true})
	}))
	defer server.Close()

	dir := setupCmdTest(t, server.URL)
	seedSession(t, dir, "acc", "ref")

	var buf bytes.Buffer
	if exitCode := runNotificationsRead(context.Background(), &buf, "2"); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
}

func TestNotificationsReadAllCommand(t *testing.T) {
	var patched atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			patched.Add(1)
			json.NewEncoder(w).Encode(api.Notification{IsRead: true})
			return
		}
		json.NewEncoder(w).Encode(notificationsFixture())
	}))
	defer server.Close()

	dir := setupCmdTest(t, server.URL)
	seedSession(t, dir, "acc", "ref")

	var buf bytes.Buffer
	if exitCode := runNotificationsReadAll(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if patched.Load() != 2 {
		t.Errorf("expected 2 patches for 2 unread, got %d", patched.Load())
	}
	if !bytes.Contains(buf.Bytes(), []byte("2 notification(s) marked read")) {
		t.Errorf("expected summary, got %q", buf.String())
	}
}

func TestFormatEvent(t *testing.T) {
	structured := formatEvent([]byte(`{"id":1,"type":"info","message":"Vehicle ready"}`))
	if structured != "[info] Vehicle ready" {
		t.Errorf("unexpected structured render: %q", structured)
	}

	raw := formatEvent([]byte(`{"ping":true}`))
	if raw != `{"ping":true}` {
		t.Errorf("expected raw passthrough, got %q", raw)
	}
}
