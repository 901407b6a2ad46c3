// ABOUTME: Tests for the notification sidebar
// ABOUTME: Covers unread counting, cursor clamping, and key-driven messages

package notify

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openrental/rentctl/internal/api"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fixture() []api.Notification {
	return []api.Notification{
		{ID: 1, Message: "Reservation confirmed", IsRead: false},
		{ID: 2, Message: "Pickup tomorrow", IsRead: true},
	}
}

func TestUnreadCount(t *testing.T) {
	p := New()
	p.SetItems(fixture())

	if p.Unread() != 1 {
		t.Errorf("expected 1 unread, got %d", p.Unread())
	}
	if ids := p.UnreadIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Errorf("unexpected unread ids: %v", ids)
	}
}

func TestSetItemsClampsCursor(t *testing.T) {
	p := New()
	p.SetItems(fixture())
	p.cursor = 1

	p.SetItems(fixture()[:1])
	if p.cursor != 0 {
		t.Errorf("expected cursor clamped after shorter reload, got %d", p.cursor)
	}

	p.SetItems(nil)
	if p.cursor != 0 {
		t.Errorf("expected cursor reset on empty reload, got %d", p.cursor)
	}
}

func TestMarkReadKeyEmitsMsg(t *testing.T) {
	p := New()
	p.SetItems(fixture())
	p.cursor = 0

	_, cmd := p.Update(keyMsg("m"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(MarkReadMsg)
	if !ok || msg.ID != 1 {
		t.Errorf("expected MarkReadMsg for id 1, got %#v", msg)
	}

	// Already-read entries emit nothing
	p.cursor = 1
	if _, cmd := p.Update(keyMsg("m")); cmd != nil {
		t.Error("expected no command for a read entry")
	}
}

func TestMarkAllKeyEmitsIDs(t *testing.T) {
	p := New()
	p.SetItems(fixture())

	_, cmd := p.Update(keyMsg("A"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(MarkAllReadMsg)
	if !ok || len(msg.IDs) != 1 {
		t.Errorf("expected one unread id, got %#v", msg)
	}

	p.MarkedRead(1)
	if _, cmd := p.Update(keyMsg("A")); cmd != nil {
		t.Error("expected no command when everything is read")
	}
}

func TestCloseKeyEmitsClosed(t *testing.T) {
	p := New()

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Error("expected ClosedMsg")
	}
}

func TestViewShowsBadgeAndMarkers(t *testing.T) {
	p := New()
	p.SetItems(fixture())

	view := p.View()
	if !strings.Contains(view, "Notifications") {
		t.Error("expected title")
	}
	if !strings.Contains(view, "Reservation confirmed") {
		t.Error("expected message text")
	}

	p.SetItems(nil)
	if !strings.Contains(p.View(), "No notifications") {
		t.Error("expected empty state")
	}
}
