// ABOUTME: Tests for the root TUI model
// ABOUTME: Verifies screen routing, sidebar persistence, and frame rendering

package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/session"
	"github.com/openrental/rentctl/internal/state"
	"github.com/openrental/rentctl/internal/tui/login"
)

func testApp(t *testing.T) *App {
	t.Helper()
	return testAppAt(t, "http://localhost:8000/api")
}

func testAppAt(t *testing.T, baseURL string) *App {
	t.Helper()
	dir := t.TempDir()
	states := state.NewStore(dir)
	sess := session.New(session.NewStore(dir))
	client := api.New(baseURL, sess)
	auth := api.NewAuthClient(client, sess)

	a := New(client, auth, sess, states)
	t.Cleanup(func() {
		a.liveClient.Close()
		a.eventsStop()
		a.sessStop()
	})
	return a
}

// runCmd executes a command tree synchronously, feeding every produced
// message back into the app until nothing is left to run.
func runCmd(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(a, c)
		}
		return
	}
	model, next := a.Update(msg)
	runCmd(model.(*App), next)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCatalogLoadBuildsBrowseScreen(t *testing.T) {
	a := testApp(t)

	a.Update(catalogLoadedMsg{catalog: &api.Catalog{}})
	if a.browseScreen == nil {
		t.Fatal("expected browse screen after catalog load")
	}

	view := a.View()
	if !strings.Contains(view, "rentctl") {
		t.Error("expected header branding")
	}
}

func TestCatalogErrorShownInView(t *testing.T) {
	a := testApp(t)

	a.Update(catalogLoadedMsg{err: errFake})
	if !strings.Contains(a.View(), "Error:") {
		t.Error("expected error in view")
	}
}

func TestSidebarToggleAndPersistence(t *testing.T) {
	a := testApp(t)
	a.Update(catalogLoadedMsg{catalog: &api.Catalog{}})

	a.Update(keyMsg("n"))
	if !a.sidebarOpen {
		t.Fatal("expected sidebar open")
	}
	if !a.states.Load().SidebarOpen {
		t.Error("expected sidebar flag persisted")
	}

	// Keys route to the panel while open; esc closes it
	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)
	if cmd == nil {
		t.Fatal("expected close command from panel")
	}
	a.Update(cmd())
	if a.sidebarOpen {
		t.Error("expected sidebar closed")
	}
	if a.states.Load().SidebarOpen {
		t.Error("expected closed flag persisted")
	}
}

func TestSidebarStateRestoredOnStart(t *testing.T) {
	dir := t.TempDir()
	states := state.NewStore(dir)
	if err := states.Save(state.Snapshot{SidebarOpen: true}); err != nil {
		t.Fatalf("save state: %v", err)
	}
	sess := session.New(session.NewStore(dir))
	client := api.New("http://localhost:8000/api", sess)

	a := New(client, api.NewAuthClient(client, sess), sess, states)
	defer a.liveClient.Close()
	defer a.eventsStop()
	defer a.sessStop()

	if !a.sidebarOpen {
		t.Error("expected sidebar restored from persisted state")
	}
}

func TestLoginScreenOpensForGuests(t *testing.T) {
	a := testApp(t)
	a.Update(catalogLoadedMsg{catalog: &api.Catalog{}})

	a.Update(keyMsg("L"))
	if a.screen != ScreenLogin || a.loginScreen == nil {
		t.Fatal("expected login screen")
	}

	a.Update(login.CancelledMsg{})
	if a.screen != ScreenBrowse || a.loginScreen != nil {
		t.Error("expected return to browse on cancel")
	}
}

func TestLiveEventTriggersReload(t *testing.T) {
	reloads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reloads++
		json.NewEncoder(w).Encode([]api.Notification{
			{ID: 9, Message: "Vehicle ready"},
		})
	}))
	defer server.Close()

	a := testAppAt(t, server.URL)

	// The payload shape does not matter: any event means the server-side
	// list changed and must be refetched.
	model, cmd := a.Update(liveEventMsg{event: []byte(`{"action":"marked_read"}`), ok: true})
	a = model.(*App)
	if !a.sidebarOpen {
		t.Error("expected panel to open on a live event")
	}
	if cmd == nil {
		t.Fatal("expected a reload command")
	}

	a.eventsStop() // closes the feed so the re-armed wait returns at once
	runCmd(a, cmd)
	if reloads != 1 {
		t.Errorf("expected one notification reload, got %d", reloads)
	}
	if a.panel.Unread() != 1 {
		t.Errorf("expected reloaded list in panel, got %d unread", a.panel.Unread())
	}
}

func TestClosedFeedStopsPump(t *testing.T) {
	a := testApp(t)

	if _, cmd := a.Update(liveEventMsg{ok: false}); cmd != nil {
		t.Error("expected pump to stop on closed feed")
	}
}

func TestFooterShowsGuestHint(t *testing.T) {
	a := testApp(t)
	a.Update(catalogLoadedMsg{catalog: &api.Catalog{}})

	if !strings.Contains(a.View(), "Sign in") {
		t.Error("expected sign-in hint for guests")
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "catalog unavailable" }
