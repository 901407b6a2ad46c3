// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/config"
	"github.com/openrental/rentctl/internal/live"
	"github.com/openrental/rentctl/internal/rental"
	"github.com/openrental/rentctl/internal/session"
	"github.com/openrental/rentctl/internal/state"
	"github.com/openrental/rentctl/internal/tui/browse"
	"github.com/openrental/rentctl/internal/tui/icons"
	"github.com/openrental/rentctl/internal/tui/login"
	"github.com/openrental/rentctl/internal/tui/notify"
	"github.com/openrental/rentctl/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenBrowse Screen = iota
	ScreenLogin
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	sidebarWidth     = 44 // Width of the notification sidebar
)

// catalogLoadedMsg is sent when the reference data finishes loading
type catalogLoadedMsg struct {
	catalog *api.Catalog
	err     error
}

// loginResultMsg is sent when a sign-in attempt completes
type loginResultMsg struct {
	pair *api.TokenPair
	err  error
}

// notificationsLoadedMsg is sent when the notification list is fetched
type notificationsLoadedMsg struct {
	items []api.Notification
	err   error
}

// markedReadMsg is sent when a mark-read call completes
type markedReadMsg struct {
	id  int
	err error
}

// allReadMsg is sent when a bulk mark-read completes
type allReadMsg struct {
	err error
}

// liveEventMsg carries one socket event
type liveEventMsg struct {
	event live.Event
	ok    bool
}

// sessionChangedMsg reflects a login or logout
type sessionChangedMsg struct {
	authed bool
	ok     bool
}

// App is the root model for the TUI
type App struct {
	client *api.Client
	auth   *api.AuthClient
	sess   *session.Session
	states *state.Store

	liveClient *live.Client
	events     <-chan live.Event
	eventsStop func()
	sessFeed   <-chan bool
	sessStop   func()

	screen      Screen
	width       int
	height      int
	err         error
	sidebarOpen bool

	// Child models
	browseScreen *browse.Browse
	loginScreen  *login.Login
	panel        *notify.Panel
}

// New creates a new TUI application
func New(client *api.Client, auth *api.AuthClient, sess *session.Session, states *state.Store) *App {
	a := &App{
		client: client,
		auth:   auth,
		sess:   sess,
		states: states,
		screen: ScreenBrowse,
		panel:  notify.New(),
	}
	a.sidebarOpen = states.Load().SidebarOpen

	a.liveClient = live.NewClient(func() (string, error) {
		token := sess.AccessToken()
		if token == "" {
			return "", live.ErrNoCredential
		}
		return config.SocketURL(client.BaseURL(), token)
	})
	a.events, a.eventsStop = a.liveClient.Events()
	a.sessFeed, a.sessStop = sess.Changes()
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadCatalog(), a.waitEvent(), a.waitSession()}
	if a.sess.Authenticated() {
		a.liveClient.Connect()
		cmds = append(cmds, a.loadNotifications())
	}
	return tea.Batch(cmds...)
}

// persist writes the browse state plus the sidebar flag back to disk.
func (a *App) persist(filters rental.Filters, basket rental.Basket) {
	snap := a.states.Load()
	snap.Filters = filters
	snap.Basket = basket
	snap.SidebarOpen = a.sidebarOpen
	_ = a.states.Save(snap)
}

// persistSidebar updates only the sidebar flag.
func (a *App) persistSidebar() {
	snap := a.states.Load()
	snap.SidebarOpen = a.sidebarOpen
	_ = a.states.Save(snap)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.browseScreen != nil {
			a.browseScreen.SetSize(a.browseWidth(), a.contentHeight())
		}
		a.panel.SetWidth(sidebarWidth)
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case catalogLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		snap := a.states.Load()
		a.browseScreen = browse.New(a.client, msg.catalog, snap.Filters, snap.Basket,
			a.sess.Authenticated, a.persist)
		a.browseScreen.SetSize(a.browseWidth(), a.contentHeight())
		return a, a.browseScreen.Init()

	case login.SubmittedMsg:
		return a, a.doLogin(msg.Username, msg.Password)

	case login.CancelledMsg:
		a.screen = ScreenBrowse
		a.loginScreen = nil
		return a, nil

	case loginResultMsg:
		return a.handleLoginResult(msg)

	case browse.SignInRequiredMsg:
		return a.openLogin()

	case notify.MarkReadMsg:
		return a, a.markRead(msg.ID)

	case notify.MarkAllReadMsg:
		return a, a.markAllRead(msg.IDs)

	case notify.ClosedMsg:
		a.sidebarOpen = false
		a.persistSidebar()
		return a, nil

	case notificationsLoadedMsg:
		if msg.err == nil {
			a.panel.SetItems(msg.items)
		}
		return a, nil

	case markedReadMsg:
		if msg.err == nil {
			a.panel.MarkedRead(msg.id)
		}
		return a, nil

	case allReadMsg:
		if msg.err == nil {
			return a, a.loadNotifications()
		}
		return a, nil

	case liveEventMsg:
		return a.handleLiveEvent(msg)

	case sessionChangedMsg:
		return a.handleSessionChange(msg)

	default:
		// Forward everything else to the active screen; huh forms and the
		// debounce timers ride on their own message types
		return a.forward(msg)
	}
}

// routeKey sends a key press to whichever component has focus
func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenLogin && a.loginScreen != nil {
		model, cmd := a.loginScreen.Update(msg)
		a.loginScreen = model.(*login.Login)
		return a, cmd
	}

	if a.browseScreen != nil && a.browseScreen.Editing() {
		return a.forwardToBrowse(msg)
	}

	if a.sidebarOpen {
		model, cmd := a.panel.Update(msg)
		a.panel = model.(*notify.Panel)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "n":
		a.sidebarOpen = true
		a.persistSidebar()
		if a.sess.Authenticated() {
			return a, a.loadNotifications()
		}
		return a, nil
	case "L":
		return a.openLogin()
	case "O":
		if a.sess.Authenticated() {
			_ = a.auth.Logout()
		}
		return a, nil
	}

	return a.forwardToBrowse(msg)
}

func (a *App) forwardToBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.browseScreen == nil {
		return a, nil
	}
	model, cmd := a.browseScreen.Update(msg)
	a.browseScreen = model.(*browse.Browse)
	return a, cmd
}

// forward hands unrecognized messages to the focused screen
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenLogin && a.loginScreen != nil {
		model, cmd := a.loginScreen.Update(msg)
		a.loginScreen = model.(*login.Login)
		return a, cmd
	}
	return a.forwardToBrowse(msg)
}

func (a *App) openLogin() (tea.Model, tea.Cmd) {
	if a.sess.Authenticated() {
		return a, nil
	}
	a.screen = ScreenLogin
	a.loginScreen = login.New()
	return a, a.loginScreen.Init()
}

func (a *App) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if a.loginScreen != nil {
			detail := "Sign-in failed"
			if api.IsUnauthorized(msg.err) {
				detail = "Invalid username or password"
			}
			a.loginScreen.SetError(detail)
			return a, a.loginScreen.Init()
		}
		return a, nil
	}
	a.screen = ScreenBrowse
	a.loginScreen = nil
	a.liveClient.Connect()
	return a, a.loadNotifications()
}

// handleLiveEvent treats any socket payload as a reconciliation signal:
// the server list is authoritative, so every event reloads it.
func (a *App) handleLiveEvent(msg liveEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return a, nil
	}
	if !a.sidebarOpen {
		a.sidebarOpen = true
		a.persistSidebar()
	}
	return a, tea.Batch(a.loadNotifications(), a.waitEvent())
}

func (a *App) handleSessionChange(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return a, nil
	}
	if msg.authed {
		a.liveClient.Connect()
		return a, tea.Batch(a.loadNotifications(), a.waitSession())
	}
	a.liveClient.Close()
	a.panel.SetItems(nil)
	return a, a.waitSession()
}

// loadCatalog fetches the reference data for the filter form
func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		catalog, err := a.client.LoadCatalog(context.Background())
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

// loadNotifications fetches the notification list
func (a *App) loadNotifications() tea.Cmd {
	return func() tea.Msg {
		items, err := a.client.Notifications(context.Background())
		return notificationsLoadedMsg{items: items, err: err}
	}
}

func (a *App) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		pair, err := a.auth.Login(context.Background(), username, password)
		return loginResultMsg{pair: pair, err: err}
	}
}

func (a *App) markRead(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := a.client.MarkNotificationRead(context.Background(), id)
		return markedReadMsg{id: id, err: err}
	}
}

func (a *App) markAllRead(ids []int) tea.Cmd {
	return func() tea.Msg {
		err := a.client.MarkAllNotificationsRead(context.Background(), ids)
		return allReadMsg{err: err}
	}
}

// waitEvent blocks on the socket feed and resurfaces as a message
func (a *App) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		return liveEventMsg{event: ev, ok: ok}
	}
}

// waitSession blocks on auth-state transitions
func (a *App) waitSession() tea.Cmd {
	return func() tea.Msg {
		authed, ok := <-a.sessFeed
		return sessionChangedMsg{authed: authed, ok: ok}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch {
	case a.screen == ScreenLogin && a.loginScreen != nil:
		content = a.loginScreen.View()
	case a.err != nil:
		content = styles.StatusCritical.Render("Error: " + a.err.Error())
	case a.browseScreen == nil:
		content = styles.Subtitle.Render("Loading catalog...")
	case a.sidebarOpen:
		left := a.browseScreen.View()
		right := styles.ActivePanel.Width(sidebarWidth).Render(a.panel.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	default:
		content = a.browseScreen.View()
	}

	return a.renderHeader() + "\n" + content + "\n" + a.renderFooter()
}

// browseWidth is the content width left for the search screen
func (a *App) browseWidth() int {
	if a.sidebarOpen && a.width > minTerminalWidth+sidebarWidth {
		return a.width - sidebarWidth - 2
	}
	return a.width
}

// contentHeight is the height between header and footer
func (a *App) contentHeight() int {
	return a.height - 4
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("rentctl"))

	var rightParts []string
	if a.browseScreen != nil {
		if units := a.browseScreen.BasketUnits(); units > 0 {
			rightParts = append(rightParts, fmt.Sprintf("%s %d", icons.Basket.String(), units))
		}
	}
	if unread := a.panel.Unread(); unread > 0 {
		rightParts = append(rightParts, fmt.Sprintf("%s %d", icons.Bell.String(), unread))
	}
	rightParts = append(rightParts, a.sessionLabel())
	rightText := contextStyle.Render(strings.Join(rightParts, "  ")) + " "

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// sessionLabel names the signed-in user, or suggests signing in
func (a *App) sessionLabel() string {
	if !a.sess.Authenticated() {
		return "guest"
	}
	claims, err := session.ParseClaims(a.sess.AccessToken())
	if err != nil || claims.Username == "" {
		return a.sess.Role()
	}
	return fmt.Sprintf("%s %s", icons.User.String(), claims.Username)
}

// renderFooter creates the footer with keyboard shortcuts and socket state
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch {
	case a.screen == ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Cancel"}
	case a.sidebarOpen:
		shortcuts = []string{"↑↓ Navigate", "m Read", "A All", "Esc Close"}
	default:
		shortcuts = []string{"↑↓ Navigate", "f Filters", "a Add", "c Checkout", "n Alerts", "q Quit"}
		if !a.sess.Authenticated() {
			shortcuts = append(shortcuts, "L Sign in")
		}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightPlainText := ""
	if a.sess.Authenticated() {
		icon := icons.Offline.String()
		if a.liveClient.State() == live.StateOpen {
			icon = icons.Live.String()
		}
		rightPlainText = fmt.Sprintf("%s %s ", icon, a.liveClient.State())
	}
	rightText := statusStyle.Render(strings.TrimRight(rightPlainText, " "))
	if rightPlainText != "" {
		rightText += " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// Run starts the TUI
func Run(client *api.Client, auth *api.AuthClient, sess *session.Session, states *state.Store) error {
	app := New(client, auth, sess, states)
	defer app.liveClient.Close()
	defer app.eventsStop()
	defer app.sessStop()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
