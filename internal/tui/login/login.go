// ABOUTME: Sign-in screen as a bubbletea model
// ABOUTME: Wraps a huh form and reports submitted credentials to the app

package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/openrental/rentctl/internal/tui/styles"
)

// SubmittedMsg is sent when the form completes with both fields filled
type SubmittedMsg struct {
	Username string
	Password string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Login is the sign-in form screen
type Login struct {
	form     *huh.Form
	username string
	password string
	errMsg   string
	width    int
}

// createTheme returns a huh theme matching the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a sign-in screen
func New() *Login {
	l := &Login{}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password),
		).Title("Sign in").
			Description("Reservations and notifications need an account"),
	).WithTheme(createTheme())
}

// SetError shows a failure message and resets the form for another attempt.
func (l *Login) SetError(msg string) {
	l.errMsg = msg
	l.password = ""
	l.form = l.createForm()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		l.width = size.Width
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		if l.username == "" || l.password == "" {
			l.SetError("Username and password are required")
			return l, l.form.Init()
		}
		username, password := l.username, l.password
		return l, func() tea.Msg {
			return SubmittedMsg{Username: username, Password: password}
		}
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	out := l.form.View()
	if l.errMsg != "" {
		out = styles.StatusCritical.Render(l.errMsg) + "\n\n" + out
	}
	return out
}
