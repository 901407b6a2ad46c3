// ABOUTME: Notification sidebar as a bubbletea model
// ABOUTME: Shows the unread badge and marks entries read

package notify

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/tui/icons"
	"github.com/openrental/rentctl/internal/tui/styles"
)

// MarkReadMsg asks the app to mark one notification read
type MarkReadMsg struct {
	ID int
}

// MarkAllReadMsg asks the app to mark every unread notification read
type MarkAllReadMsg struct {
	IDs []int
}

// ClosedMsg is sent when the user closes the sidebar
type ClosedMsg struct{}

// Panel is the notification sidebar
type Panel struct {
	items  []api.Notification
	cursor int
	width  int
}

// New creates an empty notification panel
func New() *Panel {
	return &Panel{}
}

// SetItems replaces the list after a reload, clamping the cursor.
func (p *Panel) SetItems(items []api.Notification) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = len(items) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// MarkedRead flips the local entry after the backend confirmed the change.
func (p *Panel) MarkedRead(id int) {
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].IsRead = true
		}
	}
}

// Unread returns the number of unread notifications.
func (p *Panel) Unread() int {
	n := 0
	for _, item := range p.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// UnreadIDs returns the ids of all unread notifications.
func (p *Panel) UnreadIDs() []int {
	var ids []int
	for _, item := range p.items {
		if !item.IsRead {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// SetWidth sets the render width
func (p *Panel) SetWidth(w int) {
	p.width = w
}

// Init implements tea.Model
func (p *Panel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter", "m":
		if p.cursor < len(p.items) && !p.items[p.cursor].IsRead {
			id := p.items[p.cursor].ID
			return p, func() tea.Msg { return MarkReadMsg{ID: id} }
		}
	case "A":
		if ids := p.UnreadIDs(); len(ids) > 0 {
			return p, func() tea.Msg { return MarkAllReadMsg{IDs: ids} }
		}
	case "esc", "n":
		return p, func() tea.Msg { return ClosedMsg{} }
	}
	return p, nil
}

// View implements tea.Model
func (p *Panel) View() string {
	var sb strings.Builder

	title := fmt.Sprintf("%s Notifications", icons.Bell.String())
	sb.WriteString(styles.Title.Render(title))
	if unread := p.Unread(); unread > 0 {
		sb.WriteString(" " + styles.Badge.Render(fmt.Sprintf("%d", unread)))
	}
	sb.WriteString("\n\n")

	if len(p.items) == 0 {
		sb.WriteString(styles.Subtitle.Render("No notifications."))
		return sb.String()
	}

	for i, item := range p.items {
		marker := "•"
		if item.IsRead {
			marker = " "
		}
		line := fmt.Sprintf("%s %s", marker, item.Message)
		if item.CreatedAt != "" {
			line += styles.Subtitle.Render("  " + item.CreatedAt)
		}
		if i == p.cursor {
			line = styles.SelectedRow.Render(line)
		} else if !item.IsRead {
			line = styles.ValueStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString(styles.Help.Render("m Mark read  A Mark all  esc Close"))
	return sb.String()
}
