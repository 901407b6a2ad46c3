// ABOUTME: Rendering for the search screen
// ABOUTME: Results list on the left, basket summary on the right

package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openrental/rentctl/internal/tui/icons"
	"github.com/openrental/rentctl/internal/tui/styles"
)

const minListWidth = 48

// View implements tea.Model
func (b *Browse) View() string {
	if b.form != nil {
		return b.form.View()
	}

	left := styles.ActivePanel.Width(b.listWidth()).Render(b.viewResults())
	right := styles.Panel.Width(b.basketWidth()).Render(b.viewBasket())
	out := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if b.status != "" {
		out += "\n" + styles.Subtitle.Render(b.status)
	}
	return out
}

func (b *Browse) listWidth() int {
	if b.width < minListWidth*2 {
		return b.width - 4
	}
	return (b.width * 3 / 5) - 4
}

func (b *Browse) basketWidth() int {
	w := b.width - b.listWidth() - 8
	if w < 0 {
		w = 0
	}
	return w
}

// viewResults renders the availability list
func (b *Browse) viewResults() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Available vehicles", icons.Car.String())))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(b.describeFilters()))
	sb.WriteString("\n\n")

	switch {
	case b.err != nil:
		sb.WriteString(styles.StatusCritical.Render("Error: " + b.err.Error()))
	case b.searching:
		sb.WriteString(b.spin.View() + styles.Subtitle.Render("Searching..."))
	case !b.filters.Complete():
		sb.WriteString(styles.Subtitle.Render("Press f to pick a location and dates."))
	case len(b.vehicles) == 0:
		sb.WriteString(styles.Subtitle.Render("No vehicles available for these filters."))
	default:
		for i, v := range b.vehicles {
			qty := 0
			if line, ok := b.basket.Lines[v.VehicleID]; ok {
				qty = line.Qty
			}
			row := fmt.Sprintf("%-24s %-8s %-9s %2d%s %7.2f/d  %s %d",
				v.Brand+" "+v.Model, v.VehicleType, v.EngineType,
				v.Seats, icons.Seats.String(), v.PricePerDay,
				styles.UnitsBar(v.AvailableCount-qty, v.AvailableCount, 5), v.AvailableCount-qty)
			if qty > 0 {
				row += styles.StatusOK.Render(fmt.Sprintf("  %s %d", icons.Basket.String(), qty))
			}
			if i == b.cursor {
				row = styles.SelectedRow.Render("> " + row)
			} else {
				row = "  " + row
			}
			sb.WriteString(row + "\n")
		}
	}

	return sb.String()
}

// describeFilters summarizes the active filters in one line
func (b *Browse) describeFilters() string {
	parts := []string{}
	if b.filters.LocationID != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", icons.Location.String(), b.locationName(b.filters.LocationID)))
	}
	if b.filters.Start != "" && b.filters.End != "" {
		parts = append(parts, fmt.Sprintf("%s %s → %s", icons.Calendar.String(), b.filters.Start, b.filters.End))
	}
	if b.filters.VehicleType != "" {
		parts = append(parts, b.filters.VehicleType)
	}
	if b.filters.EngineType != "" {
		parts = append(parts, b.filters.EngineType)
	}
	if b.filters.PriceMax != 0 {
		parts = append(parts, fmt.Sprintf("≤ %d/day", b.filters.PriceMax))
	}
	if len(parts) == 0 {
		return "No filters set"
	}
	return strings.Join(parts, "  ")
}

func (b *Browse) locationName(id int) string {
	for _, loc := range b.catalog.Locations {
		if loc.ID == id {
			return loc.LocationName
		}
	}
	return fmt.Sprintf("location %d", id)
}

// viewBasket renders the basket pane
func (b *Browse) viewBasket() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Basket", icons.Basket.String())))
	sb.WriteString("\n\n")

	if b.basket.Empty() {
		sb.WriteString(styles.Subtitle.Render("Empty. Press a to add the highlighted vehicle."))
		return sb.String()
	}

	total := 0.0
	for _, line := range b.basket.Items() {
		sb.WriteString(fmt.Sprintf("%d× %-20s %7.2f/d\n", line.Qty, line.Brand+" "+line.Model, line.PricePerDay))
		total += float64(line.Qty) * line.PricePerDay
	}
	sb.WriteString("\n")
	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("%d unit(s), %.2f per day", b.basket.Units(), total)))
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("a Add  - Fewer  x Drop  c Checkout"))
	return sb.String()
}
