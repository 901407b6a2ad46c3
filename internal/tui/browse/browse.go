// ABOUTME: Vehicle search screen with filter form, result list, and basket
// ABOUTME: Debounces filter changes into automatic availability searches

package browse

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/rental"
	"github.com/openrental/rentctl/internal/tui/styles"
)

// SearchDebounce is how long filter changes settle before a search fires.
// Each change arms a fresh timer; only the latest one triggers the query.
const SearchDebounce = 400 * time.Millisecond

// searchTickMsg fires when a debounce timer expires
type searchTickMsg struct {
	seq int
}

// resultsMsg carries a finished availability search
type resultsMsg struct {
	seq      int
	vehicles []rental.Vehicle
	err      error
}

// reservedMsg carries the outcome of a checkout
type reservedMsg struct {
	res *api.Reservation
	err error
}

// SignInRequiredMsg asks the app to open the sign-in screen
type SignInRequiredMsg struct{}

// Browse is the search screen model
type Browse struct {
	client  *api.Client
	catalog *api.Catalog
	persist func(rental.Filters, rental.Basket)
	authed  func() bool

	filters rental.Filters
	basket  rental.Basket

	vehicles  []rental.Vehicle
	cursor    int
	seq       int
	searching bool
	status    string
	err       error

	spin spinner.Model
	form *huh.Form
	// Form bindings; huh works on strings, parsed back on completion
	fLocation string
	fStart    string
	fEnd      string
	fBrand    string
	fModel    string
	fType     string
	fEngine   string
	fPriceMin string
	fPriceMax string
	fSeatsMin string
	fSeatsMax string

	width  int
	height int
}

// New creates the search screen from the persisted filters and basket.
func New(client *api.Client, catalog *api.Catalog, filters rental.Filters, basket rental.Basket,
	authed func() bool, persist func(rental.Filters, rental.Basket)) *Browse {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &Browse{
		client:  client,
		catalog: catalog,
		persist: persist,
		authed:  authed,
		filters: filters,
		basket:  basket,
		spin:    sp,
	}
}

// Filters returns the current filter state
func (b *Browse) Filters() rental.Filters {
	return b.filters
}

// BasketUnits returns the total selected quantity for the header badge
func (b *Browse) BasketUnits() int {
	return b.basket.Units()
}

// Editing reports whether the filter form is capturing keystrokes.
func (b *Browse) Editing() bool {
	return b.form != nil
}

// SetSize sets the available content area
func (b *Browse) SetSize(w, h int) {
	b.width = w
	b.height = h
}

// Init implements tea.Model; a complete persisted filter set searches
// immediately so the last session's results come back.
func (b *Browse) Init() tea.Cmd {
	if b.filters.Complete() {
		return b.startSearch()
	}
	return nil
}

// scheduleSearch arms the debounce timer for the current filter state.
func (b *Browse) scheduleSearch() tea.Cmd {
	b.seq++
	seq := b.seq
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

// startSearch queries availability right away, invalidating older timers.
func (b *Browse) startSearch() tea.Cmd {
	b.seq++
	seq := b.seq
	b.searching = true
	filters := b.filters
	return tea.Batch(b.spin.Tick, func() tea.Msg {
		vehicles, err := b.client.SearchVehicles(context.Background(), filters)
		return resultsMsg{seq: seq, vehicles: vehicles, err: err}
	})
}

// Update implements tea.Model
func (b *Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchTickMsg:
		// Stale timer: a newer change re-armed the debounce
		if msg.seq != b.seq {
			return b, nil
		}
		if !b.filters.Complete() {
			return b, nil
		}
		return b, b.startSearch()

	case spinner.TickMsg:
		if !b.searching {
			return b, nil
		}
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		return b, cmd

	case resultsMsg:
		if msg.seq != b.seq {
			return b, nil
		}
		b.searching = false
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		b.err = nil
		b.vehicles = msg.vehicles
		if b.cursor >= len(b.vehicles) {
			b.cursor = 0
		}
		return b, nil

	case reservedMsg:
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		b.err = nil
		b.status = fmt.Sprintf("Reservation %d created (%s)", msg.res.ID, msg.res.Status.Status)
		b.basket.Clear()
		b.persist(b.filters, b.basket)
		// Availability shrank; refresh the list
		return b, b.startSearch()

	case tea.KeyMsg:
		if b.form != nil {
			return b.updateForm(msg)
		}
		return b.updateList(msg)
	}

	if b.form != nil {
		return b.updateForm(msg)
	}
	return b, nil
}

// updateList handles keys while the result list has focus
func (b *Browse) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.vehicles)-1 {
			b.cursor++
		}
	case "f":
		b.openFilterForm()
		return b, b.form.Init()
	case "r":
		if b.filters.Complete() {
			return b, b.startSearch()
		}
		b.status = "Select a location and dates first (f)"
	case "enter", "a":
		return b, b.addSelected()
	case "-":
		if v := b.selected(); v != nil {
			b.basket.Decrement(v.VehicleID)
			b.persist(b.filters, b.basket)
		}
	case "x":
		if v := b.selected(); v != nil {
			b.basket.Remove(v.VehicleID)
			b.persist(b.filters, b.basket)
		}
	case "X":
		b.basket.Clear()
		b.persist(b.filters, b.basket)
	case "c":
		return b, b.checkout()
	}
	return b, nil
}

func (b *Browse) selected() *rental.Vehicle {
	if b.cursor < 0 || b.cursor >= len(b.vehicles) {
		return nil
	}
	return &b.vehicles[b.cursor]
}

// addSelected puts the highlighted vehicle in the basket.
func (b *Browse) addSelected() tea.Cmd {
	v := b.selected()
	if v == nil {
		return nil
	}
	if err := b.basket.Add(*v); err != nil {
		b.status = err.Error()
		return nil
	}
	b.status = fmt.Sprintf("Added %s %s", v.Brand, v.Model)
	b.persist(b.filters, b.basket)
	return nil
}

// checkout turns the basket into a reservation request.
func (b *Browse) checkout() tea.Cmd {
	if b.basket.Empty() {
		b.status = "Basket is empty"
		return nil
	}
	if !b.filters.Complete() {
		b.status = "Select a location and dates first (f)"
		return nil
	}
	if !b.authed() {
		b.status = "Sign in to reserve (L)"
		return func() tea.Msg { return SignInRequiredMsg{} }
	}

	lines := make([]api.ReservationLine, 0, len(b.basket.Lines))
	for _, item := range b.basket.Items() {
		lines = append(lines, api.ReservationLine{VehicleID: item.VehicleID, Qty: item.Qty})
	}
	input := api.ReservationInput{
		Start:           rental.NormalizeInstant(b.filters.Start),
		End:             rental.NormalizeInstant(b.filters.End),
		StartLocationID: b.filters.LocationID,
		EndLocationID:   b.filters.EndLocationID,
		Lines:           lines,
	}
	return func() tea.Msg {
		res, err := b.client.CreateReservation(context.Background(), input)
		return reservedMsg{res: res, err: err}
	}
}

// ApplyFilters installs a new filter set, clearing the basket when the
// pickup location moved, and arms the debounce timer.
func (b *Browse) ApplyFilters(f rental.Filters) tea.Cmd {
	newLocation := f.LocationID
	f.LocationID = b.filters.LocationID
	b.filters = f
	rental.SetStartLocation(&b.filters, &b.basket, newLocation)
	b.persist(b.filters, b.basket)
	b.status = ""
	return b.scheduleSearch()
}
