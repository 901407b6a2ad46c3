// ABOUTME: Filter form for the search screen
// ABOUTME: Builds a huh form from the catalog and parses values back to filters

package browse

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/openrental/rentctl/internal/rental"
	"github.com/openrental/rentctl/internal/tui/styles"
)

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
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
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
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Muted).
		SetString("  ")

	return t
}

// openFilterForm seeds the form bindings from current filters and builds it.
func (b *Browse) openFilterForm() {
	b.fLocation = strconv.Itoa(b.filters.LocationID)
	b.fStart = b.filters.Start
	b.fEnd = b.filters.End
	b.fBrand = strconv.Itoa(b.filters.BrandID)
	b.fModel = strconv.Itoa(b.filters.ModelID)
	b.fType = b.filters.VehicleType
	b.fEngine = b.filters.EngineType
	b.fPriceMin = zeroBlank(b.filters.PriceMin)
	b.fPriceMax = zeroBlank(b.filters.PriceMax)
	b.fSeatsMin = zeroBlank(b.filters.SeatsMin)
	b.fSeatsMax = zeroBlank(b.filters.SeatsMax)

	locationOptions := []huh.Option[string]{huh.NewOption("Any location", "0")}
	for _, loc := range b.catalog.Locations {
		locationOptions = append(locationOptions,
			huh.NewOption(fmt.Sprintf("%s (%s)", loc.LocationName, loc.Address), strconv.Itoa(loc.ID)))
	}

	brandOptions := []huh.Option[string]{huh.NewOption("Any brand", "0")}
	for _, brand := range b.catalog.Brands {
		brandOptions = append(brandOptions, huh.NewOption(brand.BrandName, strconv.Itoa(brand.ID)))
	}

	typeOptions := []huh.Option[string]{huh.NewOption("Any type", "")}
	for _, vt := range b.catalog.VehicleTypes {
		typeOptions = append(typeOptions, huh.NewOption(vt.VehicleType, vt.VehicleType))
	}

	engineOptions := []huh.Option[string]{huh.NewOption("Any engine", "")}
	for _, et := range b.catalog.EngineTypes {
		engineOptions = append(engineOptions, huh.NewOption(et.EngineType, et.EngineType))
	}

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pickup location").
				Options(locationOptions...).
				Value(&b.fLocation),
			huh.NewInput().
				Title("Start").
				Description("2006-01-02T15:04").
				Placeholder("2025-06-01T10:00").
				Value(&b.fStart).
				Validate(validateInstant),
			huh.NewInput().
				Title("End").
				Description("2006-01-02T15:04").
				Placeholder("2025-06-03T10:00").
				Value(&b.fEnd).
				Validate(validateInstant),
		).Title("Where and when"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Brand").
				Options(brandOptions...).
				Value(&b.fBrand),
			huh.NewSelect[string]().
				Title("Model").
				OptionsFunc(func() []huh.Option[string] {
					return b.modelOptions()
				}, &b.fBrand).
				Value(&b.fModel),
			huh.NewSelect[string]().
				Title("Vehicle type").
				Options(typeOptions...).
				Value(&b.fType),
			huh.NewSelect[string]().
				Title("Engine type").
				Options(engineOptions...).
				Value(&b.fEngine),
			huh.NewInput().
				Title("Min price per day").
				Placeholder("any").
				Value(&b.fPriceMin).
				Validate(validateOptionalInt),
			huh.NewInput().
				Title("Max price per day").
				Placeholder("any").
				Value(&b.fPriceMax).
				Validate(validateOptionalInt),
			huh.NewInput().
				Title("Min seats").
				Placeholder("any").
				Value(&b.fSeatsMin).
				Validate(validateOptionalInt),
			huh.NewInput().
				Title("Max seats").
				Placeholder("any").
				Value(&b.fSeatsMax).
				Validate(validateOptionalInt),
		).Title("Vehicle"),
	).WithTheme(createTheme())
}

// modelOptions lists the models of the currently picked brand.
func (b *Browse) modelOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("Any model", "0")}
	brandID, _ := strconv.Atoi(b.fBrand)
	for _, brand := range b.catalog.Brands {
		if brand.ID != brandID {
			continue
		}
		for _, m := range brand.Models {
			options = append(options, huh.NewOption(m.ModelName, strconv.Itoa(m.ID)))
		}
	}
	return options
}

// updateForm drives the filter form until it completes or is cancelled
func (b *Browse) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		b.form = nil
		return b, nil
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		filters, err := b.parseForm()
		b.form = nil
		if err != nil {
			b.status = err.Error()
			return b, nil
		}
		if err := filters.Validate(); err != nil {
			b.status = err.Error()
			return b, nil
		}
		return b, b.ApplyFilters(filters)
	}

	return b, cmd
}

// parseForm converts the string bindings back into a filter set.
func (b *Browse) parseForm() (rental.Filters, error) {
	f := rental.Filters{
		Start:       strings.TrimSpace(b.fStart),
		End:         strings.TrimSpace(b.fEnd),
		VehicleType: b.fType,
		EngineType:  b.fEngine,
	}
	f.LocationID, _ = strconv.Atoi(b.fLocation)
	f.BrandID, _ = strconv.Atoi(b.fBrand)
	f.ModelID, _ = strconv.Atoi(b.fModel)

	var err error
	if f.PriceMin, err = parseOptionalInt(b.fPriceMin); err != nil {
		return f, fmt.Errorf("min price must be a number")
	}
	if f.PriceMax, err = parseOptionalInt(b.fPriceMax); err != nil {
		return f, fmt.Errorf("max price must be a number")
	}
	if f.SeatsMin, err = parseOptionalInt(b.fSeatsMin); err != nil {
		return f, fmt.Errorf("min seats must be a number")
	}
	if f.SeatsMax, err = parseOptionalInt(b.fSeatsMax); err != nil {
		return f, fmt.Errorf("max seats must be a number")
	}
	// A model only narrows within its brand
	if f.BrandID == 0 {
		f.ModelID = 0
	}
	return f, nil
}

func zeroBlank(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func parseOptionalInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func validateOptionalInt(v string) error {
	if _, err := parseOptionalInt(v); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateInstant(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !strings.Contains(v, "T") {
		return fmt.Errorf("use the form 2006-01-02T15:04")
	}
	return nil
}
