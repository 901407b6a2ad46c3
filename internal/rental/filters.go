// ABOUTME: Search filter criteria for the vehicle availability endpoint
// ABOUTME: Validation rules and query construction independent of any UI

package rental

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Validation errors surfaced inline before any HTTP call is made.
var (
	ErrDatesRequired = errors.New("start and end are required when a location is selected")
	ErrDateRangeHalf = errors.New("start and end must be provided together")
)

// Filters mirrors the query surface of GET /public/vehicles/available/.
// Zero values mean "not set" and are omitted from the query.
type Filters struct {
	LocationID    int    `json:"location_id,omitempty"`
	EndLocationID int    `json:"end_location_id,omitempty"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	BrandID       int    `json:"brand_id,omitempty"`
	ModelID       int    `json:"model_id,omitempty"`
	VehicleType   string `json:"vehicle_type,omitempty"`
	EngineType    string `json:"engine_type,omitempty"`
	PriceMin      int    `json:"price_min,omitempty"`
	PriceMax      int    `json:"price_max,omitempty"`
	SeatsMin      int    `json:"seats_min,omitempty"`
	SeatsMax      int    `json:"seats_max,omitempty"`
}

// Validate enforces the date-range/location rules:
// a selected location requires both instants, and the instants
// are either both present or both absent.
func (f Filters) Validate() error {
	if f.LocationID != 0 && (f.Start == "" || f.End == "") {
		return ErrDatesRequired
	}
	if (f.Start == "") != (f.End == "") {
		return ErrDateRangeHalf
	}
	return nil
}

// Complete reports whether the minimum filters for an automatic
// search (location plus both instants) are satisfied.
func (f Filters) Complete() bool {
	return f.LocationID != 0 && f.Start != "" && f.End != ""
}

// offsetRe matches an explicit zone suffix: Z or ±hh[:]mm.
var offsetRe = regexp.MustCompile(`(?:Z|[+-]\d{2}:?\d{2})$`)

// NormalizeInstant turns a datetime-local value ("2006-01-02T15:04") into a
// UTC instant by appending seconds and a Z marker. Values that already carry
// an explicit offset pass through untouched.
func NormalizeInstant(v string) string {
	if v == "" || !strings.Contains(v, "T") || offsetRe.MatchString(v) {
		return v
	}
	return v + ":00Z"
}

// Query builds the availability query with only the fields that are set.
func (f Filters) Query() url.Values {
	q := url.Values{}
	setInt := func(key, v string) {
		if v != "0" {
			q.Set(key, v)
		}
	}
	setInt("location_id", strconv.Itoa(f.LocationID))
	setInt("end_location_id", strconv.Itoa(f.EndLocationID))
	if f.Start != "" {
		q.Set("start", NormalizeInstant(f.Start))
	}
	if f.End != "" {
		q.Set("end", NormalizeInstant(f.End))
	}
	setInt("brand_id", strconv.Itoa(f.BrandID))
	setInt("model_id", strconv.Itoa(f.ModelID))
	if f.VehicleType != "" {
		q.Set("vehicle_type", f.VehicleType)
	}
	if f.EngineType != "" {
		q.Set("engine_type", f.EngineType)
	}
	setInt("price_min", strconv.Itoa(f.PriceMin))
	setInt("price_max", strconv.Itoa(f.PriceMax))
	setInt("seats_min", strconv.Itoa(f.SeatsMin))
	setInt("seats_max", strconv.Itoa(f.SeatsMax))
	return q
}

// SetStartLocation changes the pickup location. Availability and pricing in
// the basket are scoped to the previous location, so a change empties it.
func SetStartLocation(f *Filters, b *Basket, locationID int) {
	if f.LocationID == locationID {
		return
	}
	f.LocationID = locationID
	b.Clear()
}
