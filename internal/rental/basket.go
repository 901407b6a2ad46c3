// ABOUTME: Client-held basket of vehicle selections pending reservation
// ABOUTME: Enforces quantity bounds against the availability seen at search time

package rental

import (
	"errors"
	"sort"
)

// ErrNotAvailable is returned when a vehicle with zero availability is added.
var ErrNotAvailable = errors.New("vehicle is not available for the selected period")

// Line is one basket entry. Invariant: 0 < Qty <= AvailableCount.
type Line struct {
	VehicleID      int     `json:"vehicle_id"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	PricePerDay    float64 `json:"price_per_day"`
	AvailableCount int     `json:"available_count"`
	Qty            int     `json:"qty"`
}

// Basket maps vehicle id to a selected line. The zero value is usable after
// a round-trip through JSON; call Add on an empty basket freely.
type Basket struct {
	Lines map[int]Line `json:"lines,omitempty"`
}

// Add puts one unit of v into the basket. An existing line increments only
// while below its available count (at the cap the add is a silent no-op).
// A new line is rejected when nothing is available.
func (b *Basket) Add(v Vehicle) error {
	if line, ok := b.Lines[v.VehicleID]; ok {
		if line.Qty < line.AvailableCount {
			line.Qty++
			b.Lines[v.VehicleID] = line
		}
		return nil
	}
	if v.AvailableCount <= 0 {
		return ErrNotAvailable
	}
	if b.Lines == nil {
		b.Lines = make(map[int]Line)
	}
	b.Lines[v.VehicleID] = Line{
		VehicleID:      v.VehicleID,
		Brand:          v.Brand,
		Model:          v.Model,
		PricePerDay:    v.PricePerDay,
		AvailableCount: v.AvailableCount,
		Qty:            1,
	}
	return nil
}

// Decrement lowers a line's quantity by one. Going below one is a no-op;
// lines leave the basket through Remove only.
func (b *Basket) Decrement(vehicleID int) {
	line, ok := b.Lines[vehicleID]
	if !ok || line.Qty <= 1 {
		return
	}
	line.Qty--
	b.Lines[vehicleID] = line
}

// Remove deletes a line outright.
func (b *Basket) Remove(vehicleID int) {
	delete(b.Lines, vehicleID)
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.Lines = nil
}

// Empty reports whether the basket holds no lines.
func (b *Basket) Empty() bool {
	return len(b.Lines) == 0
}

// Units returns the total selected quantity across all lines.
func (b *Basket) Units() int {
	n := 0
	for _, line := range b.Lines {
		n += line.Qty
	}
	return n
}

// Items returns the lines ordered by vehicle id for stable display
// and request bodies.
func (b *Basket) Items() []Line {
	items := make([]Line, 0, len(b.Lines))
	for _, line := range b.Lines {
		items = append(items, line)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VehicleID < items[j].VehicleID })
	return items
}
