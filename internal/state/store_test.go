// ABOUTME: Tests for snapshot persistence
// ABOUTME: Verifies round-trip, missing-file, and corrupt-file behavior

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openrental/rentctl/internal/rental"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	snap := s.Load()
	if snap.Filters.LocationID != 0 || !snap.Basket.Empty() || snap.SidebarOpen {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	snap := Snapshot{
		Filters:     rental.Filters{LocationID: 5, Start: "2025-01-01T10:00", End: "2025-01-02T10:00"},
		SidebarOpen: true,
		APIHost:     "rent.example.com",
	}
	snap.Basket.Add(rental.Vehicle{VehicleID: 3, Brand: "BMW", AvailableCount: 2})

	if err := s.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load()
	if got.Filters.LocationID != 5 {
		t.Errorf("expected location 5, got %d", got.Filters.LocationID)
	}
	if got.Basket.Lines[3].Brand != "BMW" {
		t.Errorf("expected basket line restored, got %+v", got.Basket.Lines)
	}
	if !got.SidebarOpen || got.APIHost != "rent.example.com" {
		t.Errorf("expected sidebar flag and host override, got %+v", got)
	}
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(dir)
	snap := s.Load()
	if snap.Filters.LocationID != 0 || !snap.Basket.Empty() {
		t.Errorf("expected corrupt state to read as empty, got %+v", snap)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "rentctl")
	s := NewStore(dir)
	if err := s.Save(Snapshot{SidebarOpen: true}); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
	if !s.Load().SidebarOpen {
		t.Error("expected snapshot readable after directory creation")
	}
}
