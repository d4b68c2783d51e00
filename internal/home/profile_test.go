package home

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

func TestDefault_HasAllDevices(t *testing.T) {
	p := Default()

	if len(p.Devices) != len(models.AllDeviceTypes) {
		t.Fatalf("Default devices = %d, want %d", len(p.Devices), len(models.AllDeviceTypes))
	}
	for _, d := range models.AllDeviceTypes {
		if !p.HasDevice(d) {
			t.Errorf("Default profile missing device %q", d)
		}
	}
	if p.Location == "" {
		t.Error("Default profile has empty location")
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.yaml")
	content := `name: loft
devices:
  - lighting
  - audio_system
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.Name != "loft" {
		t.Errorf("Name = %q, want %q", p.Name, "loft")
	}
	if len(p.Devices) != 2 {
		t.Errorf("Devices = %v, want 2 entries", p.Devices)
	}
	if p.HasDevice(models.DeviceFridge) {
		t.Error("fridge should not be present in a two-device profile")
	}
	// Omitted sections pick up defaults.
	if p.Location == "" {
		t.Error("Location not defaulted")
	}
	if len(p.Fridge) == 0 {
		t.Error("Fridge inventory not defaulted")
	}
	if p.Thermostat.MaxC == 0 {
		t.Error("Thermostat not defaulted")
	}
}

func TestLoad_RejectsUnknownDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.yaml")
	content := `devices:
  - lighting
  - toaster
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown device type, got nil")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.yaml")
	orig := Default()
	orig.Name = "test-home"

	if err := orig.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != "test-home" {
		t.Errorf("Name = %q, want %q", loaded.Name, "test-home")
	}
	if len(loaded.Fridge) != len(orig.Fridge) {
		t.Errorf("Fridge items = %d, want %d", len(loaded.Fridge), len(orig.Fridge))
	}
}

func TestExpiringItems(t *testing.T) {
	p := Default()

	soon := p.ExpiringItems(2)
	if len(soon) != 2 {
		t.Fatalf("ExpiringItems(2) = %d items, want 2 (milk, yogurt)", len(soon))
	}
	for _, item := range soon {
		if item.Name != "milk" && item.Name != "yogurt" {
			t.Errorf("unexpected expiring item %q", item.Name)
		}
	}

	if got := p.ExpiringItems(0); len(got) != 0 {
		t.Errorf("ExpiringItems(0) = %v, want none", got)
	}
}

func TestInventorySummary(t *testing.T) {
	p := &Profile{Fridge: []FridgeItem{
		{Name: "rice", Quantity: "1kg"},
		{Name: "vegetables"},
	}}

	got := p.InventorySummary()
	want := "rice 1kg, vegetables"
	if got != want {
		t.Errorf("InventorySummary = %q, want %q", got, want)
	}
}

func TestScheduleSummary(t *testing.T) {
	p := &Profile{Calendar: []CalendarEvent{
		{Title: "Lunch", Time: "1:00 PM", Location: "Mama's Burger", With: "Sarah"},
	}}

	got := p.ScheduleSummary()
	want := "1:00 PM Lunch at Mama's Burger with Sarah"
	if got != want {
		t.Errorf("ScheduleSummary = %q, want %q", got, want)
	}

	empty := &Profile{}
	if got := empty.ScheduleSummary(); got != "no events scheduled" {
		t.Errorf("empty ScheduleSummary = %q", got)
	}
}

func TestKnowsScene(t *testing.T) {
	p := Default()

	if !p.KnowsScene("relaxation") {
		t.Error("expected relaxation scene to be known")
	}
	if !p.KnowsScene("Work") {
		t.Error("scene match should be case-insensitive")
	}
	if p.KnowsScene("disco") {
		t.Error("unexpected disco scene")
	}
}
