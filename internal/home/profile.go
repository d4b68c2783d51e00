// Package home defines the simulated home profile: which devices exist and
// the canned state they answer from (fridge inventory, calendar events,
// lighting scenes, thermostat limits).
package home

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// FridgeItem is one entry in the simulated fridge inventory.
type FridgeItem struct {
	// Name of the food item.
	Name string `yaml:"name"`
	// Quantity as free text ("500g", "1L", "6").
	Quantity string `yaml:"quantity,omitempty"`
	// ExpiresInDays is how many days until the item expires.
	// Zero means expiry is not tracked for this item.
	ExpiresInDays int `yaml:"expires_in_days,omitempty"`
}

// CalendarEvent is one entry in the simulated schedule.
type CalendarEvent struct {
	Title    string `yaml:"title"`
	Time     string `yaml:"time"`
	Location string `yaml:"location,omitempty"`
	With     string `yaml:"with,omitempty"`
}

// Thermostat holds the simulated climate limits.
type Thermostat struct {
	// MinC and MaxC bound the settable temperature in Celsius.
	MinC int `yaml:"min_c"`
	MaxC int `yaml:"max_c"`
	// DefaultC is the comfortable default target.
	DefaultC int `yaml:"default_c"`
}

// Profile describes the simulated home a run executes against.
type Profile struct {
	// Name labels the home in logs and the TUI.
	Name string `yaml:"name"`
	// Location is used by the search engine for weather queries.
	Location string `yaml:"location"`
	// Devices lists the device types present in this home. A device type
	// missing here has no live agent for the run.
	Devices []models.DeviceType `yaml:"devices"`
	// Fridge is the simulated inventory.
	Fridge []FridgeItem `yaml:"fridge,omitempty"`
	// Calendar is the simulated schedule.
	Calendar []CalendarEvent `yaml:"calendar,omitempty"`
	// LightingScenes are the activity scenes the lighting agent knows.
	LightingScenes []string `yaml:"lighting_scenes,omitempty"`
	// Thermostat holds climate limits.
	Thermostat Thermostat `yaml:"thermostat"`
}

// Default returns the built-in profile: all eight devices with stocked
// simulated data.
func Default() *Profile {
	return &Profile{
		Name:     "home",
		Location: "Hamburg, Germany",
		Devices:  append([]models.DeviceType{}, models.AllDeviceTypes...),
		Fridge: []FridgeItem{
			{Name: "chicken", Quantity: "500g"},
			{Name: "rice", Quantity: "1kg"},
			{Name: "eggs", Quantity: "10"},
			{Name: "milk", Quantity: "1L", ExpiresInDays: 2},
			{Name: "yogurt", Quantity: "2 cups", ExpiresInDays: 1},
			{Name: "vegetables", Quantity: "mixed"},
			{Name: "pasta", Quantity: "500g"},
			{Name: "tomato sauce", Quantity: "1 jar"},
		},
		Calendar: []CalendarEvent{
			{Title: "Team standup", Time: "9:00 AM", Location: "online"},
			{Title: "Lunch", Time: "1:00 PM", Location: "Mama's Burger", With: "Sarah"},
			{Title: "Project review", Time: "3:00 PM", Location: "office"},
		},
		LightingScenes: []string{"work", "sleep", "relaxation", "eco"},
		Thermostat:     Thermostat{MinC: 16, MaxC: 28, DefaultC: 21},
	}
}

// Load reads a profile from a YAML file. Missing optional sections fall back
// to the defaults so a minimal profile stays usable.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read home profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse home profile: %w", err)
	}

	def := Default()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Location == "" {
		p.Location = def.Location
	}
	if p.Devices == nil {
		p.Devices = def.Devices
	}
	if p.Fridge == nil {
		p.Fridge = def.Fridge
	}
	if p.Calendar == nil {
		p.Calendar = def.Calendar
	}
	if p.LightingScenes == nil {
		p.LightingScenes = def.LightingScenes
	}
	if p.Thermostat == (Thermostat{}) {
		p.Thermostat = def.Thermostat
	}

	for _, d := range p.Devices {
		if !d.Valid() {
			return nil, fmt.Errorf("home profile: unknown device type %q", d)
		}
	}

	return &p, nil
}

// Write marshals the profile to a YAML file. Used by `hearth config init` to
// seed an editable profile.
func (p *Profile) Write(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal home profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write home profile: %w", err)
	}
	return nil
}

// HasDevice reports whether the device type is present in this home.
func (p *Profile) HasDevice(d models.DeviceType) bool {
	for _, have := range p.Devices {
		if have == d {
			return true
		}
	}
	return false
}

// IngredientNames returns the fridge item names in inventory order.
func (p *Profile) IngredientNames() []string {
	names := make([]string, 0, len(p.Fridge))
	for _, item := range p.Fridge {
		names = append(names, item.Name)
	}
	return names
}

// InventorySummary renders the fridge contents as one line, e.g.
// "chicken 500g, rice 1kg, eggs 10".
func (p *Profile) InventorySummary() string {
	parts := make([]string, 0, len(p.Fridge))
	for _, item := range p.Fridge {
		if item.Quantity != "" {
			parts = append(parts, item.Name+" "+item.Quantity)
		} else {
			parts = append(parts, item.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// ExpiringItems returns the items expiring within the given number of days.
func (p *Profile) ExpiringItems(withinDays int) []FridgeItem {
	var out []FridgeItem
	for _, item := range p.Fridge {
		if item.ExpiresInDays > 0 && item.ExpiresInDays <= withinDays {
			out = append(out, item)
		}
	}
	return out
}

// ScheduleSummary renders the calendar as one line per event.
func (p *Profile) ScheduleSummary() string {
	if len(p.Calendar) == 0 {
		return "no events scheduled"
	}
	parts := make([]string, 0, len(p.Calendar))
	for _, ev := range p.Calendar {
		s := ev.Time + " " + ev.Title
		if ev.Location != "" {
			s += " at " + ev.Location
		}
		if ev.With != "" {
			s += " with " + ev.With
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// KnowsScene reports whether the lighting agent has the named scene.
func (p *Profile) KnowsScene(name string) bool {
	for _, s := range p.LightingScenes {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
