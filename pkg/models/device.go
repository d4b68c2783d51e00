package models

// DeviceType identifies one of the simulated household device categories.
type DeviceType string

const (
	// DeviceClock provides time, alarms, timers, and a stopwatch.
	DeviceClock DeviceType = "clock"
	// DeviceCalendar manages appointments, reminders, and schedule queries.
	DeviceCalendar DeviceType = "calendar"
	// DeviceSearchEngine answers information queries (weather, recipes, general knowledge).
	DeviceSearchEngine DeviceType = "search_engine"
	// DeviceTVDisplay shows visual content on the screen.
	DeviceTVDisplay DeviceType = "tv_display"
	// DeviceFridge reports food inventory, quantities, and expiry dates.
	DeviceFridge DeviceType = "fridge"
	// DeviceLighting controls lights: power, color, brightness, and scenes.
	DeviceLighting DeviceType = "lighting"
	// DeviceThermostat controls heating, cooling, and climate modes.
	DeviceThermostat DeviceType = "thermostat"
	// DeviceAudioSystem plays music and controls volume.
	DeviceAudioSystem DeviceType = "audio_system"

	// DeviceUnresolved marks a task whose device could not be determined.
	// It is never backed by an agent; such tasks fail at planning time.
	DeviceUnresolved DeviceType = "unresolved"
)

// AllDeviceTypes lists the eight real device types in their canonical order.
// The order doubles as the tie-break when an intent is ambiguous between
// two devices: the earlier entry wins.
var AllDeviceTypes = []DeviceType{
	DeviceClock,
	DeviceCalendar,
	DeviceSearchEngine,
	DeviceTVDisplay,
	DeviceFridge,
	DeviceLighting,
	DeviceThermostat,
	DeviceAudioSystem,
}

// Valid returns true if d is one of the eight real device types.
// DeviceUnresolved is not valid: it marks a planning failure, not a device.
func (d DeviceType) Valid() bool {
	switch d {
	case DeviceClock, DeviceCalendar, DeviceSearchEngine, DeviceTVDisplay,
		DeviceFridge, DeviceLighting, DeviceThermostat, DeviceAudioSystem:
		return true
	default:
		return false
	}
}

// ParseDeviceType normalizes a raw string to a DeviceType.
// Returns false when the string names no known device.
func ParseDeviceType(s string) (DeviceType, bool) {
	d := DeviceType(s)
	if d.Valid() {
		return d, true
	}
	return "", false
}

// Display returns the human-readable device name used in logs and the TUI.
func (d DeviceType) Display() string {
	switch d {
	case DeviceClock:
		return "Clock"
	case DeviceCalendar:
		return "Calendar"
	case DeviceSearchEngine:
		return "Search Engine"
	case DeviceTVDisplay:
		return "TV Display"
	case DeviceFridge:
		return "Fridge"
	case DeviceLighting:
		return "Lighting"
	case DeviceThermostat:
		return "Thermostat"
	case DeviceAudioSystem:
		return "Audio System"
	case DeviceUnresolved:
		return "Unresolved"
	default:
		return string(d)
	}
}
