package models

import "testing"

func TestDeviceType_Valid(t *testing.T) {
	for _, d := range AllDeviceTypes {
		if !d.Valid() {
			t.Errorf("DeviceType(%q).Valid() = false, want true", d)
		}
	}

	invalid := []DeviceType{"", "unresolved", "toaster", "Clock", "audio system"}
	for _, d := range invalid {
		if d.Valid() {
			t.Errorf("DeviceType(%q).Valid() = true, want false", d)
		}
	}
}

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in     string
		want   DeviceType
		wantOK bool
	}{
		{"clock", DeviceClock, true},
		{"audio_system", DeviceAudioSystem, true},
		{"search_engine", DeviceSearchEngine, true},
		{"unresolved", "", false},
		{"robot_vacuum", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDeviceType(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseDeviceType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDeviceType_Display(t *testing.T) {
	tests := []struct {
		in   DeviceType
		want string
	}{
		{DeviceClock, "Clock"},
		{DeviceSearchEngine, "Search Engine"},
		{DeviceTVDisplay, "TV Display"},
		{DeviceAudioSystem, "Audio System"},
		{DeviceUnresolved, "Unresolved"},
		{DeviceType("robot_vacuum"), "robot_vacuum"},
	}
	for _, tt := range tests {
		if got := tt.in.Display(); got != tt.want {
			t.Errorf("DeviceType(%q).Display() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllDeviceTypes_CountAndOrder(t *testing.T) {
	if len(AllDeviceTypes) != 8 {
		t.Fatalf("AllDeviceTypes has %d entries, want 8", len(AllDeviceTypes))
	}
	// Lighting precedes audio_system: the tie-break order for ambiguous
	// intents depends on it.
	lightingIdx, audioIdx := -1, -1
	for i, d := range AllDeviceTypes {
		switch d {
		case DeviceLighting:
			lightingIdx = i
		case DeviceAudioSystem:
			audioIdx = i
		}
	}
	if lightingIdx < 0 || audioIdx < 0 || lightingIdx > audioIdx {
		t.Errorf("lighting (index %d) must precede audio_system (index %d)", lightingIdx, audioIdx)
	}
}
