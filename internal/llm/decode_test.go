package llm

import "testing"

type intentPayload struct {
	Intents []struct {
		Description string `json:"description"`
		DeviceType  string `json:"device_type"`
	} `json:"intents"`
}

func TestDecodeObject_CleanJSON(t *testing.T) {
	raw := `{"intents": [{"description": "set a timer", "device_type": "clock"}]}`

	var got intentPayload
	if err := DecodeObject(raw, &got); err != nil {
		t.Fatalf("DecodeObject() error: %v", err)
	}
	if len(got.Intents) != 1 || got.Intents[0].DeviceType != "clock" {
		t.Errorf("decoded payload = %+v, want one clock intent", got)
	}
}

func TestDecodeObject_StripsSurroundingProse(t *testing.T) {
	raw := "Here is the analysis you asked for:\n```json\n" +
		`{"intents": [{"description": "dim the lights", "device_type": "lighting"}]}` +
		"\n```\nLet me know if you need anything else."

	var got intentPayload
	if err := DecodeObject(raw, &got); err != nil {
		t.Fatalf("DecodeObject() error: %v", err)
	}
	if len(got.Intents) != 1 || got.Intents[0].DeviceType != "lighting" {
		t.Errorf("decoded payload = %+v, want one lighting intent", got)
	}
}

func TestDecodeObject_RepairsMalformedJSON(t *testing.T) {
	// Trailing comma: invalid for encoding/json, recoverable via jsonrepair.
	raw := `{"intents": [{"description": "play music", "device_type": "audio_system"},]}`

	var got intentPayload
	if err := DecodeObject(raw, &got); err != nil {
		t.Fatalf("DecodeObject() error: %v", err)
	}
	if len(got.Intents) != 1 || got.Intents[0].DeviceType != "audio_system" {
		t.Errorf("decoded payload = %+v, want one audio_system intent", got)
	}
}

func TestDecodeObject_NoObject(t *testing.T) {
	var got intentPayload
	if err := DecodeObject("I could not understand the request.", &got); err == nil {
		t.Error("DecodeObject() with no JSON object succeeded, want error")
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(100, 50)
	tracker.Add(200, 75)

	in, out := tracker.Total()
	if in != 300 || out != 125 {
		t.Errorf("Total() = (%d, %d), want (300, 125)", in, out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	in, out = tracker.Total()
	if in != 0 || out != 0 || tracker.Calls() != 0 {
		t.Errorf("after Reset: Total() = (%d, %d), Calls() = %d, want zeros", in, out, tracker.Calls())
	}
}
