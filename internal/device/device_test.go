package device

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/home"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// fakeCompleter returns a canned reply and records the prompts it saw.
type fakeCompleter struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) SimpleCall(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.reply, f.err
}

func TestExecute_DirectCompletion(t *testing.T) {
	fake := &fakeCompleter{reply: "  The lights are on at full brightness.  "}
	a := NewLighting(fake, home.Default())
	task := &models.Task{ID: "task-1", DeviceType: models.DeviceLighting, Action: "turn on the lights"}

	out := a.Execute(context.Background(), task, &blackboard.View{Input: "turn on the lights"})

	if out.Kind != OutcomeDone {
		t.Fatalf("kind = %q, want done (reason %q)", out.Kind, out.Reason)
	}
	if out.Result != "The lights are on at full brightness." {
		t.Errorf("result = %q, want trimmed reply", out.Result)
	}
	if fake.lastSystem != lightingPersona {
		t.Error("persona prompt not used as system prompt")
	}
}

func TestExecute_NeedsCollaborationBeforeAnyModelCall(t *testing.T) {
	fake := &fakeCompleter{reply: "unused"}
	a := NewAudio(fake, home.Default())
	task := &models.Task{ID: "task-1", DeviceType: models.DeviceAudioSystem, Action: "play something relaxing"}

	out := a.Execute(context.Background(), task, &blackboard.View{})

	if out.Kind != OutcomeNeedsCollaboration {
		t.Fatalf("kind = %q, want needs_collaboration", out.Kind)
	}
	if out.Need == nil || out.Need.Target != models.DeviceSearchEngine {
		t.Fatalf("need = %+v, want search_engine target", out.Need)
	}
	if fake.calls != 0 {
		t.Errorf("model called %d times before collaboration, want 0", fake.calls)
	}
}

func TestExecute_CompletesWithAttachedResponse(t *testing.T) {
	fake := &fakeCompleter{reply: "Now playing a lo-fi playlist at low volume."}
	a := NewAudio(fake, home.Default())
	task := &models.Task{ID: "task-1", DeviceType: models.DeviceAudioSystem, Action: "play something relaxing"}
	view := &blackboard.View{
		Input: "play something relaxing",
		Responses: []blackboard.Response{
			{From: models.DeviceSearchEngine, Query: "Recommend music", Response: "Try a lo-fi playlist"},
		},
	}

	out := a.Execute(context.Background(), task, view)

	if out.Kind != OutcomeDone {
		t.Fatalf("kind = %q, want done (reason %q)", out.Kind, out.Reason)
	}
	if fake.calls != 1 {
		t.Fatalf("model calls = %d, want 1", fake.calls)
	}
	if !strings.Contains(fake.lastUser, "Try a lo-fi playlist") {
		t.Error("collaboration response missing from completion prompt")
	}
}

func TestExecute_ModelErrorFailsTask(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("rate limited")}
	a := NewThermostat(fake, home.Default())
	task := &models.Task{ID: "task-1", DeviceType: models.DeviceThermostat, Action: "set 21 degrees"}

	out := a.Execute(context.Background(), task, &blackboard.View{})

	if out.Kind != OutcomeFailed {
		t.Fatalf("kind = %q, want failed", out.Kind)
	}
	if !strings.Contains(out.Reason, "thermostat") {
		t.Errorf("reason = %q, want device name in it", out.Reason)
	}
}

func TestExecute_EmptyReplyFailsTask(t *testing.T) {
	fake := &fakeCompleter{reply: "   \n"}
	a := NewTV(fake, home.Default())
	task := &models.Task{ID: "task-1", DeviceType: models.DeviceTVDisplay, Action: "show a slideshow"}

	out := a.Execute(context.Background(), task, &blackboard.View{})

	if out.Kind != OutcomeFailed {
		t.Fatalf("kind = %q, want failed", out.Kind)
	}
}

func TestExecutionPrompt(t *testing.T) {
	view := &blackboard.View{
		Input: "get the evening going",
		Completed: []blackboard.Completed{
			{Device: models.DeviceLighting, Action: "dim the lights", Result: "Lights dimmed to 30%"},
		},
		Responses: []blackboard.Response{
			{From: models.DeviceClock, Query: "current time", Response: "It is 8 PM"},
		},
	}

	got := executionPrompt("play relaxing music", view, "volume at 40%")

	for _, want := range []string{
		"Task: play relaxing music",
		"volume at 40%",
		"Lights dimmed to 30%",
		"It is 8 PM",
		"get the evening going",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClockAnswer(t *testing.T) {
	a := NewClock(&fakeCompleter{}, home.Default())
	a.now = func() time.Time { return time.Date(2025, 3, 10, 15, 4, 0, 0, time.UTC) }

	tests := []struct {
		query string
		want  string
	}{
		{"Set a timer for 2 hours to end playback.", "Timer set for 2 hours."},
		{"Please set an alarm for the user.", "Alarm set."},
		{"What is the current date and time?", "The current time is 3:04 PM on Monday, March 10."},
	}
	for _, tt := range tests {
		got, err := a.Answer(context.Background(), tt.query, nil)
		if err != nil {
			t.Fatalf("Answer(%q) failed: %v", tt.query, err)
		}
		if got != tt.want {
			t.Errorf("Answer(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestCalendarAnswer(t *testing.T) {
	a := NewCalendar(&fakeCompleter{}, home.Default())

	got, err := a.Answer(context.Background(), "List the events on the schedule with their start times.", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(got, "Team standup") || !strings.Contains(got, "9:00 AM") {
		t.Errorf("answer = %q, want schedule contents", got)
	}
}

func TestFridgeAnswer(t *testing.T) {
	a := NewFridge(&fakeCompleter{}, home.Default())

	got, err := a.Answer(context.Background(), "List the current food inventory with quantities.", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(got, "chicken 500g") {
		t.Errorf("answer = %q, want inventory contents", got)
	}
	if !strings.Contains(got, "Expiring soon") || !strings.Contains(got, "yogurt (1 day)") {
		t.Errorf("answer = %q, want expiry alerts", got)
	}
}

func TestSearchAnswer_UsesModel(t *testing.T) {
	fake := &fakeCompleter{reply: "Sunny, 22°C in Hamburg today."}
	a := NewSearch(fake, home.Default())

	got, err := a.Answer(context.Background(), "What is the current weather in Hamburg, Germany?", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got != "Sunny, 22°C in Hamburg today." {
		t.Errorf("answer = %q", got)
	}
	if !strings.Contains(fake.lastUser, "What is the current weather") {
		t.Error("query missing from answer prompt")
	}

	fake.err = errors.New("timeout")
	if _, err := a.Answer(context.Background(), "anything", nil); err == nil {
		t.Error("expected model error to propagate")
	}
}

func TestTVAnswerEchoesContent(t *testing.T) {
	a := NewTV(&fakeCompleter{}, home.Default())

	got, err := a.Answer(context.Background(), "Display this agenda overview on the screen.", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	want := "Displayed on the screen: Display this agenda overview on the screen"
	if got != want {
		t.Errorf("answer = %q, want %q", got, want)
	}
}

func TestThermostatAnswer(t *testing.T) {
	a := NewThermostat(&fakeCompleter{}, home.Default())

	got, err := a.Answer(context.Background(), "status", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(got, "21°C") || !strings.Contains(got, "16°C") {
		t.Errorf("answer = %q, want default and range", got)
	}
}

func TestBuildRegistry_FullHome(t *testing.T) {
	reg := BuildRegistry(&fakeCompleter{}, home.Default())

	if reg.Count() != len(models.AllDeviceTypes) {
		t.Fatalf("Count = %d, want %d", reg.Count(), len(models.AllDeviceTypes))
	}
	for _, d := range models.AllDeviceTypes {
		a, ok := reg.Get(d)
		if !ok {
			t.Errorf("no agent for %q", d)
			continue
		}
		if a.Type() != d {
			t.Errorf("agent for %q reports type %q", d, a.Type())
		}
	}
	types := reg.Types()
	if len(types) != len(models.AllDeviceTypes) {
		t.Fatalf("Types = %v", types)
	}
	for i, d := range models.AllDeviceTypes {
		if types[i] != d {
			t.Errorf("Types[%d] = %q, want %q (enum order)", i, types[i], d)
		}
	}
}

func TestBuildRegistry_RespectsProfileDevices(t *testing.T) {
	p := home.Default()
	p.Devices = []models.DeviceType{models.DeviceLighting, models.DeviceClock}

	reg := BuildRegistry(&fakeCompleter{}, p)

	if reg.Count() != 2 {
		t.Fatalf("Count = %d, want 2", reg.Count())
	}
	if _, ok := reg.Get(models.DeviceFridge); ok {
		t.Error("fridge agent registered for a home without a fridge")
	}
}
