package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

func TestNew_StartsInInputModeWithoutRequest(t *testing.T) {
	app := New("")

	if app.mode != modeInput {
		t.Errorf("mode = %d, want modeInput", app.mode)
	}
	if cmd := app.Init(); cmd == nil {
		t.Error("Init should return a command to focus the input")
	}
}

func TestNew_StartsRunningWithRequest(t *testing.T) {
	app := New("dim the living room lights")

	if app.mode != modeRunning {
		t.Errorf("mode = %d, want modeRunning", app.mode)
	}
	if cmd := app.Init(); cmd == nil {
		t.Error("Init should return the spinner tick")
	}
}

func TestApp_SubmitStartsRun(t *testing.T) {
	app := New("")

	var received string
	app.SetSubmitHandler(func(input string) {
		received = input
	})

	model, cmd := app.Update(RequestSubmittedMsg{Input: "set a timer for 5 minutes"})

	updated := model.(*App)
	if updated.mode != modeRunning {
		t.Errorf("mode = %d, want modeRunning", updated.mode)
	}
	if received != "set a timer for 5 minutes" {
		t.Errorf("handler received %q, want %q", received, "set a timer for 5 minutes")
	}
	if cmd == nil {
		t.Error("Expected the spinner tick after submission")
	}
}

func TestApp_Update_CtrlC(t *testing.T) {
	app := New("turn everything off")

	msg := tea.KeyMsg{Type: tea.KeyCtrlC}
	model, cmd := app.Update(msg)

	updated := model.(*App)
	if !updated.quitting {
		t.Error("quitting should be true after Ctrl+C")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

func TestApp_QuitKeyIsContextual(t *testing.T) {
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}

	// In input mode "q" is typed text.
	app := New("")
	model, _ := app.Update(q)
	if model.(*App).quitting {
		t.Error("q should not quit while typing a request")
	}

	// Anywhere else it quits.
	running := New("play some music")
	model, cmd := running.Update(q)
	if !model.(*App).quitting {
		t.Error("q should quit while a run is active")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

func TestApp_RunLifecycle(t *testing.T) {
	app := New("play some dinner music")
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	events := []engine.Event{
		{Type: engine.EventRunStarted},
		{Type: engine.EventIntentsExtracted, Message: "1 intent"},
		{Type: engine.EventPlanCreated, Message: "1 task"},
		{Type: engine.EventTaskStarted, TaskID: "task-1", Device: models.DeviceAudioSystem, Message: "play dinner music"},
		{Type: engine.EventTaskDone, TaskID: "task-1", Device: models.DeviceAudioSystem, Message: "Playing a dinner playlist."},
		{Type: engine.EventAggregating},
	}
	for _, e := range events {
		app.Update(EngineEventMsg{Event: e})
	}

	model, _ := app.Update(RunDoneMsg{
		Result: &models.RunResult{
			Status:      models.RunComplete,
			FinalOutput: "Dinner music is playing.",
			Tasks:       []models.TaskOutcome{{TaskID: "task-1", Status: models.TaskStatusDone}},
		},
	})

	updated := model.(*App)
	if updated.mode != modeDone {
		t.Errorf("mode = %d, want modeDone", updated.mode)
	}

	view := updated.View()
	for _, want := range []string{
		"play some dinner music",
		"Audio System",
		"Dinner music is playing.",
		"Run complete",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestApp_StatusLine(t *testing.T) {
	app := New("x")
	app.runErr = errors.New("engine exploded")
	if got := app.statusLine(); !strings.Contains(got, "engine exploded") {
		t.Errorf("statusLine = %q, want the run error", got)
	}

	app = New("x")
	if got := app.statusLine(); !strings.Contains(got, "no result") {
		t.Errorf("statusLine = %q, want the missing-result notice", got)
	}

	app.result = &models.RunResult{Status: models.RunComplete}
	if got := app.statusLine(); !strings.Contains(got, "Run complete") {
		t.Errorf("statusLine = %q, want complete", got)
	}

	app.result = &models.RunResult{
		Status: models.RunPartial,
		Tasks: []models.TaskOutcome{
			{Status: models.TaskStatusDone},
			{Status: models.TaskStatusFailed},
			{Status: models.TaskStatusDone},
		},
	}
	if got := app.statusLine(); !strings.Contains(got, "2 of 3 tasks done") {
		t.Errorf("statusLine = %q, want the partial count", got)
	}

	app.result = &models.RunResult{Status: models.RunFailed}
	if got := app.statusLine(); !strings.Contains(got, "Run failed") {
		t.Errorf("statusLine = %q, want failed", got)
	}
}

func TestInputField_SubmitOnEnter(t *testing.T) {
	field := NewInputField()

	field, _ = field.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("turn on the lights")})
	field, cmd := field.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("Expected a submit command")
	}
	msg, ok := cmd().(RequestSubmittedMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want RequestSubmittedMsg", cmd())
	}
	if msg.Input != "turn on the lights" {
		t.Errorf("Input = %q, want %q", msg.Input, "turn on the lights")
	}
	if field.input.Value() != "" {
		t.Errorf("input should reset after submit, got %q", field.input.Value())
	}
}

func TestInputField_IgnoresEmptySubmit(t *testing.T) {
	field := NewInputField()

	field, _ = field.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("   ")})
	_, cmd := field.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		if _, ok := cmd().(RequestSubmittedMsg); ok {
			t.Error("blank input should not submit")
		}
	}
}

func TestHeader_View(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)

	view := h.View()
	if !strings.Contains(view, "Multi-Agent Smart Home Orchestrator") {
		t.Error("header should include the subtitle")
	}
	if h.Height() != 10 {
		t.Errorf("Height = %d, want 10", h.Height())
	}
}
