package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

func TestTimeline_ApplyEventSequence(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(100)

	events := []engine.Event{
		{Type: engine.EventRunStarted},
		{Type: engine.EventIntentsExtracted, Message: "2 intents"},
		{Type: engine.EventPlanCreated, Message: "2 tasks"},
		{Type: engine.EventTaskStarted, TaskID: "task-1", Device: models.DeviceAudioSystem, Message: "play dinner music"},
		{Type: engine.EventCollaborationRequested, TaskID: "task-1", Device: models.DeviceAudioSystem, Target: models.DeviceFridge, Message: "What is being cooked tonight?"},
		{Type: engine.EventCollaborationResolved, TaskID: "task-1", Device: models.DeviceFridge, Message: "Pasta with tomato sauce."},
		{Type: engine.EventTaskDone, TaskID: "task-1", Device: models.DeviceAudioSystem, Message: "Playing an Italian dinner playlist."},
		{Type: engine.EventTaskStarted, TaskID: "task-2", Device: models.DeviceLighting, Message: "dim the lights"},
		{Type: engine.EventTaskFailed, TaskID: "task-2", Device: models.DeviceLighting, Message: "device did not respond"},
		{Type: engine.EventAggregating},
	}
	for _, e := range events {
		tl.Apply(e)
	}

	if len(tl.tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tl.tasks))
	}

	first := tl.tasks[0]
	if first.status != models.TaskStatusDone {
		t.Errorf("task-1 status = %s, want %s", first.status, models.TaskStatusDone)
	}
	if first.result != "Playing an Italian dinner playlist." {
		t.Errorf("task-1 result = %q", first.result)
	}
	if len(first.collabs) != 1 {
		t.Fatalf("task-1 collabs = %d, want 1", len(first.collabs))
	}
	if first.collabs[0].target != models.DeviceFridge {
		t.Errorf("collab target = %s, want %s", first.collabs[0].target, models.DeviceFridge)
	}
	if first.collabs[0].response != "Pasta with tomato sauce." {
		t.Errorf("collab response = %q", first.collabs[0].response)
	}

	second := tl.tasks[1]
	if second.status != models.TaskStatusFailed {
		t.Errorf("task-2 status = %s, want %s", second.status, models.TaskStatusFailed)
	}
	if second.errText != "device did not respond" {
		t.Errorf("task-2 errText = %q", second.errText)
	}

	view := tl.View()
	for _, want := range []string{
		"intent_analysis",
		"task_planner",
		"Audio System",
		"play dinner music",
		"asks Fridge: What is being cooked tonight?",
		"Pasta with tomato sauce.",
		"Lighting",
		"device did not respond",
		"aggregator",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestTimeline_CollaborationFailed(t *testing.T) {
	tl := NewTimeline()
	tl.Apply(engine.Event{Type: engine.EventTaskStarted, TaskID: "task-1", Device: models.DeviceClock, Message: "set a timer"})
	tl.Apply(engine.Event{Type: engine.EventCollaborationRequested, TaskID: "task-1", Device: models.DeviceClock, Target: models.DeviceCalendar, Message: "When is the meeting?"})
	tl.Apply(engine.Event{Type: engine.EventCollaborationFailed, TaskID: "task-1", Err: errors.New("no response from calendar")})

	row := tl.tasks[0]
	if len(row.collabs) != 1 {
		t.Fatalf("collabs = %d, want 1", len(row.collabs))
	}
	if !row.collabs[0].failed {
		t.Error("collab should be marked failed")
	}
	if row.collabs[0].errText != "no response from calendar" {
		t.Errorf("collab errText = %q", row.collabs[0].errText)
	}
}

func TestTimeline_FailureBeforeStartCreatesRow(t *testing.T) {
	// Pre-failed tasks emit task_failed without a preceding task_started.
	tl := NewTimeline()
	tl.Apply(engine.Event{Type: engine.EventTaskFailed, TaskID: "task-3", Device: models.DeviceThermostat, Message: "prerequisite failed"})

	if len(tl.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tl.tasks))
	}
	if tl.tasks[0].status != models.TaskStatusFailed {
		t.Errorf("status = %s, want %s", tl.tasks[0].status, models.TaskStatusFailed)
	}
	if tl.tasks[0].device != models.DeviceThermostat {
		t.Errorf("device = %s, want %s", tl.tasks[0].device, models.DeviceThermostat)
	}
}

func TestTimeline_TaskCounts(t *testing.T) {
	tl := NewTimeline()
	tl.Apply(engine.Event{Type: engine.EventTaskStarted, TaskID: "task-1", Device: models.DeviceClock, Message: "a"})
	tl.Apply(engine.Event{Type: engine.EventTaskDone, TaskID: "task-1", Device: models.DeviceClock, Message: "done"})
	tl.Apply(engine.Event{Type: engine.EventTaskStarted, TaskID: "task-2", Device: models.DeviceLighting, Message: "b"})
	tl.Apply(engine.Event{Type: engine.EventTaskFailed, TaskID: "task-2", Device: models.DeviceLighting, Message: "boom"})
	tl.Apply(engine.Event{Type: engine.EventTaskStarted, TaskID: "task-3", Device: models.DeviceFridge, Message: "c"})

	done, failed, active := tl.TaskCounts()
	if done != 1 || failed != 1 || active != 1 {
		t.Errorf("TaskCounts = (%d, %d, %d), want (1, 1, 1)", done, failed, active)
	}
}

func TestTimeline_ViewBeforeStart(t *testing.T) {
	tl := NewTimeline()
	if view := tl.View(); view != "" {
		t.Errorf("View before any event = %q, want empty", view)
	}
}

func TestTimeline_FinalOutputRendered(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(100)
	tl.Apply(engine.Event{Type: engine.EventRunStarted})
	tl.Apply(engine.Event{Type: engine.EventIntentsExtracted, Message: "1 intent"})
	tl.Apply(engine.Event{Type: engine.EventAggregating})
	tl.SetResult(&models.RunResult{
		Status:      models.RunComplete,
		FinalOutput: "Your timer is set for 20 minutes.",
		StartedAt:   time.Now(),
		FinishedAt:  time.Now(),
	})

	view := tl.View()
	if !strings.Contains(view, "Your timer is set for 20 minutes.") {
		t.Errorf("View missing final output:\n%s", view)
	}
	if !strings.Contains(view, "response composed") {
		t.Errorf("View missing aggregator completion:\n%s", view)
	}
}

func TestTimeline_FatalRunMarksUnfinishedStages(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(100)
	tl.Apply(engine.Event{Type: engine.EventRunStarted})
	tl.SetResult(&models.RunResult{
		Status:      models.RunFailed,
		Err:         "intent extraction failed",
		FinalOutput: "I could not process that request.",
	})

	if !tl.fatal {
		t.Error("fatal should be set when the result carries an error")
	}
	if view := tl.View(); !strings.Contains(view, iconFailed) {
		t.Errorf("View should show a failed stage icon:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 40, "short"},
		{"a string that is definitely longer than the limit", 20, "a string that is ..."},
		{"tiny limit still keeps a readable prefix", 3, "tiny li..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo\nthree"); got != "one" {
		t.Errorf("firstLine = %q, want %q", got, "one")
	}
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q, want %q", got, "single")
	}
}
