package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/home"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

const clockPersona = `You are the Clock Agent of a smart home.

Your capabilities:
1. Provide the current time
2. Set alarms
3. Set timers and countdowns
4. Start or stop the stopwatch

Simulate reasonable time data where needed. Never ask the user for clarification and never ask another device for help.`

// ClockAgent handles time, alarms, timers and the stopwatch.
type ClockAgent struct {
	base
	now func() time.Time
}

// NewClock creates the clock agent.
func NewClock(c llm.Completer, p *home.Profile) *ClockAgent {
	return &ClockAgent{
		base: base{llm: c, profile: p, kind: models.DeviceClock, persona: clockPersona},
		now:  time.Now,
	}
}

// CollaborationNeed fires when an alarm or timer hangs off a scheduled
// event, which only the calendar knows about.
func (a *ClockAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	if matchWords(lower, "appointment", "appointments", "event", "events", "schedule", "meeting", "meetings") {
		return &Need{
			Target: models.DeviceCalendar,
			Query:  "List the events on the schedule with their start times.",
		}
	}
	return nil
}

// Execute runs one clock task.
func (a *ClockAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer responds to another device. Timer and alarm requests get a
// confirmation, everything else gets the current time.
func (a *ClockAgent) Answer(_ context.Context, query string, _ *blackboard.View) (string, error) {
	lower := strings.ToLower(query)
	switch {
	case matchWords(lower, "timer", "countdown"):
		if phrase := timerPhrase(query); phrase != "" {
			return fmt.Sprintf("Timer set %s.", phrase), nil
		}
		return "Timer set.", nil
	case matchWords(lower, "alarm"):
		return "Alarm set.", nil
	default:
		return fmt.Sprintf("The current time is %s.", a.now().Format("3:04 PM on Monday, January 2")), nil
	}
}

func (a *ClockAgent) state() string {
	return fmt.Sprintf("Current time: %s", a.now().Format("3:04 PM on Monday, January 2"))
}
