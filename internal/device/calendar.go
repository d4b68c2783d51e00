package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/home"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

const calendarPersona = `You are the Calendar Agent of a smart home.

Your capabilities:
1. Add appointments and reminders to the schedule
2. Cancel or reschedule appointments
3. Provide information about scheduled events: time, location, who with

Answer from the schedule you are given. Simulate reasonable calendar data where needed. Never ask the user for clarification and never ask another device for help.`

// CalendarAgent manages the schedule.
type CalendarAgent struct {
	base
}

// NewCalendar creates the calendar agent.
func NewCalendar(c llm.Completer, p *home.Profile) *CalendarAgent {
	return &CalendarAgent{base{llm: c, profile: p, kind: models.DeviceCalendar, persona: calendarPersona}}
}

// CollaborationNeed routes display work to the screen, relative-time
// questions to the clock, and weather lookups to the search engine. The
// calendar holds event data but does not know what time it is now.
func (a *CalendarAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "display", "screen", "show me", "show my"):
		return &Need{
			Target: models.DeviceTVDisplay,
			Query:  "Display this agenda overview on the screen.",
		}
	case matchWords(lower, "next", "today", "tomorrow", "upcoming", "soon", "how long"):
		return &Need{
			Target: models.DeviceClock,
			Query:  "What is the current date and time?",
		}
	case matchWords(lower, "weather", "forecast"):
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("What is the weather in %s?", a.profile.Location),
		}
	}
	return nil
}

// Execute runs one calendar task.
func (a *CalendarAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer returns the schedule straight from the home profile.
func (a *CalendarAgent) Answer(_ context.Context, _ string, _ *blackboard.View) (string, error) {
	return fmt.Sprintf("Schedule: %s.", a.profile.ScheduleSummary()), nil
}

func (a *CalendarAgent) state() string {
	return "Schedule: " + a.profile.ScheduleSummary()
}
