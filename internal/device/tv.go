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

const tvPersona = `You are the Display Agent of a smart home.

Your capability: display and show any visual content in a clear format on the screen.

Describe what the screen now shows. Simulate reasonable content where needed. Never ask the user for clarification and never ask another device for help.`

// TVAgent puts content on the screen.
type TVAgent struct {
	base
}

// NewTV creates the display agent.
func NewTV(c llm.Completer, p *home.Profile) *TVAgent {
	return &TVAgent{base{llm: c, profile: p, kind: models.DeviceTVDisplay, persona: tvPersona}}
}

// CollaborationNeed fetches the content to show: schedules from the
// calendar, inventory from the fridge, the time from the clock, and
// everything else worth looking up from the search engine.
func (a *TVAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "schedule", "appointment", "appointments", "calendar", "my events"):
		return &Need{
			Target: models.DeviceCalendar,
			Query:  "List the events on the schedule with their start times.",
		}
	case matchWords(lower, "fridge", "inventory", "groceries", "ingredients", "expiring"):
		return &Need{
			Target: models.DeviceFridge,
			Query:  "List the current food inventory with quantities.",
		}
	case matchWords(lower, "current time", "clock"):
		return &Need{
			Target: models.DeviceClock,
			Query:  "What is the current date and time?",
		}
	case matchWords(lower, "recipe", "recipes", "weather", "forecast", "news"):
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("Find content to display for: %s", action),
		}
	}
	return nil
}

// Execute runs one display task.
func (a *TVAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, "")
}

// Answer confirms that the requested content is on the screen.
func (a *TVAgent) Answer(_ context.Context, query string, _ *blackboard.View) (string, error) {
	return fmt.Sprintf("Displayed on the screen: %s", strings.TrimSuffix(query, ".")), nil
}
