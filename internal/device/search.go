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

const searchPersona = `You are the Search Engine Agent of a smart home.

Your capabilities:
1. Provide weather information for any time: past, present, future
2. Provide recipes and cooking information
3. Provide general information and knowledge
4. Provide helpful home tips

Rules:
1. Always provide simulated results. Never say information is unavailable.
2. Keep answers concrete: name real-sounding dishes, temperatures, facts.
3. Never ask the user for clarification and never ask another device for help.`

// SearchAgent answers external-information requests.
type SearchAgent struct {
	base
}

// NewSearch creates the search engine agent.
func NewSearch(c llm.Completer, p *home.Profile) *SearchAgent {
	return &SearchAgent{base{llm: c, profile: p, kind: models.DeviceSearchEngine, persona: searchPersona}}
}

// CollaborationNeed asks the fridge before suggesting meals from what is in
// the house, and the calendar when a lookup hangs off scheduled events.
func (a *SearchAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "ingredients", "available food", "in the fridge", "what we have", "on hand", "expiring"):
		return &Need{
			Target: models.DeviceFridge,
			Query:  "List the current food inventory with quantities.",
		}
	case matchWords(lower, "schedule", "appointment", "appointments", "agenda"):
		return &Need{
			Target: models.DeviceCalendar,
			Query:  "List the events on the schedule with their start times.",
		}
	}
	return nil
}

// Execute runs one search task.
func (a *SearchAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer simulates a search result for another device's question.
func (a *SearchAgent) Answer(ctx context.Context, query string, view *blackboard.View) (string, error) {
	if view == nil {
		view = &blackboard.View{}
	}
	prompt := fmt.Sprintf("Another home device asks: %s\n\nAnswer in one or two sentences with a concrete simulated result. No JSON, no markdown.", query)
	if a.profile.Location != "" {
		prompt = fmt.Sprintf("Default location: %s\n\n%s", a.profile.Location, prompt)
	}
	text, err := a.llm.SimpleCall(ctx, a.persona, prompt)
	if err != nil {
		return "", fmt.Errorf("search answer: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("search answer was empty")
	}
	return text, nil
}

func (a *SearchAgent) state() string {
	return "Default location for weather and local queries: " + a.profile.Location
}
