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

const lightingPersona = `You are the Lighting Agent of a smart home.

Your capabilities:
1. Turn lights on and off
2. Set colors and brightness
3. Activate activity scenes matched to what the user is doing

Describe the lighting you set. Simulate reasonable settings where needed. Never ask the user for clarification and never ask another device for help.`

// LightingAgent controls the lights.
type LightingAgent struct {
	base
}

// NewLighting creates the lighting agent.
func NewLighting(c llm.Completer, p *home.Profile) *LightingAgent {
	return &LightingAgent{base{llm: c, profile: p, kind: models.DeviceLighting, persona: lightingPersona}}
}

// CollaborationNeed asks the clock when a lighting change is pinned to a
// time of day, and the search engine for setup ideas.
func (a *LightingAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "sunset", "sunrise") || reAtTime.MatchString(action):
		return &Need{
			Target: models.DeviceClock,
			Query:  "What is the current date and time?",
		}
	case matchWords(lower, "ideas", "recommend", "suggest", "inspiration"):
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("Suggest a lighting setup for: %s", action),
		}
	}
	return nil
}

// Execute runs one lighting task.
func (a *LightingAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer reports the current lighting status.
func (a *LightingAgent) Answer(_ context.Context, _ string, _ *blackboard.View) (string, error) {
	return fmt.Sprintf("The lights are on at 70%% warm white. Available scenes: %s.",
		strings.Join(a.profile.LightingScenes, ", ")), nil
}

func (a *LightingAgent) state() string {
	return "Available scenes: " + strings.Join(a.profile.LightingScenes, ", ")
}
