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

const thermostatPersona = `You are the Thermostat Agent of a smart home.

Your capabilities:
1. Control heating and cooling
2. Set comfortable climate levels
3. Switch modes: heat, cool, auto, eco

Describe the temperature you set, within the allowed range. Simulate reasonable settings where needed. Never ask the user for clarification and never ask another device for help.`

// ThermostatAgent controls the climate.
type ThermostatAgent struct {
	base
}

// NewThermostat creates the thermostat agent.
func NewThermostat(c llm.Completer, p *home.Profile) *ThermostatAgent {
	return &ThermostatAgent{base{llm: c, profile: p, kind: models.DeviceThermostat, persona: thermostatPersona}}
}

// CollaborationNeed consults the search engine when the outdoor weather
// matters and the clock when the change is tied to a time of day.
func (a *ThermostatAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "weather", "outside", "outdoor", "forecast"):
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("What is the current weather in %s?", a.profile.Location),
		}
	case matchWords(lower, "tonight", "morning", "at night") || reAtTime.MatchString(action):
		return &Need{
			Target: models.DeviceClock,
			Query:  "What is the current date and time?",
		}
	}
	return nil
}

// Execute runs one thermostat task.
func (a *ThermostatAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer reports the current climate settings.
func (a *ThermostatAgent) Answer(_ context.Context, _ string, _ *blackboard.View) (string, error) {
	return a.state(), nil
}

func (a *ThermostatAgent) state() string {
	t := a.profile.Thermostat
	return fmt.Sprintf("The thermostat is set to %d°C, adjustable between %d°C and %d°C.", t.DefaultC, t.MinC, t.MaxC)
}
