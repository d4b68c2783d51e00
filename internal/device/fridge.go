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

const fridgePersona = `You are the Fridge Agent of a smart home.

Your capabilities:
1. Report the food inventory: items, quantities, expiry
2. Alert about items expiring soon
3. Provide ingredient lists for cooking

You do not know any recipes. Answer from the inventory you are given. Never ask the user for clarification and never ask another device for help.`

// FridgeAgent reports the food inventory.
type FridgeAgent struct {
	base
}

// NewFridge creates the fridge agent.
func NewFridge(c llm.Completer, p *home.Profile) *FridgeAgent {
	return &FridgeAgent{base{llm: c, profile: p, kind: models.DeviceFridge, persona: fridgePersona}}
}

// CollaborationNeed sends recipe work to the search engine, with the actual
// inventory embedded in the question since the fridge knows no dishes.
func (a *FridgeAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	if matchWords(lower, "recipe", "recipes", "cook", "cooking", "dish", "dishes", "meal", "meals", "what can i make") {
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("Suggest dishes that can be made using: %s.", strings.Join(a.profile.IngredientNames(), ", ")),
		}
	}
	return nil
}

// Execute runs one fridge task.
func (a *FridgeAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, a.state())
}

// Answer reports the inventory straight from the home profile.
func (a *FridgeAgent) Answer(_ context.Context, _ string, _ *blackboard.View) (string, error) {
	return a.state(), nil
}

func (a *FridgeAgent) state() string {
	s := fmt.Sprintf("Current inventory: %s.", a.profile.InventorySummary())
	if exp := a.profile.ExpiringItems(2); len(exp) > 0 {
		parts := make([]string, 0, len(exp))
		for _, item := range exp {
			if item.ExpiresInDays == 1 {
				parts = append(parts, fmt.Sprintf("%s (1 day)", item.Name))
			} else {
				parts = append(parts, fmt.Sprintf("%s (%d days)", item.Name, item.ExpiresInDays))
			}
		}
		s += fmt.Sprintf(" Expiring soon: %s.", strings.Join(parts, ", "))
	}
	return s
}
