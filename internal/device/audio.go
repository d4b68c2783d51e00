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

const audioPersona = `You are the Audio System Agent of a smart home.

Your capabilities:
1. Play music and audio content
2. Control the volume

You can play specific songs, artists or albums directly. Name what you play. Simulate reasonable playback where needed. Never ask the user for clarification and never ask another device for help.`

// AudioAgent plays music and controls volume.
type AudioAgent struct {
	base
}

// NewAudio creates the audio system agent.
func NewAudio(c llm.Completer, p *home.Profile) *AudioAgent {
	return &AudioAgent{base{llm: c, profile: p, kind: models.DeviceAudioSystem, persona: audioPersona}}
}

// CollaborationNeed covers the three things the audio system cannot do
// alone: matching music to food (ask the fridge what is in the house),
// picking music for vague requests (ask the search engine), and bounded
// playback (ask the clock for a timer).
func (a *AudioAgent) CollaborationNeed(action string) *Need {
	lower := strings.ToLower(action)
	switch {
	case matchWords(lower, "dinner", "food", "fridge", "kitchen", "cooking", "meal", "eating", "ingredients"):
		return &Need{
			Target: models.DeviceFridge,
			Query:  "What ingredients are currently available?",
		}
	case matchWords(lower, "something", "recommend", "suggest", "any music", "what should"):
		return &Need{
			Target: models.DeviceSearchEngine,
			Query:  fmt.Sprintf("Recommend music to play for this request: %s", action),
		}
	}
	if phrase := timerPhrase(action); phrase != "" {
		return &Need{
			Target: models.DeviceClock,
			Query:  fmt.Sprintf("Set a timer %s to end playback.", phrase),
		}
	}
	return nil
}

// Execute runs one audio task.
func (a *AudioAgent) Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome {
	return a.run(ctx, a, task, view, "")
}

// Answer reports the playback status.
func (a *AudioAgent) Answer(_ context.Context, _ string, _ *blackboard.View) (string, error) {
	return "The audio system is ready, volume at 40%.", nil
}
