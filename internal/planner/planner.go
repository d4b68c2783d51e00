// Package planner turns extracted intents into an ordered task queue with
// fixed rules. No model call happens here: device assignment, atmosphere
// expansion and timer companions are all deterministic, so the same intents
// always produce the same plan.
package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// ErrEmptyPlan is recorded by the scheduler when planning yields no tasks.
var ErrEmptyPlan = errors.New("no tasks could be planned from the request")

var (
	reDurationFor = regexp.MustCompile(`(?i)\bfor\s+(?:about\s+)?(?:\d+|a|an|half\s+an?)\s*(?:minutes?|mins?|hours?|hrs?|seconds?|secs?)\b`)
	reDurationTil = regexp.MustCompile(`(?i)\buntil\s+(?:\d{1,2}(?::\d{2})?\s*(?:am|pm)?|tonight|midnight|noon|morning|evening)\b`)
)

// companionStop names what the clock timer ends, per primary device.
var companionStop = map[models.DeviceType]string{
	models.DeviceAudioSystem: "the music",
	models.DeviceTVDisplay:   "the screen",
	models.DeviceLighting:    "the lights",
	models.DeviceThermostat:  "the climate hold",
}

// Planner builds task queues from intents.
type Planner struct{}

// NewPlanner creates a Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan maps each intent to tasks in intent order. Resolution per intent:
// the extractor's device hint when valid, keyword inference otherwise, then
// the atmosphere expansion for mood intents, and finally a pre-failed
// unresolved task so nothing is silently dropped. Plan never returns an
// error; an empty or all-failed plan is the scheduler's problem.
func (p *Planner) Plan(intents []models.Intent) []*models.Task {
	var tasks []*models.Task
	add := func(t *models.Task) {
		t.ID = fmt.Sprintf("task-%d", len(tasks)+1)
		tasks = append(tasks, t)
	}

	expandedThemes := make(map[string]bool)

	for i, in := range intents {
		device := in.DeviceType
		if !device.Valid() {
			inferred, ok := inferDevice(in.Description)
			if !ok {
				if theme, mood := matchMood(in.Description); mood {
					// Two intents carrying the same theme ("I'm tired",
					// "need to relax") expand once.
					if expandedThemes[theme] {
						continue
					}
					expandedThemes[theme] = true
					add(&models.Task{
						DeviceType:  models.DeviceLighting,
						Action:      "adjust the lighting for " + theme,
						Status:      models.TaskStatusPending,
						IntentIndex: i,
					})
					add(&models.Task{
						DeviceType:  models.DeviceThermostat,
						Action:      "set a comfortable temperature for " + theme,
						Status:      models.TaskStatusPending,
						IntentIndex: i,
					})
					add(&models.Task{
						DeviceType:  models.DeviceAudioSystem,
						Action:      "play music that fits " + theme,
						Status:      models.TaskStatusPending,
						IntentIndex: i,
					})
					continue
				}
				add(&models.Task{
					DeviceType:  models.DeviceUnresolved,
					Action:      in.Description,
					Status:      models.TaskStatusFailed,
					Error:       "no device matches this intent",
					IntentIndex: i,
				})
				continue
			}
			device = inferred
		}

		add(&models.Task{
			DeviceType:  device,
			Action:      in.Description,
			Status:      models.TaskStatusPending,
			IntentIndex: i,
		})

		if stop, timed := companionStop[device]; timed {
			if phrase, kind := durationPhrase(in); kind != "" {
				add(&models.Task{
					DeviceType:  models.DeviceClock,
					Action:      fmt.Sprintf("set a %s %s to stop %s", kind, phrase, stop),
					Status:      models.TaskStatusPending,
					IntentIndex: i,
				})
			}
		}
	}

	return tasks
}

// durationPhrase finds a bounded-time phrase on the intent: the extractor's
// duration modifier first, then the description itself. kind is "timer" for
// "for 30 minutes" style phrases, "reminder" for "until 10pm", empty when
// the intent carries no duration.
func durationPhrase(in models.Intent) (phrase, kind string) {
	if mod, ok := in.Modifiers["duration"]; ok && strings.TrimSpace(mod) != "" {
		mod = strings.TrimSpace(mod)
		if strings.HasPrefix(strings.ToLower(mod), "until") {
			return mod, "reminder"
		}
		return mod, "timer"
	}
	if m := reDurationFor.FindString(in.Description); m != "" {
		return m, "timer"
	}
	if m := reDurationTil.FindString(in.Description); m != "" {
		return m, "reminder"
	}
	return "", ""
}
