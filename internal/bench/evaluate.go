package bench

import (
	"fmt"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// Verdict is the evaluation of one benchmark case.
type Verdict struct {
	CaseID       string
	Category     string
	Status       models.RunStatus
	Passed       bool
	Problems     []string
	Duration     time.Duration
	LogPath      string
	InputTokens  int64
	OutputTokens int64
}

// Evaluate compares a run result against the fixture's expectations and
// returns the list of problems found. An empty list means the case passed.
//
// Required intents demand a done task on each named device; extra devices are
// fine. Acceptable intents bound the devices a run may touch instead, with at
// least one task done. Collaboration is judged on whether any collaboration
// resolved during the run, matching the fixture's is_needed flag.
func Evaluate(c Case, res *models.RunResult) []string {
	var problems []string

	if res.Status == models.RunFailed {
		msg := "run failed"
		if res.Err != "" {
			msg = fmt.Sprintf("run failed: %s", res.Err)
		}
		problems = append(problems, msg)
	}

	done := make(map[models.DeviceType]bool)
	for _, t := range res.Tasks {
		if t.Status == models.TaskStatusDone {
			done[t.DeviceType] = true
		}
	}

	if len(c.RequiredIntents) > 0 {
		for _, spec := range c.RequiredIntents {
			dev := models.DeviceType(spec.DeviceType)
			if !done[dev] {
				problems = append(problems, fmt.Sprintf("required device %s produced no done task", dev))
			}
		}
	} else {
		acceptable := make(map[models.DeviceType]bool, len(c.AcceptableIntents))
		for _, spec := range c.AcceptableIntents {
			acceptable[models.DeviceType(spec.DeviceType)] = true
		}
		if len(done) == 0 {
			problems = append(problems, "no task reached done")
		}
		for _, t := range res.Tasks {
			if !acceptable[t.DeviceType] {
				problems = append(problems, fmt.Sprintf("device %s is outside the acceptable set", t.DeviceType))
			}
		}
	}

	resolved := false
	for _, col := range res.Collaborations {
		if col.Resolved {
			resolved = true
			break
		}
	}
	if c.Collaboration.IsNeeded && !resolved {
		problems = append(problems, "expected a collaboration, none resolved")
	}
	if !c.Collaboration.IsNeeded && len(res.Collaborations) > 0 {
		col := res.Collaborations[0]
		problems = append(problems, fmt.Sprintf("unexpected collaboration (%s -> %s)", col.FromDevice, col.TargetDevice))
	}

	return problems
}
