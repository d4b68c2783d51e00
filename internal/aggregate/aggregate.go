// Package aggregate composes the single user-facing answer out of the
// per-task results of a finished run.
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

const composePersona = `You are the voice of a smart home assistant. You are given what each device did for the user's request. Compose one short, friendly reply to the user that covers every satisfied part and honestly names anything that failed. Plain text only, no lists unless there are failures, no JSON, no markdown.`

// Aggregator builds the final output for a run.
type Aggregator struct {
	llm llm.Completer
}

// New creates an Aggregator backed by the given completer.
func New(c llm.Completer) *Aggregator {
	return &Aggregator{llm: c}
}

// Aggregate returns the composed final output for the board. The output is
// cached on the blackboard, so calling Aggregate twice over the same
// terminal board returns the identical text without a second model call.
// A model failure falls back to a deterministic per-task summary; there is
// always a final output.
func (a *Aggregator) Aggregate(ctx context.Context, bb *blackboard.Board, status models.RunStatus) string {
	if cached, ok := bb.FinalOutput(); ok {
		return cached
	}

	out := ""
	if text, err := a.llm.SimpleCall(ctx, composePersona, composePrompt(bb, status)); err == nil {
		out = strings.TrimSpace(text)
	}
	if out == "" {
		out = Fallback(bb, status)
	}

	bb.SetFinalOutput(out)
	return out
}

// composePrompt lays out the run for the model: request, status, and each
// task's device, action and result in execution order.
func composePrompt(bb *blackboard.Board, status models.RunStatus) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The user asked: %s\n", bb.Input())
	fmt.Fprintf(&sb, "Run status: %s\n\nWhat each device did:\n", status)

	for _, t := range bb.Tasks() {
		switch t.Status {
		case models.TaskStatusDone:
			fmt.Fprintf(&sb, "- %s (%s): %s\n", t.DeviceType, t.Action, t.Result)
		case models.TaskStatusFailed:
			fmt.Fprintf(&sb, "- %s (%s): FAILED: %s\n", t.DeviceType, t.Action, t.Error)
		default:
			fmt.Fprintf(&sb, "- %s (%s): %s\n", t.DeviceType, t.Action, t.Status)
		}
	}

	sb.WriteString("\nReply to the user now.")
	return sb.String()
}

// Fallback is the deterministic aggregate used when the model call fails:
// one line per task with its result or failure.
func Fallback(bb *blackboard.Board, status models.RunStatus) string {
	var sb strings.Builder

	switch status {
	case models.RunComplete:
		sb.WriteString("All done.")
	case models.RunPartial:
		sb.WriteString("Partly done; some steps failed.")
	default:
		sb.WriteString("I couldn't complete your request.")
	}

	for _, t := range bb.Tasks() {
		switch t.Status {
		case models.TaskStatusDone:
			fmt.Fprintf(&sb, "\n- %s: %s", t.DeviceType, t.Result)
		case models.TaskStatusFailed:
			fmt.Fprintf(&sb, "\n- %s: failed (%s)", t.DeviceType, t.Error)
		}
	}

	return sb.String()
}
