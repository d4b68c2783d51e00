package device

import (
	"fmt"
	"strings"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
)

// executionPrompt builds the user prompt for one task completion: the action,
// the device's simulated state, what other devices already did, and any
// collaboration answer this task received.
func executionPrompt(action string, view *blackboard.View, state string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Task: %s\n", action)

	if state != "" {
		fmt.Fprintf(&sb, "\nYour device state:\n%s\n", state)
	}

	if len(view.Completed) > 0 {
		sb.WriteString("\nAlready completed by other devices:\n")
		for _, c := range view.Completed {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Device, c.Result)
		}
	}

	if len(view.Responses) > 0 {
		sb.WriteString("\nCollaboration information received:\n")
		for _, r := range view.Responses {
			fmt.Fprintf(&sb, "- %s answered %q: %s\n", r.From, r.Query, r.Response)
		}
		sb.WriteString("\nComplete the task using this information without asking the user.\n")
	}

	if view.Input != "" {
		fmt.Fprintf(&sb, "\nThe user's original request: %s\n", view.Input)
	}

	sb.WriteString("\nComplete the task now. Simulate reasonable results where real data is needed.\n")
	sb.WriteString("Reply with one short confirmation of what you did, written for the user. No JSON, no markdown.")

	return sb.String()
}
