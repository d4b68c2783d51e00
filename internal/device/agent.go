// Package device implements the eight smart home device agents. Each agent
// owns a persona prompt for producing result text and a fixed rule set for
// deciding when it needs another device's help. Collaboration decisions are
// never parsed out of model output.
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

// Need names the device whose help an agent wants and the question to ask it.
type Need struct {
	Target models.DeviceType
	Query  string
}

// OutcomeKind classifies the result of one agent invocation.
type OutcomeKind string

const (
	OutcomeDone               OutcomeKind = "done"
	OutcomeNeedsCollaboration OutcomeKind = "needs_collaboration"
	OutcomeFailed             OutcomeKind = "failed"
)

// Outcome is what an agent invocation produced: a result, a collaboration
// request, or a failure reason.
type Outcome struct {
	Kind   OutcomeKind
	Result string
	Need   *Need
	Reason string
}

// Done builds a successful outcome carrying the result text.
func Done(result string) Outcome {
	return Outcome{Kind: OutcomeDone, Result: result}
}

// NeedsCollaboration builds an outcome asking the scheduler to consult
// another device before this task can finish.
func NeedsCollaboration(target models.DeviceType, query string) Outcome {
	return Outcome{Kind: OutcomeNeedsCollaboration, Need: &Need{Target: target, Query: query}}
}

// Failed builds a failure outcome. The task fails; the run continues.
func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}

// Agent is one smart home device.
//
// Execute runs a task against the device. CollaborationNeed is a pure
// function over the action text (plus the agent's static profile): given the
// same action it always returns the same need, or nil when the device can
// act alone. Answer is the collaboration responder; it can never request a
// further collaboration.
type Agent interface {
	Type() models.DeviceType
	Execute(ctx context.Context, task *models.Task, view *blackboard.View) Outcome
	Answer(ctx context.Context, query string, view *blackboard.View) (string, error)
	CollaborationNeed(action string) *Need
}

// base carries what every agent shares: the completer, the home profile,
// the device type and the persona system prompt.
type base struct {
	llm     llm.Completer
	profile *home.Profile
	kind    models.DeviceType
	persona string
}

// Type returns the device type.
func (b *base) Type() models.DeviceType { return b.kind }

// run is the common execute path: check for a collaboration need unless a
// response is already attached, then complete via the persona call.
func (b *base) run(ctx context.Context, a Agent, task *models.Task, view *blackboard.View, state string) Outcome {
	if view == nil {
		view = &blackboard.View{}
	}
	if len(view.Responses) == 0 {
		if need := a.CollaborationNeed(task.Action); need != nil {
			return NeedsCollaboration(need.Target, need.Query)
		}
	}
	return b.complete(ctx, task, view, state)
}

// complete produces the result text with one persona-framed model call.
func (b *base) complete(ctx context.Context, task *models.Task, view *blackboard.View, state string) Outcome {
	text, err := b.llm.SimpleCall(ctx, b.persona, executionPrompt(task.Action, view, state))
	if err != nil {
		return Failed(fmt.Sprintf("%s model call: %v", b.kind, err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Failed(fmt.Sprintf("%s returned an empty result", b.kind))
	}
	return Done(text)
}
