// Package broker resolves collaboration requests between device agents.
// Resolution is synchronous and single-hop: the target must be able to
// answer alone, and a query that would need a further hop is refused.
package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/device"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

var (
	// ErrUnknownTargetDevice means the requested target is not one of the
	// eight device types.
	ErrUnknownTargetDevice = errors.New("unknown target device type")
	// ErrNoSuchCollaborator means the target type is valid but no agent for
	// it is live in this run.
	ErrNoSuchCollaborator = errors.New("no live agent for target device")
	// ErrCollaborationCycle means answering the query would itself require a
	// collaboration, exceeding the single-hop depth.
	ErrCollaborationCycle = errors.New("collaboration would require a second hop")
)

// Broker answers collaboration requests against the live agent registry.
type Broker struct {
	registry *device.Registry
}

// New creates a Broker over the given registry.
func New(reg *device.Registry) *Broker {
	return &Broker{registry: reg}
}

// Resolve answers the request in place: it validates the target, enforces
// the single-hop rule, asks the target, and records the response on the
// blackboard. On error the request stays unresolved and the caller fails
// the originating task; the run continues.
func (b *Broker) Resolve(ctx context.Context, req *models.CollaborationRequest, bb *blackboard.Board) error {
	if !req.TargetDevice.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTargetDevice, req.TargetDevice)
	}

	target, ok := b.registry.Get(req.TargetDevice)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchCollaborator, req.TargetDevice)
	}

	if need := target.CollaborationNeed(req.Query); need != nil {
		return fmt.Errorf("%w: %s would ask %s", ErrCollaborationCycle, req.TargetDevice, need.Target)
	}

	answer, err := target.Answer(ctx, req.Query, bb.ViewFor(req.FromTask))
	if err != nil {
		return fmt.Errorf("collaborator %s: %w", req.TargetDevice, err)
	}

	bb.ResolveCollaboration(req, answer)
	return nil
}
