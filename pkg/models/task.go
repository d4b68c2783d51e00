package models

import "fmt"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task's agent is executing it.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusAwaitingCollaboration indicates the task is suspended on an
	// unresolved collaboration request.
	TaskStatusAwaitingCollaboration TaskStatus = "awaiting_collaboration"
	// TaskStatusDone indicates the task completed successfully.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusAwaitingCollaboration,
		TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true once the status can no longer change.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusDone || s == TaskStatusFailed
}

// statusTransitions lists the allowed forward moves for each status.
// A status never regresses: done and failed are absorbing.
var statusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:               {TaskStatusInProgress, TaskStatusFailed},
	TaskStatusInProgress:            {TaskStatusAwaitingCollaboration, TaskStatusDone, TaskStatusFailed},
	TaskStatusAwaitingCollaboration: {TaskStatusInProgress, TaskStatusFailed},
	TaskStatusDone:                  {},
	TaskStatusFailed:                {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Task is one schedulable unit of device work derived from an intent.
type Task struct {
	// ID is unique within a run ("task-1", "task-2", ...).
	ID string `json:"id"`
	// DeviceType is the device this task is assigned to. DeviceUnresolved
	// marks a task the planner could not map; it is created already failed.
	DeviceType DeviceType `json:"device_type"`
	// Action describes what the device should do, with the user's
	// qualifiers preserved.
	Action string `json:"action"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Result holds the agent's result text once the task is done.
	Result string `json:"result,omitempty"`
	// Error contains the failure reason if the task failed.
	Error string `json:"error,omitempty"`
	// IntentIndex points back at the intent this task was expanded from.
	IntentIndex int `json:"intent_index"`
}

// SetStatus advances the task's status, rejecting regressions and moves out
// of a terminal state.
func (t *Task) SetStatus(next TaskStatus) error {
	if !next.Valid() {
		return fmt.Errorf("unknown task status %q", next)
	}
	if !t.Status.CanTransition(next) {
		return fmt.Errorf("task %s: invalid status transition %s -> %s", t.ID, t.Status, next)
	}
	t.Status = next
	return nil
}
