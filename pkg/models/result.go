package models

import "time"

// RunStatus classifies how a run terminated.
type RunStatus string

const (
	// RunComplete means every task reached done and no collaboration failed.
	RunComplete RunStatus = "complete"
	// RunPartial means at least one task reached done but some task or
	// collaboration failed.
	RunPartial RunStatus = "partial"
	// RunFailed means no task reached done.
	RunFailed RunStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s RunStatus) Valid() bool {
	switch s {
	case RunComplete, RunPartial, RunFailed:
		return true
	default:
		return false
	}
}

// TaskOutcome is the per-task record exposed to callers, in planner order.
// Benchmark evaluation compares DeviceType and Action against the fixture's
// required or acceptable intents.
type TaskOutcome struct {
	// TaskID is the task's run-unique ID.
	TaskID string `json:"task_id"`
	// DeviceType is the device the task activated.
	DeviceType DeviceType `json:"device_type"`
	// Action is the action the device performed (or was asked to).
	Action string `json:"action"`
	// Status is the task's terminal status.
	Status TaskStatus `json:"status"`
	// Result is the device's result text for done tasks.
	Result string `json:"result,omitempty"`
	// Error is the failure reason for failed tasks.
	Error string `json:"error,omitempty"`
}

// CollaborationOutcome records one collaboration attempt, resolved or not.
type CollaborationOutcome struct {
	// FromTask is the requesting task's ID.
	FromTask string `json:"from_task"`
	// FromDevice is the requesting device type.
	FromDevice DeviceType `json:"from_device"`
	// TargetDevice is the device that was asked.
	TargetDevice DeviceType `json:"to_device_type"`
	// Query is what was asked.
	Query string `json:"query"`
	// Response is the answer, when resolved.
	Response string `json:"response,omitempty"`
	// Resolved is true if the broker produced a response.
	Resolved bool `json:"resolved"`
	// Error is the broker failure reason, when not resolved.
	Error string `json:"error,omitempty"`
}

// RunResult is the terminal report for one run. It is created once by the
// aggregator and never mutated.
type RunResult struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// Input is the raw user request that started the run.
	Input string `json:"input"`
	// Status classifies the termination: complete, partial, or failed.
	Status RunStatus `json:"status"`
	// FinalOutput is the single user-facing response text.
	FinalOutput string `json:"final_output"`
	// Complexity is the reporting-only complexity score.
	Complexity int `json:"complexity"`
	// Category is the reporting label derived from Complexity.
	Category Category `json:"category"`
	// Tasks holds per-task outcomes in planner order.
	Tasks []TaskOutcome `json:"tasks"`
	// Collaborations lists every collaboration attempted during the run.
	Collaborations []CollaborationOutcome `json:"collaborations,omitempty"`
	// Err carries the fatal error report when Status is failed before
	// execution (intent parse failure, empty plan).
	Err string `json:"error,omitempty"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run terminated.
	FinishedAt time.Time `json:"finished_at"`
	// InputTokens is the total prompt tokens spent on the run.
	InputTokens int64 `json:"input_tokens,omitempty"`
	// OutputTokens is the total completion tokens spent on the run.
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

// DoneCount returns how many tasks reached done.
func (r *RunResult) DoneCount() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Status == TaskStatusDone {
			n++
		}
	}
	return n
}

// FailedCount returns how many tasks failed.
func (r *RunResult) FailedCount() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Status == TaskStatusFailed {
			n++
		}
	}
	return n
}

// Duration returns the wall-clock run time.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
