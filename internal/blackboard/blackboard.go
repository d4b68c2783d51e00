// Package blackboard holds the shared state of one orchestration run: the
// user input, extracted intents, planned tasks, collaboration requests, the
// task history and the final output. The scheduler goroutine is the only
// writer; agents see read-only views.
package blackboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// ErrOutstandingRequest is returned when a task tries to open a second
// collaboration request while one is still unresolved.
var ErrOutstandingRequest = errors.New("task already has an unresolved collaboration request")

// HistoryKind classifies a task history entry.
type HistoryKind string

const (
	HistoryCollaborationRequest  HistoryKind = "collaboration_request"
	HistoryCollaborationResponse HistoryKind = "collaboration_response"
	HistoryTaskCompletion        HistoryKind = "task_completion"
)

// HistoryEntry is one step in the run trace.
type HistoryEntry struct {
	Device models.DeviceType `json:"device"`
	Kind   HistoryKind       `json:"type"`
	Action string            `json:"action_taken"`
	Result string            `json:"result"`
	At     time.Time         `json:"at"`
}

// Completed is a finished task as seen by later agents.
type Completed struct {
	Device models.DeviceType
	Action string
	Result string
}

// Response is a resolved collaboration answer as seen by the requesting agent.
type Response struct {
	From     models.DeviceType
	Query    string
	Response string
}

// View is the read-only slice of the blackboard an agent receives: the user
// input, every completed task so far, and the collaboration responses that
// belong to the agent's own task.
type View struct {
	Input     string
	Completed []Completed
	Responses []Response
}

// Board is the blackboard for a single run.
type Board struct {
	input      string
	intents    []models.Intent
	complexity int
	category   models.Category

	tasks   []*models.Task
	byID    map[string]*models.Task
	collabs []*models.CollaborationRequest
	history []HistoryEntry

	finalOutput string
	finalSet    bool

	now func() time.Time
}

// New creates a blackboard seeded with the user input.
func New(input string) *Board {
	return &Board{
		input: input,
		byID:  make(map[string]*models.Task),
		now:   time.Now,
	}
}

// Input returns the raw user request.
func (b *Board) Input() string { return b.input }

// SetIntents records the extraction result.
func (b *Board) SetIntents(intents []models.Intent, complexity int, category models.Category) {
	b.intents = intents
	b.complexity = complexity
	b.category = category
}

// Intents returns the extracted intents.
func (b *Board) Intents() []models.Intent { return b.intents }

// Complexity returns the complexity score and its category.
func (b *Board) Complexity() (int, models.Category) { return b.complexity, b.category }

// SetPlan installs the planned task sequence. Installing a second plan on the
// same board is a programmer error.
func (b *Board) SetPlan(tasks []*models.Task) error {
	if len(b.tasks) > 0 {
		return errors.New("plan already set")
	}
	for _, t := range tasks {
		if _, dup := b.byID[t.ID]; dup {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		b.tasks = append(b.tasks, t)
		b.byID[t.ID] = t
	}
	return nil
}

// Tasks returns the planned tasks in execution order.
func (b *Board) Tasks() []*models.Task { return b.tasks }

// Task looks a task up by id.
func (b *Board) Task(id string) (*models.Task, bool) {
	t, ok := b.byID[id]
	return t, ok
}

// RecordCompletion stores the result on the task and appends a
// task_completion history entry.
func (b *Board) RecordCompletion(taskID, result string) error {
	t, ok := b.byID[taskID]
	if !ok {
		return fmt.Errorf("unknown task %q", taskID)
	}
	t.Result = result
	b.history = append(b.history, HistoryEntry{
		Device: t.DeviceType,
		Kind:   HistoryTaskCompletion,
		Action: t.Action,
		Result: result,
		At:     b.now(),
	})
	return nil
}

// RecordFailure stores the error on the task without a completion entry.
func (b *Board) RecordFailure(taskID, errMsg string) error {
	t, ok := b.byID[taskID]
	if !ok {
		return fmt.Errorf("unknown task %q", taskID)
	}
	t.Error = errMsg
	return nil
}

// OpenCollaboration registers a new collaboration request. A task may hold
// at most one unresolved request at a time.
func (b *Board) OpenCollaboration(req *models.CollaborationRequest) error {
	if _, ok := b.byID[req.FromTask]; !ok {
		return fmt.Errorf("unknown task %q", req.FromTask)
	}
	for _, c := range b.collabs {
		if c.FromTask == req.FromTask && !c.Resolved {
			return ErrOutstandingRequest
		}
	}
	b.collabs = append(b.collabs, req)
	b.history = append(b.history, HistoryEntry{
		Device: req.FromDevice,
		Kind:   HistoryCollaborationRequest,
		Action: fmt.Sprintf("Requested collaboration from %s", req.TargetDevice),
		Result: req.Query,
		At:     b.now(),
	})
	return nil
}

// ResolveCollaboration records the target device's answer on the request.
func (b *Board) ResolveCollaboration(req *models.CollaborationRequest, response string) {
	req.Resolved = true
	req.Response = response
	b.history = append(b.history, HistoryEntry{
		Device: req.TargetDevice,
		Kind:   HistoryCollaborationResponse,
		Action: fmt.Sprintf("Responded to %s", req.FromDevice),
		Result: response,
		At:     b.now(),
	})
}

// Collaborations returns every collaboration request opened so far.
func (b *Board) Collaborations() []*models.CollaborationRequest { return b.collabs }

// History returns the full run trace in order.
func (b *Board) History() []HistoryEntry { return b.history }

// ViewFor builds the read-only view an agent gets while executing the given
// task: completed tasks plus the resolved responses addressed to that task.
func (b *Board) ViewFor(taskID string) *View {
	v := &View{Input: b.input}
	for _, t := range b.tasks {
		if t.Status == models.TaskStatusDone {
			v.Completed = append(v.Completed, Completed{
				Device: t.DeviceType,
				Action: t.Action,
				Result: t.Result,
			})
		}
	}
	for _, c := range b.collabs {
		if c.FromTask == taskID && c.Resolved {
			v.Responses = append(v.Responses, Response{
				From:     c.TargetDevice,
				Query:    c.Query,
				Response: c.Response,
			})
		}
	}
	return v
}

// SetFinalOutput caches the aggregated answer. The second and later calls
// are ignored so aggregation stays idempotent.
func (b *Board) SetFinalOutput(s string) {
	if b.finalSet {
		return
	}
	b.finalOutput = s
	b.finalSet = true
}

// FinalOutput returns the cached aggregate, if one was stored.
func (b *Board) FinalOutput() (string, bool) {
	return b.finalOutput, b.finalSet
}

// TaskOutcomes snapshots the tasks for the run report.
func (b *Board) TaskOutcomes() []models.TaskOutcome {
	out := make([]models.TaskOutcome, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, models.TaskOutcome{
			TaskID:     t.ID,
			DeviceType: t.DeviceType,
			Action:     t.Action,
			Status:     t.Status,
			Result:     t.Result,
			Error:      t.Error,
		})
	}
	return out
}

// CollaborationOutcomes snapshots the collaborations for the run report.
func (b *Board) CollaborationOutcomes() []models.CollaborationOutcome {
	out := make([]models.CollaborationOutcome, 0, len(b.collabs))
	for _, c := range b.collabs {
		out = append(out, models.CollaborationOutcome{
			FromTask:     c.FromTask,
			FromDevice:   c.FromDevice,
			TargetDevice: c.TargetDevice,
			Query:        c.Query,
			Response:     c.Response,
			Resolved:     c.Resolved,
		})
	}
	return out
}
