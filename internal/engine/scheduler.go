package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/aggregate"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/broker"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/device"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/intent"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/planner"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// Phase is the scheduler's coarse lifecycle state.
type Phase string

const (
	// PhaseIdle means Run has not been called yet.
	PhaseIdle Phase = "idle"
	// PhasePlanning covers intent extraction and task planning.
	PhasePlanning Phase = "planning"
	// PhaseExecuting covers the sequential task loop.
	PhaseExecuting Phase = "executing"
	// PhaseAggregating covers final output composition.
	PhaseAggregating Phase = "aggregating"
	// PhaseTerminated means the run reached a terminal state.
	PhaseTerminated Phase = "terminated"
)

// RunStore persists finished runs. Implementations must tolerate being
// called with a failed run.
type RunStore interface {
	SaveRun(ctx context.Context, res *models.RunResult, history []blackboard.HistoryEntry) error
}

// Config contains configuration options for the Scheduler.
type Config struct {
	// Extractor turns the raw request into intents.
	Extractor *intent.Extractor
	// Planner expands intents into the task queue.
	Planner *planner.Planner
	// Registry holds the live device agents for this home.
	Registry *device.Registry
	// Broker resolves collaboration requests between devices.
	Broker *broker.Broker
	// Aggregator composes the final user-facing output.
	Aggregator *aggregate.Aggregator
	// Tracker reports token usage for the run report. Optional.
	Tracker *llm.TokenTracker
	// Store persists finished runs. Optional.
	Store RunStore
	// Logger receives the debug trace. Optional.
	Logger *DebugLogger
	// CallTimeout bounds each model call. Defaults to 60s.
	CallTimeout time.Duration
	// EventBuffer sizes the event channel. Defaults to 64.
	EventBuffer int
}

// Scheduler drives one request through planning, sequential task execution,
// and aggregation. A Scheduler instance serves a single Run call; the event
// channel closes when the run finishes.
type Scheduler struct {
	extractor   *intent.Extractor
	planner     *planner.Planner
	registry    *device.Registry
	broker      *broker.Broker
	aggregator  *aggregate.Aggregator
	tracker     *llm.TokenTracker
	store       RunStore
	logger      *DebugLogger
	callTimeout time.Duration
	emitter     *EventEmitter

	mu    sync.RWMutex
	phase Phase

	// startIn and startOut snapshot the tracker at run start so a shared
	// client reports per-run deltas.
	startIn  int64
	startOut int64

	newID func() string
	now   func() time.Time
}

// NewScheduler creates a Scheduler from the given configuration.
func NewScheduler(cfg Config) *Scheduler {
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	bufferSize := cfg.EventBuffer
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Scheduler{
		extractor:   cfg.Extractor,
		planner:     cfg.Planner,
		registry:    cfg.Registry,
		broker:      cfg.Broker,
		aggregator:  cfg.Aggregator,
		tracker:     cfg.Tracker,
		store:       cfg.Store,
		logger:      cfg.Logger,
		callTimeout: callTimeout,
		emitter:     NewEventEmitter(bufferSize),
		phase:       PhaseIdle,
		newID:       func() string { return "run-" + uuid.New().String()[:8] },
		now:         time.Now,
	}
}

// Events returns the run's event stream. It closes once the run finishes.
func (s *Scheduler) Events() <-chan Event {
	return s.emitter.Events()
}

// Phase returns the scheduler's current lifecycle phase.
func (s *Scheduler) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Scheduler) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Scheduler) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	s.emitter.Emit(e)
}

// Run executes one request end to end and returns its terminal report.
//
// A run that fails inside the pipeline (unparseable intents, empty plan,
// device errors) still returns a RunResult with Status failed or partial and
// a nil error. The error return is reserved for context cancellation and
// programmer mistakes.
func (s *Scheduler) Run(ctx context.Context, input string) (*models.RunResult, error) {
	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return nil, fmt.Errorf("scheduler already ran (phase %s)", s.phase)
	}
	s.phase = PhasePlanning
	if s.tracker != nil {
		s.startIn, s.startOut = s.tracker.Total()
	}
	s.mu.Unlock()

	defer s.emitter.Close()
	defer s.setPhase(PhaseTerminated)

	runID := s.newID()
	started := s.now()
	bb := blackboard.New(input)

	s.logger.Log("run %s: started for input %q", runID, input)
	s.emit(Event{Type: EventRunStarted, Message: input})

	// Intent extraction
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	ext, err := s.extractor.Extract(callCtx, input)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Log("run %s: intent extraction failed: %v", runID, err)
		return s.finishFatal(ctx, runID, bb, started, err), nil
	}
	bb.SetIntents(ext.Intents, ext.Complexity, ext.Category)
	s.logger.Log("run %s: %d intents, complexity %d (%s)", runID, len(ext.Intents), ext.Complexity, ext.Category)
	s.emit(Event{
		Type:    EventIntentsExtracted,
		Message: fmt.Sprintf("%d intents, complexity %d (%s)", len(ext.Intents), ext.Complexity, ext.Category),
	})

	// Planning
	tasks := s.planner.Plan(ext.Intents)
	if len(tasks) == 0 {
		s.logger.Log("run %s: planner produced no tasks", runID)
		return s.finishFatal(ctx, runID, bb, started, planner.ErrEmptyPlan), nil
	}
	if err := bb.SetPlan(tasks); err != nil {
		return nil, fmt.Errorf("install plan: %w", err)
	}
	for _, t := range tasks {
		s.logger.Log("run %s: planned %s -> %s: %s", runID, t.ID, t.DeviceType, t.Action)
	}
	s.emit(Event{Type: EventPlanCreated, Message: fmt.Sprintf("%d tasks", len(tasks))})

	// Sequential execution
	s.setPhase(PhaseExecuting)
	for _, t := range tasks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.executeTask(ctx, t, bb)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Aggregation
	s.setPhase(PhaseAggregating)
	s.emit(Event{Type: EventAggregating})
	status := deriveStatus(bb)
	callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
	output := s.aggregator.Aggregate(callCtx, bb, status)
	cancel()

	complexity, category := bb.Complexity()
	res := &models.RunResult{
		RunID:          runID,
		Input:          input,
		Status:         status,
		FinalOutput:    output,
		Complexity:     complexity,
		Category:       category,
		Tasks:          bb.TaskOutcomes(),
		Collaborations: bb.CollaborationOutcomes(),
		StartedAt:      started,
		FinishedAt:     s.now(),
	}
	s.finish(ctx, res, bb)
	return res, nil
}

// executeTask runs one task to a terminal status, including at most one
// collaboration round-trip. Failures never abort the run.
func (s *Scheduler) executeTask(ctx context.Context, task *models.Task, bb *blackboard.Board) {
	// The planner pre-fails tasks it could not assign; they are never started.
	if task.Status == models.TaskStatusFailed {
		s.logger.Log("task %s: pre-failed by planner: %s", task.ID, task.Error)
		s.emit(Event{Type: EventTaskFailed, TaskID: task.ID, Device: task.DeviceType, Message: task.Error})
		return
	}

	agent, ok := s.registry.Get(task.DeviceType)
	if !ok {
		s.failTask(bb, task, fmt.Sprintf("no %s device is available in this home", task.DeviceType))
		return
	}

	s.logger.Log("task %s: started on %s: %s", task.ID, task.DeviceType, task.Action)
	s.emit(Event{Type: EventTaskStarted, TaskID: task.ID, Device: task.DeviceType, Message: task.Action})
	s.transition(task, models.TaskStatusInProgress)

	outcome := s.invoke(ctx, agent, task, bb)

	if outcome.Kind == device.OutcomeNeedsCollaboration {
		outcome = s.collaborate(ctx, agent, task, bb, outcome.Need)
	}

	switch outcome.Kind {
	case device.OutcomeDone:
		if err := bb.RecordCompletion(task.ID, outcome.Result); err != nil {
			s.logger.Log("task %s: record completion: %v", task.ID, err)
		}
		s.transition(task, models.TaskStatusDone)
		s.logger.Log("task %s: done: %s", task.ID, outcome.Result)
		s.emit(Event{Type: EventTaskDone, TaskID: task.ID, Device: task.DeviceType, Message: outcome.Result})
	case device.OutcomeFailed:
		s.failTask(bb, task, outcome.Reason)
	case device.OutcomeNeedsCollaboration:
		// One collaboration per task. A second request is an agent bug.
		s.failTask(bb, task, fmt.Sprintf("%s requested a second collaboration", task.DeviceType))
	}
}

// collaborate runs the single allowed collaboration round-trip for a task
// and re-invokes the agent with the response attached.
func (s *Scheduler) collaborate(ctx context.Context, agent device.Agent, task *models.Task, bb *blackboard.Board, need *device.Need) device.Outcome {
	req := &models.CollaborationRequest{
		FromTask:     task.ID,
		FromDevice:   task.DeviceType,
		TargetDevice: need.Target,
		Query:        need.Query,
	}
	s.transition(task, models.TaskStatusAwaitingCollaboration)
	if err := bb.OpenCollaboration(req); err != nil {
		return device.Failed(fmt.Sprintf("open collaboration: %v", err))
	}
	s.logger.Log("task %s: %s asks %s: %s", task.ID, req.FromDevice, req.TargetDevice, req.Query)
	s.emit(Event{
		Type:    EventCollaborationRequested,
		TaskID:  task.ID,
		Device:  req.FromDevice,
		Target:  req.TargetDevice,
		Message: req.Query,
	})

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	err := s.broker.Resolve(callCtx, req, bb)
	cancel()
	if err != nil {
		s.logger.Log("task %s: collaboration failed: %v", task.ID, err)
		s.emit(Event{
			Type:   EventCollaborationFailed,
			TaskID: task.ID,
			Device: req.FromDevice,
			Target: req.TargetDevice,
			Err:    err,
		})
		return device.Failed(fmt.Sprintf("collaboration with %s failed: %v", req.TargetDevice, err))
	}

	s.logger.Log("task %s: %s answered: %s", task.ID, req.TargetDevice, req.Response)
	s.emit(Event{
		Type:    EventCollaborationResolved,
		TaskID:  task.ID,
		Device:  req.FromDevice,
		Target:  req.TargetDevice,
		Message: req.Response,
	})
	s.transition(task, models.TaskStatusInProgress)
	return s.invoke(ctx, agent, task, bb)
}

// invoke executes the agent against the task's current blackboard view with
// a per-call timeout.
func (s *Scheduler) invoke(ctx context.Context, agent device.Agent, task *models.Task, bb *blackboard.Board) device.Outcome {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return agent.Execute(callCtx, task, bb.ViewFor(task.ID))
}

// failTask records the failure and moves the task to failed.
func (s *Scheduler) failTask(bb *blackboard.Board, task *models.Task, reason string) {
	if err := bb.RecordFailure(task.ID, reason); err != nil {
		s.logger.Log("task %s: record failure: %v", task.ID, err)
	}
	s.transition(task, models.TaskStatusFailed)
	s.logger.Log("task %s: failed: %s", task.ID, reason)
	s.emit(Event{Type: EventTaskFailed, TaskID: task.ID, Device: task.DeviceType, Message: reason})
}

// transition advances a task's status, logging rejected moves instead of
// propagating them.
func (s *Scheduler) transition(task *models.Task, next models.TaskStatus) {
	if err := task.SetStatus(next); err != nil {
		s.logger.Log("task %s: %v", task.ID, err)
	}
}

// finish stamps token usage on the result, emits run_finished, and persists
// the run when a store is configured.
func (s *Scheduler) finish(ctx context.Context, res *models.RunResult, bb *blackboard.Board) {
	if s.tracker != nil {
		in, out := s.tracker.Total()
		res.InputTokens = in - s.startIn
		res.OutputTokens = out - s.startOut
	}
	s.logger.Log("run %s: finished %s (%d done, %d failed)", res.RunID, res.Status, res.DoneCount(), res.FailedCount())
	s.emit(Event{Type: EventRunFinished, Message: string(res.Status)})
	if s.store != nil {
		if err := s.store.SaveRun(ctx, res, bb.History()); err != nil {
			s.logger.Log("run %s: save run: %v", res.RunID, err)
		}
	}
}

// finishFatal builds the terminal report for a run that died before
// execution. The error is reported as data on the result; the final output
// comes from the deterministic fallback, no model call involved.
func (s *Scheduler) finishFatal(ctx context.Context, runID string, bb *blackboard.Board, started time.Time, cause error) *models.RunResult {
	out := aggregate.Fallback(bb, models.RunFailed)
	bb.SetFinalOutput(out)
	complexity, category := bb.Complexity()
	res := &models.RunResult{
		RunID:       runID,
		Input:       bb.Input(),
		Status:      models.RunFailed,
		FinalOutput: out,
		Complexity:  complexity,
		Category:    category,
		Tasks:       bb.TaskOutcomes(),
		Err:         cause.Error(),
		StartedAt:   started,
		FinishedAt:  s.now(),
	}
	s.finish(ctx, res, bb)
	return res
}

// deriveStatus classifies the run from its terminal task states: complete
// when every task is done, failed when none is, partial otherwise.
func deriveStatus(bb *blackboard.Board) models.RunStatus {
	done := 0
	for _, t := range bb.Tasks() {
		if t.Status == models.TaskStatusDone {
			done++
		}
	}
	switch {
	case done == len(bb.Tasks()):
		return models.RunComplete
	case done == 0:
		return models.RunFailed
	default:
		return models.RunPartial
	}
}
