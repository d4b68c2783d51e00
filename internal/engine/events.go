// Package engine drives one orchestration run through its phases: planning,
// sequential task execution with synchronous collaboration, and aggregation.
package engine

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// EventType represents the type of engine event.
type EventType string

const (
	// EventRunStarted indicates a run has begun.
	EventRunStarted EventType = "run_started"
	// EventIntentsExtracted indicates the intent analysis finished.
	EventIntentsExtracted EventType = "intents_extracted"
	// EventPlanCreated indicates the task queue is built.
	EventPlanCreated EventType = "plan_created"
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskDone indicates a task completed successfully.
	EventTaskDone EventType = "task_done"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventCollaborationRequested indicates a device asked another for help.
	EventCollaborationRequested EventType = "collaboration_requested"
	// EventCollaborationResolved indicates the target device answered.
	EventCollaborationResolved EventType = "collaboration_resolved"
	// EventCollaborationFailed indicates the broker refused or the target errored.
	EventCollaborationFailed EventType = "collaboration_failed"
	// EventAggregating indicates the final output is being composed.
	EventAggregating EventType = "aggregating"
	// EventRunFinished indicates the run reached a terminal state.
	EventRunFinished EventType = "run_finished"
)

// Event represents one engine occurrence. Events feed the TUI and the
// benchmark trace.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// Device is the device acting, if applicable.
	Device models.DeviceType
	// Target is the collaboration target, for collaboration events.
	Target models.DeviceType
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventEmitter fans engine events out to subscribers.
// Emission never blocks the run for long: a full channel drops events.
type EventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEventEmitter creates a new EventEmitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{events: make(chan Event, bufferSize)}
}

// Emit sends an event to the events channel.
// If the channel is full, it tries briefly before dropping the event.
func (e *EventEmitter) Emit(event Event) {
	select {
	case e.events <- event:
		return
	default:
	}

	select {
	case e.events <- event:
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 {
			log.Printf("[engine] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *EventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns a read-only channel of events for subscribers.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Close closes the events channel. Call once the run is finished.
func (e *EventEmitter) Close() {
	close(e.events)
}
