package models

// CollaborationRequest is a runtime request by one device agent for
// information owned by another. Requests resolve synchronously and are
// single-hop: the target answers as a one-shot responder and must not emit
// a request of its own. A task holds at most one unresolved request at a
// time.
type CollaborationRequest struct {
	// FromTask is the ID of the task that issued the request.
	FromTask string `json:"from_task"`
	// FromDevice is the device type of the requesting agent.
	FromDevice DeviceType `json:"from_device"`
	// TargetDevice is the device type asked to answer.
	TargetDevice DeviceType `json:"to_device_type"`
	// Query is what the requester needs to know.
	Query string `json:"query"`
	// Resolved is set once Response has been filled in by the broker.
	Resolved bool `json:"resolved"`
	// Response is the target agent's answer.
	Response string `json:"response,omitempty"`
}
