package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence during a deployment pass
type Event struct {
	// Time is when the event occurred
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Container is the container name this event relates to (empty for pass events)
	Container string `json:"container,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Deployment pass events
const (
	// Payload: PassStarted
	DeployStarted EventType = "deploy.started"
	// Payload: PassCompleted
	DeployCompleted EventType = "deploy.completed"
)

// Container lifecycle events, emitted in this order for every entry
const (
	ContainerRemoving     EventType = "container.removing"
	ContainerRemoved      EventType = "container.removed"
	ContainerRemoveFailed EventType = "container.remove.failed"
	ContainerStarting     EventType = "container.starting"
	// Payload: Started
	ContainerStarted EventType = "container.started"
	// Payload: StartFailed
	ContainerStartFailed EventType = "container.start.failed"
)

// PassStarted is the payload of DeployStarted.
type PassStarted struct {
	ID         string
	Containers []string
}

// PassCompleted is the payload of DeployCompleted.
type PassCompleted struct {
	ID      string
	Started int
	Failed  int
	Skipped int
}

// Started is the payload of ContainerStarted.
type Started struct {
	ContainerID string
}

// StartFailed is the payload of ContainerStartFailed.
// Diagnostic is the runtime's own error output.
type StartFailed struct {
	Diagnostic string
}

// Handler consumes events. Handlers run synchronously on the emitting goroutine.
type Handler func(Event)

// Multi fans an event out to every non-nil handler, in order.
func Multi(handlers ...Handler) Handler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}

// NewEvent creates an event with the given type and container, stamped now
func NewEvent(eventType EventType, container string) Event {
	return Event{
		Time:      time.Now(),
		Type:      eventType,
		Container: container,
	}
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Container != "" {
		parts = append(parts, e.Container)
	}

	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", e.Error))
	}

	return strings.Join(parts, " ")
}
