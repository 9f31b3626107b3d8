package sim

import (
	"fmt"
)

// EventStatus represents the lifecycle state of an event.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusInactive  EventStatus = "inactive"
	EventStatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus maps a status name to an EventStatus. The empty string
// maps to EventStatusActive.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case "", EventStatusActive:
		return EventStatusActive, nil
	case EventStatusInactive:
		return EventStatusInactive, nil
	case EventStatusCancelled:
		return EventStatusCancelled, nil
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// Action is the work an event performs when it fires.
type Action func() error

// Event is a schedulable unit of work.
//
// Time and Context may be changed by the caller at any point, including
// while the event sits in an EventScheduler; the scheduler re-reads Time
// every time it orders its queue. Status changes go through Activate,
// Deactivate and Cancel.
type Event struct {
	Time    float64        // Simulated time at which the event fires
	Action  Action         // Nil means a no-op placeholder
	Context map[string]any // Caller bookkeeping, never read by the scheduler

	status EventStatus
}

// NewEvent creates an active event.
func NewEvent(time float64, action Action, context map[string]any) *Event {
	return &Event{
		Time:    time,
		Action:  action,
		Context: context,
		status:  EventStatusActive,
	}
}

// Status returns the current lifecycle state.
func (e *Event) Status() EventStatus {
	if e.status == "" {
		return EventStatusActive
	}
	return e.status
}

func (e *Event) IsActive() bool    { return e.Status() == EventStatusActive }
func (e *Event) IsInactive() bool  { return e.Status() == EventStatusInactive }
func (e *Event) IsCancelled() bool { return e.Status() == EventStatusCancelled }

// Activate makes the event eligible to fire. Cancelled events stay cancelled.
func (e *Event) Activate() {
	if e.IsCancelled() {
		return
	}
	e.status = EventStatusActive
}

// Deactivate keeps the event queued but prevents it from firing until it is
// activated again. Cancelled events stay cancelled.
func (e *Event) Deactivate() {
	if e.IsCancelled() {
		return
	}
	e.status = EventStatusInactive
}

// Cancel marks the event as logically removed. There is no way back.
func (e *Event) Cancel() {
	e.status = EventStatusCancelled
}

// Fire runs the action if the event is active. Inactive and cancelled events,
// and events without an action, do nothing. The action's error is returned
// as is.
func (e *Event) Fire() error {
	if !e.IsActive() || e.Action == nil {
		return nil
	}
	return e.Action()
}

func (e *Event) String() string {
	if name, ok := e.Context["name"]; ok {
		return fmt.Sprintf("Event{%v @ %g, %s}", name, e.Time, e.Status())
	}
	return fmt.Sprintf("Event{@ %g, %s}", e.Time, e.Status())
}
