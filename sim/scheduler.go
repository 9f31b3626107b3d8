package sim

import (
	"container/heap"
	"math"
)

// Infinity is what Peek reports for an empty queue.
var Infinity = math.Inf(1)

// queuedEvent pairs an event with its insertion sequence number. The
// sequence number breaks ties between events with the same time.
type queuedEvent struct {
	event *Event
	seq   uint64
}

func (q queuedEvent) before(o queuedEvent) bool {
	if q.event.Time != o.event.Time {
		return q.event.Time < o.event.Time
	}
	return q.seq < o.seq
}

// eventQueue implements heap.Interface and orders events by (Time, seq).
type eventQueue []queuedEvent

func (eq eventQueue) Len() int           { return len(eq) }
func (eq eventQueue) Less(i, j int) bool { return eq[i].before(eq[j]) }
func (eq eventQueue) Swap(i, j int)      { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = queuedEvent{}
	*eq = old[0 : n-1]
	return item
}

// EventScheduler owns the pending events and the simulated clock.
//
// Callers may change Event.Time on queued events at any moment. The heap
// invariant is re-established from the current field values before every
// read, so Peek and PopNext always reflect those changes.
//
// An EventScheduler is not safe for concurrent use.
type EventScheduler struct {
	HookableBase

	queue       eventQueue
	nextSeq     uint64
	currentTime float64
}

// NewEventScheduler creates an empty scheduler with the clock at 0.
func NewEventScheduler() *EventScheduler {
	return &EventScheduler{
		queue: make(eventQueue, 0),
	}
}

// Schedule inserts an event into the queue. Events of any status may be
// scheduled.
func (s *EventScheduler) Schedule(e *Event) {
	if e == nil {
		panic("sim: cannot schedule a nil event")
	}
	heap.Push(&s.queue, queuedEvent{event: e, seq: s.nextSeq})
	s.nextSeq++
}

// reorder rebuilds the heap from the events' current times.
func (s *EventScheduler) reorder() {
	heap.Init(&s.queue)
}

// Peek returns the time of the next event, or Infinity if the queue is empty.
func (s *EventScheduler) Peek() float64 {
	if e := s.PeekEvent(); e != nil {
		return e.Time
	}
	return Infinity
}

// PeekEvent returns the next event without removing it, or nil.
func (s *EventScheduler) PeekEvent() *Event {
	if len(s.queue) == 0 {
		return nil
	}
	s.reorder()
	return s.queue[0].event
}

// PopNext removes and returns the next event, or nil if the queue is empty.
// The event is not fired.
func (s *EventScheduler) PopNext() *Event {
	if len(s.queue) == 0 {
		return nil
	}
	s.reorder()
	return heap.Pop(&s.queue).(queuedEvent).event
}

// Len returns the number of queued events, cancelled ones included.
func (s *EventScheduler) Len() int {
	return len(s.queue)
}

// Empty reports whether the queue holds no events.
func (s *EventScheduler) Empty() bool {
	return len(s.queue) == 0
}

// CurrentTime returns the simulated time of the last stepped event.
func (s *EventScheduler) CurrentTime() float64 {
	return s.currentTime
}

// Events returns the queued events in pop order. The slice is a copy; the
// events are not.
func (s *EventScheduler) Events() []*Event {
	ordered := make(eventQueue, len(s.queue))
	copy(ordered, s.queue)
	events := make([]*Event, 0, len(ordered))
	heap.Init(&ordered)
	for ordered.Len() > 0 {
		events = append(events, heap.Pop(&ordered).(queuedEvent).event)
	}
	return events
}

// earliest returns the queued event with the smallest (Time, seq) among
// those accepted by match, or nil.
func (s *EventScheduler) earliest(match func(*Event) bool) *Event {
	var best *queuedEvent
	for i := range s.queue {
		q := &s.queue[i]
		if !match(q.event) {
			continue
		}
		if best == nil || q.before(*best) {
			best = q
		}
	}
	if best == nil {
		return nil
	}
	return best.event
}

// ActivateNextEvent activates the earliest inactive event. Active and
// cancelled events are passed over. Does nothing if no event is inactive.
func (s *EventScheduler) ActivateNextEvent() {
	if e := s.earliest((*Event).IsInactive); e != nil {
		e.Activate()
	}
}

// DeactivateNextEvent deactivates the earliest active event.
func (s *EventScheduler) DeactivateNextEvent() {
	if e := s.earliest((*Event).IsActive); e != nil {
		e.Deactivate()
	}
}

// CancelNextEvent cancels the earliest event that is not cancelled yet.
func (s *EventScheduler) CancelNextEvent() {
	notCancelled := func(e *Event) bool { return !e.IsCancelled() }
	if e := s.earliest(notCancelled); e != nil {
		e.Cancel()
	}
}

// ApplyToAllEvents calls fn once for every queued event, whatever its
// status, in pop order. fn may change any field of the event.
func (s *EventScheduler) ApplyToAllEvents(fn func(*Event)) {
	for _, e := range s.Events() {
		fn(e)
	}
}

// ApplyToEventsAtTime calls fn for every queued event whose time equals t.
func (s *EventScheduler) ApplyToEventsAtTime(t float64, fn func(*Event)) {
	s.ApplyToAllEvents(func(e *Event) {
		if e.Time == t {
			fn(e)
		}
	})
}

// ActivateAllEvents activates every queued event that is not cancelled.
func (s *EventScheduler) ActivateAllEvents() {
	s.ApplyToAllEvents((*Event).Activate)
}

// DeactivateAllEvents deactivates every queued event that is not cancelled.
func (s *EventScheduler) DeactivateAllEvents() {
	s.ApplyToAllEvents((*Event).Deactivate)
}

// CancelAllEvents cancels every queued event. The events stay in the queue
// and are consumed without firing.
func (s *EventScheduler) CancelAllEvents() {
	s.ApplyToAllEvents((*Event).Cancel)
}
