package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Step pops the next event, moves the clock to its time and fires it if it
// is active. Inactive and cancelled events are consumed without firing.
// Returns nil, nil when the queue is empty. An error returned by the action
// is passed through unchanged; the event has been consumed either way.
func (s *EventScheduler) Step() (*Event, error) {
	e := s.PopNext()
	if e == nil {
		return nil, nil
	}

	if e.Time < s.currentTime {
		logrus.Warnf("[t=%g] clock moves back to %g for %s", s.currentTime, e.Time, e)
	}
	s.currentTime = e.Time

	hookCtx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforeEvent,
		Item:   e,
	}
	s.InvokeHook(hookCtx)

	fired := e.IsActive()
	err := e.Fire()

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Fired = fired
	hookCtx.Err = err
	s.InvokeHook(hookCtx)

	return e, err
}

// Timeout schedules a new active event delay time units after the current
// time and returns it.
func (s *EventScheduler) Timeout(delay float64, action Action, context map[string]any) *Event {
	e := NewEvent(s.currentTime+delay, action, context)
	s.Schedule(e)
	return e
}

// Run steps through events until the queue is empty, stop returns true, or
// an action fails. stop is checked before every step and may be nil.
func (s *EventScheduler) Run(stop func(*EventScheduler) bool) error {
	for !s.Empty() {
		if stop != nil && stop(s) {
			logrus.Debugf("[t=%g] stop condition met, %d events pending", s.currentTime, s.Len())
			return nil
		}
		if err := s.step(); err != nil {
			return err
		}
	}
	logrus.Debugf("[t=%g] event queue drained", s.currentTime)
	return nil
}

// RunUntilMaxTime steps through every event due at or before maxTime. The
// clock then moves forward to maxTime if it is finite and still ahead.
func (s *EventScheduler) RunUntilMaxTime(maxTime float64) error {
	for !s.Empty() && s.Peek() <= maxTime {
		if err := s.step(); err != nil {
			return err
		}
	}
	if !math.IsInf(maxTime, 0) && maxTime > s.currentTime {
		s.currentTime = maxTime
	}
	logrus.Debugf("[t=%g] reached max time, %d events pending", s.currentTime, s.Len())
	return nil
}

// RunUntilGivenEvent steps until target has been popped, or until the queue
// runs out if target is never reached.
func (s *EventScheduler) RunUntilGivenEvent(target *Event) error {
	for !s.Empty() {
		e, err := s.Step()
		logrus.Debugf("[t=%g] step %s", s.currentTime, e)
		if err != nil {
			return err
		}
		if e == target {
			return nil
		}
	}
	return nil
}

func (s *EventScheduler) step() error {
	e, err := s.Step()
	logrus.Debugf("[t=%g] step %s", s.currentTime, e)
	return err
}
