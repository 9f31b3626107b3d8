package sim

// scheduleAt schedules one event per time, in argument order, and returns
// them in the same order.
func scheduleAt(s *EventScheduler, times ...float64) []*Event {
	events := make([]*Event, 0, len(times))
	for _, t := range times {
		e := NewEvent(t, nil, nil)
		s.Schedule(e)
		events = append(events, e)
	}
	return events
}

// scheduleInactiveAt is scheduleAt with every event deactivated first.
func scheduleInactiveAt(s *EventScheduler, times ...float64) []*Event {
	events := make([]*Event, 0, len(times))
	for _, t := range times {
		e := NewEvent(t, nil, nil)
		e.Deactivate()
		s.Schedule(e)
		events = append(events, e)
	}
	return events
}

// drainTimes pops every event and returns their times in pop order.
func drainTimes(s *EventScheduler) []float64 {
	var times []float64
	for e := s.PopNext(); e != nil; e = s.PopNext() {
		times = append(times, e.Time)
	}
	return times
}

// recordingAction returns an action appending label to *log when fired.
func recordingAction(log *[]string, label string) Action {
	return func() error {
		*log = append(*log, label)
		return nil
	}
}
