package scenario

import (
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
)

// Occurrence is one concrete firing of an EventSpec.
type Occurrence struct {
	Spec  *EventSpec
	Index int     // Position within the spec's own occurrences
	Time  float64 // Simulated seconds since Start
}

// Expand validates the spec and lists every occurrence, ordered by time and
// then by position in the file. Jitter is drawn from the scenario seed, so the
// same file always expands to the same times.
func (s *ScenarioSpec) Expand() ([]Occurrence, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rngs := newPartitionedRNG(s.Seed)
	var occurrences []Occurrence
	for i := range s.Events {
		e := &s.Events[i]
		var times []float64
		var err error
		switch {
		case e.Every > 0:
			times, err = s.periodicTimes(e)
		case e.Cron != "":
			times, err = s.cronTimes(e)
		default:
			times = []float64{e.At}
		}
		if err != nil {
			return nil, err
		}
		if e.Jitter > 0 {
			rng := rngs.forEvent(e.Name)
			for j := range times {
				times[j] += rng.Float64() * e.Jitter
			}
		}
		for j, t := range times {
			occurrences = append(occurrences, Occurrence{Spec: e, Index: j, Time: t})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Time < occurrences[j].Time
	})
	return occurrences, nil
}

func (s *ScenarioSpec) periodicTimes(e *EventSpec) ([]float64, error) {
	var times []float64
	for n := 0; ; n++ {
		// Multiply rather than accumulate so long runs do not drift.
		t := e.At + float64(n)*e.Every
		if t >= s.Horizon {
			return times, nil
		}
		if n >= maxOccurrences {
			return nil, fmt.Errorf("%w: event %q expands to more than %d occurrences", ErrInvalidSpec, e.Name, maxOccurrences)
		}
		times = append(times, t)
	}
}

func (s *ScenarioSpec) cronTimes(e *EventSpec) ([]float64, error) {
	schedule, err := cron.ParseStandard(e.Cron)
	if err != nil {
		return nil, fmt.Errorf("%w: event %q: %v", ErrInvalidSpec, e.Name, err)
	}

	anchor := s.Start.Add(secondsToDuration(e.At))
	end := s.Start.Add(secondsToDuration(s.Horizon))

	var times []float64
	// Next is strictly after its argument; step back so an activation
	// exactly at the anchor is kept.
	// Next returns the zero time when nothing matches within five years.
	for next := schedule.Next(anchor.Add(-time.Nanosecond)); !next.IsZero() && next.Before(end); next = schedule.Next(next) {
		if len(times) >= maxOccurrences {
			return nil, fmt.Errorf("%w: event %q expands to more than %d occurrences", ErrInvalidSpec, e.Name, maxOccurrences)
		}
		times = append(times, next.Sub(s.Start).Seconds())
	}
	return times, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
