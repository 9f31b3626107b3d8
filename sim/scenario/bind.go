package scenario

import (
	"errors"
	"fmt"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/desim/sim"
)

// ErrEventFailed is returned by events bound to the fail action.
var ErrEventFailed = errors.New("scenario event failed")

// Schedule expands the spec and schedules every occurrence into sched. Each
// event's context carries the spec context plus "name" and "occurrence".
// The returned events are in scheduling order.
func (s *ScenarioSpec) Schedule(sched *sim.EventScheduler, logger logrus.FieldLogger) ([]*sim.Event, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	occurrences, err := s.Expand()
	if err != nil {
		return nil, err
	}

	events := make([]*sim.Event, 0, len(occurrences))
	for _, occ := range occurrences {
		context := make(map[string]any, len(occ.Spec.Context)+2)
		maps.Copy(context, occ.Spec.Context)
		context["name"] = occ.Spec.Name
		context["occurrence"] = occ.Index

		e := sim.NewEvent(occ.Time, nil, context)
		e.Action = bindAction(sched, e, occ.Spec, logger)

		// Validate already accepted the status.
		status, _ := sim.ParseEventStatus(occ.Spec.Status)
		switch status {
		case sim.EventStatusInactive:
			e.Deactivate()
		case sim.EventStatusCancelled:
			e.Cancel()
		}

		sched.Schedule(e)
		events = append(events, e)
	}

	logger.Debugf("scheduled %d events from %d specs", len(events), len(s.Events))
	return events, nil
}

// bindAction builds the action for one event. Bulk actions act on the
// scheduler at firing time, when e itself has already been popped.
func bindAction(sched *sim.EventScheduler, e *sim.Event, spec *EventSpec, logger logrus.FieldLogger) sim.Action {
	switch spec.Action {
	case ActionNoop:
		return nil
	case ActionFail:
		return func() error {
			return fmt.Errorf("%w: %s at %g", ErrEventFailed, spec.Name, e.Time)
		}
	case ActionActivateNext:
		return bulk(sched.ActivateNextEvent)
	case ActionDeactivateNext:
		return bulk(sched.DeactivateNextEvent)
	case ActionCancelNext:
		return bulk(sched.CancelNextEvent)
	case ActionActivateAll:
		return bulk(sched.ActivateAllEvents)
	case ActionDeactivateAll:
		return bulk(sched.DeactivateAllEvents)
	case ActionCancelAll:
		return bulk(sched.CancelAllEvents)
	case ActionShift:
		delta := spec.Delta
		return func() error {
			sched.ApplyToAllEvents(func(other *sim.Event) { other.Time += delta })
			return nil
		}
	default:
		return func() error {
			logger.WithFields(logrus.Fields(e.Context)).Infof("%s at %g", spec.Name, sched.CurrentTime())
			return nil
		}
	}
}

func bulk(op func()) sim.Action {
	return func() error {
		op()
		return nil
	}
}
