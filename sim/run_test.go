package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/desim/sim/trace"
)

func TestEventScheduler_Step_EmptyQueue(t *testing.T) {
	s := NewEventScheduler()

	e, err := s.Step()

	assert.Nil(t, e)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestEventScheduler_Step_AdvancesClockAndFires(t *testing.T) {
	// GIVEN two events with recording actions
	var log []string
	s := NewEventScheduler()
	s.Schedule(NewEvent(5, recordingAction(&log, "late"), nil))
	s.Schedule(NewEvent(2, recordingAction(&log, "early"), nil))

	// WHEN stepped once
	e, err := s.Step()

	// THEN the early event fired and the clock moved to its time
	require.NoError(t, err)
	assert.Equal(t, 2.0, e.Time)
	assert.Equal(t, 2.0, s.CurrentTime())
	assert.Equal(t, []string{"early"}, log)
	assert.Equal(t, 1, s.Len())
}

func TestEventScheduler_Step_SkipsInactiveAndCancelled(t *testing.T) {
	// GIVEN an inactive and a cancelled event with actions
	var log []string
	s := NewEventScheduler()
	inactive := NewEvent(1, recordingAction(&log, "inactive"), nil)
	inactive.Deactivate()
	cancelled := NewEvent(2, recordingAction(&log, "cancelled"), nil)
	cancelled.Cancel()
	s.Schedule(inactive)
	s.Schedule(cancelled)

	// WHEN the queue is run
	require.NoError(t, s.Run(nil))

	// THEN neither fired but both were consumed
	assert.Empty(t, log)
	assert.True(t, s.Empty())
	assert.Equal(t, 2.0, s.CurrentTime())
}

func TestEventScheduler_Step_PropagatesActionError(t *testing.T) {
	errBoom := errors.New("boom")
	s := NewEventScheduler()
	s.Schedule(NewEvent(1, func() error { return errBoom }, nil))

	e, err := s.Step()

	assert.NotNil(t, e)
	assert.Same(t, errBoom, err)
	assert.True(t, s.Empty(), "failed event is consumed")
}

func TestEventScheduler_Step_ClockMovingBack_Warns(t *testing.T) {
	// GIVEN a clock at 5 and a queued event moved to 1 afterwards
	hook := test.NewGlobal()
	defer logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))

	s := NewEventScheduler()
	scheduleAt(s, 5)
	late := scheduleAt(s, 6)[0]
	_, err := s.Step()
	require.NoError(t, err)
	late.Time = 1

	// WHEN stepped
	_, err = s.Step()

	// THEN the clock follows the event and a warning is logged
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.CurrentTime())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestEventScheduler_Run_DrainsInOrder(t *testing.T) {
	var log []string
	s := NewEventScheduler()
	s.Schedule(NewEvent(3, recordingAction(&log, "c"), nil))
	s.Schedule(NewEvent(1, recordingAction(&log, "a"), nil))
	s.Schedule(NewEvent(2, recordingAction(&log, "b"), nil))

	require.NoError(t, s.Run(nil))

	assert.Equal(t, []string{"a", "b", "c"}, log)
	assert.Equal(t, 3.0, s.CurrentTime())
}

func TestEventScheduler_Run_ActionsScheduleFollowUps(t *testing.T) {
	// GIVEN an action that keeps rescheduling itself with Timeout
	s := NewEventScheduler()
	var fired []float64
	var tick Action
	tick = func() error {
		fired = append(fired, s.CurrentTime())
		if s.CurrentTime() < 3 {
			s.Timeout(1, tick, nil)
		}
		return nil
	}
	s.Timeout(0.5, tick, nil)

	// WHEN run
	require.NoError(t, s.Run(nil))

	// THEN each follow-up is relative to the firing time
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, fired)
}

func TestEventScheduler_Run_StopCondition(t *testing.T) {
	s := NewEventScheduler()
	scheduleAt(s, 1, 2, 3, 4)

	err := s.Run(func(s *EventScheduler) bool { return s.CurrentTime() >= 2 })

	require.NoError(t, err)
	assert.Equal(t, 2.0, s.CurrentTime())
	assert.Equal(t, 2, s.Len())
}

func TestEventScheduler_Run_StopsOnActionError(t *testing.T) {
	// GIVEN a failing event between two others
	errBoom := errors.New("boom")
	var log []string
	s := NewEventScheduler()
	s.Schedule(NewEvent(1, recordingAction(&log, "a"), nil))
	s.Schedule(NewEvent(2, func() error { return errBoom }, nil))
	s.Schedule(NewEvent(3, recordingAction(&log, "c"), nil))

	// WHEN run
	err := s.Run(nil)

	// THEN the error comes back untouched and the rest stays queued
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"a"}, log)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 3.0, s.Peek())
}

func TestEventScheduler_RunUntilMaxTime_InclusiveBoundary(t *testing.T) {
	// GIVEN events at 1, 2, 3
	var log []string
	s := NewEventScheduler()
	s.Schedule(NewEvent(1, recordingAction(&log, "1"), nil))
	s.Schedule(NewEvent(2, recordingAction(&log, "2"), nil))
	s.Schedule(NewEvent(3, recordingAction(&log, "3"), nil))

	// WHEN run until 2
	require.NoError(t, s.RunUntilMaxTime(2))

	// THEN events at or before 2 fired and the later one is pending
	assert.Equal(t, []string{"1", "2"}, log)
	assert.Equal(t, 3.0, s.Peek())
	assert.Equal(t, 2.0, s.CurrentTime())
}

func TestEventScheduler_RunUntilMaxTime_AdvancesClockToMaxTime(t *testing.T) {
	s := NewEventScheduler()
	scheduleAt(s, 1, 10)

	require.NoError(t, s.RunUntilMaxTime(5))

	assert.Equal(t, 5.0, s.CurrentTime())
	assert.Equal(t, 1, s.Len())
}

func TestEventScheduler_RunUntilMaxTime_Infinity_DrainsQueue(t *testing.T) {
	s := NewEventScheduler()
	scheduleAt(s, 1, 1e9)

	require.NoError(t, s.RunUntilMaxTime(math.Inf(1)))

	assert.True(t, s.Empty())
	assert.Equal(t, 1e9, s.CurrentTime())
}

func TestEventScheduler_RunUntilMaxTime_Infinity_EmptyQueue_Returns(t *testing.T) {
	// GIVEN an empty scheduler
	s := NewEventScheduler()

	// WHEN run without a time limit
	done := make(chan error, 1)
	go func() { done <- s.RunUntilMaxTime(math.Inf(1)) }()

	// THEN it returns right away and the clock stays put
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunUntilMaxTime(+Inf) did not return on an empty queue")
	}
	assert.Equal(t, 0.0, s.CurrentTime())
}

func TestEventScheduler_RunUntilGivenEvent(t *testing.T) {
	// GIVEN four events
	s := NewEventScheduler()
	events := scheduleAt(s, 1, 2, 3, 4)

	// WHEN run until the third
	require.NoError(t, s.RunUntilGivenEvent(events[2]))

	// THEN the third is the last one popped
	assert.Equal(t, 3.0, s.CurrentTime())
	assert.Equal(t, 1, s.Len())
}

func TestEventScheduler_RunUntilGivenEvent_NotQueued_Drains(t *testing.T) {
	s := NewEventScheduler()
	scheduleAt(s, 1, 2)

	require.NoError(t, s.RunUntilGivenEvent(NewEvent(0, nil, nil)))

	assert.True(t, s.Empty())
}

func TestEventScheduler_Timeout_RelativeToClock(t *testing.T) {
	s := NewEventScheduler()
	scheduleAt(s, 4)
	_, err := s.Step()
	require.NoError(t, err)

	e := s.Timeout(2.5, nil, map[string]any{"name": "later"})

	assert.Equal(t, 6.5, e.Time)
	assert.True(t, e.IsActive())
	assert.Same(t, e, s.PeekEvent())
}

func TestEventScheduler_Hooks_InvokedAroundEachEvent(t *testing.T) {
	// GIVEN a hook recording positions
	s := NewEventScheduler()
	var positions []string
	s.AcceptHook(HookFunc(func(ctx HookCtx) {
		positions = append(positions, ctx.Pos.Name)
		assert.Same(t, s, ctx.Domain)
	}))
	scheduleAt(s, 1)

	// WHEN stepped
	_, err := s.Step()

	// THEN before and after hooks ran once each
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumHooks())
	assert.Equal(t, []string{"BeforeEvent", "AfterEvent"}, positions)
}

func TestTraceHook_RecordsOutcomes(t *testing.T) {
	// GIVEN a scheduler with a trace hook and one event per outcome
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelEvents})
	s := NewEventScheduler()
	s.AcceptHook(NewTraceHook(st))

	s.Schedule(NewEvent(1, nil, map[string]any{"name": "ok"}))
	skipped := NewEvent(2, nil, map[string]any{"name": "skipped"})
	skipped.Deactivate()
	s.Schedule(skipped)
	dropped := NewEvent(3, nil, nil)
	dropped.Cancel()
	s.Schedule(dropped)
	s.Schedule(NewEvent(4, func() error { return errors.New("boom") }, nil))

	// WHEN run to the end, ignoring the failure
	for !s.Empty() {
		_, _ = s.Step()
	}

	// THEN every popped event has a record
	require.Len(t, st.Events, 4)
	assert.Equal(t, trace.OutcomeFired, st.Events[0].Outcome)
	assert.Equal(t, "ok", st.Events[0].Name)
	assert.Equal(t, trace.OutcomeSkipped, st.Events[1].Outcome)
	assert.Equal(t, "inactive", st.Events[1].Status)
	assert.Equal(t, trace.OutcomeDropped, st.Events[2].Outcome)
	assert.Equal(t, trace.OutcomeFailed, st.Events[3].Outcome)
	assert.Equal(t, "boom", st.Events[3].Error)
}

func TestEventLogger_LogsOutcome(t *testing.T) {
	// GIVEN an event logger writing to a test logger
	logger, hook := test.NewNullLogger()
	s := NewEventScheduler()
	s.AcceptHook(NewEventLogger(logger))
	s.Schedule(NewEvent(1, nil, map[string]any{"name": "arrival"}))
	s.Schedule(NewEvent(2, func() error { return errors.New("boom") }, nil))

	// WHEN both events are stepped
	_, err := s.Step()
	require.NoError(t, err)
	_, err = s.Step()
	require.Error(t, err)

	// THEN one info line and one error line were written
	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "event fired", entries[0].Message)
	assert.Equal(t, "arrival", entries[0].Data["event"])
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.Equal(t, "event failed", entries[1].Message)
}
