package sim

import (
	"fmt"

	"github.com/inference-sim/desim/sim/trace"
)

// TraceHook records every popped event into a SimulationTrace.
type TraceHook struct {
	Trace *trace.SimulationTrace
}

// NewTraceHook returns a hook recording into st.
func NewTraceHook(st *trace.SimulationTrace) *TraceHook {
	return &TraceHook{Trace: st}
}

// Func appends a record once the event has been handled.
func (h *TraceHook) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterEvent || ctx.Item == nil {
		return
	}

	record := trace.EventRecord{
		Time:    ctx.Item.Time,
		Status:  string(ctx.Item.Status()),
		Outcome: outcomeOf(ctx),
		Context: ctx.Item.Context,
	}
	if name, ok := ctx.Item.Context["name"]; ok {
		record.Name = fmt.Sprint(name)
	}
	if ctx.Err != nil {
		record.Error = ctx.Err.Error()
	}
	h.Trace.RecordEvent(record)
}

func outcomeOf(ctx HookCtx) trace.Outcome {
	switch {
	case ctx.Err != nil:
		return trace.OutcomeFailed
	case ctx.Fired:
		return trace.OutcomeFired
	case ctx.Item.IsCancelled():
		return trace.OutcomeDropped
	default:
		return trace.OutcomeSkipped
	}
}
