package sim

// HookPos names the point in the step cycle at which a hook runs.
type HookPos struct {
	Name string
}

var (
	// HookPosBeforeEvent triggers after an event is popped and the clock has
	// moved, before the event fires.
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

	// HookPosAfterEvent triggers after the event fired (or was skipped).
	HookPosAfterEvent = &HookPos{Name: "AfterEvent"}
)

// HookCtx holds everything a hook knows about the site that triggered it.
type HookCtx struct {
	Domain *EventScheduler
	Pos    *HookPos
	Item   *Event
	Fired  bool  // Only meaningful at HookPosAfterEvent
	Err    error // Error returned by the action, AfterEvent only
}

// Hook is a short piece of program invoked by the scheduler while stepping.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// HookableBase keeps the registered hooks and invokes them in registration
// order.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
