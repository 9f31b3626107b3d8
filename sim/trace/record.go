// Package trace provides the event log of a simulation run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Outcome says what happened to an event when it was popped.
type Outcome string

const (
	OutcomeFired   Outcome = "fired"   // Active event, action ran without error
	OutcomeFailed  Outcome = "failed"  // Active event, action returned an error
	OutcomeSkipped Outcome = "skipped" // Inactive event, consumed without firing
	OutcomeDropped Outcome = "dropped" // Cancelled event, consumed without firing
)

// EventRecord captures a single popped event.
type EventRecord struct {
	Index   int     // Position in pop order, starting at 0
	Name    string  // Caller-supplied label (may be empty)
	Time    float64 // Simulated time the event was popped at
	Status  string  // Event status at pop time
	Outcome Outcome
	Error   string         // Action error message, failed events only
	Context map[string]any // Copy of the event context (may be nil)
}
