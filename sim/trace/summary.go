package trace

import (
	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	RunID       string          `json:"run_id"`
	TotalEvents int             `json:"total_events"`
	Outcomes    map[Outcome]int `json:"outcomes"`
	FirstTime   float64         `json:"first_time"`
	LastTime    float64         `json:"last_time"`
	MeanGap     float64         `json:"mean_gap"`   // Mean time between consecutive popped events
	StdDevGap   float64         `json:"stddev_gap"` // Sample standard deviation of those gaps
	NamedEvents map[string]int  `json:"named_events"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Outcomes:    make(map[Outcome]int),
		NamedEvents: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.RunID = st.RunID
	summary.TotalEvents = len(st.Events)
	if summary.TotalEvents == 0 {
		return summary
	}

	for _, r := range st.Events {
		summary.Outcomes[r.Outcome]++
		if r.Name != "" {
			summary.NamedEvents[r.Name]++
		}
	}

	summary.FirstTime = st.Events[0].Time
	summary.LastTime = st.Events[len(st.Events)-1].Time

	gaps := make([]float64, 0, len(st.Events)-1)
	for i := 1; i < len(st.Events); i++ {
		gaps = append(gaps, st.Events[i].Time-st.Events[i-1].Time)
	}
	switch {
	case len(gaps) >= 2:
		summary.MeanGap, summary.StdDevGap = stat.MeanStdDev(gaps, nil)
	case len(gaps) == 1:
		summary.MeanGap = gaps[0]
	}

	return summary
}
