package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/desim/sim"
	"github.com/inference-sim/desim/sim/scenario"
	"github.com/inference-sim/desim/sim/trace"
)

var (
	maxTime     float64 // Stop after the last event at or before this time
	traceDBPath string  // SQLite file receiving the event trace
	traceLevel  string  // Trace verbosity
	logEvents   bool    // Log every stepped event
)

// runOptions carries everything runScenario needs, decoupled from flags.
type runOptions struct {
	ScenarioPath string
	MaxTime      float64 // NaN means: use the scenario horizon, or run to completion
	TraceLevel   string
	TraceDBPath  string
	LogEvents    bool
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario and print its trace summary",
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptions{
			ScenarioPath: scenarioPath,
			MaxTime:      math.NaN(),
			TraceLevel:   traceLevel,
			TraceDBPath:  traceDBPath,
			LogEvents:    logEvents,
		}
		if cmd.Flags().Changed("max-time") {
			opts.MaxTime = maxTime
		}

		startTime := time.Now()
		if _, err := runScenario(opts, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// runScenario loads, schedules and runs a scenario, then writes the trace
// summary as JSON to out.
func runScenario(opts runOptions, out io.Writer) (*trace.TraceSummary, error) {
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, events", opts.TraceLevel)
	}
	level := trace.TraceLevel(opts.TraceLevel)
	if opts.TraceDBPath != "" && level != trace.TraceLevelEvents {
		return nil, fmt.Errorf("--trace-db needs trace level %q", trace.TraceLevelEvents)
	}

	spec, err := scenario.LoadScenarioSpec(opts.ScenarioPath)
	if err != nil {
		return nil, err
	}

	scheduler := sim.NewEventScheduler()
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: level})
	scheduler.AcceptHook(sim.NewTraceHook(st))
	if opts.LogEvents {
		scheduler.AcceptHook(sim.NewEventLogger(logrus.StandardLogger()))
	}

	logger := logrus.WithField("run", st.RunID)
	events, err := spec.Schedule(scheduler, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof("Starting scenario %s with %d events", opts.ScenarioPath, len(events))

	limit := opts.MaxTime
	if math.IsNaN(limit) && spec.Horizon > 0 {
		limit = spec.Horizon
	}

	var runErr error
	if math.IsNaN(limit) {
		runErr = scheduler.Run(nil)
	} else {
		runErr = scheduler.RunUntilMaxTime(limit)
	}
	logger.Infof("Scenario stopped at t=%g with %d events pending", scheduler.CurrentTime(), scheduler.Len())

	// The trace is still worth keeping when an action failed.
	if opts.TraceDBPath != "" {
		if err := trace.WriteSQLite(opts.TraceDBPath, st); err != nil {
			return nil, err
		}
		logger.Infof("Trace written to %s", opts.TraceDBPath)
	}
	if runErr != nil {
		return nil, runErr
	}

	summary := trace.Summarize(st)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	fmt.Fprintln(out, "=== Trace Summary ===")
	fmt.Fprintln(out, string(data))
	return summary, nil
}

func init() {
	runCmd.Flags().Float64Var(&maxTime, "max-time", 0, "Process events up to and including this simulated time (default: scenario horizon, else until empty)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "events", "Trace verbosity (none, events)")
	runCmd.Flags().StringVar(&traceDBPath, "trace-db", "", "Write the event trace to this SQLite file")
	runCmd.Flags().BoolVar(&logEvents, "log-events", false, "Log every stepped event at info level")
}
