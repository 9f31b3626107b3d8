// Package scenario loads YAML scenario files and turns them into scheduled
// events.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/desim/sim"
)

// ErrInvalidSpec wraps every validation failure.
var ErrInvalidSpec = errors.New("invalid scenario")

// maxOccurrences bounds the expansion of a single periodic event.
const maxOccurrences = 1_000_000

// maxCronSeconds is the largest offset from start a time.Duration can hold.
const maxCronSeconds = float64(math.MaxInt64) / float64(time.Second)

// Action kinds an event can be bound to.
const (
	ActionNoop           = "noop"
	ActionLog            = "log"
	ActionFail           = "fail"
	ActionActivateNext   = "activate_next"
	ActionDeactivateNext = "deactivate_next"
	ActionCancelNext     = "cancel_next"
	ActionActivateAll    = "activate_all"
	ActionDeactivateAll  = "deactivate_all"
	ActionCancelAll      = "cancel_all"
	ActionShift          = "shift"
)

var validActions = map[string]bool{
	"": true, ActionNoop: true, ActionLog: true, ActionFail: true,
	ActionActivateNext: true, ActionDeactivateNext: true, ActionCancelNext: true,
	ActionActivateAll: true, ActionDeactivateAll: true, ActionCancelAll: true,
	ActionShift: true,
}

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenarioSpec(path).
type ScenarioSpec struct {
	Version string      `yaml:"version"`
	Start   time.Time   `yaml:"start,omitempty"`   // Wall-clock anchor for cron events; time 0
	Horizon float64     `yaml:"horizon,omitempty"` // Expansion limit for periodic events; 0 = none
	Seed    int64       `yaml:"seed,omitempty"`    // Seeds per-event jitter
	Events  []EventSpec `yaml:"events"`
}

// EventSpec describes one event, or a family of periodic events.
type EventSpec struct {
	Name    string         `yaml:"name"`
	At      float64        `yaml:"at"`              // First occurrence
	Every   float64        `yaml:"every,omitempty"` // Period; repeats while < horizon
	Cron    string         `yaml:"cron,omitempty"`  // Standard 5-field cron expression
	Status  string         `yaml:"status,omitempty"`
	Action  string         `yaml:"action,omitempty"` // Defaults to log
	Delta   float64        `yaml:"delta,omitempty"`  // Time offset for the shift action
	Jitter  float64        `yaml:"jitter,omitempty"` // Uniform random offset in [0, jitter) added to each occurrence
	Context map[string]any `yaml:"context,omitempty"`
}

// LoadScenarioSpec reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioSpec(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenarioSpec(data)
}

// ParseScenarioSpec parses a YAML scenario held in memory.
func ParseScenarioSpec(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *ScenarioSpec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSpec, s.Version)
	}
	if math.IsNaN(s.Horizon) || math.IsInf(s.Horizon, 0) || s.Horizon < 0 {
		return fmt.Errorf("%w: horizon must be a finite non-negative number, got %f", ErrInvalidSpec, s.Horizon)
	}
	if len(s.Events) == 0 {
		return fmt.Errorf("%w: at least one event required", ErrInvalidSpec)
	}

	names := make(map[string]bool, len(s.Events))
	for i := range s.Events {
		e := &s.Events[i]
		if err := s.validateEvent(e, i); err != nil {
			return err
		}
		if names[e.Name] {
			return fmt.Errorf("%w: events[%d]: duplicate name %q", ErrInvalidSpec, i, e.Name)
		}
		names[e.Name] = true
	}
	return nil
}

func (s *ScenarioSpec) validateEvent(e *EventSpec, idx int) error {
	prefix := fmt.Sprintf("events[%d]", idx)
	if e.Name == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidSpec, prefix)
	}
	if math.IsNaN(e.At) || math.IsInf(e.At, 0) {
		return fmt.Errorf("%w: %s: at must be a finite number, got %f", ErrInvalidSpec, prefix, e.At)
	}
	if _, err := sim.ParseEventStatus(e.Status); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSpec, prefix, err)
	}
	if !validActions[e.Action] {
		return fmt.Errorf("%w: %s: unknown action %q", ErrInvalidSpec, prefix, e.Action)
	}
	if math.IsNaN(e.Delta) || math.IsInf(e.Delta, 0) {
		return fmt.Errorf("%w: %s: delta must be a finite number, got %f", ErrInvalidSpec, prefix, e.Delta)
	}
	if math.IsNaN(e.Jitter) || math.IsInf(e.Jitter, 0) || e.Jitter < 0 {
		return fmt.Errorf("%w: %s: jitter must be a finite non-negative number, got %f", ErrInvalidSpec, prefix, e.Jitter)
	}
	if e.Every != 0 && e.Cron != "" {
		return fmt.Errorf("%w: %s: every and cron are mutually exclusive", ErrInvalidSpec, prefix)
	}
	if e.Every != 0 {
		if math.IsNaN(e.Every) || math.IsInf(e.Every, 0) || e.Every < 0 {
			return fmt.Errorf("%w: %s: every must be a finite positive number, got %f", ErrInvalidSpec, prefix, e.Every)
		}
		if s.Horizon == 0 {
			return fmt.Errorf("%w: %s: every requires a horizon", ErrInvalidSpec, prefix)
		}
	}
	if e.Cron != "" {
		if s.Start.IsZero() || s.Horizon == 0 {
			return fmt.Errorf("%w: %s: cron requires start and horizon", ErrInvalidSpec, prefix)
		}
		if _, err := cron.ParseStandard(e.Cron); err != nil {
			return fmt.Errorf("%w: %s: cron %q: %v", ErrInvalidSpec, prefix, e.Cron, err)
		}
		// Cron times are computed as wall-clock offsets from start.
		if s.Horizon >= maxCronSeconds || math.Abs(e.At) >= maxCronSeconds {
			return fmt.Errorf("%w: %s: cron needs at and horizon within %g seconds of start", ErrInvalidSpec, prefix, maxCronSeconds)
		}
	}
	if (e.Every != 0 || e.Cron != "") && e.At >= s.Horizon {
		return fmt.Errorf("%w: %s: at (%g) must be before horizon (%g) for a repeating event", ErrInvalidSpec, prefix, e.At, s.Horizon)
	}
	return nil
}
