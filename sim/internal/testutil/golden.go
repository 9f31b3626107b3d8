// Package testutil provides shared test infrastructure for the scheduler.
// It holds the golden dataset types and assertion helpers used by the sim/
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario file and the run it must produce.
type GoldenTestCase struct {
	Scenario string        `json:"scenario"` // File name under testdata/scenarios/
	Events   []GoldenEvent `json:"events"`   // Popped events, in pop order
	Metrics  GoldenMetrics `json:"metrics"`
}

// GoldenEvent is one expected trace record.
type GoldenEvent struct {
	Name    string  `json:"name"`
	Time    float64 `json:"time"`
	Outcome string  `json:"outcome"`
}

// GoldenMetrics represents the expected summary of a golden test case.
type GoldenMetrics struct {
	// Exact match counts
	TotalEvents int `json:"total_events"`
	Fired       int `json:"fired"`
	Skipped     int `json:"skipped"`
	Dropped     int `json:"dropped"`
	Failed      int `json:"failed"`

	// Deterministic floating-point metrics (derived from the simulation clock)
	MeanGap   float64 `json:"mean_gap"`
	FinalTime float64 `json:"final_time"`
}

// ScenarioPath returns the absolute path of a golden scenario file.
func ScenarioPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testdataDir(t), "scenarios", name)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(testdataDir(t), "goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

func testdataDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata")
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
