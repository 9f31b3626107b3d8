package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/desim/sim/scenario"
)

// validateCmd checks a scenario without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario and report how many events it expands to",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateScenario(scenarioPath, os.Stdout); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
	},
}

func validateScenario(path string, out io.Writer) error {
	spec, err := scenario.LoadScenarioSpec(path)
	if err != nil {
		return err
	}
	occurrences, err := spec.Expand()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d event specs, %d occurrences\n", path, len(spec.Events), len(occurrences))
	return nil
}
