package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string // Path to the scenario YAML file
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "desim",
	Short: "Deterministic discrete-event scheduler",
	Long: `desim drives a discrete-event scheduler from a YAML scenario.

Events are ordered by simulated time, ties broken by scheduling order.
Each event is active, inactive or cancelled; only active events fire.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "", "Path to scenario YAML file")
	_ = rootCmd.MarkPersistentFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
