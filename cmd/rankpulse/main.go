package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "rankpulse"
	version = "v1.2.0"
)

var (
	flagConfig   string
	flagLogLevel string
)

// rootCmd is the base command for the RankPulse CLI
var rootCmd = &cobra.Command{
	Use:   "rankpulse",
	Short: "RankPulse website traffic-efficiency analyzer",
	Long: `RankPulse ingests a dated export of page and traffic counts and
segments time into Positive and Negative ranking states based on the
trend of smoothed traffic per page.

Use 'rankpulse analyze' for a one-shot CSV report or 'rankpulse serve'
for the interactive HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s - traffic per page ranking state analyzer\n", appName, version)
		fmt.Println("Use 'rankpulse analyze --help' to get started")
	},
}

func init() {
	// Structured logging with sane defaults
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to rankpulse.yaml configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace|debug|info|warn|error), overrides config")
}

// applyLogLevel sets the global level from flag or config.
func applyLogLevel(configured string) error {
	level := configured
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
