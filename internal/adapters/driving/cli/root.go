// Package cli implements the cadence command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute runs.
var (
	scheduler    driving.SyncScheduler
	historyStore driven.RoundHistoryStore
	configStore  driven.ConfigStore
	credManager  CredentialsManager
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Adaptive sync scheduler for calendar, mail, files and meetings",
	Long: `Cadence keeps each user's calendar, mailbox, file storage and
meeting recordings in sync, adapting the polling cadence to how active
the user is and to automated scheduling traffic in their mailbox.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services carries everything the commands need.
type Services struct {
	Scheduler    driving.SyncScheduler
	HistoryStore driven.RoundHistoryStore
	ConfigStore  driven.ConfigStore
	Credentials  CredentialsManager
}

// SetServices wires the commands to their dependencies.
func SetServices(s Services) {
	scheduler = s.Scheduler
	historyStore = s.HistoryStore
	configStore = s.ConfigStore
	credManager = s.Credentials
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
