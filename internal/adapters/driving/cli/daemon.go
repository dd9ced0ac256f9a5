package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var daemonUsers []string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the sync scheduler in the foreground",
	Long: `Starts background scheduling for the given users and keeps
running until interrupted. Each user starts on the slowest cadence and
speeds up as activity and changes are observed.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringSliceVarP(&daemonUsers, "user", "u", nil, "user to schedule (repeatable)")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	if len(daemonUsers) == 0 {
		return errors.New("at least one --user is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, userID := range daemonUsers {
		if err := scheduler.Start(ctx, userID); err != nil {
			scheduler.Shutdown()
			return fmt.Errorf("starting scheduler for %s: %w", userID, err)
		}
		cmd.Printf("Scheduling %s\n", userID)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
	case <-ctx.Done():
	}

	cmd.Println("Shutting down...")
	scheduler.Shutdown()
	return nil
}
