package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

var activityCmd = &cobra.Command{
	Use:   "activity <user-id> <event>",
	Short: "Record a user activity event",
	Long: `Feeds an activity event into the user's scheduler. Events:
app_load, calendar_viewed, meeting_created, interaction,
signal_detected. Events that qualify for an immediate sync run it
before the command returns (meeting_created is debounced).`,
	Args: cobra.ExactArgs(2),
	RunE: runActivity,
}

func init() {
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	event, err := domain.ParseActivityEvent(args[1])
	if err != nil {
		return err
	}

	if err := scheduler.RecordActivity(ctx, args[0], event); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}

	cmd.Printf("Recorded %s for %s\n", event, args[0])
	return nil
}
