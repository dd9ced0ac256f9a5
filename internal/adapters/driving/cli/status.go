package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status [user-id]",
	Short: "Show scheduling state",
	Long: `Without arguments, prints aggregate scheduler statistics.
With a user ID, prints that user's scheduling state; --history also
lists their recent sync rounds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusHistory, "history", 0, "number of recent rounds to list")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	if len(args) == 0 {
		return printStats(cmd)
	}
	return printUserStatus(cmd, args[0])
}

func printStats(cmd *cobra.Command) error {
	stats := scheduler.Stats()

	cmd.Printf("Scheduled users:     %d\n", stats.ScheduledUsers)
	cmd.Printf("Active users:        %d\n", stats.ActiveUsers)
	cmd.Printf("Signal-active users: %d\n", stats.SignalActiveUsers)
	if stats.AverageInterval > 0 {
		cmd.Printf("Average interval:    %s\n", stats.AverageInterval)
	}
	return nil
}

func printUserStatus(cmd *cobra.Command, userID string) error {
	state, err := scheduler.State(userID)
	if err != nil {
		return fmt.Errorf("fetching state for %s: %w", userID, err)
	}

	cmd.Printf("User:             %s\n", state.UserID)
	cmd.Printf("Interval:         %s\n", state.CurrentInterval)
	cmd.Printf("Active:           %t (count %d)\n", state.Active, state.ActivityCount)
	cmd.Printf("Change frequency: %s\n", state.ChangeFrequency)
	cmd.Printf("Signal active:    %t (detections %d, pending %d)\n",
		state.Signal.Active, state.Signal.DetectionCount, state.Signal.PendingCount)
	if !state.LastActivity.IsZero() {
		cmd.Printf("Last activity:    %s\n", state.LastActivity.Format(time.RFC3339))
	}
	if !state.LastBackgroundSync.IsZero() {
		cmd.Printf("Last sync:        %s\n", state.LastBackgroundSync.Format(time.RFC3339))
	}

	if statusHistory > 0 {
		return printHistory(cmd, userID, statusHistory)
	}
	return nil
}

func printHistory(cmd *cobra.Command, userID string, limit int) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	records, err := historyStore.RoundHistory(context.Background(), userID, limit)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("\nNo rounds recorded.")
		return nil
	}

	cmd.Println("\nRecent rounds:")
	for _, rec := range records {
		cmd.Printf("  %s  %-10s  changes=%d  failures=%d  next=%s\n",
			rec.StartedAt.Format(time.RFC3339), rec.Trigger,
			rec.Changes, rec.FailureCount(), rec.Interval)
		for _, res := range rec.Results {
			cmd.Printf("    %-12s %s\n", res.Domain, formatResult(res))
		}
	}
	return nil
}

func formatResult(res domain.DomainResult) string {
	switch {
	case !res.Success:
		return fmt.Sprintf("failed: %s", res.Error)
	case res.Skipped:
		return fmt.Sprintf("skipped (%s)", res.SkipReason)
	default:
		s := fmt.Sprintf("+%d ~%d -%d", res.Created, res.Updated, res.Deleted)
		if res.SignalHits > 0 {
			s += fmt.Sprintf(" signals=%d", res.SignalHits)
		}
		return s
	}
}
