package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <user-id> [domain]",
	Short: "Run a sync round immediately",
	Long: `Runs one sync round for the user outside the timer cycle.
With a domain argument (calendar, file_storage, mailbox, meeting_bot)
only that domain is synced; otherwise all domains fan out in parallel.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	userID := args[0]

	if len(args) == 2 {
		d, err := domain.ParseSyncDomain(args[1])
		if err != nil {
			return err
		}

		result, err := scheduler.TriggerSync(ctx, userID, d)
		if err != nil {
			return fmt.Errorf("triggering sync: %w", err)
		}
		cmd.Printf("%-12s %s\n", result.Domain, formatResult(result))
		return nil
	}

	results, err := scheduler.TriggerRound(ctx, userID)
	if err != nil {
		return fmt.Errorf("triggering round: %w", err)
	}
	for _, result := range results {
		cmd.Printf("%-12s %s\n", result.Domain, formatResult(result))
	}
	return nil
}
