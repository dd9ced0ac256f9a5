package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// CredentialsManager is the credential seam the connect commands drive.
type CredentialsManager interface {
	Connect(ctx context.Context, creds domain.Credentials) error
	Disconnect(ctx context.Context, userID string, provider domain.Provider) error
}

var (
	connectToken   string
	connectRefresh string
	connectAccount string
)

var connectCmd = &cobra.Command{
	Use:   "connect <user-id> <provider>",
	Short: "Store credentials for a provider",
	Long: `Stores a user's credentials for a provider (google, dropbox,
meeting_bot). Google and Dropbox take an OAuth access token, with an
optional refresh token for Google; meeting_bot takes an API key. Until
a provider is connected its domains are skipped during sync rounds.`,
	Args: cobra.ExactArgs(2),
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <user-id> <provider>",
	Short: "Remove stored credentials for a provider",
	Args:  cobra.ExactArgs(2),
	RunE:  runDisconnect,
}

func init() {
	connectCmd.Flags().StringVar(&connectToken, "token", "", "access token or API key")
	connectCmd.Flags().StringVar(&connectRefresh, "refresh-token", "", "OAuth refresh token (google)")
	connectCmd.Flags().StringVar(&connectAccount, "account", "", "account identifier at the provider")
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if credManager == nil {
		return errors.New("credentials not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := domain.ParseProvider(args[1])
	if err != nil {
		return err
	}
	if connectToken == "" {
		return fmt.Errorf("%w: --token is required", domain.ErrInvalidInput)
	}

	creds := domain.Credentials{
		UserID:            args[0],
		Provider:          provider,
		AccountIdentifier: connectAccount,
	}
	if provider == domain.ProviderMeetingBot {
		creds.APIKey = connectToken
	} else {
		creds.OAuth = &domain.OAuthCredentials{
			AccessToken:  connectToken,
			RefreshToken: connectRefresh,
			TokenType:    "Bearer",
		}
	}

	if err := credManager.Connect(ctx, creds); err != nil {
		return fmt.Errorf("connecting %s: %w", provider, err)
	}

	cmd.Printf("Connected %s for %s\n", provider, args[0])
	return nil
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	if credManager == nil {
		return errors.New("credentials not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := domain.ParseProvider(args[1])
	if err != nil {
		return err
	}

	if err := credManager.Disconnect(ctx, args[0], provider); err != nil {
		return fmt.Errorf("disconnecting %s: %w", provider, err)
	}

	cmd.Printf("Disconnected %s for %s\n", provider, args[0])
	return nil
}
