package main

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	gmailapi "google.golang.org/api/gmail/v1"

	configfile "github.com/custodia-labs/cadence-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cadence-cli/internal/adapters/driven/credentials"
	"github.com/custodia-labs/cadence-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cadence-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/connectors/calendar"
	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/connectors/filestorage"
	"github.com/custodia-labs/cadence-cli/internal/connectors/mailbox"
	"github.com/custodia-labs/cadence-cli/internal/connectors/meetingbot"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cadence-cli/internal/core/services"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	cfg := configfile.SchedulerConfig(configStore)
	creds := credentials.NewProvider(store.CredentialsStore(), googleApp(configStore))

	clk := clock.System()
	retry := call.Config{
		MaxAttempts: cfg.RetryAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		Timeout:     cfg.CallTimeout,
	}

	triggerAddress := configStore.GetString("mailbox.trigger_address")
	mail := mailbox.New(creds, clk, retry, triggerAddress)

	syncers := driven.SyncerSet{
		domain.DomainCalendar:    calendar.New(creds, clk, retry),
		domain.DomainFileStorage: filestorage.New(creds, clk, retry),
		domain.DomainMailbox:     mail,
		domain.DomainMeetingBot: meetingbot.New(creds, nil,
			configStore.GetString("meeting_bot.base_url"), clk, retry),
	}

	scheduler, err := services.NewScheduler(cfg, clk, syncers, mail, store.RoundHistoryStore())
	if err != nil {
		return fmt.Errorf("building scheduler: %w", err)
	}
	defer scheduler.Shutdown()

	watcher, err := configfile.NewWatcher(configStore, func(updated domain.SchedulerConfig) {
		logger.Info("scheduler config updated")
		scheduler.UpdateConfig(updated)
	})
	if err != nil {
		logger.Warn("config hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Scheduler:    scheduler,
		HistoryStore: store.RoundHistoryStore(),
		ConfigStore:  configStore,
		Credentials:  creds,
	})

	return cli.Execute()
}

// googleApp builds the OAuth application config used to refresh Google
// tokens. Returns nil when no client is configured; stored access
// tokens are then used as-is.
func googleApp(configStore driven.ConfigStore) *oauth2.Config {
	clientID := configStore.GetString("google.client_id")
	if clientID == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: configStore.GetString("google.client_secret"),
		Endpoint:     google.Endpoint,
		Scopes: []string{
			calendarapi.CalendarReadonlyScope,
			gmailapi.GmailReadonlyScope,
		},
	}
}
