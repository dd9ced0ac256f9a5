package file

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// Config keys for the scheduler tunables.
const (
	KeyActivityTimeout = "scheduler.activity_timeout"
	KeySignalWindow    = "scheduler.signal_window"
	KeyMeetingDebounce = "scheduler.meeting_debounce"
	KeyRetryAttempts   = "scheduler.retry_attempts"
	KeyRetryBaseDelay  = "scheduler.retry_base_delay"
	KeyCallTimeout     = "scheduler.call_timeout"
	KeyHistoryKeep     = "scheduler.history_keep"
)

// SchedulerConfig builds the scheduler tunables from a config store,
// falling back to defaults for absent or unparseable keys.
func SchedulerConfig(store driven.ConfigStore) domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()

	if d := store.GetDuration(KeyActivityTimeout); d > 0 {
		cfg.ActivityTimeout = d
	}
	if d := store.GetDuration(KeySignalWindow); d > 0 {
		cfg.SignalWindow = d
	}
	if d := store.GetDuration(KeyMeetingDebounce); d > 0 {
		cfg.MeetingDebounce = d
	}
	if n := store.GetInt(KeyRetryAttempts); n > 0 {
		cfg.RetryAttempts = n
	}
	if d := store.GetDuration(KeyRetryBaseDelay); d > 0 {
		cfg.RetryBaseDelay = d
	}
	if d := store.GetDuration(KeyCallTimeout); d > 0 {
		cfg.CallTimeout = d
	}
	if n := store.GetInt(KeyHistoryKeep); n > 0 {
		cfg.HistoryKeep = n
	}

	return cfg
}

// Watcher reloads the config store when the config file changes on disk
// and notifies the caller with the freshly built scheduler tunables.
type Watcher struct {
	store   *ConfigStore
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching the store's config file. onChange runs on
// the watcher goroutine after each successful reload.
func NewWatcher(store *ConfigStore, onChange func(domain.SchedulerConfig)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file on save, which
	// drops a watch placed on the file itself.
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:   store,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(domain.SchedulerConfig)) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.Path() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.store.Load(); err != nil {
				logger.Warn("config reload failed: %v", err)
				continue
			}
			logger.Debug("config reloaded from %s", w.store.Path())
			if onChange != nil {
				onChange(SchedulerConfig(w.store))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
