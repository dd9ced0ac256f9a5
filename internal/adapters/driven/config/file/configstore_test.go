package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("verbose", true))
	require.NoError(t, store.Set("scheduler.retry_attempts", 5))

	assert.True(t, store.GetBool("verbose"))
	assert.Equal(t, 5, store.GetInt("scheduler.retry_attempts"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("scheduler.activity_timeout", "90s"))
	require.NoError(t, store.Set("scheduler.signal_window", "not a duration"))

	assert.Equal(t, 90*time.Second, store.GetDuration("scheduler.activity_timeout"))
	assert.Zero(t, store.GetDuration("scheduler.signal_window"))
	assert.Zero(t, store.GetDuration("missing"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("scheduler.call_timeout", "20s"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, reopened.GetDuration("scheduler.call_timeout"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scheduler]\nretry_attempts = 4\nsignal_window = \"15m\"\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, store.GetInt("scheduler.retry_attempts"))
	assert.Equal(t, 15*time.Minute, store.GetDuration("scheduler.signal_window"))
}

func TestSchedulerConfig_DefaultsWhenUnset(t *testing.T) {
	store := newTestConfigStore(t)

	cfg := SchedulerConfig(store)

	assert.Equal(t, domain.DefaultSchedulerConfig(), cfg)
}

func TestSchedulerConfig_OverridesFromStore(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set(KeyActivityTimeout, "3m"))
	require.NoError(t, store.Set(KeyRetryAttempts, 5))
	require.NoError(t, store.Set(KeyHistoryKeep, 50))

	cfg := SchedulerConfig(store)

	assert.Equal(t, 3*time.Minute, cfg.ActivityTimeout)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 50, cfg.HistoryKeep)
	// Untouched keys keep their defaults
	assert.Equal(t, domain.DefaultSchedulerConfig().SignalWindow, cfg.SignalWindow)
}

func TestWatcher_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyRetryAttempts, 3))

	updates := make(chan domain.SchedulerConfig, 1)
	watcher, err := NewWatcher(store, func(cfg domain.SchedulerConfig) {
		select {
		case updates <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer watcher.Close()

	// Rewrite the file out-of-band, as an editor would.
	require.NoError(t, os.WriteFile(store.Path(), []byte("[scheduler]\nretry_attempts = 7\n"), 0600))

	select {
	case cfg := <-updates:
		assert.Equal(t, 7, cfg.RetryAttempts)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the config change")
	}
}
