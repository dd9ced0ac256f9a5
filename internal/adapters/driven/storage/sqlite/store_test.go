package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRound(id, userID string, startedAt time.Time) *domain.RoundRecord {
	return &domain.RoundRecord{
		ID:        id,
		UserID:    userID,
		Trigger:   domain.TriggerBackground,
		StartedAt: startedAt,
		EndedAt:   startedAt.Add(2 * time.Second),
		Results: []domain.DomainResult{
			{Domain: domain.DomainCalendar, Success: true, Processed: 3, Created: 2, Updated: 1},
			{Domain: domain.DomainMailbox, Success: true, Skipped: true, SkipReason: domain.SkipReasonNoChanges},
			{Domain: domain.DomainMeetingBot, Success: false, Error: "status 502: upstream"},
		},
		Changes:  3,
		Interval: 30 * time.Second,
	}
}

func TestStore_MigratesOnOpen(t *testing.T) {
	store := newTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, 1)
}

func TestRoundStore_RecordAndHistory(t *testing.T) {
	store := newTestStore(t)
	rounds := store.RoundHistoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, rounds.RecordRound(ctx, newTestRound("r1", "alice", base)))
	require.NoError(t, rounds.RecordRound(ctx, newTestRound("r2", "alice", base.Add(time.Minute))))
	require.NoError(t, rounds.RecordRound(ctx, newTestRound("r3", "bob", base)))

	history, err := rounds.RoundHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Most recent first
	assert.Equal(t, "r2", history[0].ID)
	assert.Equal(t, "r1", history[1].ID)

	rec := history[1]
	assert.Equal(t, domain.TriggerBackground, rec.Trigger)
	assert.Equal(t, 3, rec.Changes)
	assert.Equal(t, 30*time.Second, rec.Interval)
	require.Len(t, rec.Results, 3)
	assert.Equal(t, domain.DomainCalendar, rec.Results[0].Domain)
	assert.Equal(t, 2, rec.Results[0].Created)
	assert.True(t, rec.Results[1].Skipped)
	assert.Equal(t, domain.SkipReasonNoChanges, rec.Results[1].SkipReason)
	assert.Equal(t, 1, rec.FailureCount())
	assert.Equal(t, "status 502: upstream", rec.Results[2].Error)
}

func TestRoundStore_HistoryLimit(t *testing.T) {
	store := newTestStore(t)
	rounds := store.RoundHistoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := newTestRound(string(rune('a'+i)), "alice", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, rounds.RecordRound(ctx, rec))
	}

	history, err := rounds.RoundHistory(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "e", history[0].ID)
}

func TestRoundStore_RejectsInvalidRecord(t *testing.T) {
	store := newTestStore(t)
	rounds := store.RoundHistoryStore()

	err := rounds.RecordRound(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = rounds.RecordRound(context.Background(), &domain.RoundRecord{UserID: "alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoundStore_PruneKeepsRecentPerUser(t *testing.T) {
	store := newTestStore(t)
	rounds := store.RoundHistoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, rounds.RecordRound(ctx,
			newTestRound(string(rune('a'+i)), "alice", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, rounds.RecordRound(ctx, newTestRound("z", "bob", base)))

	require.NoError(t, rounds.PruneHistory(ctx, 2))

	alice, err := rounds.RoundHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "d", alice[0].ID)
	assert.Equal(t, "c", alice[1].ID)

	bob, err := rounds.RoundHistory(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Len(t, bob, 1)
}

func TestCredentialsStore_SaveGetDelete(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialsStore()
	ctx := context.Background()

	_, err := creds.GetCredentials(ctx, "alice", domain.ProviderGoogle)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, creds.SaveCredentials(ctx, domain.Credentials{
		UserID:            "alice",
		Provider:          domain.ProviderGoogle,
		AccountIdentifier: "alice@gmail.com",
		OAuth: &domain.OAuthCredentials{
			AccessToken:  "at",
			RefreshToken: "rt",
			TokenType:    "Bearer",
			Expiry:       expiry,
		},
	}))

	got, err := creds.GetCredentials(ctx, "alice", domain.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", got.AccountIdentifier)
	require.NotNil(t, got.OAuth)
	assert.Equal(t, "at", got.OAuth.AccessToken)
	assert.True(t, got.OAuth.Expiry.Equal(expiry))
	assert.True(t, got.IsAuthenticated())

	require.NoError(t, creds.DeleteCredentials(ctx, "alice", domain.ProviderGoogle))
	_, err = creds.GetCredentials(ctx, "alice", domain.ProviderGoogle)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialsStore_UpsertByUserAndProvider(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialsStore()
	ctx := context.Background()

	require.NoError(t, creds.SaveCredentials(ctx, domain.Credentials{
		UserID:   "alice",
		Provider: domain.ProviderMeetingBot,
		APIKey:   "old-key",
	}))
	require.NoError(t, creds.SaveCredentials(ctx, domain.Credentials{
		UserID:   "alice",
		Provider: domain.ProviderMeetingBot,
		APIKey:   "new-key",
	}))

	got, err := creds.GetCredentials(ctx, "alice", domain.ProviderMeetingBot)
	require.NoError(t, err)
	assert.Equal(t, "new-key", got.APIKey)
	assert.Nil(t, got.OAuth)
}

func TestCredentialsStore_RejectsMissingKeys(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialsStore()

	err := creds.SaveCredentials(context.Background(), domain.Credentials{Provider: domain.ProviderGoogle})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
