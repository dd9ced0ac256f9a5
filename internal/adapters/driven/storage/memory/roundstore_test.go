package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

func round(id, userID string, startedAt time.Time) *domain.RoundRecord {
	return &domain.RoundRecord{
		ID:        id,
		UserID:    userID,
		Trigger:   domain.TriggerBackground,
		StartedAt: startedAt,
	}
}

func TestRoundStore_HistoryOrderedMostRecentFirst(t *testing.T) {
	s := NewRoundStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRound(ctx, round("r1", "alice", base)))
	require.NoError(t, s.RecordRound(ctx, round("r2", "alice", base.Add(time.Minute))))
	require.NoError(t, s.RecordRound(ctx, round("r3", "bob", base)))

	history, err := s.RoundHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r2", history[0].ID)
	assert.Equal(t, "r1", history[1].ID)
}

func TestRoundStore_HistoryRespectsLimit(t *testing.T) {
	s := NewRoundStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordRound(ctx, round(string(rune('a'+i)), "alice", base.Add(time.Duration(i)*time.Minute))))
	}

	history, err := s.RoundHistory(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "e", history[0].ID)
}

func TestRoundStore_RejectsInvalidRecord(t *testing.T) {
	s := NewRoundStore()

	assert.ErrorIs(t, s.RecordRound(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.RecordRound(context.Background(), &domain.RoundRecord{}), domain.ErrInvalidInput)
}

func TestRoundStore_Prune(t *testing.T) {
	s := NewRoundStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.RecordRound(ctx, round(string(rune('a'+i)), "alice", base.Add(time.Duration(i)*time.Minute))))
	}

	require.NoError(t, s.PruneHistory(ctx, 2))

	history, err := s.RoundHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "d", history[0].ID)
	assert.Equal(t, "c", history[1].ID)
}

func TestCredentialsStore_RoundTrip(t *testing.T) {
	s := NewCredentialsStore()
	ctx := context.Background()

	_, err := s.GetCredentials(ctx, "alice", domain.ProviderDropbox)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.SaveCredentials(ctx, domain.Credentials{
		UserID:   "alice",
		Provider: domain.ProviderDropbox,
		APIKey:   "token",
	}))

	got, err := s.GetCredentials(ctx, "alice", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, "token", got.APIKey)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, s.DeleteCredentials(ctx, "alice", domain.ProviderDropbox))
	_, err = s.GetCredentials(ctx, "alice", domain.ProviderDropbox)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
