// Package memory provides in-memory implementations of the persistence
// ports, used in tests and for ephemeral daemon runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
)

// RoundStore is an in-memory driven.RoundHistoryStore.
type RoundStore struct {
	mu     sync.RWMutex
	rounds map[string][]domain.RoundRecord
}

var _ driven.RoundHistoryStore = (*RoundStore)(nil)

// NewRoundStore creates an empty round history store.
func NewRoundStore() *RoundStore {
	return &RoundStore{rounds: make(map[string][]domain.RoundRecord)}
}

// RecordRound stores a completed round.
func (s *RoundStore) RecordRound(_ context.Context, record *domain.RoundRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[record.UserID] = append(s.rounds[record.UserID], *record)
	return nil
}

// RoundHistory returns recent rounds for a user, most recent first.
func (s *RoundStore) RoundHistory(_ context.Context, userID string, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.rounds[userID]
	out := make([]domain.RoundRecord, len(stored))
	copy(out, stored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PruneHistory keeps the most recent 'keep' rounds per user.
func (s *RoundStore) PruneHistory(_ context.Context, keep int) error {
	if keep <= 0 {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, stored := range s.rounds {
		if len(stored) <= keep {
			continue
		}
		sorted := make([]domain.RoundRecord, len(stored))
		copy(sorted, stored)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartedAt.After(sorted[j].StartedAt)
		})
		s.rounds[userID] = sorted[:keep]
	}
	return nil
}
