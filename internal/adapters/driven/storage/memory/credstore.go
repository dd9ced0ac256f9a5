package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
)

type credKey struct {
	userID   string
	provider domain.Provider
}

// CredentialsStore is an in-memory driven.CredentialsStore.
type CredentialsStore struct {
	mu    sync.RWMutex
	creds map[credKey]domain.Credentials
}

var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// NewCredentialsStore creates an empty credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{creds: make(map[credKey]domain.Credentials)}
}

// SaveCredentials stores or updates credentials for a user and provider.
func (s *CredentialsStore) SaveCredentials(_ context.Context, creds domain.Credentials) error {
	if creds.UserID == "" || creds.Provider == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[credKey{creds.UserID, creds.Provider}] = creds
	return nil
}

// GetCredentials retrieves credentials for a user and provider.
func (s *CredentialsStore) GetCredentials(_ context.Context, userID string, provider domain.Provider) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.creds[credKey{userID, provider}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := creds
	return &out, nil
}

// DeleteCredentials removes credentials for a user and provider.
func (s *CredentialsStore) DeleteCredentials(_ context.Context, userID string, provider domain.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, credKey{userID, provider})
	return nil
}
