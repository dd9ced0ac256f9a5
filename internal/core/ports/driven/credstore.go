package driven

import (
	"context"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// CredentialsStore persists per-user provider credentials.
type CredentialsStore interface {
	// SaveCredentials stores or updates credentials for a user and
	// provider pair.
	SaveCredentials(ctx context.Context, creds domain.Credentials) error

	// GetCredentials retrieves credentials for a user and provider.
	// Returns domain.ErrNotFound when the user never connected the
	// provider.
	GetCredentials(ctx context.Context, userID string, provider domain.Provider) (*domain.Credentials, error)

	// DeleteCredentials removes credentials for a user and provider.
	DeleteCredentials(ctx context.Context, userID string, provider domain.Provider) error
}
