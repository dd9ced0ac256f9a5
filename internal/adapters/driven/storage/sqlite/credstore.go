package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// credentialsStore implements driven.CredentialsStore.
type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// SaveCredentials stores or updates credentials for a user and provider.
func (s *credentialsStore) SaveCredentials(ctx context.Context, creds domain.Credentials) error {
	if creds.UserID == "" || creds.Provider == "" {
		return domain.ErrInvalidInput
	}

	oauthJSON, err := json.Marshal(creds.OAuth)
	if err != nil {
		return fmt.Errorf("marshalling oauth credentials: %w", err)
	}

	now := time.Now().UTC()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, provider, account_identifier, oauth, api_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			account_identifier = excluded.account_identifier,
			oauth = excluded.oauth,
			api_key = excluded.api_key,
			updated_at = excluded.updated_at
	`, creds.UserID, string(creds.Provider), creds.AccountIdentifier,
		string(oauthJSON), creds.APIKey, creds.CreatedAt, creds.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// GetCredentials retrieves credentials for a user and provider.
func (s *credentialsStore) GetCredentials(ctx context.Context, userID string, provider domain.Provider) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT user_id, provider, account_identifier, oauth, api_key, created_at, updated_at
		FROM credentials WHERE user_id = ? AND provider = ?
	`, userID, string(provider))

	var creds domain.Credentials
	var providerStr string
	var accountIdentifier, oauthJSON, apiKey sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&creds.UserID, &providerStr, &accountIdentifier,
		&oauthJSON, &apiKey, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}

	creds.Provider = domain.Provider(providerStr)
	creds.AccountIdentifier = accountIdentifier.String
	creds.APIKey = apiKey.String
	if createdAt.Valid {
		creds.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		creds.UpdatedAt = updatedAt.Time
	}

	if oauthJSON.Valid && oauthJSON.String != jsonNull && oauthJSON.String != "" {
		var oauth domain.OAuthCredentials
		if err := json.Unmarshal([]byte(oauthJSON.String), &oauth); err != nil {
			return nil, fmt.Errorf("unmarshalling oauth credentials: %w", err)
		}
		creds.OAuth = &oauth
	}

	return &creds, nil
}

// DeleteCredentials removes credentials for a user and provider.
func (s *credentialsStore) DeleteCredentials(ctx context.Context, userID string, provider domain.Provider) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM credentials WHERE user_id = ? AND provider = ?
	`, userID, string(provider))
	if err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
