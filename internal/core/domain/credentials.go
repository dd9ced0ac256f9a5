package domain

import (
	"fmt"
	"time"
)

// Provider identifies an external account a user can connect.
type Provider string

const (
	// ProviderGoogle covers both the calendar and mailbox domains.
	ProviderGoogle Provider = "google"
	// ProviderDropbox covers the file storage domain.
	ProviderDropbox Provider = "dropbox"
	// ProviderMeetingBot covers the meeting bot domain.
	ProviderMeetingBot Provider = "meeting_bot"
)

// ParseProvider converts a user-supplied provider name to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderDropbox, ProviderMeetingBot:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// Credentials stores one user's tokens for one provider. A user has at
// most one Credentials per provider; domains backed by a provider the
// user never connected are skipped during sync rounds.
type Credentials struct {
	// UserID identifies the scheduled user.
	UserID string `json:"user_id"`
	// Provider is the external account these tokens belong to.
	Provider Provider `json:"provider"`

	// AccountIdentifier is the user's email or account name at the
	// provider, fetched after authentication.
	AccountIdentifier string `json:"account_identifier,omitempty"`

	// OAuth holds OAuth tokens. Nil for API-key providers.
	OAuth *OAuthCredentials `json:"oauth,omitempty"`

	// APIKey holds a static key. Nil for OAuth providers.
	APIKey string `json:"api_key,omitempty"`

	// CreatedAt is when the credentials were created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the credentials were last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthCredentials stores OAuth tokens for a specific user account.
type OAuthCredentials struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the OAuth access token has expired.
func (c *OAuthCredentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a usable
// token.
func (c *Credentials) IsAuthenticated() bool {
	if c.OAuth != nil && c.OAuth.AccessToken != "" {
		return true
	}
	return c.APIKey != ""
}
