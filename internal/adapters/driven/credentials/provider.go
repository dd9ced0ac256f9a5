// Package credentials bridges the stored per-user provider tokens to
// the clients the sync handlers need.
package credentials

import (
	"context"
	"fmt"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/cadence-cli/internal/connectors/filestorage"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
)

// Provider turns stored credentials into provider clients. It
// implements the token and client provider seams of every sync handler.
type Provider struct {
	store  driven.CredentialsStore
	google *oauth2.Config
}

// NewProvider creates a credentials provider. googleApp carries the
// OAuth application used to refresh Google tokens; it may be nil when
// only static-key providers are configured.
func NewProvider(store driven.CredentialsStore, googleApp *oauth2.Config) *Provider {
	return &Provider{store: store, google: googleApp}
}

// TokenSource implements the Google token seam shared by the calendar
// and mailbox handlers. The returned source refreshes expired access
// tokens through the OAuth app when a refresh token is on file.
func (p *Provider) TokenSource(ctx context.Context, userID string) (oauth2.TokenSource, error) {
	creds, err := p.store.GetCredentials(ctx, userID, domain.ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if creds.OAuth == nil || creds.OAuth.AccessToken == "" {
		return nil, domain.ErrNotFound
	}

	token := &oauth2.Token{
		AccessToken:  creds.OAuth.AccessToken,
		RefreshToken: creds.OAuth.RefreshToken,
		TokenType:    creds.OAuth.TokenType,
		Expiry:       creds.OAuth.Expiry,
	}

	if p.google == nil || token.RefreshToken == "" {
		return oauth2.StaticTokenSource(token), nil
	}
	return p.google.TokenSource(ctx, token), nil
}

// FilesClient implements the Dropbox client seam of the file storage
// handler.
func (p *Provider) FilesClient(ctx context.Context, userID string) (filestorage.FolderLister, error) {
	creds, err := p.store.GetCredentials(ctx, userID, domain.ProviderDropbox)
	if err != nil {
		return nil, err
	}

	token := creds.APIKey
	if token == "" && creds.OAuth != nil {
		token = creds.OAuth.AccessToken
	}
	if token == "" {
		return nil, domain.ErrNotFound
	}

	return files.New(dropbox.Config{Token: token}), nil
}

// APIKey implements the meeting bot credentials seam.
func (p *Provider) APIKey(ctx context.Context, userID string) (string, error) {
	creds, err := p.store.GetCredentials(ctx, userID, domain.ProviderMeetingBot)
	if err != nil {
		return "", err
	}
	if creds.APIKey == "" {
		return "", domain.ErrNotFound
	}
	return creds.APIKey, nil
}

// Connect stores credentials for a user and provider after validating
// they carry a usable token.
func (p *Provider) Connect(ctx context.Context, creds domain.Credentials) error {
	if !creds.IsAuthenticated() {
		return fmt.Errorf("%w: credentials carry no token", domain.ErrInvalidInput)
	}
	return p.store.SaveCredentials(ctx, creds)
}

// Disconnect removes a user's credentials for a provider.
func (p *Provider) Disconnect(ctx context.Context, userID string, provider domain.Provider) error {
	return p.store.DeleteCredentials(ctx, userID, provider)
}
