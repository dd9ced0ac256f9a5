package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// stubCredentials implements CredentialsManager for command tests.
type stubCredentials struct {
	saved        []domain.Credentials
	disconnected []domain.Provider
	err          error
}

var _ CredentialsManager = (*stubCredentials)(nil)

func (c *stubCredentials) Connect(_ context.Context, creds domain.Credentials) error {
	if c.err != nil {
		return c.err
	}
	c.saved = append(c.saved, creds)
	return nil
}

func (c *stubCredentials) Disconnect(_ context.Context, _ string, provider domain.Provider) error {
	if c.err != nil {
		return c.err
	}
	c.disconnected = append(c.disconnected, provider)
	return nil
}

func TestConnect_StoresOAuthToken(t *testing.T) {
	creds := &stubCredentials{}
	SetServices(Services{Credentials: creds})

	out, err := runCommand(t, "connect", "alice", "google",
		"--token", "ya29.token", "--refresh-token", "1//refresh", "--account", "alice@example.com")
	require.NoError(t, err)

	assert.Contains(t, out, "Connected google for alice")
	require.Len(t, creds.saved, 1)
	saved := creds.saved[0]
	assert.Equal(t, domain.ProviderGoogle, saved.Provider)
	assert.Equal(t, "alice@example.com", saved.AccountIdentifier)
	require.NotNil(t, saved.OAuth)
	assert.Equal(t, "ya29.token", saved.OAuth.AccessToken)
	assert.Equal(t, "1//refresh", saved.OAuth.RefreshToken)
	assert.Empty(t, saved.APIKey)
}

func TestConnect_MeetingBotUsesAPIKey(t *testing.T) {
	creds := &stubCredentials{}
	SetServices(Services{Credentials: creds})

	_, err := runCommand(t, "connect", "alice", "meeting_bot", "--token", "mb-key")
	require.NoError(t, err)

	require.Len(t, creds.saved, 1)
	assert.Equal(t, "mb-key", creds.saved[0].APIKey)
	assert.Nil(t, creds.saved[0].OAuth)
}

func TestConnect_RequiresToken(t *testing.T) {
	creds := &stubCredentials{}
	SetServices(Services{Credentials: creds})

	_, err := runCommand(t, "connect", "alice", "dropbox")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, creds.saved)
}

func TestConnect_UnknownProvider(t *testing.T) {
	SetServices(Services{Credentials: &stubCredentials{}})

	_, err := runCommand(t, "connect", "alice", "fastmail", "--token", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestDisconnect_RemovesCredentials(t *testing.T) {
	creds := &stubCredentials{}
	SetServices(Services{Credentials: creds})

	out, err := runCommand(t, "disconnect", "alice", "dropbox")
	require.NoError(t, err)

	assert.Contains(t, out, "Disconnected dropbox for alice")
	assert.Equal(t, []domain.Provider{domain.ProviderDropbox}, creds.disconnected)
}
