package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

func TestTrigger_FullRound(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{
		roundResult: []domain.DomainResult{
			{Domain: domain.DomainCalendar, Success: true, Created: 2, SignalHits: 0},
			{Domain: domain.DomainMailbox, Success: false, Error: "status 503: unavailable"},
		},
	}})

	out, err := runCommand(t, "trigger", "alice")
	require.NoError(t, err)

	assert.Contains(t, out, "calendar")
	assert.Contains(t, out, "+2 ~0 -0")
	assert.Contains(t, out, "failed: status 503: unavailable")
}

func TestTrigger_SingleDomain(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{
		syncResult: domain.DomainResult{Domain: domain.DomainMailbox, Success: true, Updated: 1, SignalHits: 2},
	}})

	out, err := runCommand(t, "trigger", "alice", "mailbox")
	require.NoError(t, err)

	assert.Contains(t, out, "mailbox")
	assert.Contains(t, out, "signals=2")
}

func TestTrigger_UnknownDomain(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{}})

	_, err := runCommand(t, "trigger", "alice", "pigeons")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestTrigger_NotScheduled(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{roundErr: domain.ErrNotScheduled}})

	_, err := runCommand(t, "trigger", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotScheduled)
}
