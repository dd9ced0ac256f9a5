package filestorage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// FolderLister is the slice of the Dropbox files API this handler
// needs. files.Client satisfies it.
type FolderLister interface {
	ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error)
	ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error)
}

// ClientProvider yields a Dropbox files client for a user's account.
// Implementations return domain.ErrNotFound when the user has not
// connected Dropbox.
type ClientProvider interface {
	FilesClient(ctx context.Context, userID string) (FolderLister, error)
}

// Syncer pulls incremental file changes from Dropbox using the
// list_folder cursor protocol, rooted at the account root.
type Syncer struct {
	clients ClientProvider
	clk     clock.Clock
	retry   call.Config

	mu      sync.Mutex
	cursors map[string]string
}

// New creates a file storage sync handler.
func New(clients ClientProvider, clk clock.Clock, retry call.Config) *Syncer {
	return &Syncer{
		clients: clients,
		clk:     clk,
		retry:   retry,
		cursors: make(map[string]string),
	}
}

// Domain implements driven.DomainSyncer.
func (s *Syncer) Domain() domain.SyncDomain { return domain.DomainFileStorage }

// SyncUser implements driven.DomainSyncer.
func (s *Syncer) SyncUser(ctx context.Context, userID string) domain.DomainResult {
	client, err := s.clients.FilesClient(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SkippedResult(domain.DomainFileStorage, domain.SkipReasonNotConfigured)
	}
	if err != nil {
		return domain.FailedResult(domain.DomainFileStorage, fmt.Errorf("file storage client: %w", err))
	}

	cursor := s.cursor(userID)
	fullSync := cursor == ""
	result := domain.DomainResult{Domain: domain.DomainFileStorage, Success: true}

	for {
		var page *files.ListFolderResult
		res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
			out, err := listPage(client, cursor)
			if err != nil {
				if isAuthError(err) {
					return call.Terminal(err)
				}
				return err
			}
			page = out
			return nil
		})
		if res.Failed() {
			if isCursorReset(res.Err) {
				logger.Debug("filestorage: cursor reset for user %s", userID)
				s.setCursor(userID, "")
				return domain.SkippedResult(domain.DomainFileStorage, domain.SkipReasonCursorReset)
			}
			if res.Outcome == call.TerminalFailure && isAuthError(res.Err) {
				return domain.SkippedResult(domain.DomainFileStorage, domain.SkipReasonNotConfigured)
			}
			return domain.FailedResult(domain.DomainFileStorage, res.Err)
		}

		countEntries(page.Entries, fullSync, &result)
		cursor = page.Cursor

		if !page.HasMore {
			break
		}
	}

	s.setCursor(userID, cursor)

	if result.Processed == 0 {
		return domain.SkippedResult(domain.DomainFileStorage, domain.SkipReasonNoChanges)
	}
	return result
}

// listPage issues either the initial recursive listing or a cursor
// continuation depending on whether we have state for the user.
func listPage(client FolderLister, cursor string) (*files.ListFolderResult, error) {
	if cursor == "" {
		arg := files.NewListFolderArg("")
		arg.Recursive = true
		return client.ListFolder(arg)
	}
	return client.ListFolderContinue(files.NewListFolderContinueArg(cursor))
}

// countEntries folds one page of listing entries into the running
// result. Folder entries only count toward Processed; on a full sync
// every live file counts as created.
func countEntries(entries []files.IsMetadata, fullSync bool, result *domain.DomainResult) {
	for _, entry := range entries {
		result.Processed++
		switch entry.(type) {
		case *files.FileMetadata:
			if fullSync {
				result.Created++
			} else {
				result.Updated++
			}
		case *files.DeletedMetadata:
			result.Deleted++
		}
	}
}

func isCursorReset(err error) bool {
	var apiErr files.ListFolderContinueAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.EndpointError != nil && apiErr.EndpointError.Tag == files.ListFolderContinueErrorReset
}

func isAuthError(err error) bool {
	var authErr auth.AuthAPIError
	if errors.As(err, &authErr) {
		return true
	}
	var accessErr auth.AccessAPIError
	return errors.As(err, &accessErr)
}

func (s *Syncer) cursor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[userID]
}

func (s *Syncer) setCursor(userID, cursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor == "" {
		delete(s.cursors, userID)
		return
	}
	s.cursors[userID] = cursor
}
