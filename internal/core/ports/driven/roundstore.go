package driven

import (
	"context"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// RoundHistoryStore persists completed round records for diagnostics.
// The scheduler writes every background and manual round here and prunes
// old entries; it never reads history back for scheduling decisions.
type RoundHistoryStore interface {
	// RecordRound stores a completed round.
	RecordRound(ctx context.Context, record *domain.RoundRecord) error

	// RoundHistory returns recent rounds for a user, most recent first.
	RoundHistory(ctx context.Context, userID string, limit int) ([]domain.RoundRecord, error)

	// PruneHistory removes old rounds beyond the retention limit,
	// keeping the most recent 'keep' rounds per user.
	PruneHistory(ctx context.Context, keep int) error
}
