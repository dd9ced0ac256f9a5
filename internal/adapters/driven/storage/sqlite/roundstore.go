package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
)

// roundStore implements driven.RoundHistoryStore.
type roundStore struct {
	store *Store
}

var _ driven.RoundHistoryStore = (*roundStore)(nil)

// roundResult is the serialized form of one domain result inside a
// stored round.
type roundResult struct {
	Domain     string `json:"domain"`
	Success    bool   `json:"success"`
	Processed  int    `json:"processed"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
	SignalHits int    `json:"signal_hits,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RecordRound stores a completed round.
func (s *roundStore) RecordRound(ctx context.Context, record *domain.RoundRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	serialized := make([]roundResult, len(record.Results))
	for i, r := range record.Results {
		serialized[i] = roundResult{
			Domain:     string(r.Domain),
			Success:    r.Success,
			Processed:  r.Processed,
			Created:    r.Created,
			Updated:    r.Updated,
			Deleted:    r.Deleted,
			Skipped:    r.Skipped,
			SkipReason: r.SkipReason,
			SignalHits: r.SignalHits,
			Error:      r.Error,
		}
	}
	resultsJSON, err := json.Marshal(serialized)
	if err != nil {
		return fmt.Errorf("marshalling round results: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sync_rounds (id, user_id, trigger_kind, started_at, ended_at, changes, interval_ms, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.UserID, record.Trigger, record.StartedAt.UTC(), record.EndedAt.UTC(),
		record.Changes, record.Interval.Milliseconds(), string(resultsJSON))

	if err != nil {
		return fmt.Errorf("saving round: %w", err)
	}
	return nil
}

// RoundHistory returns recent rounds for a user, most recent first.
func (s *roundStore) RoundHistory(ctx context.Context, userID string, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, trigger_kind, started_at, ended_at, changes, interval_ms, results
		FROM sync_rounds
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var records []domain.RoundRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.RoundRecord
		var intervalMS int64
		var resultsJSON string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Trigger,
			&rec.StartedAt, &rec.EndedAt, &rec.Changes, &intervalMS, &resultsJSON); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}

		rec.Interval = time.Duration(intervalMS) * time.Millisecond

		var serialized []roundResult
		if err := json.Unmarshal([]byte(resultsJSON), &serialized); err != nil {
			return nil, fmt.Errorf("unmarshalling round results: %w", err)
		}
		rec.Results = make([]domain.DomainResult, len(serialized))
		for i, r := range serialized {
			rec.Results[i] = domain.DomainResult{
				Domain:     domain.SyncDomain(r.Domain),
				Success:    r.Success,
				Processed:  r.Processed,
				Created:    r.Created,
				Updated:    r.Updated,
				Deleted:    r.Deleted,
				Skipped:    r.Skipped,
				SkipReason: r.SkipReason,
				SignalHits: r.SignalHits,
				Error:      r.Error,
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rounds: %w", err)
	}

	return records, nil
}

// PruneHistory removes old rounds beyond the retention limit, keeping
// the most recent 'keep' rounds per user.
func (s *roundStore) PruneHistory(ctx context.Context, keep int) error {
	if keep <= 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sync_rounds
		WHERE id NOT IN (
			SELECT id FROM sync_rounds AS recent
			WHERE recent.user_id = sync_rounds.user_id
			ORDER BY recent.started_at DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning rounds: %w", err)
	}
	return nil
}
