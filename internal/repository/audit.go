package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/authbase/authbase/internal/model"
)

// BulkInsertAuthEvents inserts a batch of audit trail entries.
// Inserts are idempotent on event_id so replayed stream deliveries do
// not duplicate rows.
func (r *Repository) BulkInsertAuthEvents(ctx context.Context, events []*model.AuthEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO auth_events (
			id, event_id, kind, user_id, email, ip_hash, request_id, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		batch.Queue(query,
			event.ID,
			event.EventID,
			event.Kind,
			nullableString(event.UserID),
			nullableString(event.Email),
			event.IPHash,
			nullableString(event.RequestID),
			event.OccurredAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}

// CountAuthEventsByKind returns per-kind event counts since a point in time.
func (r *Repository) CountAuthEventsByKind(ctx context.Context, since time.Time) (map[string]int64, error) {
	query := `
		SELECT kind, COUNT(*)
		FROM auth_events
		WHERE occurred_at >= $1
		GROUP BY kind
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count auth events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan auth event count: %w", err)
		}
		counts[kind] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auth event counts: %w", err)
	}

	return counts, nil
}

// nullableString converts an empty string to a SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
