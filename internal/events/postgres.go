package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"reqforge/pkg/platform/tx"
)

// PostgresStore is the durable outbox. Events are appended in the caller's
// transaction scope (same *sql.DB) and drained by the worker.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed outbox.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the outbox table definition, applied by deployment tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS event_outbox (
    id            UUID PRIMARY KEY,
    event_type    TEXT NOT NULL,
    project_id    TEXT NOT NULL,
    requirement_id TEXT,
    payload       JSONB,
    occurred_at   TIMESTAMPTZ NOT NULL,
    published_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_event_outbox_unpublished
    ON event_outbox (occurred_at) WHERE published_at IS NULL;
`

// Append inserts the event. When the caller carries a transaction in ctx
// the insert joins it, so the event commits or rolls back with the state
// change that produced it.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	exec := s.db.ExecContext
	if transaction, ok := tx.From(ctx); ok {
		exec = transaction.ExecContext
	}
	_, err := exec(ctx, `
		INSERT INTO event_outbox (id, event_type, project_id, requirement_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Type, event.ProjectID, nullable(event.RequirementID),
		[]byte(event.Payload), event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append event to outbox: %w", err)
	}
	return nil
}

func (s *PostgresStore) FetchUnpublished(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, project_id, COALESCE(requirement_id, ''), COALESCE(payload, 'null'), occurred_at
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var payload []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.ProjectID, &e.RequirementID, &payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		if string(payload) != "null" {
			e.Payload = payload
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkPublished(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE event_outbox SET published_at = $1 WHERE id = ANY($2)`,
		time.Now().UTC(), pq.Array(eventIDs),
	)
	if err != nil {
		return fmt.Errorf("mark events published: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
