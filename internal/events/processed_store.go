package events

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ProcessedStore records inbound message ids that were already handled, so
// replayed webhook deliveries do not re-run the conversation engine. WhatsApp
// retries undelivered webhooks; a retried "yes" at the confirm step would
// otherwise double-book.
type ProcessedStore struct {
	pool execer
}

// NewProcessedStore creates a store backed by pgx pool.
func NewProcessedStore(pool *pgxpool.Pool) *ProcessedStore {
	if pool == nil {
		panic("events: pgx pool required")
	}
	return &ProcessedStore{pool: pool}
}

// NewProcessedStoreWithExecer allows injecting mocks for tests.
func NewProcessedStoreWithExecer(exec execer) *ProcessedStore {
	if exec == nil {
		panic("events: execer required")
	}
	return &ProcessedStore{pool: exec}
}

// MarkProcessed inserts a message id, returning false when it was seen before.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	query := `
		INSERT INTO processed_messages (message_id)
		VALUES ($1)
		ON CONFLICT DO NOTHING
	`
	ct, err := s.pool.Exec(ctx, query, messageID)
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
