package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventRepo writes every event table through appendEvent so rows of one
// session can be ordered across tables by their shared sequence number.
type eventRepo struct {
	db *sql.DB
	mu *sync.Mutex // shared by all repos of one Store
}

// appendEvent inserts one event row. query must take the sequence number
// and the timestamp as its first two placeholders; args fill the rest.
func (r *eventRepo) appendEvent(ctx context.Context, kind, query string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("save %s event: claim sequence: %w", kind, err)
	}
	if _, err := tx.ExecContext(ctx, query, append([]any{seq, now()}, args...)...); err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	return nil
}
