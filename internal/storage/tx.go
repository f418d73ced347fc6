package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs fn inside a single transaction. Any error from fn rolls
// the whole transaction back; otherwise it commits. This is the only
// way the read/write paths touch the database, so every multi-table
// operation gets all-or-nothing semantics.
func (d *DB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
