package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DeleteStatusesAndNotifications removes the given entities and every
// index entry pointing at them, in one transaction:
//
//   - each status row, any pinned slot referencing it, and every
//     timeline entry referencing it
//   - each notification row and every timeline entry referencing it
//
// A status id with no pinned slot is not an error. Statuses that
// reblogged a deleted status are NOT touched; they keep their reblog_id
// and resolve with a nil Reblog from then on.
//
// Callers are responsible for evicting the ids from any cache BEFORE
// calling this, so a concurrent read cannot be served a stale cached
// copy while the delete is in flight.
func (d *DB) DeleteStatusesAndNotifications(ctx context.Context, statusIDs, notificationIDs []string) error {
	return d.withTx(ctx, "delete statuses and notifications", func(tx *sql.Tx) error {
		for _, id := range statusIDs {
			if err := deleteStatus(ctx, tx, id); err != nil {
				return err
			}
		}
		for _, id := range notificationIDs {
			if err := deleteNotification(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteStatus(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pinned_statuses WHERE status_id = ?`, id); err != nil {
		return fmt.Errorf("delete pinned slots for status %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM statuses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete status %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM status_timelines WHERE status_id = ?`, id); err != nil {
		return fmt.Errorf("delete timeline entries for status %s: %w", id, err)
	}
	return nil
}

func deleteNotification(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_timelines WHERE notification_id = ?`, id); err != nil {
		return fmt.Errorf("delete timeline entries for notification %s: %w", id, err)
	}
	return nil
}
