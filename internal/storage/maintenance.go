package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/perch/internal/keycodec"
)

// TrimTimelines deletes entries beyond the newest `horizon` per
// timeline, in one transaction. Entity rows are left in place - a
// trimmed entry only drops the pagination pointer, and a later insert
// recreates it at the same position key.
//
// Thread timelines are skipped: they are read in full and bounded by
// conversation size, and their ascending keys would make "newest first"
// trimming drop the wrong end.
func (d *DB) TrimTimelines(ctx context.Context, horizon int) error {
	if horizon <= 0 {
		return fmt.Errorf("trim timelines: horizon must be positive, got %d", horizon)
	}

	return d.withTx(ctx, "trim timelines", func(tx *sql.Tx) error {
		for _, table := range []string{"status_timelines", "notification_timelines"} {
			timelines, err := listTimelines(ctx, tx, table)
			if err != nil {
				return err
			}
			for _, timeline := range timelines {
				if keycodec.IsThread(timeline) {
					continue
				}
				// Regular timelines are descending-encoded, so the
				// first `horizon` positions are the newest entries.
				_, err := tx.ExecContext(ctx, fmt.Sprintf(`
					DELETE FROM %s
					WHERE timeline = ? AND position NOT IN (
						SELECT position FROM %s
						WHERE timeline = ?
						ORDER BY position ASC
						LIMIT ?
					)
				`, table, table), timeline, timeline, horizon)
				if err != nil {
					return fmt.Errorf("trim %q: %w", timeline, err)
				}
			}
		}
		return nil
	})
}

// Timelines returns the distinct timeline names present in either
// timeline table.
func (d *DB) Timelines(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT timeline FROM status_timelines
		UNION
		SELECT timeline FROM notification_timelines
		ORDER BY timeline
	`)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	names, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	return names, nil
}

// Counts returns the row count of every table, for inspection tooling.
func (d *DB) Counts(ctx context.Context) (map[string]int64, error) {
	tables := []string{
		"statuses", "accounts", "notifications",
		"status_timelines", "notification_timelines", "pinned_statuses",
	}
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		err := d.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func listTimelines(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT timeline FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("list timelines in %s: %w", table, err)
	}
	return collectStrings(rows)
}
