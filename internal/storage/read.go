package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/perch/entity"
	"github.com/roach88/perch/internal/keycodec"
)

// Reads resolve the full object graph before returning: a status comes
// back with its author attached and, for a reblog, the target status
// and its author. Callers never see a partially composed value; all
// rows are fetched inside one read transaction.

// GetStatus returns the composed status, or ErrNotFound.
func (d *DB) GetStatus(ctx context.Context, id string) (*entity.Status, error) {
	var st *entity.Status
	err := d.withTx(ctx, "get status", func(tx *sql.Tx) error {
		var err error
		st, err = fetchStatus(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// GetNotification returns the composed notification, or ErrNotFound.
func (d *DB) GetNotification(ctx context.Context, id string) (*entity.Notification, error) {
	var n *entity.Notification
	err := d.withTx(ctx, "get notification", func(tx *sql.Tx) error {
		var err error
		n, err = fetchNotification(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetStatusTimeline returns one page of composed statuses for a
// timeline, most recent first. With maxID set, the page starts strictly
// after that cursor. Thread timelines are the special case: the full
// range is returned in chronological order and maxID/limit are ignored.
func (d *DB) GetStatusTimeline(ctx context.Context, timeline, maxID string, limit int) ([]*entity.Status, error) {
	statuses := []*entity.Status{}
	err := d.withTx(ctx, "get status timeline", func(tx *sql.Tx) error {
		ids, err := scanTimeline(ctx, tx, "status_timelines", "status_id", timeline, maxID, limit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			st, err := fetchStatus(ctx, tx, id)
			if err != nil {
				return err
			}
			statuses = append(statuses, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetNotificationTimeline returns one page of composed notifications,
// most recent first.
func (d *DB) GetNotificationTimeline(ctx context.Context, timeline, maxID string, limit int) ([]*entity.Notification, error) {
	notifications := []*entity.Notification{}
	err := d.withTx(ctx, "get notification timeline", func(tx *sql.Tx) error {
		ids, err := scanTimeline(ctx, tx, "notification_timelines", "notification_id", timeline, maxID, limit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			n, err := fetchNotification(ctx, tx, id)
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetReblogsForStatus returns every stored status whose reblog target
// is the given id, composed, in id order.
func (d *DB) GetReblogsForStatus(ctx context.Context, id string) ([]*entity.Status, error) {
	statuses := []*entity.Status{}
	err := d.withTx(ctx, "get reblogs for status", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id FROM statuses WHERE reblog_id = ? ORDER BY id
		`, id)
		if err != nil {
			return fmt.Errorf("query reblogs: %w", err)
		}
		ids, err := collectStrings(rows)
		if err != nil {
			return err
		}
		for _, rid := range ids {
			st, err := fetchStatus(ctx, tx, rid)
			if err != nil {
				return err
			}
			statuses = append(statuses, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetPinnedStatuses returns an account's pinned statuses in slot order.
func (d *DB) GetPinnedStatuses(ctx context.Context, accountID string) ([]*entity.Status, error) {
	statuses := []*entity.Status{}
	err := d.withTx(ctx, "get pinned statuses", func(tx *sql.Tx) error {
		start, end := keycodec.PinnedRange(accountID)
		rows, err := tx.QueryContext(ctx, `
			SELECT status_id FROM pinned_statuses
			WHERE position > ? AND position < ?
			ORDER BY position ASC
		`, start, end)
		if err != nil {
			return fmt.Errorf("query pinned slots: %w", err)
		}
		ids, err := collectStrings(rows)
		if err != nil {
			return err
		}
		for _, id := range ids {
			st, err := fetchStatus(ctx, tx, id)
			if err != nil {
				return err
			}
			statuses = append(statuses, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetNotificationIDsForStatus returns the ids of every notification
// whose associated status is the given id, in id order. Used by the
// delete path to find notifications about a deleted status.
func (d *DB) GetNotificationIDsForStatus(ctx context.Context, statusID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id FROM notifications WHERE status_id = ? ORDER BY id
	`, statusID)
	if err != nil {
		return nil, fmt.Errorf("get notification ids for status: %w", err)
	}
	ids, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("get notification ids for status: %w", err)
	}
	return ids, nil
}

// scanTimeline returns one page of entity ids in position order.
func scanTimeline(ctx context.Context, tx *sql.Tx, table, refColumn, timeline, maxID string, limit int) ([]string, error) {
	if keycodec.IsThread(timeline) {
		// Threads are stored ascending-encoded and read in full, so
		// the scan order is already chronological.
		maxID = ""
		limit = -1
	}

	start, end, err := keycodec.TimelineRange(timeline, maxID)
	if err != nil {
		return nil, fmt.Errorf("scan timeline: %w", err)
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE position > ? AND position < ?
		ORDER BY position ASC
		LIMIT ?
	`, refColumn, table), start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("scan timeline %q: %w", timeline, err)
	}
	ids, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan timeline %q: %w", timeline, err)
	}
	return ids, nil
}

// fetchStatus resolves a status and its references within tx.
// The root must exist; missing references are tolerated and left nil -
// in particular, deleting a status leaves other statuses that reblogged
// it pointing at the gone id.
func fetchStatus(ctx context.Context, tx *sql.Tx, id string) (*entity.Status, error) {
	var accountID, data string
	var reblogID sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT account_id, reblog_id, data FROM statuses WHERE id = ?
	`, id).Scan(&accountID, &reblogID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("status %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch status %s: %w", id, err)
	}

	st, err := unmarshalStatusRow(data)
	if err != nil {
		return nil, fmt.Errorf("fetch status %s: %w", id, err)
	}

	st.Account, err = fetchAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if reblogID.Valid {
		st.Reblog, err = fetchStatus(ctx, tx, reblogID.String)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return st, nil
}

// fetchNotification resolves a notification and its references within tx.
func fetchNotification(ctx context.Context, tx *sql.Tx, id string) (*entity.Notification, error) {
	var accountID, data string
	var statusID sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT account_id, status_id, data FROM notifications WHERE id = ?
	`, id).Scan(&accountID, &statusID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch notification %s: %w", id, err)
	}

	n, err := unmarshalNotificationRow(data)
	if err != nil {
		return nil, fmt.Errorf("fetch notification %s: %w", id, err)
	}

	n.Account, err = fetchAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if statusID.Valid {
		n.Status, err = fetchStatus(ctx, tx, statusID.String)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return n, nil
}

// fetchAccount returns the account, or nil if the row is gone.
func fetchAccount(ctx context.Context, tx *sql.Tx, id string) (*entity.Account, error) {
	var data string
	err := tx.QueryRowContext(ctx, `
		SELECT data FROM accounts WHERE id = ?
	`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", id, err)
	}
	return unmarshalAccountRow(data)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
