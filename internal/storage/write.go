package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/perch/entity"
	"github.com/roach88/perch/internal/keycodec"
)

// Entity writes are upserts: a fresh copy from the network replaces
// whatever row is there (last-write-wins per id, no versioning).
// Timeline puts are keyed by position, so re-inserting an entity into
// the same timeline lands on the same key and is idempotent.

// InsertTimelineStatuses stores each status (denormalized, together
// with its author and reblog chain) and its timeline entry, in one
// transaction. Inputs are validated and NFC-normalized up front; a
// single malformed status fails the whole batch.
func (d *DB) InsertTimelineStatuses(ctx context.Context, timeline string, statuses []*entity.Status) error {
	for _, st := range statuses {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("insert timeline statuses: %w", err)
		}
		st.Normalize()
	}

	return d.withTx(ctx, "insert timeline statuses", func(tx *sql.Tx) error {
		for _, st := range statuses {
			if err := storeStatus(ctx, tx, st); err != nil {
				return err
			}
			pos, err := keycodec.PositionKey(timeline, st.ID)
			if err != nil {
				return err
			}
			if err := putTimelineEntry(ctx, tx, "status_timelines", "status_id", pos, timeline, st.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertTimelineNotifications stores each notification (with its
// account and associated status chain) and its timeline entry, in one
// transaction.
func (d *DB) InsertTimelineNotifications(ctx context.Context, timeline string, notifications []*entity.Notification) error {
	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("insert timeline notifications: %w", err)
		}
		n.Normalize()
	}

	return d.withTx(ctx, "insert timeline notifications", func(tx *sql.Tx) error {
		for _, n := range notifications {
			if err := storeNotification(ctx, tx, n); err != nil {
				return err
			}
			pos, err := keycodec.PositionKey(timeline, n.ID)
			if err != nil {
				return err
			}
			if err := putTimelineEntry(ctx, tx, "notification_timelines", "notification_id", pos, timeline, n.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertPinnedStatuses stores each status and writes one pinned slot
// per status keyed by the account and the status's array position.
func (d *DB) InsertPinnedStatuses(ctx context.Context, accountID string, statuses []*entity.Status) error {
	for _, st := range statuses {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("insert pinned statuses: %w", err)
		}
		st.Normalize()
	}

	return d.withTx(ctx, "insert pinned statuses", func(tx *sql.Tx) error {
		for i, st := range statuses {
			if err := storeStatus(ctx, tx, st); err != nil {
				return err
			}
			pos, err := keycodec.PinnedKey(accountID, i)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO pinned_statuses (position, account_id, status_id)
				VALUES (?, ?, ?)
				ON CONFLICT(position) DO UPDATE SET
					account_id = excluded.account_id,
					status_id = excluded.status_id
			`, pos, accountID, st.ID)
			if err != nil {
				return fmt.Errorf("put pinned slot %q: %w", pos, err)
			}
		}
		return nil
	})
}

// storeStatus writes the status, its author, and - if it is a reblog -
// the target status and its author, each as an independent row.
func storeStatus(ctx context.Context, tx *sql.Tx, st *entity.Status) error {
	if err := putStatus(ctx, tx, st); err != nil {
		return err
	}
	if err := putAccount(ctx, tx, st.Account); err != nil {
		return err
	}
	if st.Reblog != nil {
		if err := putStatus(ctx, tx, st.Reblog); err != nil {
			return err
		}
		if err := putAccount(ctx, tx, st.Reblog.Account); err != nil {
			return err
		}
	}
	return nil
}

// storeNotification writes the notification, its account, and its
// associated status chain.
func storeNotification(ctx context.Context, tx *sql.Tx, n *entity.Notification) error {
	if n.Status != nil {
		if err := storeStatus(ctx, tx, n.Status); err != nil {
			return err
		}
	}
	if err := putAccount(ctx, tx, n.Account); err != nil {
		return err
	}
	return putNotification(ctx, tx, n)
}

func putStatus(ctx context.Context, tx *sql.Tx, st *entity.Status) error {
	data, err := marshalStatusRow(st)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO statuses (id, account_id, reblog_id, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			reblog_id = excluded.reblog_id,
			data = excluded.data
	`, st.ID, st.Account.ID, nullable(st.ReblogID()), data)
	if err != nil {
		return fmt.Errorf("put status %s: %w", st.ID, err)
	}
	return nil
}

func putAccount(ctx context.Context, tx *sql.Tx, a *entity.Account) error {
	data, err := marshalAccountRow(a)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, data)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, a.ID, data)
	if err != nil {
		return fmt.Errorf("put account %s: %w", a.ID, err)
	}
	return nil
}

func putNotification(ctx context.Context, tx *sql.Tx, n *entity.Notification) error {
	data, err := marshalNotificationRow(n)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id, type, account_id, status_id, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			account_id = excluded.account_id,
			status_id = excluded.status_id,
			data = excluded.data
	`, n.ID, n.Type, n.Account.ID, nullable(n.StatusID()), data)
	if err != nil {
		return fmt.Errorf("put notification %s: %w", n.ID, err)
	}
	return nil
}

func putTimelineEntry(ctx context.Context, tx *sql.Tx, table, refColumn, position, timeline, refID string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (position, timeline, %s)
		VALUES (?, ?, ?)
		ON CONFLICT(position) DO UPDATE SET %s = excluded.%s
	`, table, refColumn, refColumn, refColumn), position, timeline, refID)
	if err != nil {
		return fmt.Errorf("put timeline entry %q: %w", position, err)
	}
	return nil
}

// nullable maps "" to NULL so secondary indices skip entities without
// the reference.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
