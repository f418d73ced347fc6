// Package storage provides the SQLite-backed durable store for one
// tenant: a remote instance's statuses, accounts, notifications,
// timeline indices, and pinned-status slots.
//
// Tables:
//   - statuses, accounts, notifications: entity rows keyed by id, each
//     holding the shallow JSON of the entity (nested objects detached
//     into their own rows).
//   - status_timelines, notification_timelines: the timeline index.
//     Keys are timeline + NUL + fixed-width encoded id, so an ascending
//     scan over the key range is a chronological (threads) or
//     reverse-chronological (everything else) page.
//   - pinned_statuses: account + NUL + encoded ordinal, preserving
//     explicit list order.
//
// Secondary indices answer "which statuses reblog X" (statuses.reblog_id)
// and "which notifications reference X" (notifications.status_id).
//
// Every multi-table operation runs in a single transaction: either all
// of its reads and writes take effect or none do. Entity writes are
// last-write-wins per id; "last" is commit order under SQLite's
// serialized writer.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package storage
