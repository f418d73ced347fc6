// Package perch is the local persistence and caching layer beneath a
// federated social client. It durably stores fetched statuses,
// accounts, and notifications in one embedded database per tenant
// (remote instance), serves forward-paginated timeline reads in
// chronological or reverse-chronological order, and keeps an in-process
// write-through cache ahead of the durable store.
//
// The Registry is the entry point: it opens a tenant's database lazily
// on first use and owns each tenant's session (database handle, cache,
// and background janitor) until the tenant is closed or removed.
package perch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/perch/entity"
	"github.com/roach88/perch/internal/config"
	"github.com/roach88/perch/internal/storage"
)

// ErrNotFound reports that a requested entity has no durable row.
var ErrNotFound = storage.ErrNotFound

// NotificationTimeline is the timeline name carrying notifications
// instead of statuses.
const NotificationTimeline = "notifications"

// Item is one timeline element: a status or a notification, depending
// on the timeline's kind. Exactly one field is set.
type Item struct {
	Status       *entity.Status
	Notification *entity.Notification
}

// Registry manages one session per tenant. All methods are safe for
// concurrent use.
type Registry struct {
	cfg    config.Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// NewRegistry creates a registry storing tenant databases under
// cfg.DataDir. A nil logger falls back to slog.Default().
func NewRegistry(cfg config.Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// session returns the tenant's session, opening it on first use.
func (r *Registry) session(tenant string) (*session, error) {
	path, err := r.tenantPath(tenant)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("tenant %q: registry is closed", tenant)
	}
	if s, ok := r.sessions[tenant]; ok {
		return s, nil
	}

	if err := os.MkdirAll(r.cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("tenant %q: create data dir: %w", tenant, err)
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", tenant, err)
	}

	s := newSession(tenant, db, r.cfg, r.logger)
	r.sessions[tenant] = s
	r.logger.Info("tenant session opened", "tenant", tenant, "path", path)
	return s, nil
}

// CloseTenant closes a tenant's session: the cache is discarded, the
// janitor stopped, and the database handle released. The database file
// stays; the next call for the tenant reopens it.
func (r *Registry) CloseTenant(tenant string) error {
	r.mu.Lock()
	s, ok := r.sessions[tenant]
	delete(r.sessions, tenant)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := s.close(); err != nil {
		return fmt.Errorf("close tenant %q: %w", tenant, err)
	}
	r.logger.Info("tenant session closed", "tenant", tenant)
	return nil
}

// RemoveTenant closes the tenant's session and deletes its database
// file. Used when an account logs out of an instance for good.
func (r *Registry) RemoveTenant(tenant string) error {
	path, err := r.tenantPath(tenant)
	if err != nil {
		return err
	}
	if err := r.CloseTenant(tenant); err != nil {
		return err
	}

	// WAL mode leaves sidecar files next to the database.
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove tenant %q: %w", tenant, err)
		}
	}
	r.logger.Info("tenant removed", "tenant", tenant)
	return nil
}

// Close closes every open session. The registry is unusable afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.closed = true
	r.mu.Unlock()

	var firstErr error
	for tenant, s := range sessions {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %q: %w", tenant, err)
		}
	}
	return firstErr
}

// Tenants returns the tenants with currently open sessions, sorted.
func (r *Registry) Tenants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sessions))
	for tenant := range r.sessions {
		names = append(names, tenant)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) tenantPath(tenant string) (string, error) {
	if tenant == "" {
		return "", fmt.Errorf("tenant name is empty")
	}
	if strings.ContainsAny(tenant, `/\`) || tenant == "." || tenant == ".." {
		return "", fmt.Errorf("invalid tenant name %q", tenant)
	}
	return filepath.Join(r.cfg.DataDir, tenant+".db"), nil
}

// GetTimeline returns one page of composed timeline items, most recent
// first - except thread timelines, which come back whole and in
// chronological order. A limit <= 0 means the configured page size.
// Every entity composed on the way out warms the per-entity cache.
func (r *Registry) GetTimeline(ctx context.Context, tenant, timeline, maxID string, limit int) ([]Item, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.getTimeline(ctx, timeline, maxID, limit)
}

// InsertTimelineItems upserts entities and their timeline positions in
// one transaction, then warms the cache and schedules a cleanup pass.
// The timeline's kind decides which Item field must be set. Idempotent:
// re-inserting an item lands on the same position key.
func (r *Registry) InsertTimelineItems(ctx context.Context, tenant, timeline string, items []Item) error {
	s, err := r.session(tenant)
	if err != nil {
		return err
	}
	return s.insertTimelineItems(ctx, timeline, items)
}

// GetStatus returns the composed status, consulting the cache first.
// Returns ErrNotFound if the status is neither cached nor stored.
func (r *Registry) GetStatus(ctx context.Context, tenant, id string) (*entity.Status, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.getStatus(ctx, id)
}

// GetNotification returns the composed notification, consulting the
// cache first.
func (r *Registry) GetNotification(ctx context.Context, tenant, id string) (*entity.Notification, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.getNotification(ctx, id)
}

// GetReblogsForStatus returns every stored status that reblogs the
// given id.
func (r *Registry) GetReblogsForStatus(ctx context.Context, tenant, id string) ([]*entity.Status, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.db.GetReblogsForStatus(ctx, id)
}

// GetPinnedStatuses returns an account's pinned statuses in slot order.
func (r *Registry) GetPinnedStatuses(ctx context.Context, tenant, accountID string) ([]*entity.Status, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.getPinnedStatuses(ctx, accountID)
}

// InsertPinnedStatuses stores the statuses and their pinned slots,
// preserving list order.
func (r *Registry) InsertPinnedStatuses(ctx context.Context, tenant, accountID string, statuses []*entity.Status) error {
	s, err := r.session(tenant)
	if err != nil {
		return err
	}
	return s.insertPinnedStatuses(ctx, accountID, statuses)
}

// DeleteStatusesAndNotifications removes the given entities and every
// index referencing them, evicting them from the cache before the
// durable delete commits.
func (r *Registry) DeleteStatusesAndNotifications(ctx context.Context, tenant string, statusIDs, notificationIDs []string) error {
	s, err := r.session(tenant)
	if err != nil {
		return err
	}
	return s.deleteStatusesAndNotifications(ctx, statusIDs, notificationIDs)
}

// GetNotificationIDsForStatus returns the ids of notifications about
// the given status, so callers can cascade remote status deletions into
// notification deletions.
func (r *Registry) GetNotificationIDsForStatus(ctx context.Context, tenant, statusID string) ([]string, error) {
	s, err := r.session(tenant)
	if err != nil {
		return nil, err
	}
	return s.db.GetNotificationIDsForStatus(ctx, statusID)
}
