package perch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/perch/entity"
	"github.com/roach88/perch/internal/cache"
	"github.com/roach88/perch/internal/config"
	"github.com/roach88/perch/internal/janitor"
	"github.com/roach88/perch/internal/storage"
)

// session is one tenant's open state: the durable store, its
// write-through cache, and the background janitor. The cache lives and
// dies with the session and is never shared across tenants.
type session struct {
	tenant   string
	db       *storage.DB
	cache    *cache.Cache
	janitor  *janitor.Janitor
	pageSize int
}

func newSession(tenant string, db *storage.DB, cfg config.Config, logger *slog.Logger) *session {
	j := janitor.New(db, cfg.RetentionHorizon, logger.With("tenant", tenant))
	j.Start()
	return &session{
		tenant:   tenant,
		db:       db,
		cache:    cache.New(),
		janitor:  j,
		pageSize: cfg.PageSize,
	}
}

func (s *session) close() error {
	s.janitor.Close()
	return s.db.Close()
}

// getStatus serves from the cache when possible; a miss resolves the
// full object graph durably and populates the cache with the composed
// value.
func (s *session) getStatus(ctx context.Context, id string) (*entity.Status, error) {
	if st, ok := s.cache.Status(id); ok {
		return st, nil
	}
	st, err := s.db.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetStatus(st)
	return st, nil
}

func (s *session) getNotification(ctx context.Context, id string) (*entity.Notification, error) {
	if n, ok := s.cache.Notification(id); ok {
		return n, nil
	}
	n, err := s.db.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetNotification(n)
	return n, nil
}

// getTimeline reads durably - page composition depends on the cursor
// and limit, not just entity identity - but warms the per-entity cache
// with everything it composes.
func (s *session) getTimeline(ctx context.Context, timeline, maxID string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = s.pageSize
	}

	if timeline == NotificationTimeline {
		notifications, err := s.db.GetNotificationTimeline(ctx, timeline, maxID, limit)
		if err != nil {
			return nil, err
		}
		items := make([]Item, len(notifications))
		for i, n := range notifications {
			s.cache.SetNotification(n)
			items[i] = Item{Notification: n}
		}
		return items, nil
	}

	statuses, err := s.db.GetStatusTimeline(ctx, timeline, maxID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(statuses))
	for i, st := range statuses {
		s.cache.SetStatus(st)
		items[i] = Item{Status: st}
	}
	return items, nil
}

func (s *session) insertTimelineItems(ctx context.Context, timeline string, items []Item) error {
	if timeline == NotificationTimeline {
		notifications := make([]*entity.Notification, len(items))
		for i, item := range items {
			if item.Notification == nil {
				return fmt.Errorf("insert into %q: item %d is not a notification", timeline, i)
			}
			notifications[i] = item.Notification
		}
		if err := s.db.InsertTimelineNotifications(ctx, timeline, notifications); err != nil {
			return err
		}
		for _, n := range notifications {
			s.cache.SetNotification(n)
		}
		s.janitor.Notify()
		return nil
	}

	statuses := make([]*entity.Status, len(items))
	for i, item := range items {
		if item.Status == nil {
			return fmt.Errorf("insert into %q: item %d is not a status", timeline, i)
		}
		statuses[i] = item.Status
	}
	if err := s.db.InsertTimelineStatuses(ctx, timeline, statuses); err != nil {
		return err
	}
	for _, st := range statuses {
		s.cache.SetStatus(st)
	}
	s.janitor.Notify()
	return nil
}

func (s *session) getPinnedStatuses(ctx context.Context, accountID string) ([]*entity.Status, error) {
	statuses, err := s.db.GetPinnedStatuses(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		s.cache.SetStatus(st)
	}
	return statuses, nil
}

func (s *session) insertPinnedStatuses(ctx context.Context, accountID string, statuses []*entity.Status) error {
	if err := s.db.InsertPinnedStatuses(ctx, accountID, statuses); err != nil {
		return err
	}
	for _, st := range statuses {
		s.cache.SetStatus(st)
	}
	return nil
}

// deleteStatusesAndNotifications evicts the ids from the cache before
// the durable transaction commits: a concurrent read must miss and go
// durable rather than be served a copy the delete is about to remove.
func (s *session) deleteStatusesAndNotifications(ctx context.Context, statusIDs, notificationIDs []string) error {
	for _, id := range statusIDs {
		s.cache.DeleteStatus(id)
	}
	for _, id := range notificationIDs {
		s.cache.DeleteNotification(id)
	}
	return s.db.DeleteStatusesAndNotifications(ctx, statusIDs, notificationIDs)
}
