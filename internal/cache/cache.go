// Package cache holds the in-process, per-tenant write-through cache of
// last-known entities.
//
// The cache is volatile and holds no authority: the durable store is
// ground truth, and only explicit Set/Delete calls keep the cache
// honest. One Cache instance belongs to one tenant session; it is
// created with the session and discarded with it, never shared across
// tenants.
//
// Deletion ordering matters: callers must evict ids here BEFORE
// committing the durable delete, so a concurrent reader cannot hit a
// stale cached copy while the delete transaction is in flight.
package cache

import (
	"sync"

	"github.com/roach88/perch/entity"
)

// shard is one id-to-value map with its own lock.
type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func newShard[V any]() *shard[V] {
	return &shard[V]{m: make(map[string]V)}
}

func (s *shard[V]) get(id string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[id]
	return v, ok
}

func (s *shard[V]) set(id string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = v
}

func (s *shard[V]) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func (s *shard[V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Cache maps entity ids to their last-known composed values, one shard
// per entity kind. Cached values are shared; treat them as read-only.
type Cache struct {
	statuses      *shard[*entity.Status]
	accounts      *shard[*entity.Account]
	notifications *shard[*entity.Notification]
}

// New returns an empty cache for one tenant session.
func New() *Cache {
	return &Cache{
		statuses:      newShard[*entity.Status](),
		accounts:      newShard[*entity.Account](),
		notifications: newShard[*entity.Notification](),
	}
}

// Status returns the cached status, if any.
func (c *Cache) Status(id string) (*entity.Status, bool) {
	return c.statuses.get(id)
}

// Notification returns the cached notification, if any.
func (c *Cache) Notification(id string) (*entity.Notification, bool) {
	return c.notifications.get(id)
}

// Account returns the cached account, if any.
func (c *Cache) Account(id string) (*entity.Account, bool) {
	return c.accounts.get(id)
}

// SetStatus caches a composed status together with the accounts it
// carries: its author and, for a reblog, the target's author.
func (c *Cache) SetStatus(st *entity.Status) {
	if st == nil {
		return
	}
	c.statuses.set(st.ID, st)
	if st.Account != nil {
		c.accounts.set(st.Account.ID, st.Account)
	}
	if st.Reblog != nil && st.Reblog.Account != nil {
		c.accounts.set(st.Reblog.Account.ID, st.Reblog.Account)
	}
}

// SetNotification caches a composed notification, its account, and its
// associated status.
func (c *Cache) SetNotification(n *entity.Notification) {
	if n == nil {
		return
	}
	c.notifications.set(n.ID, n)
	if n.Account != nil {
		c.accounts.set(n.Account.ID, n.Account)
	}
	if n.Status != nil {
		c.statuses.set(n.Status.ID, n.Status)
	}
}

// DeleteStatus evicts a status id.
func (c *Cache) DeleteStatus(id string) {
	c.statuses.delete(id)
}

// DeleteNotification evicts a notification id.
func (c *Cache) DeleteNotification(id string) {
	c.notifications.delete(id)
}

// Len reports the total number of cached entries across all kinds.
func (c *Cache) Len() int {
	return c.statuses.len() + c.accounts.len() + c.notifications.len()
}
