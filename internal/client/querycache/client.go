// Package querycache is the client's server-state cache: keyed query
// results with staleness, de-duplicated fetches, prefix invalidation and
// optimistic writes that roll back when the server rejects them.
package querycache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	key       Key
	data      any
	hasData   bool
	err       error
	updatedAt time.Time
	lastUsed  time.Time

	// invalidated forces the next read to refetch regardless of age.
	invalidated bool
	// epoch counts invalidations; a fetch only clears invalidated when no
	// invalidation happened while it was in flight.
	epoch uint64
	// gen counts cancellations and direct writes; a fetch whose gen is
	// outdated is discarded.
	gen uint64
	// cancel aborts the in-flight fetch, nil when idle.
	cancel context.CancelFunc
}

// Client holds every cached query. Safe for concurrent use.
type Client struct {
	mu       sync.Mutex
	entries  map[string]*entry
	flight   singleflight.Group
	defaults QueryOptions
	gcTime   time.Duration
	now      func() time.Time
	metrics  *Metrics
	logger   *slog.Logger
}

// New creates an empty cache.
func New(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		entries:  make(map[string]*entry),
		defaults: defaultQueryOptions(),
		gcTime:   DefaultGCTime,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Defaults returns a copy of the default read options.
func (c *Client) Defaults() QueryOptions {
	return c.defaults
}

// lookup returns the entry for key, creating it when create is set.
// Caller holds c.mu.
func (c *Client) lookup(key Key, create bool) *entry {
	h := key.hash()
	e, ok := c.entries[h]
	if !ok && create {
		e = &entry{key: key.With(), lastUsed: c.now()}
		c.entries[h] = e
	}
	return e
}

// matching returns every entry whose key starts with prefix. Caller holds c.mu.
func (c *Client) matching(prefix Key) []*entry {
	var out []*entry
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			out = append(out, e)
		}
	}
	return out
}

// GetData returns the cached value for key without fetching.
func GetData[T any](c *Client, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e := c.lookup(key, false)
	if e == nil || !e.hasData {
		return zero, false
	}
	e.lastUsed = c.now()
	v, ok := e.data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// SetData writes value for key and marks it fresh. A fetch of key still in
// flight is cancelled so its older result cannot overwrite value.
func (c *Client) SetData(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(c.lookup(key, true), value)
}

// writeLocked supersedes any in-flight fetch of e and stores value as fresh.
// Caller holds c.mu.
func (c *Client) writeLocked(e *entry, value any) {
	c.cancelLocked(e)
	now := c.now()
	e.data = value
	e.hasData = true
	e.err = nil
	e.updatedAt = now
	e.lastUsed = now
	e.invalidated = false
}

// UpdateData replaces the cached value with fn(current). fn receives ok=false
// when nothing is cached; returning write=false leaves the cache untouched.
// Like SetData, a write cancels the key's in-flight fetch.
func UpdateData[T any](c *Client, key Key, fn func(current T, ok bool) (next T, write bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cur T
	ok := false
	if e := c.lookup(key, false); e != nil && e.hasData {
		cur, ok = e.data.(T)
	}
	next, write := fn(cur, ok)
	if !write {
		return
	}
	c.writeLocked(c.lookup(key, true), next)
}

// InvalidateQueries marks every entry under prefix stale so the next read
// refetches. Cached data stays readable until then.
func (c *Client) InvalidateQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := c.matching(prefix)
	for _, e := range matched {
		e.invalidated = true
		e.epoch++
	}
	c.logger.Debug("queries invalidated", "prefix", prefix.String(), "count", len(matched))
}

// CancelQueries aborts in-flight fetches under prefix. Their results are
// discarded even if they arrive later; cached data is kept.
func (c *Client) CancelQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.matching(prefix) {
		c.cancelLocked(e)
	}
}

func (c *Client) cancelLocked(e *entry) {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
		c.logger.Debug("query cancelled", "key", e.key.String())
	}
}

// RemoveQueries drops every entry under prefix, cancelling their fetches.
func (c *Client) RemoveQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.matching(prefix) {
		c.cancelLocked(e)
		delete(c.entries, e.key.hash())
	}
}

// Clear drops everything.
func (c *Client) Clear() {
	c.RemoveQueries(Key{})
}

// Collect drops idle entries not read or written within the GC time and
// returns how many were removed.
func (c *Client) Collect() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.gcTime)
	removed := 0
	for h, e := range c.entries {
		if e.cancel == nil && e.lastUsed.Before(cutoff) {
			delete(c.entries, h)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("query cache collected", "removed", removed)
	}
	return removed
}

// IsStale reports whether a read of key with the given stale time would
// refetch. Missing entries are stale.
func (c *Client) IsStale(key Key, staleTime time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lookup(key, false)
	return e == nil || !c.freshLocked(e, staleTime)
}

func (c *Client) freshLocked(e *entry, staleTime time.Duration) bool {
	if !e.hasData || e.invalidated {
		return false
	}
	if staleTime == StaleForever {
		return true
	}
	return c.now().Sub(e.updatedAt) < staleTime
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// LastError returns the error of the most recent failed fetch for key.
func (c *Client) LastError(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.lookup(key, false); e != nil {
		return e.err
	}
	return nil
}
