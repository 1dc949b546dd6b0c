package querycache

import (
	"context"
	"time"
)

// Mutation describes an optimistic write against one cached key.
type Mutation[T any] struct {
	// Key is the entry the optimistic value is written to.
	Key Key

	// Update computes the optimistic value from the cached one. ok is false
	// when nothing is cached. Returning write=false skips the optimistic
	// write but still commits.
	Update func(current T, ok bool) (next T, write bool)

	// Commit sends the change to the server.
	Commit func(ctx context.Context) error

	// InvalidateOnSettle lists prefixes marked stale after the commit
	// finishes, whether it succeeded or not.
	InvalidateOnSettle []Key
}

type snapshot struct {
	exists      bool
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
}

func (c *Client) snapshot(key Key) snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(key, false)
	if e == nil {
		return snapshot{}
	}
	return snapshot{
		exists:      true,
		data:        e.data,
		hasData:     e.hasData,
		err:         e.err,
		updatedAt:   e.updatedAt,
		invalidated: e.invalidated,
	}
}

// restore puts a snapshot back verbatim. An entry that did not exist before
// the mutation is removed.
func (c *Client) restore(key Key, s snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !s.exists || !s.hasData {
		if e := c.lookup(key, false); e != nil {
			c.cancelLocked(e)
			delete(c.entries, key.hash())
		}
		return
	}
	e := c.lookup(key, true)
	c.cancelLocked(e)
	e.data = s.data
	e.hasData = true
	e.err = s.err
	e.updatedAt = s.updatedAt
	e.invalidated = s.invalidated
	e.lastUsed = c.now()
}

// Optimistic applies m: it cancels in-flight reads of the key, snapshots the
// cached value, writes the optimistic value, then commits. When the commit
// fails the snapshot is restored and the commit error returned.
//
// Concurrent mutations on one key each restore their own snapshot, so when
// two fail the last rollback to run wins.
func Optimistic[T any](ctx context.Context, c *Client, m Mutation[T]) error {
	c.CancelQueries(m.Key)
	snap := c.snapshot(m.Key)

	if m.Update != nil {
		var cur T
		ok := false
		if snap.hasData {
			cur, ok = snap.data.(T)
		}
		if next, write := m.Update(cur, ok); write {
			c.SetData(m.Key, next)
		}
	}

	err := m.Commit(ctx)
	if err != nil {
		c.restore(m.Key, snap)
		c.metrics.rollback()
		c.logger.Warn("optimistic update rolled back", "key", m.Key.String(), "error", err)
	}

	for _, k := range m.InvalidateOnSettle {
		c.InvalidateQueries(k)
	}
	return err
}
