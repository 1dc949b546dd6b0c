package querycache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrQueryCancelled is returned by Fetch when its fetch was cancelled and
// nothing is cached to fall back on.
var ErrQueryCancelled = errors.New("query cancelled")

// errSuperseded marks a fetch result that arrived after a cancellation.
var errSuperseded = errors.New("fetch superseded")

// FetchFunc loads the value for a key from the server.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Fetch returns the cached value for key when it is fresh under
// opts.StaleTime and otherwise calls fn. Concurrent fetches of the same key
// share one call. When the fetch is cancelled while in flight (for example
// by an optimistic write) its result is dropped and the caller receives
// whatever the cache holds at that point.
func Fetch[T any](ctx context.Context, c *Client, key Key, opts QueryOptions, fn FetchFunc[T]) (T, error) {
	var zero T

	c.mu.Lock()
	e := c.lookup(key, true)
	e.lastUsed = c.now()
	if c.freshLocked(e, opts.StaleTime) {
		if v, ok := e.data.(T); ok {
			c.mu.Unlock()
			c.metrics.hit()
			return v, nil
		}
	}
	gen, epoch := e.gen, e.epoch
	c.mu.Unlock()
	c.metrics.miss()

	flightKey := key.hash() + "#" + strconv.FormatUint(gen, 10)
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.run(ctx, key, gen, epoch, opts, func(ctx context.Context) (any, error) {
			return fn(ctx)
		})
	})

	var res any
	var err error
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		res, err = r.Val, r.Err
	}

	if errors.Is(err, errSuperseded) {
		if v, ok := GetData[T](c, key); ok {
			return v, nil
		}
		return zero, ErrQueryCancelled
	}
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached %T is not %T", key, res, zero)
	}
	return v, nil
}

// run performs the fetch with retries on a context detached from the
// caller, so one waiter leaving does not abort the shared call. Only
// CancelQueries aborts it.
func (c *Client) run(ctx context.Context, key Key, gen, epoch uint64, opts QueryOptions, fn func(context.Context) (any, error)) (any, error) {
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	c.mu.Lock()
	e := c.lookup(key, false)
	if e == nil || e.gen != gen {
		c.mu.Unlock()
		return nil, errSuperseded
	}
	e.cancel = cancel
	c.mu.Unlock()

	var data any
	var err error
	for attempt := 0; ; attempt++ {
		data, err = fn(fetchCtx)
		if err == nil || attempt >= opts.Retry || !opts.shouldRetry(err) {
			break
		}
		c.logger.Debug("query retry", "key", key.String(), "attempt", attempt+1, "error", err)
		if !sleep(fetchCtx, opts.delay(attempt+1)) {
			err = fetchCtx.Err()
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e = c.lookup(key, false)
	if e == nil || e.gen != gen {
		return nil, errSuperseded
	}
	e.cancel = nil
	if err != nil {
		e.err = err
		c.metrics.fetchError()
		c.logger.Warn("query failed", "key", key.String(), "error", err)
		return nil, err
	}

	now := c.now()
	e.data = data
	e.hasData = true
	e.err = nil
	e.updatedAt = now
	e.lastUsed = now
	if e.epoch == epoch {
		e.invalidated = false
	}
	return data, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
