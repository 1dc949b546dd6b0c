package querycache

import (
	"context"
	"errors"
	"time"
)

// StaleForever marks data that never goes stale by age. It can still be
// invalidated explicitly.
const StaleForever time.Duration = -1

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 30 * time.Minute
	DefaultRetry     = 1
)

// QueryOptions controls a single read.
type QueryOptions struct {
	// StaleTime is how long fetched data is served without refetching.
	StaleTime time.Duration

	// Retry is the number of extra attempts after a failed fetch.
	Retry int

	// RetryIf filters which errors are retried; nil retries everything
	// except context cancellation.
	RetryIf func(error) bool

	// RetryDelay returns the wait before attempt n (1-based).
	RetryDelay func(attempt int) time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDefaults replaces the default query options.
func WithDefaults(opts QueryOptions) Option {
	return func(c *Client) {
		c.defaults = opts
	}
}

// WithGCTime sets how long unused entries survive Collect.
func WithGCTime(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.gcTime = d
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func defaultQueryOptions() QueryOptions {
	return QueryOptions{
		StaleTime:  DefaultStaleTime,
		Retry:      DefaultRetry,
		RetryDelay: exponentialDelay,
	}
}

// exponentialDelay doubles from one second, capped at thirty.
func exponentialDelay(attempt int) time.Duration {
	d := time.Second << (attempt - 1)
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (o QueryOptions) shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if o.RetryIf == nil {
		return true
	}
	return o.RetryIf(err)
}

func (o QueryOptions) delay(attempt int) time.Duration {
	if o.RetryDelay == nil {
		return 0
	}
	return o.RetryDelay(attempt)
}
