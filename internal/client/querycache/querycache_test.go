package querycache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	all := append([]Option{WithClock(clock.Now)}, opts...)
	return New(logger, all...), clock
}

func noDelay(o QueryOptions) QueryOptions {
	o.RetryDelay = nil
	return o
}

func TestKey(t *testing.T) {
	base := Key{"pages"}
	list := base.With("list", "all")
	detail := base.With("detail", "p1")

	assert.True(t, list.HasPrefix(base))
	assert.True(t, detail.HasPrefix(Key{"pages", "detail"}))
	assert.False(t, base.HasPrefix(list))
	assert.False(t, detail.HasPrefix(Key{"pages", "list"}))
	assert.Equal(t, Key{"pages"}, base, "With must not alias the receiver")
	assert.Equal(t, "pages/detail/p1", detail.String())
}

func TestFetch_ServesFreshDataWithoutRefetch(t *testing.T) {
	c, clock := newTestClient(t)
	key := Key{"pages", "list"}
	var calls int32
	fn := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a"}, nil
	}
	opts := c.Defaults()

	got, err := Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	clock.Advance(4 * time.Minute)
	_, err = Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock.Advance(2 * time.Minute)
	_, err = Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "stale after five minutes")
}

func TestFetch_StaleForever(t *testing.T) {
	c, clock := newTestClient(t)
	key := Key{"reminders", "config"}
	opts := c.Defaults()
	opts.StaleTime = StaleForever

	var calls int32
	fn := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	_, err := Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	got, err := Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	c.InvalidateQueries(Key{"reminders"})
	got, err = Fetch(context.Background(), c, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, got, "invalidation overrides StaleForever")
}

func TestInvalidateQueries_PrefixOnly(t *testing.T) {
	c, _ := newTestClient(t)
	c.SetData(Key{"pages", "list", "all"}, 1)
	c.SetData(Key{"pages", "detail", "p1"}, 2)
	c.SetData(Key{"blocks", "page", "p1"}, 3)

	c.InvalidateQueries(Key{"pages", "list"})

	stale := time.Hour
	assert.True(t, c.IsStale(Key{"pages", "list", "all"}, stale))
	assert.False(t, c.IsStale(Key{"pages", "detail", "p1"}, stale))
	assert.False(t, c.IsStale(Key{"blocks", "page", "p1"}, stale))

	v, ok := GetData[int](c, Key{"pages", "list", "all"})
	assert.True(t, ok, "invalidated data stays readable")
	assert.Equal(t, 1, v)
}

func TestFetch_RetriesOnceThenFails(t *testing.T) {
	c, _ := newTestClient(t)
	boom := errors.New("boom")
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", boom
	}

	_, err := Fetch(context.Background(), c, Key{"pages"}, noDelay(c.Defaults()), fn)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.ErrorIs(t, c.LastError(Key{"pages"}), boom)
}

func TestFetch_NoRetry(t *testing.T) {
	c, _ := newTestClient(t)
	opts := noDelay(c.Defaults())
	opts.Retry = 0
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("down")
	}

	_, err := Fetch(context.Background(), c, Key{"auth", "me"}, opts, fn)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_RetryIfFilter(t *testing.T) {
	c, _ := newTestClient(t)
	permanent := errors.New("permanent")
	opts := noDelay(c.Defaults())
	opts.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }
	var calls int32

	_, err := Fetch(context.Background(), c, Key{"x"}, opts, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, permanent
	})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_DeduplicatesConcurrentReads(t *testing.T) {
	c, _ := newTestClient(t)
	release := make(chan struct{})
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, Key{"pages", "list"}, c.Defaults(), fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCancelQueries_DiscardsLateResponse(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"pages", "detail", "p1"}
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string, 1)
	go func() {
		v, err := Fetch(context.Background(), c, key, c.Defaults(), func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "server", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	c.CancelQueries(key)
	c.SetData(key, "optimistic")
	close(release)

	assert.Equal(t, "optimistic", <-done)
	v, ok := GetData[string](c, key)
	require.True(t, ok)
	assert.Equal(t, "optimistic", v)
}

func TestSetData_SupersedesInFlightFetch(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"database", "rows", "db-1"}
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string, 1)
	go func() {
		v, err := Fetch(context.Background(), c, key, c.Defaults(), func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "server", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	c.SetData(key, "local")
	close(release)

	assert.Equal(t, "local", <-done)
	v, _ := GetData[string](c, key)
	assert.Equal(t, "local", v)
}

func TestCancelQueries_NothingCached(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"rows"}
	started := make(chan struct{})

	errCh := make(chan error, 1)
	go func() {
		_, err := Fetch(context.Background(), c, key, c.Defaults(), func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		errCh <- err
	}()

	<-started
	c.CancelQueries(key)
	assert.ErrorIs(t, <-errCh, ErrQueryCancelled)
}

func TestOptimistic_SuccessKeepsValue(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"pages", "detail", "p1"}
	c.SetData(key, "old")

	err := Optimistic(context.Background(), c, Mutation[string]{
		Key: key,
		Update: func(cur string, ok bool) (string, bool) {
			assert.True(t, ok)
			assert.Equal(t, "old", cur)
			return "new", true
		},
		Commit: func(ctx context.Context) error {
			v, _ := GetData[string](c, key)
			assert.Equal(t, "new", v, "optimistic value visible before commit resolves")
			return nil
		},
		InvalidateOnSettle: []Key{{"pages", "list"}},
	})
	require.NoError(t, err)

	v, _ := GetData[string](c, key)
	assert.Equal(t, "new", v)
}

func TestOptimistic_ReadStartedDuringMutationIsDiscarded(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"pages", "detail", "p1"}
	c.SetData(key, "x")
	c.InvalidateQueries(key)

	started := make(chan struct{})
	release := make(chan struct{})
	fetched := make(chan string, 1)

	err := Optimistic(context.Background(), c, Mutation[string]{
		Key: key,
		Update: func(cur string, ok bool) (string, bool) {
			go func() {
				v, err := Fetch(context.Background(), c, key, c.Defaults(), func(ctx context.Context) (string, error) {
					close(started)
					<-release
					return "x-from-server", nil
				})
				assert.NoError(t, err)
				fetched <- v
			}()
			<-started
			return "y", true
		},
		Commit: func(ctx context.Context) error {
			close(release)
			<-fetched
			return nil
		},
	})
	require.NoError(t, err)

	v, ok := GetData[string](c, key)
	require.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestOptimistic_FailureRestoresSnapshotExactly(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c, clock := newTestClient(t, WithMetrics(metrics))
	key := Key{"database", "rows", "db-1"}
	original := []string{"r1", "r2"}
	c.SetData(key, original)
	clock.Advance(time.Minute)

	c.mu.Lock()
	before := *c.lookup(key, false)
	c.mu.Unlock()

	rejected := errors.New("rejected")
	err := Optimistic(context.Background(), c, Mutation[[]string]{
		Key: key,
		Update: func(cur []string, ok bool) ([]string, bool) {
			return append([]string{"r0"}, cur...), true
		},
		Commit: func(ctx context.Context) error { return rejected },
	})
	require.ErrorIs(t, err, rejected)

	got, ok := GetData[[]string](c, key)
	require.True(t, ok)
	assert.Equal(t, original, got)

	c.mu.Lock()
	after := c.lookup(key, false)
	assert.Equal(t, before.updatedAt, after.updatedAt)
	assert.Equal(t, before.invalidated, after.invalidated)
	c.mu.Unlock()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rollbacks))
}

// A failing earlier mutation restores its own snapshot even after a later
// mutation on the same key has committed; the later value is lost until the
// next refetch.
func TestOptimistic_OverlappingWritesLastRollbackWins(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"pages", "detail", "p1"}
	c.SetData(key, "original")

	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- Optimistic(context.Background(), c, Mutation[string]{
			Key:    key,
			Update: func(string, bool) (string, bool) { return "first", true },
			Commit: func(ctx context.Context) error {
				<-release
				return errors.New("rejected")
			},
		})
	}()

	require.Eventually(t, func() bool {
		v, _ := GetData[string](c, key)
		return v == "first"
	}, time.Second, time.Millisecond)

	err := Optimistic(context.Background(), c, Mutation[string]{
		Key:    key,
		Update: func(string, bool) (string, bool) { return "second", true },
		Commit: func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)
	got, _ := GetData[string](c, key)
	assert.Equal(t, "second", got)

	close(release)
	require.Error(t, <-firstDone)

	got, _ = GetData[string](c, key)
	assert.Equal(t, "original", got)
}

func TestOptimistic_FailureWithoutSnapshotRemovesEntry(t *testing.T) {
	c, _ := newTestClient(t)
	key := Key{"blocks", "page", "p9"}

	err := Optimistic(context.Background(), c, Mutation[[]int]{
		Key:    key,
		Update: func(cur []int, ok bool) ([]int, bool) { return []int{1}, true },
		Commit: func(ctx context.Context) error { return errors.New("offline") },
	})
	require.Error(t, err)

	_, ok := GetData[[]int](c, key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestOptimistic_InvalidatesOnSettleEvenOnFailure(t *testing.T) {
	c, _ := newTestClient(t)
	c.SetData(Key{"pages", "list", "all"}, 1)
	c.SetData(Key{"pages", "detail", "p1"}, "x")

	_ = Optimistic(context.Background(), c, Mutation[string]{
		Key:                Key{"pages", "detail", "p1"},
		Update:             func(cur string, ok bool) (string, bool) { return "y", true },
		Commit:             func(ctx context.Context) error { return errors.New("nope") },
		InvalidateOnSettle: []Key{{"pages", "list"}},
	})

	assert.True(t, c.IsStale(Key{"pages", "list", "all"}, time.Hour))
}

func TestRemoveAndCollect(t *testing.T) {
	c, clock := newTestClient(t, WithGCTime(30*time.Minute))
	c.SetData(Key{"pages", "detail", "p1"}, 1)
	c.SetData(Key{"pages", "detail", "p2"}, 2)
	c.SetData(Key{"blocks", "page", "p1"}, 3)

	c.RemoveQueries(Key{"pages", "detail", "p1"})
	_, ok := GetData[int](c, Key{"pages", "detail", "p1"})
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	clock.Advance(20 * time.Minute)
	_, _ = GetData[int](c, Key{"blocks", "page", "p1"})
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, c.Collect())
	_, ok = GetData[int](c, Key{"blocks", "page", "p1"})
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMetrics_HitsAndMisses(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c, _ := newTestClient(t, WithMetrics(metrics))
	fn := func(ctx context.Context) (int, error) { return 7, nil }

	_, _ = Fetch(context.Background(), c, Key{"k"}, c.Defaults(), fn)
	_, _ = Fetch(context.Background(), c, Key{"k"}, c.Defaults(), fn)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.hits))
}
