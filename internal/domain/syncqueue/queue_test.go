package syncqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/pkg/testutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestQueue(modify func(*config.SyncConfigs)) *Queue {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	if modify != nil {
		modify(&cfg.Sync)
	}

	return New(xcontext.WithConfigs(ctx, cfg))
}

func TestQueue_RunsJobs(t *testing.T) {
	q := newTestQueue(func(c *config.SyncConfigs) { c.Workers = 3 })
	defer q.Stop()

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.True(t, q.Enqueue("count", func(ctx context.Context) error {
			count.Add(1)
			return nil
		}))
	}

	q.Wait()
	require.Equal(t, int32(10), count.Load())
}

func TestQueue_FailureDoesNotStopWorkers(t *testing.T) {
	q := newTestQueue(nil)
	defer q.Stop()

	var ran atomic.Bool
	q.Enqueue("fail", func(ctx context.Context) error { return errors.New("remote down") })
	q.Enqueue("panic", func(ctx context.Context) error { panic("boom") })
	q.Enqueue("ok", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	q.Wait()
	require.True(t, ran.Load())
}

func TestQueue_DropWhenFull(t *testing.T) {
	q := newTestQueue(func(c *config.SyncConfigs) {
		c.Workers = 1
		c.QueueSize = 1
	})
	defer q.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, q.Enqueue("block", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.True(t, q.Enqueue("buffered", func(ctx context.Context) error { return nil }))
	require.False(t, q.Enqueue("dropped", func(ctx context.Context) error { return nil }))

	close(release)
	q.Wait()
}

func TestQueue_JobTimeout(t *testing.T) {
	q := newTestQueue(func(c *config.SyncConfigs) {
		c.JobTimeout = config.Duration{Duration: 20 * time.Millisecond}
	})
	defer q.Stop()

	var jobErr atomic.Value
	q.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		jobErr.Store(ctx.Err())
		return ctx.Err()
	})

	q.Wait()
	require.ErrorIs(t, jobErr.Load().(error), context.DeadlineExceeded)
}

func TestQueue_StopDrainsAndRejects(t *testing.T) {
	q := newTestQueue(nil)

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		q.Enqueue("count", func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}

	q.Stop()
	require.Equal(t, int32(5), count.Load())
	require.False(t, q.Enqueue("late", func(ctx context.Context) error { return nil }))

	// Stop is idempotent.
	q.Stop()
}

func TestQueue_RateLimited(t *testing.T) {
	q := newTestQueue(func(c *config.SyncConfigs) {
		c.RateLimit = 50
		c.RateBurst = 1
	})
	defer q.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		q.Enqueue("limited", func(ctx context.Context) error { return nil })
	}

	q.Wait()
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
