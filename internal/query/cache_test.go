package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	c := New(0)
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			v, err := c.Fetch(context.Background(), ListKey, fn)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	started.Wait()
	// Let every goroutine reach the singleflight group before releasing.
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, "value", v)
	}
}

func TestFetchServesFreshEntriesFromMemory(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int
	fn := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.Fetch(context.Background(), BlogKey("1"), fn)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = c.Fetch(context.Background(), BlogKey("1"), fn)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	v, err = c.Fetch(context.Background(), BlogKey("1"), fn)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestInvalidateForcesRefetchButKeepsData(t *testing.T) {
	t.Parallel()

	c := New(time.Hour)
	c.Set(ListKey, []string{"a"})
	c.Set(BlogKey("1"), "one")

	require.Equal(t, 1, c.Invalidate(ListKey))

	v, ok := c.Peek(ListKey)
	require.True(t, ok)
	require.Equal(t, []string{"a"}, v)

	var calls int
	v, err := c.Fetch(context.Background(), ListKey, func(context.Context) (any, error) {
		calls++
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, []string{"a", "b"}, v)

	// blog/1 was untouched by the list invalidation.
	v, err = c.Fetch(context.Background(), BlogKey("1"), func(context.Context) (any, error) {
		t.Fatal("fresh entry refetched")
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, "one", v)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	c := New(time.Hour)
	boom := errors.New("boom")
	_, err := c.Fetch(context.Background(), ListKey, func(context.Context) (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	_, ok := c.Peek(ListKey)
	require.False(t, ok)

	c.Set(ListKey, "x")
	c.Clear()
	_, ok = c.Peek(ListKey)
	require.False(t, ok)
}
