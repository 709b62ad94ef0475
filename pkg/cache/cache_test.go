package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/pkg/cache"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("returns stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", 42, time.Minute))

		val, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, 42, val)
	})

	t.Run("overwrites existing value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "a", time.Minute))
		require.NoError(t, c.Set(ctx, "key", "b", time.Minute))

		val, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, "b", val)
		require.Equal(t, 1, c.Len())
	})

	t.Run("expired key is a miss", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Equal(t, 0, c.Len())
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(20*time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", 0))
		_, err := c.Get(ctx, "key")
		require.NoError(t, err)

		time.Sleep(40 * time.Millisecond)
		_, err = c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative TTL never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", -1))
		time.Sleep(5 * time.Millisecond)

		val, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, "value", val)
	})
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))
	require.NoError(t, c.Delete(ctx, "never-set"))

	_, err := c.Get(ctx, "key")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Take(t *testing.T) {
	t.Parallel()

	t.Run("returns and removes value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "code", "user-1", time.Minute))

		val, err := c.Take(ctx, "code")
		require.NoError(t, err)
		require.Equal(t, "user-1", val)

		_, err = c.Take(ctx, "code")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired value cannot be taken", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "code", "user-1", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Take(ctx, "code")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("only one concurrent taker wins", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "code", "user-1", time.Minute))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := c.Take(ctx, "code"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), wins.Load())
	})
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string](cache.WithMaxEntries(2))
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

	// Touch "a" so "b" becomes the eviction candidate.
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", "3", time.Minute))
	require.Equal(t, 2, c.Len())

	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Janitor(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string](cache.WithCleanupInterval(5 * time.Millisecond))
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "key", "value", time.Millisecond))

	require.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	ctx := context.Background()
	require.ErrorIs(t, c.Set(ctx, "key", "value", time.Minute), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "key"), cache.ErrClosed)
	_, err := c.Take(ctx, "key")
	require.ErrorIs(t, err, cache.ErrClosed)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	t.Run("computes once and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		var calls atomic.Int32
		fn := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "computed", time.Minute, nil
		}

		val, err := cache.GetOrSet(ctx, c, "getorset-once", fn)
		require.NoError(t, err)
		require.Equal(t, "computed", val)

		val, err = cache.GetOrSet(ctx, c, "getorset-once", fn)
		require.NoError(t, err)
		require.Equal(t, "computed", val)
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		boom := errors.New("boom")

		_, err := cache.GetOrSet(ctx, c, "getorset-error", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "getorset-error")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("deduplicates concurrent misses", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		ctx := context.Background()
		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				val, err := cache.GetOrSet(ctx, c, "getorset-concurrent", func(context.Context) (int, time.Duration, error) {
					calls.Add(1)
					<-release
					return 7, time.Minute, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 7, val)
			}()
		}

		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.LessOrEqual(t, calls.Load(), int32(10))
		require.GreaterOrEqual(t, calls.Load(), int32(1))
	})
}

func TestGetOrSet_SameKeyDifferentValueTypes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	strs := cache.NewMemory[string]()
	defer strs.Close()
	ints := cache.NewMemory[int]()
	defer ints.Close()

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v, err := cache.GetOrSet(ctx, strs, "shared", func(context.Context) (string, time.Duration, error) {
			<-release
			return "s", time.Minute, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "s", v)
	}()
	go func() {
		defer wg.Done()
		v, err := cache.GetOrSet(ctx, ints, "shared", func(context.Context) (int, time.Duration, error) {
			<-release
			return 1, time.Minute, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, v)
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type item struct {
		Name string `json:"name"`
	}
	m := cache.JSON[item]{}

	data, err := m.Marshal(item{Name: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a"}`, string(data))

	got, err := m.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	_, err = cache.JSON[chan int]{}.Marshal(make(chan int))
	require.ErrorIs(t, err, cache.ErrMarshal)
}
