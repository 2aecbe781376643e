package cachexmemory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex/cachexmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestEntriesExpire(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := cachexmemory.NewStoreWithClock(c.now)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "otp.s1", 123456, 10*time.Minute))

	code, err := cachex.Get[int](ctx, store, "otp.s1")
	require.NoError(t, err)
	assert.Equal(t, 123456, code)

	c.advance(10 * time.Minute)
	_, err = cachex.Get[int](ctx, store, "otp.s1")
	assert.True(t, cachex.IsMiss(err))
	assert.Zero(t, store.Len())
}

func TestSetOverwritesAndDeleteRemoves(t *testing.T) {
	store := cachexmemory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "first", time.Minute))
	require.NoError(t, store.Set(ctx, "k", "second", time.Minute))

	v, err := cachex.Get[string](ctx, store, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	require.NoError(t, store.Delete(ctx, "k", "absent"))
	_, err = cachex.Get[string](ctx, store, "k")
	assert.True(t, cachex.IsMiss(err))
}

func TestGetDelHandsOutValueOnce(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := cachexmemory.NewStoreWithClock(c.now)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "otp.s1", 123456, 10*time.Minute))
	require.NoError(t, store.Set(ctx, "otp.s2", 654321, 10*time.Minute))

	code, err := cachex.Take[int](ctx, store, "otp.s1")
	require.NoError(t, err)
	assert.Equal(t, 123456, code)

	_, err = cachex.Take[int](ctx, store, "otp.s1")
	assert.True(t, cachex.IsMiss(err))

	c.advance(10 * time.Minute)
	_, err = cachex.Take[int](ctx, store, "otp.s2")
	assert.True(t, cachex.IsMiss(err))
	assert.Zero(t, store.Len())
}

func TestGetDelConcurrentCallersWinOnce(t *testing.T) {
	store := cachexmemory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "otp.s", 123456, time.Minute))

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cachex.Take[int](ctx, store, "otp.s"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestValuesAreCopies(t *testing.T) {
	store := cachexmemory.NewStore()
	ctx := context.Background()

	in := map[string]bool{"verified": false}
	require.NoError(t, store.Set(ctx, "p", in, time.Minute))
	in["verified"] = true

	out, err := cachex.Get[map[string]bool](ctx, store, "p")
	require.NoError(t, err)
	assert.False(t, out["verified"])
}
