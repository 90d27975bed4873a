package storage

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/port"
)

func testKVStore(t *testing.T, kv port.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "s1:cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "s1:cart", `[]`))
	v, ok, err := kv.Get(ctx, "s1:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, kv.Remove(ctx, "s1:cart"))
	_, ok, err = kv.Get(ctx, "s1:cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Remove(ctx, "s1:missing"))
}

func TestMemoryKV(t *testing.T) {
	testKVStore(t, NewMemoryKV())

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, NewMemoryKV().Set(ctx, "k", "v"), context.Canceled)
	})
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("STOREFRONT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOREFRONT_TEST_REDIS_ADDR is not set")
	}
	kv, err := NewRedisKV(context.Background(), addr, "", 0, time.Minute)
	require.NoError(t, err)
	defer kv.Close()

	testKVStore(t, kv)
}

type failingKV struct {
	*MemoryKV
}

func (failingKV) Set(context.Context, string, string) error {
	return assert.AnError
}

// gateKV blocks writes until released.
type gateKV struct {
	*MemoryKV
	release chan struct{}
	once    sync.Once
}

func newGateKV() *gateKV {
	return &gateKV{MemoryKV: NewMemoryKV(), release: make(chan struct{})}
}

func (kv *gateKV) Set(ctx context.Context, key string, value string) error {
	<-kv.release
	return kv.MemoryKV.Set(ctx, key, value)
}

func (kv *gateKV) open() {
	kv.once.Do(func() { close(kv.release) })
}

func TestWriteBehind(t *testing.T) {
	ctx := context.Background()

	t.Run("KVStore", func(t *testing.T) {
		w := NewWriteBehind(NewMemoryKV(), 0)
		defer w.Close(ctx)
		testKVStore(t, w)
	})

	t.Run("FlushReachesBackend", func(t *testing.T) {
		backend := NewMemoryKV()
		w := NewWriteBehind(backend, time.Second)
		defer w.Close(ctx)

		require.NoError(t, w.Set(ctx, "a", "1"))
		require.NoError(t, w.Set(ctx, "a", "2"))
		require.NoError(t, w.Set(ctx, "b", "1"))
		require.NoError(t, w.Remove(ctx, "b"))
		require.NoError(t, w.Flush(ctx))

		v, ok, err := backend.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", v)

		_, ok, err = backend.Get(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ReadsQueuedWrites", func(t *testing.T) {
		backend := newGateKV()
		w := NewWriteBehind(backend, time.Second)
		defer w.Close(ctx)
		defer backend.open()

		require.NoError(t, w.Set(ctx, "a", "1"))

		v, ok, err := w.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		flushCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, w.Flush(flushCtx), context.DeadlineExceeded)

		backend.open()
		require.NoError(t, w.Flush(ctx))
		v, ok, err = backend.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("BackendErrorIsNotReturned", func(t *testing.T) {
		w := NewWriteBehind(failingKV{NewMemoryKV()}, time.Second)
		defer w.Close(ctx)

		assert.NoError(t, w.Set(ctx, "a", "1"))
		assert.NoError(t, w.Flush(ctx))
	})

	t.Run("CloseDrains", func(t *testing.T) {
		backend := NewMemoryKV()
		w := NewWriteBehind(backend, time.Second)

		require.NoError(t, w.Set(ctx, "a", "1"))
		require.NoError(t, w.Close(ctx))

		_, ok, _ := backend.Get(ctx, "a")
		assert.True(t, ok)

		require.NoError(t, w.Set(ctx, "b", "2"))
		_, ok, _ = backend.Get(ctx, "b")
		assert.True(t, ok)
	})
}
