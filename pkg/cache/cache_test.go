package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestSetGetRoundtrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k1", []byte("v1")))

	val, ok, err := svc.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), val)
}

func TestGetMissIsNotError(t *testing.T) {
	svc := newTestService(t)
	val, ok, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestDeleteRemovesEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, svc.Delete(ctx, "k1"))

	_, ok, err := svc.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.Delete(context.Background(), "never-set"))
}

func TestExists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	assert.False(t, svc.Exists(ctx, "k1"))
	require.NoError(t, svc.Set(ctx, "k1", []byte("v1")))
	assert.True(t, svc.Exists(ctx, "k1"))
}

func TestGetOrLoadPopulatesOnMiss(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("loaded"), nil
	}

	val, err := svc.GetOrLoad(ctx, "k1", load)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), val)

	val, err = svc.GetOrLoad(ctx, "k1", load)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), val)
	assert.Equal(t, 1, calls, "second call should hit cache, not load again")
}

func TestTTLExpiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = 20 * time.Millisecond
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "k1", []byte("v1")))
	time.Sleep(100 * time.Millisecond)

	_, ok, err := svc.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}
