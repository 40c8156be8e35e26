package registry

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	id string
}

func (f *fakeProvider) ProviderID() string { return f.id }
func (f *fakeProvider) Kind() string       { return "fake" }
func (f *fakeProvider) WriteChunk(context.Context, string, io.Reader, string) (string, error) {
	return "", nil
}
func (f *fakeProvider) ReadChunk(context.Context, string, string, string) (io.ReadCloser, error) {
	return nil, nil
}
func (f *fakeProvider) ChunkExists(context.Context, string, string, string) (bool, error) {
	return false, nil
}
func (f *fakeProvider) DeleteChunk(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&fakeProvider{id: "p1"}))

	p, err := r.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ProviderID())
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&fakeProvider{id: "p1"}))
	assert.Error(t, r.Register(&fakeProvider{id: "p1"}))
}

func TestGetMissingFails(t *testing.T) {
	r := New()
	_, err := r.Get("missing")
	assert.Error(t, err)
}

func TestRoundRobinCyclesInOrder(t *testing.T) {
	rr, err := NewRoundRobin([]string{"a", "b", "c"})
	require.NoError(t, err)
	ctx := context.Background()

	var got []string
	for i := 0; i < 7; i++ {
		id, err := rr.SelectProvider(ctx, "key", 0)
		require.NoError(t, err)
		got = append(got, id)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestWeightedRandomOnlyEverPicksConfiguredProviders(t *testing.T) {
	wr, err := NewWeightedRandom(map[string]int{"a": 1, "b": 9})
	require.NoError(t, err)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := wr.SelectProvider(ctx, "key", 0)
		require.NoError(t, err)
		seen[id] = true
	}
	for id := range seen {
		assert.Contains(t, []string{"a", "b"}, id)
	}
}

func TestSizeTierRoutesByThreshold(t *testing.T) {
	st, err := NewSizeTier(map[int64]string{
		1 << 20:  "small",
		16 << 20: "medium",
	}, "large")
	require.NoError(t, err)

	assert.Equal(t, "small", st.SelectProviderForSize(1024))
	assert.Equal(t, "medium", st.SelectProviderForSize(2<<20))
	assert.Equal(t, "large", st.SelectProviderForSize(100<<20))
}

func TestSizeTierSelectProviderRoutesBySize(t *testing.T) {
	st, err := NewSizeTier(map[int64]string{
		1 << 20:  "small",
		16 << 20: "medium",
	}, "large")
	require.NoError(t, err)
	ctx := context.Background()

	id, err := st.SelectProvider(ctx, "key", 1024)
	require.NoError(t, err)
	assert.Equal(t, "small", id)

	id, err = st.SelectProvider(ctx, "key", 100<<20)
	require.NoError(t, err)
	assert.Equal(t, "large", id)
}

func TestHealthCheckAllSkipsNonCheckers(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&fakeProvider{id: "p1"}))
	id, err := r.HealthCheckAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, id)
}
