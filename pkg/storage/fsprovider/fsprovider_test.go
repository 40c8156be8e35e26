package fsprovider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(DefaultConfig("fs-1", t.TempDir()))
	require.NoError(t, err)
	return p
}

func TestWriteReadRoundtrip(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	path, err := p.WriteChunk(ctx, "abcd1234", bytes.NewReader([]byte("hello")), "cid")
	require.NoError(t, err)
	require.NotEmpty(t, path)

	rc, err := p.ReadChunk(ctx, "abcd1234", path, "cid")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestReadMissingChunkReturnsNotFound(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.ReadChunk(context.Background(), "missing", "aa/bb/missing", "cid")
	require.Error(t, err)
	var nf *chunkerr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestChunkExists(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	exists, err := p.ChunkExists(ctx, "abcd1234", "aa/bb/abcd1234", "cid")
	require.NoError(t, err)
	assert.False(t, exists)

	path, err := p.WriteChunk(ctx, "abcd1234", bytes.NewReader([]byte("x")), "cid")
	require.NoError(t, err)

	exists, err = p.ChunkExists(ctx, "abcd1234", path, "cid")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteChunkIsIdempotent(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	path, err := p.WriteChunk(ctx, "abcd1234", bytes.NewReader([]byte("x")), "cid")
	require.NoError(t, err)

	deleted, err := p.DeleteChunk(ctx, "abcd1234", path, "cid")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = p.DeleteChunk(ctx, "abcd1234", path, "cid")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestHealthCheck(t *testing.T) {
	p := newTestProvider(t)
	assert.NoError(t, p.HealthCheck(context.Background()))
}
