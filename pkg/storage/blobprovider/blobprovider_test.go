package blobprovider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	opts := badger.DefaultOptions(filepath.Join(t.TempDir(), "blobs")).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New("blob-1", db)
}

func TestWriteReadRoundtrip(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	path, err := p.WriteChunk(ctx, "k1", bytes.NewReader([]byte("payload")), "cid")
	require.NoError(t, err)

	rc, err := p.ReadChunk(ctx, "k1", path, "cid")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestReadMissingReturnsNotFound(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.ReadChunk(context.Background(), "missing", "missing", "cid")
	require.Error(t, err)
	var nf *chunkerr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDeleteChunkIsIdempotent(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()
	path, err := p.WriteChunk(ctx, "k1", bytes.NewReader([]byte("x")), "cid")
	require.NoError(t, err)

	deleted, err := p.DeleteChunk(ctx, "k1", path, "cid")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = p.DeleteChunk(ctx, "k1", path, "cid")
	require.NoError(t, err)
	assert.False(t, deleted)
}
