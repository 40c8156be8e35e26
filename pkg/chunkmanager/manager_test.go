package chunkmanager

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/metadata"
	"github.com/chunkvault/chunkvault/pkg/metadata/memory"
	"github.com/chunkvault/chunkvault/pkg/storage/fsprovider"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
)

func newTestManager(t *testing.T) (*Manager, metadata.FileRepository) {
	t.Helper()

	files := memory.NewFileRepository()
	chunks := memory.NewChunkRepository()

	provider, err := fsprovider.New(fsprovider.DefaultConfig("local", t.TempDir()))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, reg.Register(provider))

	strategy, err := registry.NewRoundRobin([]string{"local"})
	require.NoError(t, err)

	bus := event.New(nil)

	settings := DefaultSettings()
	settings.DefaultChunkSizeInBytes = 16
	settings.MinChunkSizeInBytes = 16
	settings.MaxChunkSizeInBytes = 16

	mgr := New(files, chunks, nil, reg, strategy, bus, settings)
	return mgr, files
}

func addPendingFile(t *testing.T, files metadata.FileRepository, id string) {
	t.Helper()
	require.NoError(t, files.Add(context.Background(), &metadata.FileDescriptor{
		ID:     id,
		Name:   id,
		Status: metadata.FileStatusProcessing,
		Type:   metadata.FileTypeFile,
	}, "cid"))
}

func TestUploadDownloadRoundtrip(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	payload := bytes.Repeat([]byte("chunkvault-"), 10) // > one 16-byte chunk

	chunks, err := mgr.Upload(ctx, "f1", bytes.NewReader(payload), int64(len(payload)), "cid")
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)

	var out bytes.Buffer
	require.NoError(t, mgr.Download(ctx, "f1", &out, "cid"))
	assert.Equal(t, payload, out.Bytes())

	got, err := files.GetByID(ctx, "f1", "cid")
	require.NoError(t, err)
	assert.Equal(t, metadata.FileStatusCompleted, got.Status)
	assert.Equal(t, len(chunks), got.ChunkCount)
}

func TestUploadDownloadEmptyFile(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	chunks, err := mgr.Upload(ctx, "f1", bytes.NewReader(nil), 0, "cid")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	got, err := files.GetByID(ctx, "f1", "cid")
	require.NoError(t, err)
	assert.Equal(t, metadata.FileStatusCompleted, got.Status)
	assert.Equal(t, 0, got.ChunkCount)

	var out bytes.Buffer
	require.NoError(t, mgr.Download(ctx, "f1", &out, "cid"))
	assert.Empty(t, out.Bytes())
}

func TestVerifyShallowDetectsMissingChunk(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	payload := bytes.Repeat([]byte("x"), 40)
	_, err := mgr.Upload(ctx, "f1", bytes.NewReader(payload), int64(len(payload)), "cid")
	require.NoError(t, err)

	require.NoError(t, mgr.chunks.Delete(ctx, "f1_1", "cid"))

	report, err := mgr.Verify(ctx, "f1", false, "cid")
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.NotEmpty(t, report.Issues)
}

func TestVerifyDeepDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	payload := bytes.Repeat([]byte("y"), 40)
	_, err := mgr.Upload(ctx, "f1", bytes.NewReader(payload), int64(len(payload)), "cid")
	require.NoError(t, err)

	c, err := mgr.chunks.GetByID(ctx, "f1_0", "cid")
	require.NoError(t, err)
	c.Checksum = "deadbeef"
	_, err = mgr.chunks.Update(ctx, c, "cid")
	require.NoError(t, err)

	report, err := mgr.Verify(ctx, "f1", true, "cid")
	require.NoError(t, err)
	assert.False(t, report.Healthy)
}

func TestDeleteRemovesChunksAndFile(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	payload := bytes.Repeat([]byte("z"), 40)
	_, err := mgr.Upload(ctx, "f1", bytes.NewReader(payload), int64(len(payload)), "cid")
	require.NoError(t, err)

	deleted, err := mgr.Delete(ctx, "f1", false, "cid")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = files.GetByID(ctx, "f1", "cid")
	assert.Error(t, err)

	remaining, err := mgr.chunks.GetChunksByFileID(ctx, "f1", "cid")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteIsIdempotentWhenNotStrict(t *testing.T) {
	ctx := context.Background()
	mgr, files := newTestManager(t)
	addPendingFile(t, files, "f1")

	payload := []byte("tiny")
	_, err := mgr.Upload(ctx, "f1", bytes.NewReader(payload), int64(len(payload)), "cid")
	require.NoError(t, err)

	_, err = mgr.Delete(ctx, "f1", false, "cid")
	require.NoError(t, err)

	deleted, err := mgr.Delete(ctx, "f1", false, "cid")
	require.NoError(t, err)
	assert.False(t, deleted)
}
