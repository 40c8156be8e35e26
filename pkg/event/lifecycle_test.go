package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/metadata"
	"github.com/chunkvault/chunkvault/pkg/metadata/memory"
)

func TestChunkLifecycleHandlerCompletesFileWhenAllChunksStored(t *testing.T) {
	ctx := context.Background()
	files := memory.NewFileRepository()
	chunks := memory.NewChunkRepository()
	bus := New(nil)

	require.NoError(t, files.Add(ctx, &metadata.FileDescriptor{
		ID: "f1", Status: metadata.FileStatusProcessing, ExpectedChunkCount: 2,
	}, "cid"))
	require.NoError(t, chunks.Add(ctx, &metadata.ChunkDescriptor{ID: "f1_0", FileID: "f1", SequenceNumber: 0, Status: metadata.ChunkStatusStored}, "cid"))
	require.NoError(t, chunks.Add(ctx, &metadata.ChunkDescriptor{ID: "f1_1", FileID: "f1", SequenceNumber: 1, Status: metadata.ChunkStatusStored}, "cid"))

	handler := NewChunkLifecycleHandler(files, chunks, bus)
	handler.Register(bus)

	var processed *FileProcessedEvent
	bus.Subscribe(FileProcessedEvent{}, func(_ context.Context, evt any) error {
		e := evt.(FileProcessedEvent)
		processed = &e
		return nil
	})

	bus.Publish(ctx, ChunkStoredEvent{FileID: "f1", SequenceNumber: 1, Envelope: NewEnvelope("ChunkStored", "cid")})

	got, err := files.GetByID(ctx, "f1", "cid")
	require.NoError(t, err)
	assert.Equal(t, metadata.FileStatusCompleted, got.Status)
	assert.Equal(t, 2, got.ChunkCount)
	require.NotNil(t, processed)
	assert.Equal(t, "f1", processed.FileID)
}

func TestChunkLifecycleHandlerWaitsForAllChunks(t *testing.T) {
	ctx := context.Background()
	files := memory.NewFileRepository()
	chunks := memory.NewChunkRepository()
	bus := New(nil)

	require.NoError(t, files.Add(ctx, &metadata.FileDescriptor{
		ID: "f1", Status: metadata.FileStatusProcessing, ExpectedChunkCount: 2,
	}, "cid"))
	require.NoError(t, chunks.Add(ctx, &metadata.ChunkDescriptor{ID: "f1_0", FileID: "f1", SequenceNumber: 0, Status: metadata.ChunkStatusStored}, "cid"))

	handler := NewChunkLifecycleHandler(files, chunks, bus)
	handler.Register(bus)

	bus.Publish(ctx, ChunkStoredEvent{FileID: "f1", SequenceNumber: 0, Envelope: NewEnvelope("ChunkStored", "cid")})

	got, err := files.GetByID(ctx, "f1", "cid")
	require.NoError(t, err)
	assert.Equal(t, metadata.FileStatusProcessing, got.Status)
}
