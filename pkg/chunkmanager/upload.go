package chunkmanager

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/chunking"
	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// Upload splits r into chunks, compresses and checksums each, distributes
// them across registered providers, and persists a ChunkDescriptor per
// chunk (spec §4.5.2). sizeHint is the expected total size if known, or -1
// if r's length is unknown ahead of time.
//
// On any failure partway through, already-written chunks are rolled back
// (best-effort) when Settings.RollbackOnFailure is true, and the file
// descriptor transitions to Failed.
func (m *Manager) Upload(ctx context.Context, fileID string, r io.Reader, sizeHint int64, correlationID string) ([]*metadata.ChunkDescriptor, error) {
	file, err := m.files.GetByID(ctx, fileID, correlationID)
	if err != nil {
		return nil, err
	}

	size := m.chunkSize(sizeHint)
	splitter := chunking.NewSplitter(r, size)

	var (
		results []*metadata.ChunkDescriptor
		written []writtenChunk
	)

	fail := func(opErr error) error {
		if m.settings.RollbackOnFailure {
			m.rollback(ctx, fileID, correlationID, written)
		}
		file.Status = metadata.FileStatusFailed
		if _, uerr := m.files.Update(ctx, file, correlationID); uerr != nil {
			logger.ErrorCtx(ctx, "failed to mark file failed after upload error", logger.FileID(fileID), logger.Err(uerr))
		}
		return opErr
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fail(&chunkerr.CanceledError{Op: "upload"})
		default:
		}

		piece, err := splitter.Next()
		if err != nil {
			return nil, fail(fmt.Errorf("splitting file %s: %w", fileID, err))
		}
		if piece == nil {
			break
		}

		blob := piece.Plaintext
		isCompressed := false
		if m.settings.CompressionEnabled {
			blob, isCompressed = chunking.EffectiveCompress(piece.Plaintext, m.settings.CompressionLevel)
		}

		chunkKey := metadata.ChunkKey(fileID, piece.Sequence)

		providerID, err := m.strategy.SelectProvider(ctx, chunkKey, int64(len(piece.Plaintext)))
		if err != nil {
			return nil, fail(&chunkerr.StorageError{ProviderID: providerID, Op: "select", Cause: err})
		}
		provider, err := resolveProvider(m.registry, providerID)
		if err != nil {
			return nil, fail(err)
		}

		storagePath, err := provider.WriteChunk(ctx, chunkKey, bytes.NewReader(blob), correlationID)
		if err != nil {
			return nil, fail(&chunkerr.StorageError{ProviderID: providerID, Op: "write", Cause: err})
		}
		written = append(written, writtenChunk{providerID: providerID, storagePath: storagePath, chunkID: chunkKey})

		now := nowFunc()
		chunk := &metadata.ChunkDescriptor{
			ID:                chunkKey,
			FileID:            fileID,
			SequenceNumber:    piece.Sequence,
			Size:              uint64(len(piece.Plaintext)),
			CompressedSize:    uint64(len(blob)),
			Checksum:          checksumHex(piece.Checksum),
			StorageProviderID: providerID,
			StoragePath:       storagePath,
			IsCompressed:      isCompressed,
			Status:            metadata.ChunkStatusStored,
			CreatedAt:         now,
			UpdatedAt:         now,
			StorageTimestamp:  &now,
			CorrelationID:     correlationID,
		}
		if !isCompressed {
			chunk.CompressedSize = 0
		}

		if err := m.chunks.Add(ctx, chunk, correlationID); err != nil {
			return nil, fail(fmt.Errorf("persisting chunk %s: %w", chunkKey, err))
		}
		m.setCache(ctx, chunk)
		results = append(results, chunk)

		m.publish(ctx, event.ChunkStoredEvent{
			Envelope:       event.NewEnvelope("ChunkStored", correlationID),
			FileID:         fileID,
			SequenceNumber: piece.Sequence,
			ChunkID:        chunkKey,
		})
	}

	file.ExpectedChunkCount = len(results)
	file.ChunkCount = len(results)
	file.Status = metadata.FileStatusCompleted
	if _, err := m.files.Update(ctx, file, correlationID); err != nil {
		return nil, fmt.Errorf("marking file %s completed: %w", fileID, err)
	}

	return results, nil
}
