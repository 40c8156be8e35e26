package chunkmanager

import (
	"context"
	"errors"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// Delete removes a file's chunks from their providers, then its chunk and
// file descriptors (spec §4.5.5). It is idempotent at the file level: a
// second call against an already-deleted file returns (false, nil) rather
// than NotFoundError, unless strict is set, in which case a missing file
// is reported as an error.
func (m *Manager) Delete(ctx context.Context, fileID string, strict bool, correlationID string) (bool, error) {
	_, err := m.files.GetByID(ctx, fileID, correlationID)
	if err != nil {
		var nf *chunkerr.NotFoundError
		if !strict && errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}

	chunks, err := m.chunks.GetChunksByFileID(ctx, fileID, correlationID)
	if err != nil {
		return false, err
	}

	for _, c := range chunks {
		provider, err := resolveProvider(m.registry, c.StorageProviderID)
		if err != nil {
			logger.WarnCtx(ctx, "provider missing during delete, skipping chunk", logger.ChunkID(c.ID), logger.ProviderID(c.StorageProviderID), logger.Err(err))
			continue
		}
		if _, err := provider.DeleteChunk(ctx, c.ID, c.StoragePath, correlationID); err != nil {
			logger.WarnCtx(ctx, "provider delete failed, continuing", logger.ChunkID(c.ID), logger.Err(err))
		}
		m.invalidateCache(ctx, c.ID)
	}

	if err := m.chunks.DeleteChunksByFileID(ctx, fileID, correlationID); err != nil {
		return false, err
	}

	deleted, err := m.files.Delete(ctx, fileID, correlationID)
	if err != nil {
		return false, err
	}
	return deleted, nil
}
