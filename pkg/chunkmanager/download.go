package chunkmanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/chunking"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// Download reassembles a file's chunks in sequence order onto w, verifying
// chunk contiguity, per-chunk checksums, and (when the file descriptor
// carries one) the whole-file checksum (spec §4.5.3).
func (m *Manager) Download(ctx context.Context, fileID string, w io.Writer, correlationID string) error {
	file, err := m.files.GetByID(ctx, fileID, correlationID)
	if err != nil {
		return err
	}

	chunks, err := m.chunks.GetChunksByFileID(ctx, fileID, correlationID)
	if err != nil {
		return err
	}
	// A file that legitimately has zero chunks (an empty-file upload, per
	// spec §8 S1) downloads as zero bytes rather than NotFoundError — the
	// file descriptor itself, not its chunk count, is what answers "does
	// this file exist".
	if len(chunks) == 0 && file.ChunkCount > 0 {
		return &chunkerr.NotFoundError{Kind: "chunk", ID: fileID}
	}

	for i, c := range chunks {
		if c.SequenceNumber != uint32(i) {
			return &chunkerr.IntegrityError{FileID: fileID, Sequence: int64(c.SequenceNumber), Reason: "missing or duplicate sequence number"}
		}
	}

	hasher := sha256.New()
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			return &chunkerr.CanceledError{Op: "download"}
		default:
		}

		plaintext, err := m.readChunkPlaintext(ctx, c, correlationID)
		if err != nil {
			return err
		}

		sum := sha256.Sum256(plaintext)
		if hex.EncodeToString(sum[:]) != c.Checksum {
			return &chunkerr.IntegrityError{FileID: fileID, Sequence: int64(c.SequenceNumber), Reason: "chunk checksum mismatch"}
		}

		if _, err := hasher.Write(plaintext); err != nil {
			return fmt.Errorf("writing to hash: %w", err)
		}
		if _, err := w.Write(plaintext); err != nil {
			return &chunkerr.StorageError{ProviderID: c.StorageProviderID, Op: "write-sink", Cause: err}
		}
	}

	if file.Checksum != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != file.Checksum {
			return &chunkerr.IntegrityError{FileID: fileID, Sequence: -1, Reason: "whole-file checksum mismatch"}
		}
	}
	return nil
}

// readChunkPlaintext fetches a chunk's bytes from its provider and
// decompresses them when needed. It does not consult the cache; payload
// bytes are never cached.
func (m *Manager) readChunkPlaintext(ctx context.Context, c *metadata.ChunkDescriptor, correlationID string) ([]byte, error) {
	provider, err := resolveProvider(m.registry, c.StorageProviderID)
	if err != nil {
		return nil, err
	}

	rc, err := provider.ReadChunk(ctx, c.ID, c.StoragePath, correlationID)
	if err != nil {
		return nil, &chunkerr.StorageError{ProviderID: c.StorageProviderID, Op: "read", Cause: err}
	}
	defer rc.Close()

	blob, err := io.ReadAll(rc)
	if err != nil {
		return nil, &chunkerr.StorageError{ProviderID: c.StorageProviderID, Op: "read", Cause: err}
	}

	if !c.IsCompressed {
		return blob, nil
	}
	plaintext, err := chunking.Decompress(blob)
	if err != nil {
		return nil, &chunkerr.IntegrityError{FileID: c.FileID, Sequence: int64(c.SequenceNumber), Reason: "decompression failed: " + err.Error()}
	}
	return plaintext, nil
}
