// Package storage defines the Storage Provider contract (spec §4.1): the
// abstraction chunk bytes are written through and read back from, regardless
// of which physical backend stores them.
package storage

import (
	"context"
	"io"
)

// Provider stores and retrieves chunk payloads under an opaque storagePath
// that each implementation assigns and interprets.
type Provider interface {
	// ProviderID identifies this provider instance within a Registry.
	ProviderID() string
	// Kind names the backend family ("filesystem", "blob", "s3").
	Kind() string

	// WriteChunk stores the bytes read from r under key, returning the
	// storagePath a later ReadChunk/ChunkExists/DeleteChunk call needs.
	WriteChunk(ctx context.Context, key string, r io.Reader, correlationID string) (storagePath string, err error)
	// ReadChunk opens a stream for the chunk at storagePath. Callers must
	// Close the returned reader.
	ReadChunk(ctx context.Context, key, storagePath, correlationID string) (io.ReadCloser, error)
	// ChunkExists reports whether storagePath currently holds data.
	ChunkExists(ctx context.Context, key, storagePath, correlationID string) (bool, error)
	// DeleteChunk removes the chunk at storagePath. Deleting an absent
	// chunk is not an error; the bool return reports whether anything was
	// actually removed.
	DeleteChunk(ctx context.Context, key, storagePath, correlationID string) (bool, error)
}
