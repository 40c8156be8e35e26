package event

import (
	"context"

	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// ChunkLifecycleHandler observes ChunkStoredEvent, checks whether every
// chunk the file service expects has reached Stored, and — when complete —
// marks the file descriptor Completed and publishes FileProcessedEvent.
//
// Two decisions the distilled spec leaves open (§9) are settled here:
//   - FileID authority comes from the event field, not parsed back out of
//     the chunk ID's "{fileId}_{n}" convention — the convention is a
//     storage-key format, not a second source of truth.
//   - ChunkCount is read fresh from the repository's GetChunksByFileID on
//     every ChunkStoredEvent rather than accumulated incrementally in the
//     handler's own state, so a handler restart never loses count.
type ChunkLifecycleHandler struct {
	files  metadata.FileRepository
	chunks metadata.ChunkRepository
	bus    *Bus
}

// NewChunkLifecycleHandler builds a handler wired to repositories and the
// bus it will publish FileProcessedEvent on.
func NewChunkLifecycleHandler(files metadata.FileRepository, chunks metadata.ChunkRepository, bus *Bus) *ChunkLifecycleHandler {
	return &ChunkLifecycleHandler{files: files, chunks: chunks, bus: bus}
}

// Register subscribes the handler's Handle method to ChunkStoredEvent on bus.
func (h *ChunkLifecycleHandler) Register(bus *Bus) {
	bus.Subscribe(ChunkStoredEvent{}, h.Handle)
}

// Handle implements Handler for ChunkStoredEvent.
func (h *ChunkLifecycleHandler) Handle(ctx context.Context, evt any) error {
	csEvt, ok := evt.(ChunkStoredEvent)
	if !ok {
		return nil
	}

	file, err := h.files.GetByID(ctx, csEvt.FileID, csEvt.CorrelationID)
	if err != nil {
		return err
	}
	if file.Status == metadata.FileStatusCompleted {
		return nil
	}

	chunks, err := h.chunks.GetChunksByFileID(ctx, csEvt.FileID, csEvt.CorrelationID)
	if err != nil {
		return err
	}

	if file.ExpectedChunkCount == 0 || len(chunks) < file.ExpectedChunkCount {
		return nil
	}
	for _, c := range chunks {
		if c.Status != metadata.ChunkStatusStored {
			return nil
		}
	}

	file.Status = metadata.FileStatusCompleted
	file.ChunkCount = len(chunks)
	if _, err := h.files.Update(ctx, file, csEvt.CorrelationID); err != nil {
		return err
	}

	h.bus.Publish(ctx, FileProcessedEvent{
		Envelope:   NewEnvelope("FileProcessed", csEvt.CorrelationID),
		FileID:     csEvt.FileID,
		ChunkCount: uint32(file.ChunkCount),
	})
	return nil
}
