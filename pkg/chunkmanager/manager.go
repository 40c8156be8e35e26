// Package chunkmanager implements the Chunk Manager (spec §4.5): splitting
// a file stream into chunks, compressing and checksumming each, distributing
// them across storage providers, and reassembling or verifying them later.
// It wires pkg/chunking's pure mechanics to pkg/storage providers (through a
// registry.Registry and distribution Strategy), pkg/metadata repositories
// (through pkg/cache), and pkg/event.
package chunkmanager

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/cache"
	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/chunking"
	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/metadata"
	"github.com/chunkvault/chunkvault/pkg/storage"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
)

// Manager is the Chunk Manager: the core orchestrator of spec §4.5.
type Manager struct {
	files    metadata.FileRepository
	chunks   metadata.ChunkRepository
	cache    *cache.Service
	registry *registry.Registry
	strategy registry.Strategy
	bus      *event.Bus
	settings Settings
}

// New builds a Manager. bus may be nil, in which case chunk lifecycle
// events are simply not published.
func New(
	files metadata.FileRepository,
	chunks metadata.ChunkRepository,
	cacheSvc *cache.Service,
	reg *registry.Registry,
	strategy registry.Strategy,
	bus *event.Bus,
	settings Settings,
) *Manager {
	return &Manager{
		files:    files,
		chunks:   chunks,
		cache:    cacheSvc,
		registry: reg,
		strategy: strategy,
		bus:      bus,
		settings: settings,
	}
}

// chunkSize picks the target chunk size for an upload of known or unknown
// size, per spec §4.5.1.
func (m *Manager) chunkSize(sizeHint int64) int64 {
	if sizeHint < 0 {
		return m.settings.DefaultChunkSizeInBytes
	}
	return chunking.TargetChunkSize(sizeHint, m.settings.MinChunkSizeInBytes, m.settings.DefaultChunkSizeInBytes, m.settings.MaxChunkSizeInBytes)
}

func (m *Manager) cacheKey(chunkID string) string { return "chunk:" + chunkID }

func (m *Manager) setCache(ctx context.Context, chunk *metadata.ChunkDescriptor) {
	if m.cache == nil {
		return
	}
	data, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	_ = m.cache.Set(ctx, m.cacheKey(chunk.ID), data)
}

func (m *Manager) invalidateCache(ctx context.Context, chunkID string) {
	if m.cache == nil {
		return
	}
	_ = m.cache.Delete(ctx, m.cacheKey(chunkID))
}

func (m *Manager) publish(ctx context.Context, evt any) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(ctx, evt)
}

// writtenChunk tracks a chunk written during an in-progress upload, for
// best-effort rollback if a later chunk fails.
type writtenChunk struct {
	providerID  string
	storagePath string
	chunkID     string
}

func (m *Manager) rollback(ctx context.Context, fileID, correlationID string, written []writtenChunk) {
	for _, w := range written {
		provider, err := m.registry.Get(w.providerID)
		if err != nil {
			continue
		}
		if _, err := provider.DeleteChunk(ctx, w.chunkID, w.storagePath, correlationID); err != nil {
			logger.WarnCtx(ctx, "rollback delete failed", logger.ProviderID(w.providerID), logger.ChunkID(w.chunkID), logger.Err(err))
		}
		_, _ = m.chunks.Delete(ctx, w.chunkID, correlationID)
		m.invalidateCache(ctx, w.chunkID)
	}
	logger.WarnCtx(ctx, "upload rolled back", logger.FileID(fileID), logger.CorrelationID(correlationID))
}

func resolveProvider(reg *registry.Registry, id string) (storage.Provider, error) {
	p, err := reg.Get(id)
	if err != nil {
		return nil, &chunkerr.StorageError{ProviderID: id, Op: "resolve", Cause: err}
	}
	return p, nil
}

var nowFunc = func() time.Time { return time.Now().UTC() }

func checksumHex(sum [32]byte) string { return hex.EncodeToString(sum[:]) }
