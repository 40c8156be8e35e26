// Package memory provides in-memory implementations of the metadata
// repositories, used by unit tests and as a zero-configuration dev-mode
// backend. Grounded on dittofs's pkg/metadata/store/memory: sync.RWMutex
// guarded maps, no external dependency.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// FileRepository is an in-memory metadata.FileRepository.
type FileRepository struct {
	mu    sync.RWMutex
	files map[string]*metadata.FileDescriptor
}

// NewFileRepository creates an empty in-memory file repository.
func NewFileRepository() *FileRepository {
	return &FileRepository{files: make(map[string]*metadata.FileDescriptor)}
}

func (r *FileRepository) Add(_ context.Context, file *metadata.FileDescriptor, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[file.ID] = file.Clone()
	return nil
}

func (r *FileRepository) GetByID(_ context.Context, id string, _ string) (*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return nil, &chunkerr.NotFoundError{Kind: "file", ID: id}
	}
	return f.Clone(), nil
}

func (r *FileRepository) Update(_ context.Context, file *metadata.FileDescriptor, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[file.ID]; !ok {
		return false, nil
	}
	r.files[file.ID] = file.Clone()
	return true, nil
}

func (r *FileRepository) Delete(_ context.Context, id string, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return false, nil
	}
	delete(r.files, id)
	return true, nil
}

func (r *FileRepository) GetAll(_ context.Context, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*metadata.FileDescriptor, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepository) GetByFullPath(_ context.Context, fullPath string, _ string) (*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.files {
		if f.FullPath == fullPath {
			return f.Clone(), nil
		}
	}
	return nil, nil
}

func (r *FileRepository) GetChildren(_ context.Context, parentID string, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.FileDescriptor
	for _, f := range r.files {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FileRepository) GetByParentPath(_ context.Context, prefix string, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.FileDescriptor
	for _, f := range r.files {
		if len(f.FullPath) >= len(prefix) && f.FullPath[:len(prefix)] == prefix {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullPath < out[j].FullPath })
	return out, nil
}

func (r *FileRepository) GetByType(_ context.Context, fileType metadata.FileType, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.FileDescriptor
	for _, f := range r.files {
		if f.Type == fileType {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepository) GetNonIndexed(_ context.Context, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.FileDescriptor
	for _, f := range r.files {
		if !f.IsIndexed {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepository) GetByTags(_ context.Context, tags []string, _ string) ([]*metadata.FileDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.FileDescriptor
	for _, f := range r.files {
		if f.Tags != nil && f.Tags.HasAll(tags) {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ChunkRepository is an in-memory metadata.ChunkRepository.
type ChunkRepository struct {
	mu     sync.RWMutex
	chunks map[string]*metadata.ChunkDescriptor
}

// NewChunkRepository creates an empty in-memory chunk repository.
func NewChunkRepository() *ChunkRepository {
	return &ChunkRepository{chunks: make(map[string]*metadata.ChunkDescriptor)}
}

func (r *ChunkRepository) Add(_ context.Context, chunk *metadata.ChunkDescriptor, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[chunk.ID] = chunk.Clone()
	return nil
}

func (r *ChunkRepository) GetByID(_ context.Context, id string, _ string) (*metadata.ChunkDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chunks[id]
	if !ok {
		return nil, &chunkerr.NotFoundError{Kind: "chunk", ID: id}
	}
	return c.Clone(), nil
}

func (r *ChunkRepository) Update(_ context.Context, chunk *metadata.ChunkDescriptor, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[chunk.ID]; !ok {
		return false, nil
	}
	r.chunks[chunk.ID] = chunk.Clone()
	return true, nil
}

func (r *ChunkRepository) Delete(_ context.Context, id string, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[id]; !ok {
		return false, nil
	}
	delete(r.chunks, id)
	return true, nil
}

func (r *ChunkRepository) GetAll(_ context.Context, _ string) ([]*metadata.ChunkDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*metadata.ChunkDescriptor, 0, len(r.chunks))
	for _, c := range r.chunks {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ChunkRepository) GetChunksByFileID(_ context.Context, fileID string, _ string) ([]*metadata.ChunkDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*metadata.ChunkDescriptor
	for _, c := range r.chunks {
		if c.FileID == fileID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *ChunkRepository) DeleteChunksByFileID(_ context.Context, fileID string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chunks {
		if c.FileID == fileID {
			delete(r.chunks, id)
		}
	}
	return nil
}

var (
	_ metadata.FileRepository  = (*FileRepository)(nil)
	_ metadata.ChunkRepository = (*ChunkRepository)(nil)
)
