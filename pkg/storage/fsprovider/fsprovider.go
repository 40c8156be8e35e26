// Package fsprovider is a filesystem-backed storage.Provider. Grounded on
// dittofs's pkg/payload/store/fs: chunks are written atomically via a
// temp-file-then-rename, keyed by a path derived from the chunk key.
package fsprovider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// Config configures a Provider.
type Config struct {
	// ProviderID is this provider's identity within a registry.
	ProviderID string
	// BasePath is the root directory chunks are stored under.
	BasePath string
	// CreateDir creates BasePath if it doesn't already exist.
	CreateDir bool
	DirMode   os.FileMode
	FileMode  os.FileMode
}

// DefaultConfig returns sensible defaults for basePath.
func DefaultConfig(providerID, basePath string) Config {
	return Config{
		ProviderID: providerID,
		BasePath:   basePath,
		CreateDir:  true,
		DirMode:    0o755,
		FileMode:   0o644,
	}
}

// Provider is a filesystem-backed storage.Provider.
type Provider struct {
	mu       sync.RWMutex
	id       string
	basePath string
	dirMode  os.FileMode
	fileMode os.FileMode
}

// New creates a filesystem provider rooted at cfg.BasePath.
func New(cfg Config) (*Provider, error) {
	if cfg.BasePath == "" {
		return nil, errors.New("fsprovider: base path is required")
	}
	if cfg.DirMode == 0 {
		cfg.DirMode = 0o755
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0o644
	}

	if cfg.CreateDir {
		if err := os.MkdirAll(cfg.BasePath, cfg.DirMode); err != nil {
			return nil, &chunkerr.StorageError{ProviderID: cfg.ProviderID, Op: "new", Cause: err}
		}
	}

	info, err := os.Stat(cfg.BasePath)
	if err != nil {
		return nil, &chunkerr.StorageError{ProviderID: cfg.ProviderID, Op: "new", Cause: err}
	}
	if !info.IsDir() {
		return nil, &chunkerr.StorageError{ProviderID: cfg.ProviderID, Op: "new", Cause: errors.New("base path is not a directory")}
	}

	return &Provider{
		id:       cfg.ProviderID,
		basePath: cfg.BasePath,
		dirMode:  cfg.DirMode,
		fileMode: cfg.FileMode,
	}, nil
}

func (p *Provider) ProviderID() string { return p.id }
func (p *Provider) Kind() string       { return "filesystem" }

// chunkPath derives a two-level sharded path from key so a single directory
// never accumulates an unbounded number of entries.
func (p *Provider) chunkPath(key string) string {
	shard := key
	if len(key) >= 4 {
		shard = filepath.Join(key[0:2], key[2:4])
	}
	return filepath.Join(p.basePath, shard, key)
}

func (p *Provider) WriteChunk(_ context.Context, key string, r io.Reader, correlationID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.chunkPath(key)
	if err := os.MkdirAll(filepath.Dir(path), p.dirMode); err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, p.fileMode)
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}

	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	return filepath.ToSlash(rel), nil
}

func (p *Provider) ReadChunk(_ context.Context, key, storagePath, correlationID string) (io.ReadCloser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := os.Open(filepath.Join(p.basePath, filepath.FromSlash(storagePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &chunkerr.NotFoundError{Kind: "chunk", ID: key}
		}
		return nil, &chunkerr.StorageError{ProviderID: p.id, Op: "read_chunk", Cause: err}
	}
	return f, nil
}

func (p *Provider) ChunkExists(_ context.Context, key, storagePath, correlationID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, err := os.Stat(filepath.Join(p.basePath, filepath.FromSlash(storagePath)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, &chunkerr.StorageError{ProviderID: p.id, Op: "chunk_exists", Cause: err}
}

func (p *Provider) DeleteChunk(_ context.Context, key, storagePath, correlationID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := filepath.Join(p.basePath, filepath.FromSlash(storagePath))
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &chunkerr.StorageError{ProviderID: p.id, Op: "delete_chunk", Cause: err}
	}
	p.cleanEmptyDirs(filepath.Dir(path))
	return true, nil
}

// cleanEmptyDirs removes now-empty shard directories up to basePath, mirroring
// dittofs's fs block store cleanup so sharded directories don't accumulate.
func (p *Provider) cleanEmptyDirs(dir string) {
	for dir != p.basePath && len(dir) > len(p.basePath) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// HealthCheck verifies the base path is still accessible.
func (p *Provider) HealthCheck(_ context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, err := os.Stat(p.basePath); err != nil {
		return fmt.Errorf("fsprovider health check: %w", err)
	}
	return nil
}
