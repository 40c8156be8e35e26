// Package blobprovider is a BadgerDB-backed storage.Provider, realizing the
// spec's "document-store" provider kind. Grounded on dittofs's
// pkg/metadata/store/badger key-prefix convention: each chunk is one binary
// value under a single prefixed key, no secondary indexes needed.
package blobprovider

import (
	"bytes"
	"context"
	"io"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

const keyPrefix = "blob:"

// Provider stores chunk bytes as individual Badger values.
type Provider struct {
	id string
	db *badger.DB
}

// New wraps an already-open Badger handle.
func New(id string, db *badger.DB) *Provider {
	return &Provider{id: id, db: db}
}

func (p *Provider) ProviderID() string { return p.id }
func (p *Provider) Kind() string       { return "blob" }

func blobKey(key string) []byte { return []byte(keyPrefix + key) }

func (p *Provider) WriteChunk(_ context.Context, key string, r io.Reader, correlationID string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey(key), data)
	})
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	return key, nil
}

func (p *Provider) ReadChunk(_ context.Context, key, storagePath, correlationID string) (io.ReadCloser, error) {
	var data []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(storagePath))
		if err == badger.ErrKeyNotFound {
			return &chunkerr.NotFoundError{Kind: "chunk", ID: key}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *Provider) ChunkExists(_ context.Context, key, storagePath, correlationID string) (bool, error) {
	var exists bool
	err := p.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(blobKey(storagePath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, &chunkerr.StorageError{ProviderID: p.id, Op: "chunk_exists", Cause: err}
	}
	return exists, nil
}

func (p *Provider) DeleteChunk(ctx context.Context, key, storagePath, correlationID string) (bool, error) {
	exists, err := p.ChunkExists(ctx, key, storagePath, correlationID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blobKey(storagePath))
	})
	if err != nil {
		return false, &chunkerr.StorageError{ProviderID: p.id, Op: "delete_chunk", Cause: err}
	}
	return true, nil
}
