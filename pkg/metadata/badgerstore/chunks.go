package badgerstore

import (
	"context"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// ChunkRepository is a BadgerDB-backed metadata.ChunkRepository.
type ChunkRepository struct {
	db *badger.DB
}

// NewChunkRepository wraps an already-open Badger handle.
func NewChunkRepository(db *badger.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Add(_ context.Context, chunk *metadata.ChunkDescriptor, _ string) error {
	data, err := encodeChunk(chunk)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyChunk(chunk.ID), data); err != nil {
			return err
		}
		return txn.Set(keyFileChunk(chunk.FileID, chunk.SequenceNumber), []byte(chunk.ID))
	})
}

func (r *ChunkRepository) GetByID(_ context.Context, id string, _ string) (*metadata.ChunkDescriptor, error) {
	var chunk *metadata.ChunkDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyChunk(id))
		if err == badger.ErrKeyNotFound {
			return &chunkerr.NotFoundError{Kind: "chunk", ID: id}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			c, decErr := decodeChunk(val)
			if decErr != nil {
				return decErr
			}
			chunk = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

func (r *ChunkRepository) Update(ctx context.Context, chunk *metadata.ChunkDescriptor, correlationID string) (bool, error) {
	existing, err := r.GetByID(ctx, chunk.ID, correlationID)
	if err != nil {
		var nf *chunkerr.NotFoundError
		if isNotFound(err, &nf) {
			return false, nil
		}
		return false, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		data, err := encodeChunk(chunk)
		if err != nil {
			return err
		}
		if err := txn.Set(keyChunk(chunk.ID), data); err != nil {
			return err
		}
		if existing.FileID != chunk.FileID || existing.SequenceNumber != chunk.SequenceNumber {
			_ = txn.Delete(keyFileChunk(existing.FileID, existing.SequenceNumber))
			if err := txn.Set(keyFileChunk(chunk.FileID, chunk.SequenceNumber), []byte(chunk.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ChunkRepository) Delete(ctx context.Context, id string, correlationID string) (bool, error) {
	existing, err := r.GetByID(ctx, id, correlationID)
	if err != nil {
		var nf *chunkerr.NotFoundError
		if isNotFound(err, &nf) {
			return false, nil
		}
		return false, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyChunk(id)); err != nil {
			return err
		}
		return txn.Delete(keyFileChunk(existing.FileID, existing.SequenceNumber))
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ChunkRepository) GetAll(_ context.Context, _ string) ([]*metadata.ChunkDescriptor, error) {
	var out []*metadata.ChunkDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixChunk)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				c, err := decodeChunk(val)
				if err != nil {
					return err
				}
				out = append(out, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (r *ChunkRepository) GetChunksByFileID(_ context.Context, fileID string, _ string) ([]*metadata.ChunkDescriptor, error) {
	var chunkIDs []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := keyFileChunkPrefix(fileID)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				chunkIDs = append(chunkIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// keyFileChunk zero-pads the sequence number, so the prefix scan above
	// already yields ascending order; resolving full descriptors below keeps
	// that order and then confirms it, since callers depend on it.
	out, err := r.resolveIDs(chunkIDs)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *ChunkRepository) DeleteChunksByFileID(_ context.Context, fileID string, _ string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := keyFileChunkPrefix(fileID)
		it := txn.NewIterator(opts)
		var fcKeys [][]byte
		var chunkIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := it.Item().KeyCopy(nil)
			fcKeys = append(fcKeys, k)
			if err := it.Item().Value(func(val []byte) error {
				chunkIDs = append(chunkIDs, string(val))
				return nil
			}); err != nil {
				it.Close()
				return err
			}
		}
		it.Close()

		for _, k := range fcKeys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for _, id := range chunkIDs {
			if err := txn.Delete(keyChunk(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ChunkRepository) resolveIDs(ids []string) ([]*metadata.ChunkDescriptor, error) {
	var out []*metadata.ChunkDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get(keyChunk(id))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				c, decErr := decodeChunk(val)
				if decErr != nil {
					return decErr
				}
				out = append(out, c)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

var _ metadata.ChunkRepository = (*ChunkRepository)(nil)
