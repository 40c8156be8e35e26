package badgerstore

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// FileRepository is a BadgerDB-backed metadata.FileRepository.
type FileRepository struct {
	db *badger.DB
}

// NewFileRepository wraps an already-open Badger handle. Callers typically
// share one *badger.DB between FileRepository and ChunkRepository.
func NewFileRepository(db *badger.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Add(_ context.Context, file *metadata.FileDescriptor, _ string) error {
	data, err := encodeFile(file)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyFile(file.ID), data); err != nil {
			return err
		}
		if file.FullPath != "" {
			if err := txn.Set(keyPath(file.FullPath), []byte(file.ID)); err != nil {
				return err
			}
		}
		if file.ParentID != nil {
			if err := txn.Set(keyChild(*file.ParentID, file.ID), []byte(file.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FileRepository) GetByID(_ context.Context, id string, _ string) (*metadata.FileDescriptor, error) {
	var file *metadata.FileDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFile(id))
		if err == badger.ErrKeyNotFound {
			return &chunkerr.NotFoundError{Kind: "file", ID: id}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			f, decErr := decodeFile(val)
			if decErr != nil {
				return decErr
			}
			file = f
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (r *FileRepository) Update(ctx context.Context, file *metadata.FileDescriptor, correlationID string) (bool, error) {
	existing, err := r.GetByID(ctx, file.ID, correlationID)
	if err != nil {
		var nf *chunkerr.NotFoundError
		if isNotFound(err, &nf) {
			return false, nil
		}
		return false, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		data, err := encodeFile(file)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFile(file.ID), data); err != nil {
			return err
		}
		if existing.FullPath != file.FullPath {
			if existing.FullPath != "" {
				_ = txn.Delete(keyPath(existing.FullPath))
			}
			if file.FullPath != "" {
				if err := txn.Set(keyPath(file.FullPath), []byte(file.ID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string, correlationID string) (bool, error) {
	existing, err := r.GetByID(ctx, id, correlationID)
	if err != nil {
		var nf *chunkerr.NotFoundError
		if isNotFound(err, &nf) {
			return false, nil
		}
		return false, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyFile(id)); err != nil {
			return err
		}
		if existing.FullPath != "" {
			_ = txn.Delete(keyPath(existing.FullPath))
		}
		if existing.ParentID != nil {
			_ = txn.Delete(keyChild(*existing.ParentID, id))
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FileRepository) GetAll(_ context.Context, _ string) ([]*metadata.FileDescriptor, error) {
	var out []*metadata.FileDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixFile)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				f, err := decodeFile(val)
				if err != nil {
					return err
				}
				out = append(out, f)
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

func (r *FileRepository) GetByFullPath(_ context.Context, fullPath string, _ string) (*metadata.FileDescriptor, error) {
	var file *metadata.FileDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		idItem, err := txn.Get(keyPath(fullPath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var id string
		if err := idItem.Value(func(val []byte) error { id = string(val); return nil }); err != nil {
			return err
		}
		fileItem, err := txn.Get(keyFile(id))
		if err != nil {
			return err
		}
		return fileItem.Value(func(val []byte) error {
			f, decErr := decodeFile(val)
			if decErr != nil {
				return decErr
			}
			file = f
			return nil
		})
	})
	return file, err
}

func (r *FileRepository) GetChildren(_ context.Context, parentID string, _ string) ([]*metadata.FileDescriptor, error) {
	var childIDs []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := keyChildPrefix(parentID)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				childIDs = append(childIDs, string(val))
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
	return r.resolveIDs(childIDs)
}

func (r *FileRepository) GetByParentPath(_ context.Context, prefix string, _ string) ([]*metadata.FileDescriptor, error) {
	all, err := r.GetAll(context.Background(), "")
	if err != nil {
		return nil, err
	}
	var out []*metadata.FileDescriptor
	for _, f := range all {
		if len(f.FullPath) >= len(prefix) && f.FullPath[:len(prefix)] == prefix {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FileRepository) GetByType(_ context.Context, fileType metadata.FileType, _ string) ([]*metadata.FileDescriptor, error) {
	all, err := r.GetAll(context.Background(), "")
	if err != nil {
		return nil, err
	}
	var out []*metadata.FileDescriptor
	for _, f := range all {
		if f.Type == fileType {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FileRepository) GetNonIndexed(_ context.Context, _ string) ([]*metadata.FileDescriptor, error) {
	all, err := r.GetAll(context.Background(), "")
	if err != nil {
		return nil, err
	}
	var out []*metadata.FileDescriptor
	for _, f := range all {
		if !f.IsIndexed {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FileRepository) GetByTags(_ context.Context, tags []string, _ string) ([]*metadata.FileDescriptor, error) {
	all, err := r.GetAll(context.Background(), "")
	if err != nil {
		return nil, err
	}
	var out []*metadata.FileDescriptor
	for _, f := range all {
		if f.Tags != nil && f.Tags.HasAll(tags) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FileRepository) resolveIDs(ids []string) ([]*metadata.FileDescriptor, error) {
	var out []*metadata.FileDescriptor
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get(keyFile(id))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				f, decErr := decodeFile(val)
				if decErr != nil {
					return decErr
				}
				out = append(out, f)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func isNotFound(err error, target **chunkerr.NotFoundError) bool {
	nf, ok := err.(*chunkerr.NotFoundError)
	if ok {
		*target = nf
	}
	return ok
}

var _ metadata.FileRepository = (*FileRepository)(nil)
