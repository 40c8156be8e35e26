package badgerstore

import (
	badger "github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) a Badger database at path, configured for the
// metadata store's access pattern: small JSON values, no value-log GC needed
// at typical catalog sizes. Logging is silenced; chunkvault logs through its
// own internal/logger.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return badger.Open(opts)
}
