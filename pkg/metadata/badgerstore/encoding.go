// Package badgerstore implements the metadata repositories on top of
// BadgerDB, substituting for the MongoDB document store named in spec §6's
// configuration surface. Grounded on dittofs's pkg/metadata/store/badger:
// prefixed keys for namespacing, JSON-encoded values, secondary indexes as
// their own key ranges.
package badgerstore

import (
	"encoding/json"

	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// Key namespace, mirroring dittofs's badger metadata store convention of
// prefixed keys per logical data type:
//
//	Data                  Prefix   Key format                    Value
//	File descriptor       "f:"     f:<id>                        FileDescriptor (JSON)
//	Chunk descriptor       "k:"     k:<id>                        ChunkDescriptor (JSON)
//	File by full path      "p:"     p:<fullPath>                  file id (bytes)
//	Children of parent     "c:"     c:<parentId>:<childId>        file id (bytes)
//	Chunks of file         "cf:"    cf:<fileId>:<sequence>        chunk id (bytes)
const (
	prefixFile      = "f:"
	prefixChunk     = "k:"
	prefixPath      = "p:"
	prefixChild     = "c:"
	prefixFileChunk = "cf:"
)

func keyFile(id string) []byte  { return []byte(prefixFile + id) }
func keyChunk(id string) []byte { return []byte(prefixChunk + id) }
func keyPath(path string) []byte { return []byte(prefixPath + path) }
func keyChild(parentID, childID string) []byte {
	return []byte(prefixChild + parentID + ":" + childID)
}
func keyChildPrefix(parentID string) []byte { return []byte(prefixChild + parentID + ":") }
func keyFileChunk(fileID string, sequence uint32) []byte {
	return []byte(prefixFileChunk + fileID + ":" + formatSeq(sequence))
}
func keyFileChunkPrefix(fileID string) []byte { return []byte(prefixFileChunk + fileID + ":") }

func formatSeq(n uint32) string {
	// Zero-padded so lexicographic Badger iteration matches numeric order.
	const width = 10
	s := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}
	return string(s)
}

func encodeFile(f *metadata.FileDescriptor) ([]byte, error) { return json.Marshal(f) }
func decodeFile(data []byte) (*metadata.FileDescriptor, error) {
	var f metadata.FileDescriptor
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func encodeChunk(c *metadata.ChunkDescriptor) ([]byte, error) { return json.Marshal(c) }
func decodeChunk(data []byte) (*metadata.ChunkDescriptor, error) {
	var c metadata.ChunkDescriptor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
