package chunking

import (
	"crypto/sha256"
	"io"
)

// Piece is one chunk-sized read off the input stream: its plaintext bytes,
// sequence position, and whole-plaintext checksum. Sequence numbers are
// assigned strictly in read order, per spec §4.5.2.
type Piece struct {
	Sequence  uint32
	Plaintext []byte
	Checksum  [sha256.Size]byte
}

// Splitter reads a stream in chunkSize-bounded pieces. It is not safe for
// concurrent use — the spec requires reads to be serial since they consume
// a single stream.
type Splitter struct {
	r         io.Reader
	chunkSize int64
	next      uint32
	done      bool
}

// NewSplitter builds a Splitter over r using chunkSize-sized reads.
func NewSplitter(r io.Reader, chunkSize int64) *Splitter {
	return &Splitter{r: r, chunkSize: chunkSize}
}

// Next reads the next piece. It returns (nil, nil) once the stream is
// exhausted — callers loop until that sentinel.
func (s *Splitter) Next() (*Piece, error) {
	if s.done {
		return nil, nil
	}

	buf := make([]byte, s.chunkSize)
	n, err := io.ReadFull(s.r, buf)
	switch {
	case err == io.EOF:
		// Zero bytes read at a chunk boundary: clean end of stream.
		s.done = true
		return nil, nil
	case err == io.ErrUnexpectedEOF:
		// Final, short chunk.
		s.done = true
	case err != nil:
		return nil, err
	}

	plaintext := buf[:n]
	piece := &Piece{
		Sequence:  s.next,
		Plaintext: plaintext,
		Checksum:  sha256.Sum256(plaintext),
	}
	s.next++
	return piece, nil
}
