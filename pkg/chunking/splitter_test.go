package chunking

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterYieldsContiguousSequence(t *testing.T) {
	data := strings.Repeat("a", 25)
	s := NewSplitter(strings.NewReader(data), 10)

	var pieces []*Piece
	for {
		p, err := s.Next()
		require.NoError(t, err)
		if p == nil {
			break
		}
		pieces = append(pieces, p)
	}

	require.Len(t, pieces, 3)
	assert.Equal(t, uint32(0), pieces[0].Sequence)
	assert.Equal(t, uint32(1), pieces[1].Sequence)
	assert.Equal(t, uint32(2), pieces[2].Sequence)
	assert.Len(t, pieces[0].Plaintext, 10)
	assert.Len(t, pieces[1].Plaintext, 10)
	assert.Len(t, pieces[2].Plaintext, 5, "final chunk is short")
}

func TestSplitterChecksumMatchesPlaintext(t *testing.T) {
	s := NewSplitter(bytes.NewReader([]byte("hello world")), 1024)
	p, err := s.Next()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, sha256.Sum256([]byte("hello world")), p.Checksum)

	p, err = s.Next()
	require.NoError(t, err)
	assert.Nil(t, p, "single short read should exhaust the stream")
}

func TestSplitterEmptyStreamYieldsNothing(t *testing.T) {
	s := NewSplitter(bytes.NewReader(nil), 1024)
	p, err := s.Next()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSplitterExactMultipleOfChunkSize(t *testing.T) {
	data := strings.Repeat("b", 20)
	s := NewSplitter(strings.NewReader(data), 10)

	var count int
	for {
		p, err := s.Next()
		require.NoError(t, err)
		if p == nil {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}
