package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundtrip(t *testing.T) {
	plaintext := []byte(strings.Repeat("compressible data ", 200))
	compressed := Compress(plaintext, 3)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decompressed)
}

func TestEffectiveCompressRejectsIncompressibleData(t *testing.T) {
	// A handful of bytes has no redundancy for zstd to exploit and carries
	// frame overhead, so the "compressed" form is never shorter.
	tiny := []byte{0x01, 0x02, 0x03}
	blob, isCompressed := EffectiveCompress(tiny, 3)
	assert.False(t, isCompressed)
	assert.Equal(t, tiny, blob)
}

func TestEffectiveCompressAcceptsCompressibleData(t *testing.T) {
	plaintext := []byte(strings.Repeat("a", 10000))
	blob, isCompressed := EffectiveCompress(plaintext, 3)
	assert.True(t, isCompressed)
	assert.Less(t, len(blob), len(plaintext))
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 0, clampLevel(-5))
	assert.Equal(t, 9, clampLevel(99))
	assert.Equal(t, 4, clampLevel(4))
}
