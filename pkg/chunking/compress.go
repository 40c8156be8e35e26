package chunking

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// compressionLevels maps the spec's 0-9 CompressionLevel knob onto zstd's
// speed/ratio tiers. 0-2 favor throughput, 3-6 are the common middle ground,
// 7-9 favor ratio at the cost of CPU.
var compressionLevels = [10]zstd.EncoderLevel{
	0: zstd.SpeedFastest,
	1: zstd.SpeedFastest,
	2: zstd.SpeedFastest,
	3: zstd.SpeedDefault,
	4: zstd.SpeedDefault,
	5: zstd.SpeedDefault,
	6: zstd.SpeedDefault,
	7: zstd.SpeedBetterCompression,
	8: zstd.SpeedBetterCompression,
	9: zstd.SpeedBestCompression,
}

// encoderPools holds a sync.Pool of *zstd.Encoder per compression level, reused across
// chunks instead of allocated per call (spec §5's pooled-allocator
// discipline).
var encoderPools [10]sync.Pool

func init() {
	for level := range encoderPools {
		lvl := compressionLevels[level]
		encoderPools[level] = sync.Pool{
			New: func() any {
				enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
				if err != nil {
					panic(err) // only fails on invalid EncoderLevel, which compressionLevels never produces
				}
				return enc
			},
		}
	}
}

// Compress compresses plaintext at the given 0-9 level. level is clamped
// into [0,9].
func Compress(plaintext []byte, level int) []byte {
	level = clampLevel(level)
	enc := encoderPools[level].Get().(*zstd.Encoder)
	defer encoderPools[level].Put(enc)

	enc.Reset(nil)
	return enc.EncodeAll(plaintext, make([]byte, 0, len(plaintext)))
}

var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// Decompress reverses Compress.
func Decompress(compressed []byte) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	return dec.DecodeAll(compressed, nil)
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 9 {
		return 9
	}
	return level
}

// EffectiveCompress compresses plaintext and reports whether compression was
// worth keeping, per spec §4.5.2 step 4: compression is only "effective" if
// the compressed form is strictly shorter than the plaintext.
func EffectiveCompress(plaintext []byte, level int) (blob []byte, isCompressed bool) {
	compressed := Compress(plaintext, level)
	if len(compressed) < len(plaintext) {
		return compressed, true
	}
	return plaintext, false
}
