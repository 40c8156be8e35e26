// Package chunking holds the pure, stateless mechanics of splitting a file
// stream into chunk-sized buffers and compressing them: chunk-size selection
// (spec §4.5.1), a bounded Splitter over io.Reader, and a pooled zstd
// compressor. It has no knowledge of storage providers, repositories, or
// descriptors — that orchestration lives in pkg/chunkmanager.
package chunking

// TargetChunkSize selects the chunk size for a plaintext of size bytes given
// the configured min/default/max bounds, per spec §4.5.1:
//
//	size <= min            -> min      (one chunk)
//	size <= 16*default     -> default
//	size >  16*default     -> clamp(nextPowerOfTwo(size/16), max)
func TargetChunkSize(size, minSize, defaultSize, maxSize int64) int64 {
	switch {
	case size <= minSize:
		return minSize
	case size <= 16*defaultSize:
		return defaultSize
	default:
		candidate := NextPowerOfTwo(size / 16)
		if candidate > maxSize {
			return maxSize
		}
		return candidate
	}
}

// NextPowerOfTwo returns the smallest power of two >= n. n <= 1 returns 1.
func NextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}
