package chunking

import "testing"

func TestTargetChunkSize(t *testing.T) {
	const (
		min     = 1 << 20  // 1MB
		def     = 64 << 20 // 64MB
		maxSize = 512 << 20
	)

	cases := []struct {
		name string
		size int64
		want int64
	}{
		{"below min", 1024, min},
		{"equal min", min, min},
		{"small multiple of default", 16 * def, def},
		{"just above 16x default", 16*def + 1, NextPowerOfTwo((16*def + 1) / 16)},
		{"huge file clamps to max", 1 << 40, maxSize},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := TargetChunkSize(c.size, min, def, maxSize)
			if got != c.want {
				t.Errorf("TargetChunkSize(%d) = %d, want %d", c.size, got, c.want)
			}
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int64]int64{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		5:   8,
		64:  64,
		65:  128,
		127: 128,
	}
	for n, want := range cases {
		if got := NextPowerOfTwo(n); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}
