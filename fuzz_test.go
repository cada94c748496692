package zstdadapter

import (
	"bytes"
	"testing"
)

// FuzzRoundTrip exercises property 1 across arbitrary sizes, byte content,
// and levels: whenever Compress reports a size below the source length, the
// subsequent Decompress must reproduce the original bytes exactly.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{}, int32(1))
	f.Add([]byte{0}, int32(3))
	f.Add(bytes.Repeat([]byte{0x5A}, 4096), int32(9))
	f.Add(makeRandomData(2048), int32(19))
	f.Add(makeCompressibleData(131072), int32(-1))

	a := newTestAdapter()
	f.Cleanup(a.Close)

	f.Fuzz(func(t *testing.T, data []byte, rawLevel int32) {
		if len(data) < HeaderSize {
			return // below the minimum a valid dst buffer can satisfy
		}
		level := levelDomain[int(uint32(rawLevel))%len(levelDomain)]

		dst := make([]byte, len(data))
		n := a.CompressWithHeuristic(data, dst, level)
		if n > len(data) {
			t.Fatalf("produced %d exceeds source length %d", n, len(data))
		}
		if n == len(data) {
			return // decline: nothing further to check
		}

		out := make([]byte, len(data))
		if err := a.Decompress(dst[:n], out); err != nil {
			t.Fatalf("decompress failed after a reported success: %v", err)
		}
		if !bytes.Equal(data, out) {
			t.Fatalf("round-trip mismatch for level %d, size %d", level, len(data))
		}
	})
}
