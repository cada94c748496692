package zstdadapter

// AllocPersonality distinguishes the two allocation behaviors spec.md
// §4.C requires of the codec's memory callback contract: compression must
// not block the write path under memory pressure, decompression must not
// fail the read path for lack of memory.
type AllocPersonality int

const (
	// CompressionAlloc prefers a non-blocking allocation and reports
	// failure upward rather than stalling.
	CompressionAlloc AllocPersonality = iota
	// DecompressionAlloc must not fail; if a non-blocking attempt would
	// fail it blocks until memory is available.
	DecompressionAlloc
)

// allocLedger tracks the aggregate byte size of live pooled contexts so
// the pool_bufs/pool_bytes gauges in Stats reflect reality without a
// separate bookkeeping map. It approximates spec.md's 8-byte allocation
// record prefix: every tracked allocation records its size so the matching
// free can recover it without the caller repeating it.
//
// This backend (github.com/klauspost/compress/zstd) owns its own memory
// behind Encoder/Decoder values; there is no malloc/free callback seam to
// intercept the way the C zstd API exposes one. See DESIGN.md for why the
// non-blocking/blocking personality split is therefore advisory here
// rather than enforced at an allocation boundary.
type allocLedger struct {
	personality  AllocPersonality
	estimateSize int64 // bytes attributed to each pooled context of this kind
}

func newAllocLedger(personality AllocPersonality, estimateSize int64) *allocLedger {
	return &allocLedger{personality: personality, estimateSize: estimateSize}
}

// recordAlloc bumps the pool gauges for one newly created context.
func (l *allocLedger) recordAlloc(stats *Stats) {
	stats.Add(StatPoolBufs, 1)
	stats.Add(StatPoolBytes, l.estimateSize)
}

// recordFree reverses recordAlloc for one destroyed context.
func (l *allocLedger) recordFree(stats *Stats) {
	stats.Sub(StatPoolBufs, 1)
	stats.Sub(StatPoolBytes, l.estimateSize)
}
