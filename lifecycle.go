// Package zstdadapter implements a block-level compression adapter that
// sits between a storage system's I/O path and a ZSTD-class compression
// engine. For each fixed-size logical block it produces a self-describing
// 8-byte-framed compressed payload, selects the LZ4/ZSTD early-abort
// heuristic when asked to, and pools the (comparatively expensive)
// compression/decompression working contexts behind a small elastic
// free-list.
//
// # Basic usage
//
//	a := zstdadapter.NewAdapter()
//	defer a.Close()
//
//	dst := make([]byte, len(src))
//	n := a.CompressWithHeuristic(src, dst, zstdadapter.Level(9))
//	if n == len(src) {
//	    // declined: store src uncompressed
//	}
//
//	out := make([]byte, len(src))
//	if err := a.Decompress(dst[:n], out); err != nil {
//	    // corrupt frame
//	}
//
// # Thread safety
//
// Every exported method on *Adapter is safe for concurrent use by
// multiple goroutines compressing/decompressing distinct blocks.
package zstdadapter

import (
	"fmt"
	"sync"
)

// codecVersion is the opaque codec version number stamped into every
// frame's header. It exists purely for future incompatibility handling
// (spec.md §3/§9); this implementation reads it back on decode but never
// branches on its value.
const codecVersion = 1

// Adapter owns the process-wide pools and statistics sink for one
// compression/decompression pipeline. Per spec.md §9, the rewrite should
// own this state as an explicit value passed by reference to every entry
// point rather than as hidden globals; Default/top-level functions below
// are only a thin convenience wrapper over exactly this type.
type Adapter struct {
	stats     *Stats
	tunables  *Tunables
	version   uint32

	compMu     sync.Mutex
	compPools  map[int]*Pool
	compLedger *allocLedger

	decompPool   *Pool
	decompLedger *allocLedger
}

// NewAdapter creates the two pools and the statistics sink. It cannot fail:
// pool and context creation are lazy, deferred to the first Grab.
func NewAdapter() *Adapter {
	a := &Adapter{
		stats:      NewStats(),
		tunables:   NewTunables(),
		version:    codecVersion,
		compPools:  make(map[int]*Pool),
		compLedger: newAllocLedger(CompressionAlloc, zstdEncoderEstimate),
		decompLedger: newAllocLedger(DecompressionAlloc, zstdDecoderEstimate),
	}
	a.decompPool = NewPool("zstd-decompress", newDecompressCtx, resetDecompressCtx, closeDecompressCtx, a.stats, a.decompLedger)
	return a
}

// Stats returns the adapter's statistics sink.
func (a *Adapter) Stats() *Stats { return a.stats }

// Tunables returns the adapter's runtime-writable knobs.
func (a *Adapter) Tunables() *Tunables { return a.tunables }

// compressPool returns (lazily creating) the compression pool for a given
// codec level. Compression pools are per-level because, unlike the shared
// decompression pool, a klauspost/compress/zstd *zstd.Encoder bakes its
// level in at construction time.
func (a *Adapter) compressPool(codecLevel int) *Pool {
	a.compMu.Lock()
	defer a.compMu.Unlock()

	if p, ok := a.compPools[codecLevel]; ok {
		return p
	}
	p := NewPool(
		fmt.Sprintf("zstd-compress-level-%d", codecLevel),
		newCompressCtx(codecLevel),
		resetCompressCtx,
		closeCompressCtx,
		a.stats,
		a.compLedger,
	)
	a.compPools[codecLevel] = p
	return p
}

// ReapNow calls Reap on every pool. Intended to be called opportunistically
// by the host when memory pressure rises; it never blocks for long since
// Reap itself is a bounded, non-blocking check.
func (a *Adapter) ReapNow() {
	a.compMu.Lock()
	pools := make([]*Pool, 0, len(a.compPools))
	for _, p := range a.compPools {
		pools = append(pools, p)
	}
	a.compMu.Unlock()

	for _, p := range pools {
		p.Reap()
	}
	a.decompPool.Reap()
}

// Close destroys every pool. The caller must ensure no Compress/Decompress
// call is in flight; Close does not itself wait for borrows to drain.
func (a *Adapter) Close() {
	a.compMu.Lock()
	pools := a.compPools
	a.compPools = make(map[int]*Pool)
	a.compMu.Unlock()

	for _, p := range pools {
		p.Destroy()
	}
	a.decompPool.Destroy()
}

var (
	defaultAdapter     *Adapter
	defaultAdapterOnce sync.Once
)

// Default lazily initializes and returns the package-level singleton
// Adapter backing the top-level Compress/Decompress/ReapNow convenience
// functions, for hosts that want the global form instead of managing an
// *Adapter themselves.
func Default() *Adapter {
	defaultAdapterOnce.Do(func() {
		defaultAdapter = NewAdapter()
	})
	return defaultAdapter
}

// Compress is the package-level convenience wrapper around
// Default().Compress.
func Compress(src, dst []byte, level Level) int {
	return Default().Compress(src, dst, level)
}

// CompressWithHeuristic is the package-level convenience wrapper around
// Default().CompressWithHeuristic.
func CompressWithHeuristic(src, dst []byte, level Level) int {
	return Default().CompressWithHeuristic(src, dst, level)
}

// Decompress is the package-level convenience wrapper around
// Default().Decompress.
func Decompress(src, dst []byte) error {
	return Default().Decompress(src, dst)
}

// DecompressWithLevel is the package-level convenience wrapper around
// Default().DecompressWithLevel.
func DecompressWithLevel(src, dst []byte) (Level, error) {
	return Default().DecompressWithLevel(src, dst)
}

// ReapNow is the package-level convenience wrapper around
// Default().ReapNow.
func ReapNow() {
	Default().ReapNow()
}
