package zstdadapter

import (
	"errors"
	"runtime"
	"time"
)

// decompressAllocRetries bounds how hard grabDecompressCtx tries before
// giving up. Real libzstd's decompression allocator blocks indefinitely
// for memory because a failed decompression is user-visible data loss;
// Go exposes no blocking-allocation primitive to wait on, so this
// approximates it with a short bounded retry loop instead of retrying
// forever. See DESIGN.md "Allocator shim".
const decompressAllocRetries = 8

// grabDecompressCtx borrows a decompression context, retrying past
// transient allocation failures rather than giving up immediately the way
// the compression path does.
func (a *Adapter) grabDecompressCtx() any {
	ctx := a.decompPool.Grab()
	for attempt := 0; ctx == nil && attempt < decompressAllocRetries; attempt++ {
		runtime.GC()
		time.Sleep(time.Millisecond << uint(attempt))
		ctx = a.decompPool.Grab()
	}
	return ctx
}

// Decompress validates the frame header, runs decompression, and writes
// the recovered block into dst. It returns a non-nil error on any failure;
// the host treats a failed decompression as corruption because, unlike a
// declined compression, the data is genuinely inaccessible.
func (a *Adapter) Decompress(src, dst []byte) error {
	_, err := a.decompress(src, dst, false)
	return err
}

// DecompressWithLevel additionally reports the level enum that was
// originally passed to the matching Compress/CompressWithHeuristic call.
func (a *Adapter) DecompressWithLevel(src, dst []byte) (Level, error) {
	return a.decompress(src, dst, true)
}

func (a *Adapter) decompress(src, dst []byte, wantLevel bool) (Level, error) {
	cLen, _, level, err := DecodeHeader(src, len(src))
	if err != nil {
		switch {
		case errors.Is(err, ErrLevelInvalid):
			a.stats.Bump(StatDecompLevelInvalid)
		default:
			a.stats.Bump(StatDecompHeaderInvalid)
		}
		return 0, err
	}

	ctx := a.grabDecompressCtx()
	if ctx == nil {
		// The decompression pool's newCtx must not fail for lack of
		// memory (spec.md §4.C); reaching this branch means the codec
		// library itself refused to construct a decoder, a genuine
		// allocation failure rather than memory pressure.
		a.stats.Bump(StatDecompAllocFailed)
		return 0, ErrAllocFailed
	}

	payload := src[HeaderSize : HeaderSize+int(cLen)]
	out, err := zstdDecompressOneShot(ctx, dst, payload)
	a.decompPool.Ungrab(ctx)
	if err != nil {
		a.stats.Bump(StatDecompFailed)
		return 0, err
	}

	// DecodeAll grows past dst's capacity (allocating a fresh buffer) when
	// the decoded size exceeds cap(dst); a forged-but-header-valid frame
	// whose payload inflates beyond the caller's destination is reachable
	// input, not a programming error, and must fail as a codec error
	// instead of panicking on the slice below.
	if len(out) > len(dst) {
		a.stats.Bump(StatDecompFailed)
		return 0, ErrCodecFailed
	}

	copy(dst[:len(out)], out)

	if wantLevel {
		return level, nil
	}
	return 0, nil
}
