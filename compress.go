package zstdadapter

// Compress is the requested-level-only entry point: it always skips the
// early-abort heuristic and runs the codec directly at the requested
// level. produced == len(src) means compression was declined or failed
// and the caller must store the block uncompressed.
func (a *Adapter) Compress(src, dst []byte, level Level) int {
	return a.compress(src, dst, level, false)
}

// CompressWithHeuristic is the heuristic-gated entry point: for eligible
// blocks it runs the two-stage early-abort predictor before attempting the
// requested (possibly expensive) level.
func (a *Adapter) CompressWithHeuristic(src, dst []byte, level Level) int {
	return a.compress(src, dst, level, true)
}

func (a *Adapter) compress(src, dst []byte, level Level, heuristic bool) int {
	sLen := len(src)

	if len(dst) < HeaderSize || len(dst) > sLen {
		panic("zstdadapter: dst must satisfy HeaderSize <= len(dst) <= len(src)")
	}

	codecLevel, err := ToCodecLevel(level)
	if err != nil {
		a.stats.Bump(StatCompLevelInvalid)
		return sLen
	}

	if heuristic && a.heuristicRejects(src, level) {
		return sLen
	}

	pool := a.compressPool(codecLevel)
	ctx := pool.Grab()
	if ctx == nil {
		a.stats.Bump(StatCompAllocFailed)
		return sLen
	}

	out, err := zstdCompressOneShot(ctx, dst[HeaderSize:], src)
	if err != nil {
		pool.Ungrab(ctx)
		a.stats.Bump(StatCompFailed)
		return sLen
	}
	pool.Ungrab(ctx)

	cLen := len(out)
	if cLen >= sLen || cLen+HeaderSize > len(dst) {
		// "Would not save": not a codec failure, an expected outcome.
		return sLen
	}

	if err := EncodeHeader(dst[:HeaderSize], uint32(cLen), a.version, level); err != nil {
		// a.version is a package constant fit in 24 bits; level was
		// already validated above. Reaching here is a programming error.
		panic(err)
	}
	// out may already alias dst[HeaderSize:] (EncodeAll wrote in place
	// because dst had enough capacity) or may be a freshly allocated
	// buffer (it grew past dst's capacity); copy unconditionally covers
	// both, and copying a slice onto itself is a harmless no-op.
	copy(dst[HeaderSize:HeaderSize+cLen], out)

	return HeaderSize + cLen
}

// heuristicRejects runs the early-abort predictor and reports whether
// compression should be skipped entirely (spec.md §4.F).
func (a *Adapter) heuristicRejects(src []byte, level Level) bool {
	t := a.tunables
	sLen := len(src)

	if !t.HardMode.Load() {
		if !t.LZ4Pass.Load() {
			a.stats.Bump(StatHeuristicIgnored)
			return false
		}
		if sLen < int(t.AbortSize.Load()) {
			a.stats.Bump(StatHeuristicIgnored)
			a.stats.Bump(StatHeuristicIgnoredSize)
			return false
		}
		if int64(level) < t.CutoffLevel.Load() {
			a.stats.Bump(StatHeuristicIgnored)
			return false
		}
	}

	shift := uint(t.LZ4Shift.Load())
	budget := sLen - (sLen >> shift)

	if _, fits := lz4ProbeCompress(src, budget); fits {
		a.stats.Bump(StatLZ4PassAllowed)
		return false
	}
	a.stats.Bump(StatLZ4PassRejected)

	if !t.ZSTDPass.Load() {
		return true
	}

	return a.zstdProbeRejects(src, budget, t.FirstPassMode.Load())
}

// zstdProbeRejects runs the optional second-stage ZSTD probe at a fast
// level selected by firstPassMode (1, 2, or the spec's under-specified
// "mode 3" — see DESIGN.md, which this implementation treats as mode 1).
func (a *Adapter) zstdProbeRejects(src []byte, budget int, firstPassMode int64) bool {
	probeLevel := zstdProbeLevel(firstPassMode)

	codecProbeLevel, err := ToCodecLevel(probeLevel)
	if err != nil {
		a.stats.Bump(StatZSTDPassRejected)
		return true
	}

	pool := a.compressPool(codecProbeLevel)
	ctx := pool.Grab()
	if ctx == nil {
		// No context to probe with; do not let probe-allocation pressure
		// mask a real compression attempt that might still succeed by
		// rejecting outright — fall through as if the probe had rejected,
		// matching the conservative "give up" default of step 2.
		a.stats.Bump(StatZSTDPassRejected)
		return true
	}

	scratch := make([]byte, budget)
	out, err := zstdCompressOneShot(ctx, scratch, src)
	pool.Ungrab(ctx)

	if err != nil || len(out) == 0 || len(out) >= budget {
		a.stats.Bump(StatZSTDPassRejected)
		return true
	}

	a.stats.Bump(StatZSTDPassAllowed)
	return false
}

// zstdProbeLevel translates firstpass_mode into the codec level the
// second-stage probe runs at. mode 3 ("a synthetic fast level that
// installs a custom parameter set") is left under-specified by spec.md §9;
// this implementation falls back to mode 1 rather than guessing at an
// undocumented parameter set.
func zstdProbeLevel(firstPassMode int64) Level {
	if firstPassMode == 2 {
		return 2
	}
	return 1
}
