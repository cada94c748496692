package zstdadapter

import "errors"

// Predefined errors for common failure conditions.
// These can be checked using errors.Is() for programmatic error handling.
var (
	// ErrLevelInvalid indicates a level enum outside the recognized domain.
	ErrLevelInvalid = errors.New("zstdadapter: level not in recognized domain")

	// ErrHeaderInvalid indicates a frame header failed its decode-time checks.
	ErrHeaderInvalid = errors.New("zstdadapter: header invalid")

	// ErrVersionOverflow indicates a codec version that does not fit in 24 bits.
	ErrVersionOverflow = errors.New("zstdadapter: codec version does not fit in 24 bits")

	// ErrAllocFailed indicates a working context could not be obtained.
	ErrAllocFailed = errors.New("zstdadapter: context allocation failed")

	// ErrCodecFailed indicates the underlying codec reported a failure other
	// than "destination too small".
	ErrCodecFailed = errors.New("zstdadapter: codec reported failure")
)
