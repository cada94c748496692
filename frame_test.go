package zstdadapter

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	cases := []struct {
		cLen    uint32
		version uint32
		level   Level
	}{
		{0, 0, 1},
		{1234, 1, 19},
		{65536, 1, LevelFast1},
		{7, 42, LevelFast1000},
		{100, versionMax, LevelFast500},
	}

	for _, c := range cases {
		dst := make([]byte, HeaderSize)
		if err := EncodeHeader(dst, c.cLen, c.version, c.level); err != nil {
			t.Fatalf("EncodeHeader(%+v): %v", c, err)
		}

		sLen := int(c.cLen) + HeaderSize
		gotCLen, gotVersion, gotLevel, err := DecodeHeader(dst, sLen)
		if err != nil {
			t.Fatalf("DecodeHeader(%+v): %v", c, err)
		}
		if gotCLen != c.cLen || gotVersion != c.version || gotLevel != c.level {
			t.Errorf("round-trip mismatch: got (%d,%d,%d), want (%d,%d,%d)",
				gotCLen, gotVersion, gotLevel, c.cLen, c.version, c.level)
		}
	}
}

func TestEncodeHeaderVersionOverflow(t *testing.T) {
	dst := make([]byte, HeaderSize)
	if err := EncodeHeader(dst, 0, 1<<24, 1); !errors.Is(err, ErrVersionOverflow) {
		t.Fatalf("expected ErrVersionOverflow, got %v", err)
	}
}

func TestEncodeHeaderInvalidLevel(t *testing.T) {
	dst := make([]byte, HeaderSize)
	if err := EncodeHeader(dst, 0, 1, -11); !errors.Is(err, ErrLevelInvalid) {
		t.Fatalf("expected ErrLevelInvalid, got %v", err)
	}
}

// TestDecodeHeaderTooShort covers scenario S5: a forged header whose
// c_len overruns the source length must fail with a header error.
func TestDecodeHeaderCLenOverrun(t *testing.T) {
	dst := make([]byte, HeaderSize)
	if err := EncodeHeader(dst, 1000, 1, 3); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := DecodeHeader(dst, HeaderSize+10) // claims only 10 payload bytes exist
	if !errors.Is(err, ErrHeaderInvalid) {
		t.Fatalf("expected ErrHeaderInvalid, got %v", err)
	}
}

// TestDecodeHeaderInvalidLevel covers scenario S6: a forged level_enum of
// zero must fail with a level-invalid error.
func TestDecodeHeaderInvalidLevel(t *testing.T) {
	dst := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(dst[0:4], 0)
	binary.BigEndian.PutUint32(dst[4:8], 0) // version=0, wire id=0 (never assigned)
	_, _, _, err := DecodeHeader(dst, HeaderSize)
	if !errors.Is(err, ErrLevelInvalid) {
		t.Fatalf("expected ErrLevelInvalid, got %v", err)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, _, _, err := DecodeHeader([]byte{1, 2, 3}, 3)
	if !errors.Is(err, ErrHeaderInvalid) {
		t.Fatalf("expected ErrHeaderInvalid, got %v", err)
	}
}

// TestBigEndianSwapIdentity checks property 5: swapping the first 8 bytes
// of a frame as two big-endian 32-bit words and re-encoding reproduces the
// header byte-for-byte.
func TestBigEndianSwapIdentity(t *testing.T) {
	dst := make([]byte, HeaderSize)
	if err := EncodeHeader(dst, 4096, 7, LevelFast30); err != nil {
		t.Fatal(err)
	}

	w0 := binary.BigEndian.Uint32(dst[0:4])
	w1 := binary.BigEndian.Uint32(dst[4:8])

	re := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(re[0:4], w0)
	binary.BigEndian.PutUint32(re[4:8], w1)

	if string(re) != string(dst) {
		t.Fatalf("byte-swap identity failed: got %x, want %x", re, dst)
	}
}

func TestHeaderSizeInvariant(t *testing.T) {
	dst := make([]byte, HeaderSize)
	const cLen = 1000
	if err := EncodeHeader(dst, cLen, 1, 5); err != nil {
		t.Fatal(err)
	}
	produced := HeaderSize + cLen
	gotCLen, gotVersion, _, err := DecodeHeader(dst, produced)
	if err != nil {
		t.Fatal(err)
	}
	if int(gotCLen)+HeaderSize > produced {
		t.Errorf("c_len + header exceeds produced size")
	}
	if gotVersion > versionMax {
		t.Errorf("version %d exceeds 24-bit domain", gotVersion)
	}
}
