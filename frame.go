package zstdadapter

import "encoding/binary"

// HeaderSize is the on-disk size of a frame header in bytes: two 32-bit
// big-endian words, c_len followed by the packed version/level word.
const HeaderSize = 8

const versionMax = 1<<24 - 1

// EncodeHeader writes the 8-byte framed header to dst in big-endian order.
//
// dst must have at least HeaderSize bytes available. The stored level is
// the original storage-layer enum, not the translated codec level, so a
// future change to the level table does not strand data encoded under the
// old one.
func EncodeHeader(dst []byte, cLen uint32, version uint32, level Level) error {
	if version > versionMax {
		return ErrVersionOverflow
	}
	id, ok := levelToWireID[level]
	if !ok {
		return ErrLevelInvalid
	}
	rawVersionLevel := (version << 8) | uint32(id)
	binary.BigEndian.PutUint32(dst[0:4], cLen)
	binary.BigEndian.PutUint32(dst[4:8], rawVersionLevel)
	return nil
}

// DecodeHeader reads and validates the 8-byte frame header from src without
// mutating it. sLen is the total length of the frame (header + payload).
func DecodeHeader(src []byte, sLen int) (cLen uint32, version uint32, level Level, err error) {
	if len(src) < HeaderSize {
		return 0, 0, 0, ErrHeaderInvalid
	}

	// Copy into locals before interpreting; src is never touched.
	var hdr [HeaderSize]byte
	copy(hdr[:], src[:HeaderSize])

	cLen = binary.BigEndian.Uint32(hdr[0:4])
	rawVersionLevel := binary.BigEndian.Uint32(hdr[4:8])
	version = rawVersionLevel >> 8
	id := uint8(rawVersionLevel & 0xff)

	if uint64(cLen)+HeaderSize > uint64(sLen) {
		return 0, 0, 0, ErrHeaderInvalid
	}

	level, ok := wireIDToLevel[id]
	if !ok {
		return 0, 0, 0, ErrLevelInvalid
	}

	return cLen, version, level, nil
}
