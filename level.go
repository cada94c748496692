package zstdadapter

// Level is the storage layer's compression-intent enumerant: 1..19 for
// "normal" levels, plus a sparse set of negative tags for "fast" levels.
// The zero value is not a member of the domain and is always invalid.
type Level int32

// Fast-level tags. These are passed straight through to the codec as
// negative compression levels (ToCodecLevel is the identity function over
// the whole domain); only membership in the domain is validated.
const (
	LevelFast1    Level = -1
	LevelFast2    Level = -2
	LevelFast3    Level = -3
	LevelFast4    Level = -4
	LevelFast5    Level = -5
	LevelFast6    Level = -6
	LevelFast7    Level = -7
	LevelFast8    Level = -8
	LevelFast9    Level = -9
	LevelFast10   Level = -10
	LevelFast20   Level = -20
	LevelFast30   Level = -30
	LevelFast40   Level = -40
	LevelFast50   Level = -50
	LevelFast60   Level = -60
	LevelFast70   Level = -70
	LevelFast80   Level = -80
	LevelFast90   Level = -90
	LevelFast100  Level = -100
	LevelFast500  Level = -500
	LevelFast1000 Level = -1000
)

// levelDomain lists every recognized level enumerant in the order the
// on-disk wire ID table is built from. The order is part of the wire
// format (it determines the byte stored in the frame header) and must
// never be reordered or have entries removed once data has been written
// with it; new entries must only be appended.
var levelDomain = []Level{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	LevelFast1, LevelFast2, LevelFast3, LevelFast4, LevelFast5,
	LevelFast6, LevelFast7, LevelFast8, LevelFast9, LevelFast10,
	LevelFast20, LevelFast30, LevelFast40, LevelFast50, LevelFast60,
	LevelFast70, LevelFast80, LevelFast90, LevelFast100,
	LevelFast500, LevelFast1000,
}

// levelToWireID and wireIDToLevel implement the bijection between a Level
// and the single byte stored in the frame header's packed version/level
// word. The raw Level values (particularly -500 and -1000) don't fit in a
// signed byte, so the wire ID is a stable small positive index into
// levelDomain rather than a truncation of the level itself.
var (
	levelToWireID map[Level]uint8
	wireIDToLevel map[uint8]Level
)

func init() {
	levelToWireID = make(map[Level]uint8, len(levelDomain))
	wireIDToLevel = make(map[uint8]Level, len(levelDomain))
	for i, l := range levelDomain {
		id := uint8(i + 1) // 0 is reserved as "no level stored"
		levelToWireID[l] = id
		wireIDToLevel[id] = l
	}
}

// ValidLevel reports whether l is a member of the recognized level domain.
func ValidLevel(l Level) bool {
	_, ok := levelToWireID[l]
	return ok
}

// ToCodecLevel translates a storage-layer level enumerant into the signed
// level the codec accepts. Both normal and fast levels map to themselves;
// the only work done here is domain validation, since intermediate values
// (e.g. -11) are not members of the closed set.
func ToCodecLevel(l Level) (int, error) {
	if !ValidLevel(l) {
		return 0, ErrLevelInvalid
	}
	return int(l), nil
}
