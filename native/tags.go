package native

import "github.com/LouLouLibs/NickelEval/value"

// Wire tag bytes. One byte prefixes every encoded unit.
const (
	TagNull   byte = 0
	TagBool   byte = 1
	TagInt    byte = 2
	TagFloat  byte = 3
	TagString byte = 4
	TagArray  byte = 5
	TagRecord byte = 6
	TagEnum   byte = 7
)

// tagOf derives the wire tag from the value union. Numbers split into
// Int or Float after narrowing, which is why the narrowed flag is an
// input here rather than a second lookup. This is the only place a
// Kind maps to a tag byte.
func tagOf(k value.Kind, numIsInt bool) (byte, bool) {
	switch k {
	case value.KindNull:
		return TagNull, true
	case value.KindBool:
		return TagBool, true
	case value.KindNumber:
		if numIsInt {
			return TagInt, true
		}
		return TagFloat, true
	case value.KindString:
		return TagString, true
	case value.KindArray:
		return TagArray, true
	case value.KindRecord:
		return TagRecord, true
	case value.KindEnum:
		return TagEnum, true
	}
	return 0, false
}
