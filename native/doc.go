// Package native implements the binary wire format for value trees.
//
// Every encoded unit starts with a one-byte tag; all multi-byte
// integers are little-endian; all lengths are 4-byte unsigned counts:
//
//	Tag  Name    Payload
//	───────────────────────────────────────────────────────────────
//	0    Null    (none)
//	1    Bool    1 byte: 0 or 1
//	2    Int     8 bytes, little-endian signed 64-bit
//	3    Float   8 bytes, little-endian IEEE-754 double
//	4    String  u32 byte length, raw UTF-8 bytes, no terminator
//	5    Array   u32 count, then each element in order
//	6    Record  u32 count, then (u32 key length, key, value) pairs
//	7    Enum    u32 tag-name length, name, flag byte (0 = nullary,
//	             1 = one encoded argument follows)
//
// Numbers narrow before tag selection: round to the nearest double,
// then emit Int when the double has no fractional part and fits in
// int64, Float otherwise. Record fields encode in the tree's own field
// order; a field with no bound value encodes as Null.
//
// Encoding is a pure function of the tree. Traversal is iterative with
// a configurable depth limit, and a failed encode returns no bytes at
// all. Function values are not representable and fail with an
// unsupported error naming the variant.
package native
