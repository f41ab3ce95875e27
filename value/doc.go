// Package value defines the fully-evaluated value tree produced by the
// embedded evaluator and consumed by every exporter.
//
// A Value is a tagged union discriminated by Kind:
//
//	Null, Bool, Number, String, Array, Record, Enum, Function
//
// Numbers are arbitrary-precision rationals; the Narrow method performs
// the lossy reduction to int64 or float64 that both wire encodings use.
// Record fields preserve the field order of the originating program.
// Function values are opaque markers: they can appear in a tree but no
// exporter can represent them.
package value
