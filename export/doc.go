// Package export serializes value trees to text and standard binary
// formats: JSON (the boundary's text result format), YAML, TOML, and
// CBOR.
//
// All formats narrow numbers the same way the native protocol does, so
// an integer-valued number prints without a decimal point everywhere.
// JSON and YAML preserve record field order; TOML and CBOR use the
// underlying libraries' map encoding. Function values are not
// serializable in any format and fail with an export-phase unsupported
// error.
package export
