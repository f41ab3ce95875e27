// Package lang implements the embedded evaluator: a strict interpreter
// for a small declarative configuration language with Nickel-style
// syntax.
//
// The surface covers literals (null, booleans, arbitrary-precision
// numbers, strings), arrays, records, enum tags ('Foo) and applied
// variants ('Some 42), let bindings, curried functions, application,
// the usual arithmetic/comparison/boolean operators, string and array
// concatenation (++), record merge (&), pipe (|>), and a minimal std
// namespace (std.array.map and friends).
//
// Evaluation is strict and deep: an Interp's Eval always returns a
// fully-evaluated value tree or a positioned diagnostic. The
// interpreter keeps no state between calls and writes nothing to any
// output stream; trace output goes to a no-op zap logger unless one is
// injected with WithLogger.
package lang
