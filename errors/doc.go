// Package errors provides structured error types for the NickelEval library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: value path, source position, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEval, errors.KindTypeMismatch).
//		Pos(3, 14).
//		Detail("cannot add Number and String").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnboundIdentifier("x", 1, 5)
//	err := errors.Unsupported(errors.PhaseEncode, "function value")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
