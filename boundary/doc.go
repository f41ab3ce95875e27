// Package boundary is the call surface of the evaluator: sources come
// in as byte slices, results go out as opaque handles, and failures
// land in a per-session error slot instead of panicking across the
// caller.
//
// The contract mirrors a foreign-function interface. Each entry point
// first clears the session's error slot; on failure it returns the
// zero handle and records a structured error readable through
// LastError. Results live in a resource.Table until the caller
// releases them, and releasing the zero handle is always a safe no-op.
//
// A Session is not safe for concurrent use. Callers that evaluate from
// several goroutines give each one its own Session, optionally sharing
// one result table via WithTable.
package boundary
