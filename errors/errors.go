package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // source text to program
	PhaseEval     Phase = "eval"     // program to value tree
	PhaseEncode   Phase = "encode"   // value tree to native bytes
	PhaseDecode   Phase = "decode"   // native bytes to value tree
	PhaseExport   Phase = "export"   // value tree to text formats
	PhaseBoundary Phase = "boundary" // entry-point and ownership checks
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindUnsupported     Kind = "unsupported"
	KindTypeMismatch    Kind = "type_mismatch"
	KindUnboundIdent    Kind = "unbound_identifier"
	KindFieldMissing    Kind = "field_missing"
	KindMergeConflict   Kind = "merge_conflict"
	KindDivisionByZero  Kind = "division_by_zero"
	KindMaxDepth        Kind = "max_depth"
	KindInvalidData     Kind = "invalid_data"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidHandle   Kind = "invalid_handle"
	KindDoubleRelease   Kind = "double_release"
	KindUnexpectedToken Kind = "unexpected_token"
	KindUnterminated    Kind = "unterminated"
	KindNotAFunction    Kind = "not_a_function"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Line   int
	Column int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Line, e.Column)
	} else if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path (record fields, array indices)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Pos sets the source position
func (b *Builder) Pos(line, column int) *Builder {
	b.err.Line = line
	b.err.Column = column
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error with a hex preview of the data
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unsupported creates an unsupported value error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("record has no field %q", fieldName),
	}
}

// UnboundIdentifier creates an unbound identifier error
func UnboundIdentifier(name string, line, column int) *Error {
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindUnboundIdent,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("unbound identifier %q", name),
	}
}

// MaxDepth creates a max-depth-exceeded error
func MaxDepth(phase Phase, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMaxDepth,
		Detail: fmt.Sprintf("value nesting exceeds maximum depth %d", limit),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
	}
}

// InvalidHandle creates an invalid handle error
func InvalidHandle(detail string) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindInvalidHandle,
		Detail: detail,
	}
}

// DoubleRelease creates a double release error
func DoubleRelease(what string) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindDoubleRelease,
		Detail: fmt.Sprintf("%s released twice", what),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error at a source position
func ParseFailed(line, column int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnexpectedToken,
		Line:   line,
		Column: column,
		Detail: detail,
	}
}
