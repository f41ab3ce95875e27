package boundary

import (
	"unicode/utf8"

	"go.uber.org/zap"

	nickeleval "github.com/LouLouLibs/NickelEval"
	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/export"
	"github.com/LouLouLibs/NickelEval/lang"
	"github.com/LouLouLibs/NickelEval/native"
	"github.com/LouLouLibs/NickelEval/resource"
	"github.com/LouLouLibs/NickelEval/value"
)

// Session is a single caller's entry point into the evaluator. It
// carries the per-caller error slot, so a Session must not be shared
// across goroutines; give each worker its own. Sessions may share one
// result table through WithTable.
type Session struct {
	interp   nickeleval.Evaluator
	enc      nickeleval.Encoder
	text     nickeleval.Exporter
	table    *resource.Table
	ownTable bool
	log      *zap.Logger
	lastErr  *errors.Error
}

type config struct {
	log      *zap.Logger
	maxDepth int
	table    *resource.Table
}

// Option configures a Session.
type Option func(*config)

// WithLogger sets the logger used by the session and its interpreter.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithMaxDepth overrides the value-tree depth limit for binary results.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithTable makes the session store results in a shared table instead
// of a private one. The caller keeps ownership: Close will not close a
// shared table.
func WithTable(t *resource.Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// NewSession creates a session with a fresh interpreter.
func NewSession(opts ...Option) *Session {
	cfg := config{
		log:      zap.NewNop(),
		maxDepth: native.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		interp: lang.New(lang.WithLogger(cfg.log)),
		enc:    native.NewEncoder(native.WithMaxDepth(cfg.maxDepth)),
		text:   nickeleval.ExporterFunc(export.JSON),
		table:  cfg.table,
		log:    cfg.log,
	}
	if s.table == nil {
		s.table = resource.NewTable()
		s.ownTable = true
	}
	return s
}

// LastError reports the error recorded by the most recent call on this
// session, or nil if that call succeeded. Every entry point clears the
// slot before doing anything else, so a stale error can never be
// mistaken for a fresh one.
func (s *Session) LastError() *errors.Error {
	return s.lastErr
}

// EvalToText evaluates source and stores the result as JSON text,
// returning its handle. On failure (including a result JSON cannot
// represent) it returns 0 and records the error in the session slot.
func (s *Session) EvalToText(src []byte) resource.Handle {
	s.lastErr = nil

	v, err := s.evalSource(src)
	if err != nil {
		s.lastErr = err
		return 0
	}

	text, err := s.text.Export(v)
	if err != nil {
		s.lastErr = err
		return 0
	}

	h := s.table.Insert(resource.TypeText, []byte(text))
	if h == 0 {
		s.lastErr = errors.InvalidInput(errors.PhaseBoundary, "result table is closed")
		return 0
	}
	s.log.Debug("stored text result", zap.Uint64("handle", uint64(h)))
	return h
}

// EvalToBinary evaluates source and stores the result in the native
// wire encoding, returning its handle. On failure it returns 0 and
// records the error in the session slot.
func (s *Session) EvalToBinary(src []byte) resource.Handle {
	s.lastErr = nil

	v, err := s.evalSource(src)
	if err != nil {
		s.lastErr = err
		return 0
	}

	data, err := s.enc.Encode(v)
	if err != nil {
		s.lastErr = err
		return 0
	}

	h := s.table.Insert(resource.TypeBinary, data)
	if h == 0 {
		s.lastErr = errors.InvalidInput(errors.PhaseBoundary, "result table is closed")
		return 0
	}
	s.log.Debug("stored binary result",
		zap.Uint64("handle", uint64(h)),
		zap.Int("size", len(data)))
	return h
}

// Text fetches a stored text result. It does not touch the error slot.
func (s *Session) Text(h resource.Handle) (string, bool) {
	data, ok := s.table.Get(h, resource.TypeText)
	if !ok {
		return "", false
	}
	return string(data), true
}

// Binary fetches a stored binary result. It does not touch the error
// slot.
func (s *Session) Binary(h resource.Handle) ([]byte, bool) {
	return s.table.Get(h, resource.TypeBinary)
}

// ReleaseText frees a text result. Releasing the zero handle is a safe
// no-op. Misuse (double release, a foreign handle, a binary handle)
// records an error in the slot and returns false.
func (s *Session) ReleaseText(h resource.Handle) bool {
	s.lastErr = nil
	if err := s.table.Release(h, resource.TypeText); err != nil {
		s.lastErr = err
		return false
	}
	return true
}

// ReleaseBinary frees a binary result with the same misuse rules as
// ReleaseText.
func (s *Session) ReleaseBinary(h resource.Handle) bool {
	s.lastErr = nil
	if err := s.table.Release(h, resource.TypeBinary); err != nil {
		s.lastErr = err
		return false
	}
	return true
}

// Close releases the session's private table. Shared tables passed in
// through WithTable are left open for their owner.
func (s *Session) Close() error {
	if s.ownTable {
		return s.table.Close()
	}
	return nil
}

func (s *Session) evalSource(src []byte) (value.Value, *errors.Error) {
	if src == nil {
		return value.Value{}, errors.InvalidInput(errors.PhaseBoundary, "source is nil")
	}
	if !utf8.Valid(src) {
		return value.Value{}, errors.InvalidUTF8(errors.PhaseBoundary, src)
	}
	return s.interp.Eval(string(src))
}
