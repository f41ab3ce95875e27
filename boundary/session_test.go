package boundary

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/resource"
)

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestEvalToText(t *testing.T) {
	s := NewSession()
	defer s.Close()

	h := s.EvalToText([]byte("1 + 2"))
	if h == 0 {
		t.Fatalf("EvalToText failed: %v", s.LastError())
	}
	if s.LastError() != nil {
		t.Errorf("LastError = %v after success, want nil", s.LastError())
	}

	got, ok := s.Text(h)
	if !ok {
		t.Fatal("Text failed for a live handle")
	}
	if got != "3" {
		t.Errorf("Text = %q, want %q", got, "3")
	}
	if !s.ReleaseText(h) {
		t.Errorf("ReleaseText failed: %v", s.LastError())
	}
}

func TestEvalToBinary(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"integer", "42", cat([]byte{2}, le64(42))},
		{"arithmetic", "40 + 2", cat([]byte{2}, le64(42))},
		{"empty record", "{}", cat([]byte{6}, le32(0))},
		{
			"array",
			"[1, 2, 3]",
			cat([]byte{5}, le32(3),
				[]byte{2}, le64(1),
				[]byte{2}, le64(2),
				[]byte{2}, le64(3)),
		},
		{
			"variant",
			"'Some 42",
			cat([]byte{7}, le32(4), []byte("Some"), []byte{1},
				[]byte{2}, le64(42)),
		},
	}

	s := NewSession()
	defer s.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := s.EvalToBinary([]byte(tt.src))
			if h == 0 {
				t.Fatalf("EvalToBinary(%q) failed: %v", tt.src, s.LastError())
			}
			got, ok := s.Binary(h)
			if !ok {
				t.Fatal("Binary failed for a live handle")
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Binary = % x, want % x", got, tt.want)
			}
			if !s.ReleaseBinary(h) {
				t.Errorf("ReleaseBinary failed: %v", s.LastError())
			}
		})
	}
}

func TestEvalFailureSetsSlot(t *testing.T) {
	s := NewSession()
	defer s.Close()

	if h := s.EvalToText([]byte("{ x = }")); h != 0 {
		t.Errorf("EvalToText on a parse error = %d, want 0", h)
	}
	if s.LastError() == nil {
		t.Fatal("LastError is nil after a failed call")
	}
	if s.LastError().Error() == "" {
		t.Error("LastError message is empty")
	}

	if h := s.EvalToBinary([]byte("{ x = }")); h != 0 {
		t.Errorf("EvalToBinary on a parse error = %d, want 0", h)
	}
	if s.LastError() == nil {
		t.Error("LastError is nil after a failed binary call")
	}
}

func TestFunctionResultUnexportable(t *testing.T) {
	s := NewSession()
	defer s.Close()

	if h := s.EvalToText([]byte("fun x => x")); h != 0 {
		t.Errorf("EvalToText of a function = %d, want 0", h)
	}
	if err := s.LastError(); err == nil || err.Kind != errors.KindUnsupported {
		t.Errorf("text error = %v, want unsupported", s.LastError())
	}

	if h := s.EvalToBinary([]byte("fun x => x")); h != 0 {
		t.Errorf("EvalToBinary of a function = %d, want 0", h)
	}
	if err := s.LastError(); err == nil || err.Kind != errors.KindUnsupported {
		t.Errorf("binary error = %v, want unsupported", s.LastError())
	}
}

func TestSlotClearedOnNextCall(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.EvalToText([]byte("{ x = }"))
	if s.LastError() == nil {
		t.Fatal("expected an error from the bad source")
	}

	h := s.EvalToText([]byte("true"))
	if h == 0 {
		t.Fatalf("good call failed: %v", s.LastError())
	}
	if s.LastError() != nil {
		t.Errorf("slot not cleared by successful call: %v", s.LastError())
	}
	s.ReleaseText(h)
}

func TestNilAndInvalidSource(t *testing.T) {
	s := NewSession()
	defer s.Close()

	if h := s.EvalToText(nil); h != 0 {
		t.Errorf("nil source = handle %d, want 0", h)
	}
	err := s.LastError()
	if err == nil || err.Kind != errors.KindInvalidInput {
		t.Errorf("nil source error = %v, want invalid_input", err)
	}

	if h := s.EvalToText([]byte{0xff, 0xfe, 'a'}); h != 0 {
		t.Errorf("invalid UTF-8 source = handle %d, want 0", h)
	}
	err = s.LastError()
	if err == nil || err.Kind != errors.KindInvalidUTF8 {
		t.Errorf("invalid UTF-8 error = %v, want invalid_utf8", err)
	}
}

func TestReleaseZeroHandle(t *testing.T) {
	s := NewSession()
	defer s.Close()

	if !s.ReleaseText(0) {
		t.Errorf("releasing zero text handle failed: %v", s.LastError())
	}
	if !s.ReleaseBinary(0) {
		t.Errorf("releasing zero binary handle failed: %v", s.LastError())
	}
	if s.LastError() != nil {
		t.Errorf("LastError = %v after zero-handle releases, want nil", s.LastError())
	}
}

func TestDoubleRelease(t *testing.T) {
	s := NewSession()
	defer s.Close()

	h := s.EvalToText([]byte("\"hi\""))
	if h == 0 {
		t.Fatalf("EvalToText failed: %v", s.LastError())
	}
	if !s.ReleaseText(h) {
		t.Fatalf("first release failed: %v", s.LastError())
	}
	if s.ReleaseText(h) {
		t.Fatal("second release succeeded, want failure")
	}
	err := s.LastError()
	if err == nil || err.Kind != errors.KindDoubleRelease {
		t.Errorf("double release error = %v, want double_release", err)
	}
}

func TestCrossTypeRelease(t *testing.T) {
	s := NewSession()
	defer s.Close()

	h := s.EvalToBinary([]byte("1"))
	if h == 0 {
		t.Fatalf("EvalToBinary failed: %v", s.LastError())
	}
	if s.ReleaseText(h) {
		t.Fatal("released a binary result through the text path")
	}
	err := s.LastError()
	if err == nil || err.Kind != errors.KindInvalidHandle {
		t.Errorf("cross-type release error = %v, want invalid_handle", err)
	}
	if !s.ReleaseBinary(h) {
		t.Errorf("correct-type release failed after the bad attempt: %v", s.LastError())
	}
}

func TestSharedTable(t *testing.T) {
	tbl := resource.NewTable()
	defer tbl.Close()

	a := NewSession(WithTable(tbl))
	b := NewSession(WithTable(tbl))
	defer a.Close()
	defer b.Close()

	h := a.EvalToText([]byte("7 * 6"))
	if h == 0 {
		t.Fatalf("EvalToText failed: %v", a.LastError())
	}

	// A result produced by one session is visible to the other.
	got, ok := b.Text(h)
	if !ok || got != "42" {
		t.Errorf("shared table lookup = %q, %v; want %q", got, ok, "42")
	}

	// Closing a session must not close the shared table.
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := b.Text(h); !ok {
		t.Error("shared table closed by session Close")
	}
}

func TestNumberBeyondDoubleRange(t *testing.T) {
	// 1e400 evaluates to a finite rational that rounds to +Inf as a
	// double. Neither result path may hand the caller non-finite bits.
	s := NewSession()
	defer s.Close()

	if h := s.EvalToBinary([]byte("1e400")); h != 0 {
		t.Errorf("binary handle = %d, want 0", h)
	}
	err := s.LastError()
	if err == nil || err.Kind != errors.KindUnsupported {
		t.Errorf("binary error = %v, want unsupported", err)
	}

	if h := s.EvalToText([]byte("1e400")); h != 0 {
		t.Errorf("text handle = %d, want 0", h)
	}
	if s.LastError() == nil {
		t.Error("LastError is nil after failed text call")
	}
}

func TestEvalToBinaryDepthLimit(t *testing.T) {
	s := NewSession(WithMaxDepth(3))
	defer s.Close()

	if h := s.EvalToBinary([]byte("[[[[1]]]]")); h != 0 {
		t.Errorf("deep value = handle %d, want 0", h)
	}
	err := s.LastError()
	if err == nil || err.Kind != errors.KindMaxDepth {
		t.Errorf("depth error = %v, want max_depth", err)
	}
}
