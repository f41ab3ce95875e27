package native

import (
	"encoding/binary"
	"math"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// DefaultMaxDepth bounds value-tree nesting during encoding and
// decoding. Deeply nested trees fail with a max_depth error instead of
// exhausting the stack.
const DefaultMaxDepth = 10000

// Option configures an Encoder or Decoder.
type Option func(*limits)

type limits struct {
	maxDepth int
}

// WithMaxDepth overrides the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(l *limits) { l.maxDepth = depth }
}

// Encoder serializes value trees into the native wire format: every
// unit is a one-byte tag followed by its payload, multi-byte integers
// are little-endian, and all lengths are 4-byte unsigned counts.
//
// An Encoder is stateless and safe for concurrent use.
type Encoder struct {
	limits
}

// NewEncoder creates an encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{limits{maxDepth: DefaultMaxDepth}}
	for _, opt := range opts {
		opt(&e.limits)
	}
	return e
}

// Encode serializes a value tree. On failure no bytes are returned: the
// caller never observes a truncated stream. Function values (and any
// future non-data variant) fail with an unsupported error naming the
// variant.
func (e *Encoder) Encode(v value.Value) ([]byte, *errors.Error) {
	buf := make([]byte, 0, 64)

	// Explicit work stack instead of recursion. Items are either a
	// value to encode or a record key to splice in front of its value.
	type item struct {
		val   value.Value
		key   string
		depth int
		isKey bool
	}
	stack := []item{{val: v, depth: 1}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.isKey {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(it.key)))
			buf = append(buf, it.key...)
			continue
		}

		if it.depth > e.maxDepth {
			return nil, errors.MaxDepth(errors.PhaseEncode, e.maxDepth)
		}

		val := it.val
		switch val.Kind {
		case value.KindNull:
			buf = append(buf, TagNull)

		case value.KindBool:
			b := byte(0)
			if val.Bool {
				b = 1
			}
			buf = append(buf, TagBool, b)

		case value.KindNumber:
			i, f, isInt := val.Narrow()
			if !isInt && (math.IsInf(f, 0) || math.IsNaN(f)) {
				// A rational beyond double range narrows to Inf, which
				// the wire format cannot carry: the decoder would have
				// no finite number to rebuild.
				return nil, errors.Unsupported(errors.PhaseEncode,
					"number is out of double range")
			}
			tag, _ := tagOf(val.Kind, isInt)
			buf = append(buf, tag)
			if isInt {
				buf = binary.LittleEndian.AppendUint64(buf, uint64(i))
			} else {
				buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
			}

		case value.KindString:
			buf = append(buf, TagString)
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(val.Str)))
			buf = append(buf, val.Str...)

		case value.KindArray:
			buf = append(buf, TagArray)
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(val.Arr)))
			for n := len(val.Arr) - 1; n >= 0; n-- {
				stack = append(stack, item{val: val.Arr[n], depth: it.depth + 1})
			}

		case value.KindRecord:
			buf = append(buf, TagRecord)
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(val.Rec)))
			for n := len(val.Rec) - 1; n >= 0; n-- {
				f := val.Rec[n]
				fv := value.Null() // a field with no bound value encodes as Null
				if f.Value != nil {
					fv = *f.Value
				}
				stack = append(stack, item{val: fv, depth: it.depth + 1})
				stack = append(stack, item{key: f.Name, isKey: true})
			}

		case value.KindEnum:
			buf = append(buf, TagEnum)
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(val.Tag)))
			buf = append(buf, val.Tag...)
			if val.Arg == nil {
				buf = append(buf, 0)
			} else {
				buf = append(buf, 1)
				stack = append(stack, item{val: *val.Arg, depth: it.depth + 1})
			}

		default:
			return nil, errors.Unsupported(errors.PhaseEncode,
				"cannot encode "+val.Kind.String()+" value in native format")
		}
	}

	return buf, nil
}

// Encode serializes a value tree with the default limits.
func Encode(v value.Value) ([]byte, *errors.Error) {
	return NewEncoder().Encode(v)
}
