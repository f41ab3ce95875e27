package native

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// Decoder reads the native wire format back into a value tree. Every
// read is bounds-checked; short buffers, unknown tags, invalid flag
// bytes, non-UTF-8 string payloads, and trailing garbage all fail with
// a decode-phase error.
type Decoder struct {
	limits
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{limits{maxDepth: DefaultMaxDepth}}
	for _, opt := range opts {
		opt(&d.limits)
	}
	return d
}

// Decode reads one complete encoded value. The whole buffer must be
// consumed.
func (d *Decoder) Decode(data []byte) (value.Value, *errors.Error) {
	r := &reader{buf: data}
	v, err := d.decode(r, 1)
	if err != nil {
		return value.Value{}, err
	}
	if r.pos != len(data) {
		return value.Value{}, errors.InvalidData(errors.PhaseDecode, nil,
			"trailing bytes after encoded value")
	}
	return v, nil
}

// Decode reads one complete encoded value with the default limits.
func Decode(data []byte) (value.Value, *errors.Error) {
	return NewDecoder().Decode(data)
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) u8() (byte, *errors.Error) {
	if r.pos+1 > len(r.buf) {
		return 0, r.short(1)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) u32() (uint32, *errors.Error) {
	if r.pos+4 > len(r.buf) {
		return 0, r.short(4)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, *errors.Error) {
	if r.pos+8 > len(r.buf) {
		return 0, r.short(8)
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n uint32) ([]byte, *errors.Error) {
	if uint64(r.pos)+uint64(n) > uint64(len(r.buf)) {
		return nil, r.short(int(n))
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) short(need int) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
		Detail("buffer too short: need %d bytes at offset %d, have %d", need, r.pos, len(r.buf)-r.pos).
		Build()
}

func (d *Decoder) decode(r *reader, depth int) (value.Value, *errors.Error) {
	if depth > d.maxDepth {
		return value.Value{}, errors.MaxDepth(errors.PhaseDecode, d.maxDepth)
	}

	tag, err := r.u8()
	if err != nil {
		return value.Value{}, err
	}

	switch tag {
	case TagNull:
		return value.Null(), nil

	case TagBool:
		b, err := r.u8()
		if err != nil {
			return value.Value{}, err
		}
		if b > 1 {
			return value.Value{}, errors.InvalidData(errors.PhaseDecode, nil,
				"bool byte must be 0 or 1")
		}
		return value.Bool(b == 1), nil

	case TagInt:
		bits, err := r.u64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Int(int64(bits)), nil

	case TagFloat:
		bits, err := r.u64()
		if err != nil {
			return value.Value{}, err
		}
		f := math.Float64frombits(bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Value{}, errors.InvalidData(errors.PhaseDecode, nil,
				"non-finite double has no value representation")
		}
		return value.Float(f), nil

	case TagString:
		s, err := d.str(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Str(s), nil

	case TagArray:
		count, err := r.u32()
		if err != nil {
			return value.Value{}, err
		}
		elems := make([]value.Value, 0, min(int(count), 1024))
		for i := uint32(0); i < count; i++ {
			elem, err := d.decode(r, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, elem)
		}
		return value.Arr(elems...), nil

	case TagRecord:
		count, err := r.u32()
		if err != nil {
			return value.Value{}, err
		}
		fields := make([]value.Field, 0, min(int(count), 1024))
		for i := uint32(0); i < count; i++ {
			name, err := d.str(r)
			if err != nil {
				return value.Value{}, err
			}
			fv, err := d.decode(r, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			v := fv
			fields = append(fields, value.Field{Name: name, Value: &v})
		}
		return value.Rec(fields...), nil

	case TagEnum:
		name, err := d.str(r)
		if err != nil {
			return value.Value{}, err
		}
		flag, err := r.u8()
		if err != nil {
			return value.Value{}, err
		}
		switch flag {
		case 0:
			return value.Enum(name), nil
		case 1:
			arg, err := d.decode(r, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			return value.Variant(name, arg), nil
		default:
			return value.Value{}, errors.InvalidData(errors.PhaseDecode, nil,
				"enum argument flag must be 0 or 1")
		}
	}

	return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Detail("unknown tag byte %d at offset %d", tag, r.pos-1).
		Build()
}

// str reads a length-prefixed UTF-8 string.
func (d *Decoder) str(r *reader) (string, *errors.Error) {
	length, err := r.u32()
	if err != nil {
		return "", err
	}
	raw, err := r.bytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, raw)
	}
	return string(raw), nil
}
