package value

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variants of the value union. Wire tag bytes for
// the native protocol are derived from Kind, never maintained separately.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindRecord
	KindEnum
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindRecord:
		return "Record"
	case KindEnum:
		return "Enum"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// Field is a single record field. A nil Value means the field exists but
// carries no bound value; exporters treat it as Null.
type Field struct {
	Name  string
	Value *Value
}

// Value is a fully-evaluated, immutable value tree node. Exactly the
// fields relevant to Kind are populated; the rest are zero.
//
// Record fields keep the order of the originating program. Function
// values are opaque: they exist so that failure paths can identify them,
// and every exporter rejects them.
type Value struct {
	Kind Kind
	Bool bool
	Num  *big.Rat
	Str  string
	Arr  []Value
	Rec  []Field
	Tag  string // enum tag name
	Arg  *Value // enum argument; nil for a nullary tag
	Fn   any    // opaque closure, never exportable
}

// Constructors

func Null() Value                 { return Value{Kind: KindNull} }
func Bool(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func Int(n int64) Value           { return Value{Kind: KindNumber, Num: new(big.Rat).SetInt64(n)} }
func Num(r *big.Rat) Value        { return Value{Kind: KindNumber, Num: r} }
func Str(s string) Value          { return Value{Kind: KindString, Str: s} }
func Arr(elems ...Value) Value    { return Value{Kind: KindArray, Arr: elems} }
func Rec(fields ...Field) Value   { return Value{Kind: KindRecord, Rec: fields} }
func Enum(tag string) Value       { return Value{Kind: KindEnum, Tag: tag} }
func Func(fn any) Value           { return Value{Kind: KindFunction, Fn: fn} }

// Float builds a number from a double. NaN and the infinities have no
// rational representation and panic, matching how math/big treats
// malformed input; callers screen non-finite doubles first.
func Float(f float64) Value {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("value: non-finite float64 has no number representation")
	}
	return Value{Kind: KindNumber, Num: r}
}

// Variant builds an enum tag carrying one argument.
func Variant(tag string, arg Value) Value {
	return Value{Kind: KindEnum, Tag: tag, Arg: &arg}
}

// Lookup returns the value bound to a record field. A present field with
// no bound value yields (Null, true).
func (v Value) Lookup(name string) (Value, bool) {
	for _, f := range v.Rec {
		if f.Name == name {
			if f.Value == nil {
				return Null(), true
			}
			return *f.Value, true
		}
	}
	return Value{}, false
}

// Narrow reduces the number to its wire representation: round to the
// nearest double; if the double has a zero fractional part and lies
// within int64 range, the value is an integer. isInt reports which of
// the two returns is meaningful.
func (v Value) Narrow() (i int64, f float64, isInt bool) {
	f, _ = v.Num.Float64()
	if f == math.Trunc(f) && f >= math.MinInt64 && f < maxInt64AsFloat {
		return int64(f), f, true
	}
	return 0, f, false
}

// 2^63 exactly; float64 cannot represent MaxInt64 itself, the nearest
// representable value above it is 2^63 which is out of range.
const maxInt64AsFloat = float64(1 << 63)

// Equal reports structural equality. Numbers compare by exact rational
// value; records compare as unordered field sets (order is significant
// on the wire but not for structural equality); functions never compare
// equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num.Cmp(o.Num) == 0
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(o.Arr[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(v.Rec) != len(o.Rec) {
			return false
		}
		for _, f := range v.Rec {
			ov, ok := o.Lookup(f.Name)
			if !ok {
				return false
			}
			fv := Null()
			if f.Value != nil {
				fv = *f.Value
			}
			if !fv.Equal(ov) {
				return false
			}
		}
		return true
	case KindEnum:
		if v.Tag != o.Tag {
			return false
		}
		if (v.Arg == nil) != (o.Arg == nil) {
			return false
		}
		if v.Arg == nil {
			return true
		}
		return v.Arg.Equal(*o.Arg)
	default:
		return false
	}
}

// String renders a source-like representation, used by diagnostics and
// the REPL. Record fields print sorted so output is stable.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		if i, f, isInt := v.Narrow(); isInt {
			b.WriteString(strconv.FormatInt(i, 10))
		} else {
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case KindString:
		b.WriteString(strconv.Quote(v.Str))
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.Arr {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(']')
	case KindRecord:
		names := make([]string, 0, len(v.Rec))
		for _, f := range v.Rec {
			names = append(names, f.Name)
		}
		sort.Strings(names)
		b.WriteString("{ ")
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(" = ")
			fv, _ := v.Lookup(name)
			fv.write(b)
		}
		b.WriteString(" }")
	case KindEnum:
		b.WriteByte('\'')
		b.WriteString(v.Tag)
		if v.Arg != nil {
			b.WriteByte(' ')
			if v.Arg.Kind == KindEnum && v.Arg.Arg != nil {
				b.WriteByte('(')
				v.Arg.write(b)
				b.WriteByte(')')
			} else {
				v.Arg.write(b)
			}
		}
	case KindFunction:
		b.WriteString("<function>")
	default:
		fmt.Fprintf(b, "<unknown kind %d>", v.Kind)
	}
}
