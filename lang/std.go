package lang

import (
	"sort"
	"unicode/utf8"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// stdNamespace builds the std record bound in every global environment.
// Deliberately small: just the functions the expression corpus relies
// on.
func stdNamespace() value.Value {
	return record(
		field("array", record(
			field("map", bi("std.array.map", 2, stdArrayMap)),
			field("filter", bi("std.array.filter", 2, stdArrayFilter)),
			field("length", bi("std.array.length", 1, stdArrayLength)),
		)),
		field("string", record(
			field("length", bi("std.string.length", 1, stdStringLength)),
		)),
		field("record", record(
			field("fields", bi("std.record.fields", 1, stdRecordFields)),
		)),
	)
}

func record(fields ...value.Field) value.Value {
	return value.Rec(fields...)
}

func field(name string, v value.Value) value.Field {
	return value.Field{Name: name, Value: &v}
}

func bi(name string, arity int, fn func(*Interp, []value.Value) (value.Value, *errors.Error)) value.Value {
	return value.Func(&builtin{name: name, arity: arity, fn: fn})
}

func argType(name string, want value.Kind, got value.Value) *errors.Error {
	return errors.New(errors.PhaseEval, errors.KindTypeMismatch).
		Detail("%s expects %s, got %s", name, want, got.Kind).
		Build()
}

func stdArrayMap(it *Interp, args []value.Value) (value.Value, *errors.Error) {
	fn, arr := args[0], args[1]
	if arr.Kind != value.KindArray {
		return value.Value{}, argType("std.array.map", value.KindArray, arr)
	}
	out := make([]value.Value, len(arr.Arr))
	for i, elem := range arr.Arr {
		mapped, err := it.apply(fn, elem, 0, 0)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = mapped
	}
	return value.Arr(out...), nil
}

func stdArrayFilter(it *Interp, args []value.Value) (value.Value, *errors.Error) {
	fn, arr := args[0], args[1]
	if arr.Kind != value.KindArray {
		return value.Value{}, argType("std.array.filter", value.KindArray, arr)
	}
	var out []value.Value
	for _, elem := range arr.Arr {
		keep, err := it.apply(fn, elem, 0, 0)
		if err != nil {
			return value.Value{}, err
		}
		if keep.Kind != value.KindBool {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Detail("std.array.filter predicate must return Bool, got %s", keep.Kind).
				Build()
		}
		if keep.Bool {
			out = append(out, elem)
		}
	}
	return value.Arr(out...), nil
}

func stdArrayLength(_ *Interp, args []value.Value) (value.Value, *errors.Error) {
	arr := args[0]
	if arr.Kind != value.KindArray {
		return value.Value{}, argType("std.array.length", value.KindArray, arr)
	}
	return value.Int(int64(len(arr.Arr))), nil
}

func stdStringLength(_ *Interp, args []value.Value) (value.Value, *errors.Error) {
	s := args[0]
	if s.Kind != value.KindString {
		return value.Value{}, argType("std.string.length", value.KindString, s)
	}
	return value.Int(int64(utf8.RuneCountInString(s.Str))), nil
}

func stdRecordFields(_ *Interp, args []value.Value) (value.Value, *errors.Error) {
	rec := args[0]
	if rec.Kind != value.KindRecord {
		return value.Value{}, argType("std.record.fields", value.KindRecord, rec)
	}
	names := make([]string, 0, len(rec.Rec))
	for _, f := range rec.Rec {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	out := make([]value.Value, len(names))
	for i, name := range names {
		out[i] = value.Str(name)
	}
	return value.Arr(out...), nil
}
