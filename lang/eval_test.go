package lang

import (
	"testing"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

func field2(name string, v value.Value) value.Field {
	return value.Field{Name: name, Value: &v}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want value.Value
	}{
		{"integer literal", "42", value.Int(42)},
		{"float literal", "2.5", value.Float(2.5)},
		{"string literal", `"hi"`, value.Str("hi")},
		{"null literal", "null", value.Null()},
		{"bool literal", "true", value.Bool(true)},
		{"addition", "1 + 2", value.Int(3)},
		{"subtraction", "10 - 4", value.Int(6)},
		{"multiplication", "6 * 7", value.Int(42)},
		{"exact division", "1 / 2", value.Float(0.5)},
		{"modulo", "7 % 3", value.Int(1)},
		{"precedence", "1 + 2 * 3", value.Int(7)},
		{"parens", "(1 + 2) * 3", value.Int(9)},
		{"unary minus", "-(3 + 4)", value.Int(-7)},
		{"negation", "!false", value.Bool(true)},
		{"string concat", `"foo" ++ "bar"`, value.Str("foobar")},
		{"array concat", "[1] ++ [2, 3]", value.Arr(value.Int(1), value.Int(2), value.Int(3))},
		{"equality", "1 + 1 == 2", value.Bool(true)},
		{"inequality", `"a" != "b"`, value.Bool(true)},
		{"comparison", "2 < 10", value.Bool(true)},
		{"string comparison", `"abc" <= "abd"`, value.Bool(true)},
		{"and short circuit", "false && (1 / 0 == 0)", value.Bool(false)},
		{"or short circuit", "true || (1 / 0 == 0)", value.Bool(true)},
		{"if then", "if 1 < 2 then 10 else 20", value.Int(10)},
		{"if else", `if false then 1 else 2`, value.Int(2)},
		{"let binding", "let x = 5 in x * x", value.Int(25)},
		{"nested let", "let x = 1 in let y = 2 in x + y", value.Int(3)},
		{"shadowing", "let x = 1 in let x = 2 in x", value.Int(2)},
		{"function application", "(fun x => x + 1) 41", value.Int(42)},
		{"curried function", "let add = fun x y => x + y in add 3 4", value.Int(7)},
		{"partial application", "let add = fun x y => x + y in let inc = add 1 in inc 10", value.Int(11)},
		{"closure capture", "let n = 10 in (fun x => x + n) 5", value.Int(15)},
		{"array literal", "[1, 2, 3]", value.Arr(value.Int(1), value.Int(2), value.Int(3))},
		{"empty array", "[]", value.Arr()},
		{"empty record", "{}", value.Rec()},
		{
			"record literal",
			"{ x = 1, y = 2 }",
			value.Rec(field2("x", value.Int(1)), field2("y", value.Int(2))),
		},
		{"field access", "{ a = { b = 42 } }.a.b", value.Int(42)},
		{"nullary enum", "'Foo", value.Enum("Foo")},
		{"enum variant", "'Some 42", value.Variant("Some", value.Int(42))},
		{
			"nested variant",
			"'Ok ('Some 1)",
			value.Variant("Ok", value.Variant("Some", value.Int(1))),
		},
		{
			"record merge",
			"{ a = 1 } & { b = 2 }",
			value.Rec(field2("a", value.Int(1)), field2("b", value.Int(2))),
		},
		{
			"recursive merge",
			"{ a = { x = 1 } } & { a = { y = 2 } }",
			value.Rec(field2("a", value.Rec(field2("x", value.Int(1)), field2("y", value.Int(2))))),
		},
		{"merge equal scalars", "1 & 1", value.Int(1)},
		{
			"pipe with std map",
			"[1, 2, 3] |> std.array.map (fun x => x * 2)",
			value.Arr(value.Int(2), value.Int(4), value.Int(6)),
		},
		{
			"std filter",
			"std.array.filter (fun x => x > 1) [1, 2, 3]",
			value.Arr(value.Int(2), value.Int(3)),
		},
		{"std array length", "std.array.length [1, 2, 3]", value.Int(3)},
		{"std string length", `std.string.length "héllo"`, value.Int(5)},
		{
			"std record fields",
			"std.record.fields { b = 1, a = 2 }",
			value.Arr(value.Str("a"), value.Str("b")),
		},
		{"enum equality", "'Foo == 'Foo", value.Bool(true)},
		{"variant inequality", "'Some 1 == 'Some 2", value.Bool(false)},
		{"big arithmetic stays exact", "10000000000000000000 - 9999999999999999999", value.Int(1)},
	}

	it := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := it.Eval(tt.src)
			if err != nil {
				t.Fatalf("Eval(%q) failed: %v", tt.src, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Eval(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"unbound identifier", "nope", errors.KindUnboundIdent},
		{"unbound in function body", "(fun x => x + y) 1", errors.KindUnboundIdent},
		{"division by zero", "1 / 0", errors.KindDivisionByZero},
		{"modulo by zero", "1 % 0", errors.KindDivisionByZero},
		{"fractional modulo", "2.5 % 1", errors.KindTypeMismatch},
		{"add string to number", `1 + "a"`, errors.KindTypeMismatch},
		{"concat mixed", `"a" ++ [1]`, errors.KindTypeMismatch},
		{"non-bool condition", "if 1 then 2 else 3", errors.KindTypeMismatch},
		{"non-bool and", "1 && true", errors.KindTypeMismatch},
		{"compare mixed", `1 < "a"`, errors.KindTypeMismatch},
		{"field on non-record", "[1].x", errors.KindTypeMismatch},
		{"missing field", "{ a = 1 }.b", errors.KindFieldMissing},
		{"apply non-function", "1 2", errors.KindNotAFunction},
		{"apply saturated variant", "('Some 1) 2", errors.KindNotAFunction},
		{"merge conflict", "{ a = 1 } & { a = 2 }", errors.KindMergeConflict},
		{"scalar merge conflict", "1 & 2", errors.KindMergeConflict},
		{"duplicate record field", "{ a = 1, a = 2 }", errors.KindInvalidData},
		{"map over non-array", "std.array.map (fun x => x) 1", errors.KindTypeMismatch},
		{"filter non-bool predicate", "std.array.filter (fun x => x) [1]", errors.KindTypeMismatch},
	}

	it := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := it.Eval(tt.src)
			if err == nil {
				t.Fatalf("Eval(%q) succeeded, want %v", tt.src, tt.kind)
			}
			if err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (error: %v)", err.Kind, tt.kind, err)
			}
			if err.Phase != errors.PhaseEval {
				t.Errorf("Phase = %v, want %v", err.Phase, errors.PhaseEval)
			}
		})
	}
}

func TestEvalMergeConflictPath(t *testing.T) {
	it := New()
	_, err := it.Eval("{ a = { b = 1 } } & { a = { b = 2 } }")
	if err == nil {
		t.Fatal("conflicting merge succeeded")
	}
	if len(err.Path) != 2 || err.Path[0] != "a" || err.Path[1] != "b" {
		t.Errorf("Path = %v, want [a b]", err.Path)
	}
}

func TestEvalInterpReusable(t *testing.T) {
	it := New()
	if _, err := it.Eval("let x = 1 in x"); err != nil {
		t.Fatalf("first Eval failed: %v", err)
	}
	// Bindings must not leak between Eval calls.
	if _, err := it.Eval("x"); err == nil {
		t.Error("binding from a previous Eval leaked")
	}
}

func TestEvalMergeKeepsLeftOrder(t *testing.T) {
	it := New()
	got, err := it.Eval("{ z = 1, a = 2 } & { m = 3 }")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	names := make([]string, len(got.Rec))
	for i, f := range got.Rec {
		names[i] = f.Name
	}
	if len(names) != 3 || names[0] != "z" || names[1] != "a" || names[2] != "m" {
		t.Errorf("field order = %v, want [z a m]", names)
	}
}
