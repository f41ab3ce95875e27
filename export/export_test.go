package export

import (
	"math/big"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

func ref(v value.Value) *value.Value { return &v }

func TestJSON(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"null", value.Null(), "null"},
		{"true", value.Bool(true), "true"},
		{"int no decimal point", value.Int(3), "3"},
		{"float keeps fraction", value.Float(3.14), "3.14"},
		{"whole float prints as int", value.Float(2.0), "2"},
		{"string escaping", value.Str("a\"b\n"), `"a\"b\n"`},
		{"empty array", value.Arr(), "[]"},
		{"array", value.Arr(value.Int(1), value.Str("x")), `[1,"x"]`},
		{"empty record", value.Rec(), "{}"},
		{
			"record keeps field order",
			value.Rec(
				value.Field{Name: "z", Value: ref(value.Int(1))},
				value.Field{Name: "a", Value: ref(value.Int(2))},
			),
			`{"z":1,"a":2}`,
		},
		{"unbound field is null", value.Rec(value.Field{Name: "opt"}), `{"opt":null}`},
		{"enum tag is a string", value.Enum("Foo"), `"Foo"`},
		{"variant is an object", value.Variant("Some", value.Int(42)), `{"Some":42}`},
		{
			"nested",
			value.Rec(value.Field{Name: "xs", Value: ref(value.Arr(value.Bool(false)))}),
			`{"xs":[false]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON(tt.v)
			if err != nil {
				t.Fatalf("JSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("JSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestJSON_FunctionFails(t *testing.T) {
	_, err := JSON(value.Func(struct{}{}))
	if err == nil {
		t.Fatal("expected serialization error")
	}
	if err.Kind != errors.KindUnsupported || err.Phase != errors.PhaseExport {
		t.Errorf("wrong error: %v", err)
	}

	// Nested function fails the whole export.
	_, err = JSON(value.Arr(value.Int(1), value.Func(struct{}{})))
	if err == nil {
		t.Fatal("expected serialization error for nested function")
	}
}

func TestYAML(t *testing.T) {
	v := value.Rec(
		value.Field{Name: "name", Value: ref(value.Str("test"))},
		value.Field{Name: "count", Value: ref(value.Int(42))},
	)
	out, err := YAML(v)
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}

	var back map[string]any
	if uerr := yaml.Unmarshal(out, &back); uerr != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", uerr, out)
	}
	if back["name"] != "test" {
		t.Errorf("name = %v", back["name"])
	}
	if back["count"] != 42 {
		t.Errorf("count = %v (%T)", back["count"], back["count"])
	}

	// Field order must survive.
	text := string(out)
	if strings.Index(text, "name:") > strings.Index(text, "count:") {
		t.Errorf("field order lost:\n%s", text)
	}
}

func TestYAML_EnumForms(t *testing.T) {
	out, err := YAML(value.Variant("Some", value.Int(1)))
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var back map[string]any
	if uerr := yaml.Unmarshal(out, &back); uerr != nil {
		t.Fatalf("unmarshal: %v", uerr)
	}
	if back["Some"] != 1 {
		t.Errorf("variant = %v", back)
	}
}

func TestTOML(t *testing.T) {
	v := value.Rec(
		value.Field{Name: "title", Value: ref(value.Str("cfg"))},
		value.Field{Name: "port", Value: ref(value.Int(8080))},
	)
	out, err := TOML(v)
	if err != nil {
		t.Fatalf("TOML: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, `title = "cfg"`) || !strings.Contains(text, "port = 8080") {
		t.Errorf("unexpected TOML:\n%s", text)
	}
}

func TestTOML_Failures(t *testing.T) {
	if _, err := TOML(value.Int(1)); err == nil {
		t.Error("non-record top level must fail")
	}
	if _, err := TOML(value.Rec(value.Field{Name: "x", Value: ref(value.Null())})); err == nil {
		t.Error("null inside TOML must fail")
	}
}

func TestCBOR_RoundTrip(t *testing.T) {
	v := value.Rec(
		value.Field{Name: "xs", Value: ref(value.Arr(value.Int(1), value.Int(2)))},
		value.Field{Name: "ok", Value: ref(value.Bool(true))},
	)
	out, err := CBOR(v)
	if err != nil {
		t.Fatalf("CBOR: %v", err)
	}
	var back map[string]any
	if uerr := cbor.Unmarshal(out, &back); uerr != nil {
		t.Fatalf("output is not valid CBOR: %v", uerr)
	}
	if back["ok"] != true {
		t.Errorf("ok = %v", back["ok"])
	}
}

func TestExport_Dispatch(t *testing.T) {
	v := value.Rec(value.Field{Name: "x", Value: ref(value.Int(1))})
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML, FormatCBOR} {
		if _, err := Export(f, v); err != nil {
			t.Errorf("Export(%s): %v", f, err)
		}
	}
	if _, err := Export(Format("xml"), v); err == nil {
		t.Error("unknown format must fail")
	}
}

func TestJSON_NumberNarrowing(t *testing.T) {
	// The same narrowing as the wire format: a rational that rounds to
	// a whole double prints as an integer.
	got, err := JSON(value.Num(big.NewRat(6, 2)))
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if got != "3" {
		t.Errorf("JSON = %s, want 3", got)
	}
}
