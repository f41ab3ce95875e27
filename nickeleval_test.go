package nickeleval_test

import (
	"testing"

	nickeleval "github.com/LouLouLibs/NickelEval"
	"github.com/LouLouLibs/NickelEval/export"
	"github.com/LouLouLibs/NickelEval/lang"
	"github.com/LouLouLibs/NickelEval/native"
	"github.com/LouLouLibs/NickelEval/value"
)

// The concrete implementations must keep satisfying the package
// interfaces; boundary.Session is wired against these.
var (
	_ nickeleval.Evaluator = (*lang.Interp)(nil)
	_ nickeleval.Encoder   = (*native.Encoder)(nil)
	_ nickeleval.Exporter  = nickeleval.ExporterFunc(export.JSON)
)

func TestExporterFunc(t *testing.T) {
	var exp nickeleval.Exporter = nickeleval.ExporterFunc(export.JSON)
	out, err := exp.Export(value.Int(42))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out != "42" {
		t.Errorf("Export = %q, want %q", out, "42")
	}
}
