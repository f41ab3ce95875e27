package nickeleval

import (
	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// Evaluator turns configuration source text into a value tree.
type Evaluator interface {
	Eval(src string) (value.Value, *errors.Error)
}

// Encoder serializes a value tree into the native wire format.
type Encoder interface {
	Encode(v value.Value) ([]byte, *errors.Error)
}

// Exporter renders a value tree as text in an interchange format.
type Exporter interface {
	Export(v value.Value) (string, *errors.Error)
}

// ExporterFunc adapts a plain export function to the Exporter
// interface.
type ExporterFunc func(v value.Value) (string, *errors.Error)

func (f ExporterFunc) Export(v value.Value) (string, *errors.Error) { return f(v) }
