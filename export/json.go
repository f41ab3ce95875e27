package export

import (
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// JSON serializes a value tree to compact JSON text. Integers print
// without a decimal point, strings use standard JSON escaping, and
// record fields keep the tree's own order (map-based marshaling would
// sort them). Nullary enum tags become JSON strings; a variant with an
// argument becomes a single-field object.
func JSON(v value.Value) (string, *errors.Error) {
	buf, err := appendJSON(make([]byte, 0, 64), v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func appendJSON(buf []byte, v value.Value) ([]byte, *errors.Error) {
	switch v.Kind {
	case value.KindNull:
		return append(buf, "null"...), nil

	case value.KindBool:
		return strconv.AppendBool(buf, v.Bool), nil

	case value.KindNumber:
		i, f, isInt := v.Narrow()
		if isInt {
			return strconv.AppendInt(buf, i, 10), nil
		}
		out, err := gojson.Marshal(f)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err,
				"marshal number")
		}
		return append(buf, out...), nil

	case value.KindString:
		out, err := gojson.Marshal(v.Str)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err,
				"marshal string")
		}
		return append(buf, out...), nil

	case value.KindArray:
		buf = append(buf, '[')
		for i, e := range v.Arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err *errors.Error
			buf, err = appendJSON(buf, e)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil

	case value.KindRecord:
		buf = append(buf, '{')
		for i, f := range v.Rec {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := gojson.Marshal(f.Name)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err,
					"marshal field name")
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			fv := value.Null()
			if f.Value != nil {
				fv = *f.Value
			}
			var jerr *errors.Error
			buf, jerr = appendJSON(buf, fv)
			if jerr != nil {
				return nil, jerr
			}
		}
		return append(buf, '}'), nil

	case value.KindEnum:
		if v.Arg == nil {
			out, err := gojson.Marshal(v.Tag)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err,
					"marshal enum tag")
			}
			return append(buf, out...), nil
		}
		key, err := gojson.Marshal(v.Tag)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err,
				"marshal enum tag")
		}
		buf = append(buf, '{')
		buf = append(buf, key...)
		buf = append(buf, ':')
		var jerr *errors.Error
		buf, jerr = appendJSON(buf, *v.Arg)
		if jerr != nil {
			return nil, jerr
		}
		return append(buf, '}'), nil
	}

	return nil, unexportable(v.Kind, "JSON")
}
