package export

import (
	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCBOR Format = "cbor"
)

// Export serializes a value tree in the given format.
func Export(f Format, v value.Value) ([]byte, *errors.Error) {
	switch f {
	case FormatJSON:
		s, err := JSON(v)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatYAML:
		return YAML(v)
	case FormatTOML:
		return TOML(v)
	case FormatCBOR:
		return CBOR(v)
	}
	return nil, errors.New(errors.PhaseExport, errors.KindInvalidInput).
		Detail("unknown export format %q", string(f)).
		Build()
}

// unexportable reports the standard failure for value kinds no text
// format can represent.
func unexportable(kind value.Kind, format string) *errors.Error {
	return errors.Unsupported(errors.PhaseExport,
		"cannot serialize "+kind.String()+" value to "+format)
}

// plain converts a value tree to the generic Go representation the
// map-based encoders (TOML, CBOR) consume. Numbers narrow to int64 or
// float64; enum tags become strings and variants single-entry maps.
func plain(v value.Value, format string, allowNull bool) (any, *errors.Error) {
	switch v.Kind {
	case value.KindNull:
		if !allowNull {
			return nil, unexportable(v.Kind, format)
		}
		return nil, nil

	case value.KindBool:
		return v.Bool, nil

	case value.KindNumber:
		i, f, isInt := v.Narrow()
		if isInt {
			return i, nil
		}
		return f, nil

	case value.KindString:
		return v.Str, nil

	case value.KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			conv, err := plain(e, format, allowNull)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil

	case value.KindRecord:
		out := make(map[string]any, len(v.Rec))
		for _, f := range v.Rec {
			fv := value.Null()
			if f.Value != nil {
				fv = *f.Value
			}
			conv, err := plain(fv, format, allowNull)
			if err != nil {
				return nil, err
			}
			out[f.Name] = conv
		}
		return out, nil

	case value.KindEnum:
		if v.Arg == nil {
			return v.Tag, nil
		}
		arg, err := plain(*v.Arg, format, allowNull)
		if err != nil {
			return nil, err
		}
		return map[string]any{v.Tag: arg}, nil
	}

	return nil, unexportable(v.Kind, format)
}
