package export

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// TOML serializes a value tree to TOML. TOML requires a table at top
// level and has no null, so a non-record tree or any null inside it is
// a serialization failure rather than guesswork.
func TOML(v value.Value) ([]byte, *errors.Error) {
	if v.Kind != value.KindRecord {
		return nil, errors.Unsupported(errors.PhaseExport,
			"TOML top level must be a Record, got "+v.Kind.String())
	}
	converted, err := plain(v, "TOML", false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if merr := toml.NewEncoder(&buf).Encode(converted); merr != nil {
		return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, merr,
			"toml marshal failed")
	}
	return buf.Bytes(), nil
}
