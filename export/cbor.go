package export

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// CBOR serializes a value tree to canonical CBOR, the standard compact
// binary alternative to the native wire format.
func CBOR(v value.Value) ([]byte, *errors.Error) {
	converted, err := plain(v, "CBOR", true)
	if err != nil {
		return nil, err
	}
	out, merr := encMode.Marshal(converted)
	if merr != nil {
		return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, merr,
			"cbor marshal failed")
	}
	return out, nil
}

var encMode cbor.EncMode

func init() {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = mode
}
