package format

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/dhamidi/pyparse/python/tree"
)

// CBOREncoder writes the JSON document model as canonical CBOR, so equal
// trees always produce identical bytes.
type CBOREncoder struct {
	w io.Writer
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(root tree.Element) error {
	return write(e.w, e.Marshal, root)
}

func (e *CBOREncoder) Marshal(root tree.Element) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(elementToJSON(root))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}
