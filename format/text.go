package format

import (
	"io"

	"github.com/dhamidi/pyparse/python/tree"
)

// TextEncoder writes one element per line, indented by depth.
type TextEncoder struct {
	w         io.Writer
	positions bool
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

// WithPositions appends the start and end position to every line.
func (e *TextEncoder) WithPositions() *TextEncoder {
	e.positions = true
	return e
}

func (e *TextEncoder) Encode(root tree.Element) error {
	return write(e.w, e.Marshal, root)
}

func (e *TextEncoder) Marshal(root tree.Element) ([]byte, error) {
	return []byte(tree.Dump(root, e.positions)), nil
}
