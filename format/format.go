// Package format renders syntax trees for other tools: an indented JSON
// document, the same document as canonical CBOR, or a plain text outline.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/pyparse/python/tree"
)

type Encoder interface {
	Encode(root tree.Element) error
	Marshal(root tree.Element) ([]byte, error)
}

// Names lists the formats NewEncoder accepts.
var Names = []string{"json", "cbor", "text"}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w), nil
	case "cbor":
		return NewCBOREncoder(w), nil
	case "text":
		return NewTextEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}

func write(w io.Writer, marshal func(tree.Element) ([]byte, error), root tree.Element) error {
	data, err := marshal(root)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
