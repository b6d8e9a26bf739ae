package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pyparse/python/tree"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(root tree.Element) error {
	return write(e.w, e.Marshal, root)
}

func (e *ASTJSONEncoder) Marshal(root tree.Element) ([]byte, error) {
	data, err := json.MarshalIndent(elementToJSON(root), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// astJSONElement is the document shared by the JSON and CBOR encoders.
type astJSONElement struct {
	Kind      string            `json:"kind"`
	Type      string            `json:"type,omitempty"`
	Value     string            `json:"value,omitempty"`
	Prefix    string            `json:"prefix,omitempty"`
	ErrorType string            `json:"error_type,omitempty"`
	Start     astJSONPosition   `json:"start"`
	End       astJSONPosition   `json:"end"`
	Children  []*astJSONElement `json:"children,omitempty"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func elementToJSON(e tree.Element) *astJSONElement {
	start, end := e.StartPos(), e.EndPos()
	je := &astJSONElement{
		Start: astJSONPosition{Line: start.Line, Column: start.Column},
		End:   astJSONPosition{Line: end.Line, Column: end.Column},
	}

	if l, ok := e.(*tree.Leaf); ok {
		je.Kind = l.Kind.String()
		je.Value = l.Value
		je.Prefix = l.Prefix
		je.ErrorType = l.TokenType
		return je
	}

	n := tree.AsNode(e)
	je.Kind = n.Kind.String()
	je.Type = n.Type
	if len(n.Children) > 0 {
		je.Children = make([]*astJSONElement, len(n.Children))
		for i, child := range n.Children {
			je.Children[i] = elementToJSON(child)
		}
	}
	return je
}
