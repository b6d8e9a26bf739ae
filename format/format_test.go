package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/parser"
	"github.com/dhamidi/pyparse/python/tree"
)

func parse(t *testing.T, source string) tree.Element {
	t.Helper()
	root, err := parser.New(grammar.Python(), source, parser.WithRecovery()).Parse()
	require.NoError(t, err)
	return root
}

func TestASTJSONEncoder(t *testing.T) {
	root := parse(t, "x = 1\n")

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(root))

	var doc astJSONElement
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Module", doc.Kind)
	assert.Equal(t, "file_input", doc.Type)
	require.Len(t, doc.Children, 2)

	stmt := doc.Children[0]
	assert.Equal(t, "simple_stmt", stmt.Type)
	expr := stmt.Children[0]
	assert.Equal(t, "ExprStmt", expr.Kind)
	want := []*astJSONElement{
		{Kind: "Name", Value: "x", Start: astJSONPosition{1, 0}, End: astJSONPosition{1, 1}},
		{Kind: "Operator", Value: "=", Prefix: " ", Start: astJSONPosition{1, 2}, End: astJSONPosition{1, 3}},
		{Kind: "Number", Value: "1", Prefix: " ", Start: astJSONPosition{1, 4}, End: astJSONPosition{1, 5}},
	}
	if diff := cmp.Diff(want, expr.Children); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}

	assert.NoError(t, ValidateJSON(buf.Bytes()))
}

func TestJSONErrorLeaves(t *testing.T) {
	root := parse(t, "def f(:\n    pass\n")
	data, err := NewASTJSONEncoder(nil).Marshal(root)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "ErrorNode"`)
	assert.Contains(t, string(data), `"error_type": "op"`)
	assert.NoError(t, ValidateJSON(data))
}

func TestValidateJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing kind", `{"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 0}}`},
		{"unknown kind", `{"kind": "Banana", "start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 0}}`},
		{"negative column", `{"kind": "Name", "start": {"line": 1, "column": -1}, "end": {"line": 1, "column": 0}}`},
		{"bad child", `{"kind": "Node", "start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 0}, "children": [{"kind": "Name"}]}`},
		{"extra field", `{"kind": "Name", "start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 0}, "color": "red"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSON([]byte(tt.doc)))
		})
	}
}

func TestCBOREncoder(t *testing.T) {
	root := parse(t, "if x:\n    y = [1, 2]\n")

	first, err := NewCBOREncoder(nil).Marshal(root)
	require.NoError(t, err)
	second, err := NewCBOREncoder(nil).Marshal(parse(t, "if x:\n    y = [1, 2]\n"))
	require.NoError(t, err)
	assert.Equal(t, first, second, "encoding is not deterministic")

	var doc astJSONElement
	require.NoError(t, cbor.Unmarshal(first, &doc))
	if diff := cmp.Diff(elementToJSON(root), &doc); diff != "" {
		t.Errorf("CBOR round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTextEncoder(t *testing.T) {
	root := parse(t, "pass\n")

	var buf bytes.Buffer
	require.NoError(t, NewTextEncoder(&buf).Encode(root))
	assert.Equal(t, "Module(file_input)\n  Node(simple_stmt)\n    Keyword(\"pass\")\n    Newline(\"\\n\")\n  EndMarker(\"\")\n", buf.String())

	data, err := NewTextEncoder(nil).WithPositions().Marshal(root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Module(file_input) [1:0-2:0]\n"), string(data))
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Names {
		enc, err := NewEncoder(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}
	_, err := NewEncoder("yaml", &bytes.Buffer{})
	assert.Error(t, err)
}
