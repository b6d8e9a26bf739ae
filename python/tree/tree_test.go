package tree

import (
	"testing"

	"github.com/dhamidi/pyparse/python/token"
)

func pos(line, column int) token.Position {
	return token.Position{Line: line, Column: column}
}

// sample builds the tree of "def f():\n    pass\n" by hand.
func sample() (*Module, map[string]*Leaf) {
	leaves := map[string]*Leaf{
		"def":     NewLeaf(LeafKeyword, "def", pos(1, 0), ""),
		"f":       NewLeaf(LeafName, "f", pos(1, 4), " "),
		"(":       NewLeaf(LeafOperator, "(", pos(1, 5), ""),
		")":       NewLeaf(LeafOperator, ")", pos(1, 6), ""),
		":":       NewLeaf(LeafOperator, ":", pos(1, 7), ""),
		"nl1":     NewLeaf(LeafNewline, "\n", pos(1, 8), ""),
		"pass":    NewLeaf(LeafKeyword, "pass", pos(2, 4), "    "),
		"nl2":     NewLeaf(LeafNewline, "\n", pos(2, 8), ""),
		"end":     NewLeaf(LeafEndMarker, "", pos(3, 0), ""),
		"unknown": NewErrorLeaf("errortoken", "$", pos(9, 9), ""),
	}
	params := NewNode(KindNode, "parameters", []Element{leaves["("], leaves[")"]})
	stmt := NewNode(KindNode, "simple_stmt", []Element{leaves["pass"], leaves["nl2"]})
	suite := NewNode(KindNode, "suite", []Element{leaves["nl1"], stmt})
	fn := NewNode(KindFunction, "funcdef", []Element{leaves["def"], leaves["f"], params, leaves[":"], suite})
	return NewModule([]Element{fn, leaves["end"]}), leaves
}

func TestCode(t *testing.T) {
	m, _ := sample()
	if got, want := m.Code(), "def f():\n    pass\n"; got != want {
		t.Errorf("Code() = %q, want %q", got, want)
	}
}

func TestPositions(t *testing.T) {
	m, leaves := sample()
	fn := m.Children[0].(*Node)

	tests := []struct {
		name  string
		el    Element
		start token.Position
		end   token.Position
	}{
		{"module", m, pos(1, 0), pos(3, 0)},
		{"function", fn, pos(1, 0), pos(3, 0)},
		{"name", leaves["f"], pos(1, 4), pos(1, 5)},
		{"newline", leaves["nl1"], pos(1, 8), pos(2, 0)},
		{"end marker", leaves["end"], pos(3, 0), pos(3, 0)},
		{"empty node", NewNode(KindNode, "x", nil), token.Position{}, token.Position{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.el.StartPos(); got != tt.start {
				t.Errorf("StartPos() = %s, want %s", got, tt.start)
			}
			if got := tt.el.EndPos(); got != tt.end {
				t.Errorf("EndPos() = %s, want %s", got, tt.end)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	m, leaves := sample()
	fn := m.Children[0].(*Node)

	if p := leaves["f"].Parent(); p != fn {
		t.Errorf("Parent(f) = %v, want funcdef", p)
	}
	if fn.Parent() != &m.Node {
		t.Errorf("function is not a child of the module")
	}
	if Root(leaves["pass"]) != &m.Node {
		t.Errorf("Root(pass) is not the module")
	}
	if got := PreviousLeaf(leaves["pass"]); got != leaves["nl1"] {
		t.Errorf("PreviousLeaf(pass) = %v", got)
	}
	if got := NextLeaf(leaves[")"]); got != leaves[":"] {
		t.Errorf("NextLeaf()) = %v", got)
	}
	if got := PreviousLeaf(leaves["def"]); got != nil {
		t.Errorf("PreviousLeaf(def) = %v, want nil", got)
	}
	if got := NextLeaf(leaves["end"]); got != nil {
		t.Errorf("NextLeaf(end) = %v, want nil", got)
	}
	if got := PreviousSibling(leaves[":"]); got != fn.Children[2] {
		t.Errorf("PreviousSibling(:) = %v", got)
	}
	if got := NextSibling(leaves["f"]); got != fn.Children[2] {
		t.Errorf("NextSibling(f) = %v", got)
	}
	if got := fn.Name(); got != leaves["f"] {
		t.Errorf("Name() = %v", got)
	}
	if got := fn.Keyword(); got != "def" {
		t.Errorf("Keyword() = %q", got)
	}
	if got := m.EndMarker(); got != leaves["end"] {
		t.Errorf("EndMarker() = %v", got)
	}
}

func TestErrorElements(t *testing.T) {
	m, leaves := sample()
	en := NewErrorNode([]Element{leaves["unknown"]})
	m.AddChild(en)

	got := ErrorElements(m)
	if len(got) != 2 || got[0] != en || got[1] != leaves["unknown"] {
		t.Errorf("ErrorElements() = %v", got)
	}
	if m.EndMarker() != nil {
		t.Errorf("EndMarker() found although the module ends in an error node")
	}
}

func TestDump(t *testing.T) {
	m, _ := sample()
	want := `Module(file_input) [1:0-3:0]
  Function(funcdef) [1:0-3:0]
    Keyword("def") [1:0-1:3]
    Name("f") [1:4-1:5]
    Node(parameters) [1:5-1:7]
      Operator("(") [1:5-1:6]
      Operator(")") [1:6-1:7]
    Operator(":") [1:7-1:8]
    Node(suite) [1:8-3:0]
      Newline("\n") [1:8-2:0]
      Node(simple_stmt) [2:4-3:0]
        Keyword("pass") [2:4-2:8]
        Newline("\n") [2:8-3:0]
  EndMarker("") [3:0-3:0]
`
	if got := Dump(m, true); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestLeafString(t *testing.T) {
	tests := []struct {
		leaf *Leaf
		want string
	}{
		{NewLeaf(LeafName, "x", pos(1, 0), ""), `Name("x")`},
		{NewLeaf(LeafString, `"a"`, pos(1, 0), ""), `String("\"a\"")`},
		{NewErrorLeaf("op", ":", pos(1, 0), ""), `ErrorLeaf(op, ":")`},
	}
	for _, tt := range tests {
		if got := tt.leaf.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}
