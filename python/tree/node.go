package tree

import (
	"strings"

	"github.com/dhamidi/pyparse/python/token"
)

// NodeKind selects the specialized variant of a non-terminal. Symbols
// without a dedicated variant use KindNode and are told apart by Type.
type NodeKind int

const (
	KindNode NodeKind = iota
	KindModule
	KindExprStmt
	KindClass
	KindFunction
	KindImportName
	KindImportFrom
	KindKeywordStatement
	KindReturnStmt
	KindYieldExpr
	KindGlobalStmt
	KindAssertStmt
	KindIfStmt
	KindWithStmt
	KindForStmt
	KindWhileStmt
	KindTryStmt
	KindCompFor
	KindDecorator
	KindLambda
	KindErrorNode
)

var nodeKindNames = map[NodeKind]string{
	KindNode:             "Node",
	KindModule:           "Module",
	KindExprStmt:         "ExprStmt",
	KindClass:            "Class",
	KindFunction:         "Function",
	KindImportName:       "ImportName",
	KindImportFrom:       "ImportFrom",
	KindKeywordStatement: "KeywordStatement",
	KindReturnStmt:       "ReturnStmt",
	KindYieldExpr:        "YieldExpr",
	KindGlobalStmt:       "GlobalStmt",
	KindAssertStmt:       "AssertStmt",
	KindIfStmt:           "IfStmt",
	KindWithStmt:         "WithStmt",
	KindForStmt:          "ForStmt",
	KindWhileStmt:        "WhileStmt",
	KindTryStmt:          "TryStmt",
	KindCompFor:          "CompFor",
	KindDecorator:        "Decorator",
	KindLambda:           "Lambda",
	KindErrorNode:        "ErrorNode",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ErrorNodeType is the symbol name carried by error nodes.
const ErrorNodeType = "error_node"

// Node is a non-terminal. Type is the grammar symbol it was reduced from.
type Node struct {
	Kind     NodeKind
	Type     string
	Children []Element

	parent *Node
}

// NewNode creates a node and adopts children.
func NewNode(kind NodeKind, typ string, children []Element) *Node {
	n := &Node{Kind: kind, Type: typ}
	n.adopt(children)
	return n
}

// NewErrorNode wraps elements that were discarded during error recovery.
func NewErrorNode(children []Element) *Node {
	return NewNode(KindErrorNode, ErrorNodeType, children)
}

func (n *Node) adopt(children []Element) {
	n.Children = children
	for _, c := range children {
		c.setParent(n)
	}
}

// AddChild appends a child and makes n its parent.
func (n *Node) AddChild(child Element) {
	if child == nil {
		return
	}
	child.setParent(n)
	n.Children = append(n.Children, child)
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) setParent(p *Node) { n.parent = p }
func (n *Node) IsError() bool     { return n.Kind == KindErrorNode }

func (n *Node) FirstLeaf() *Leaf {
	for _, c := range n.Children {
		if l := c.FirstLeaf(); l != nil {
			return l
		}
	}
	return nil
}

func (n *Node) LastLeaf() *Leaf {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if l := n.Children[i].LastLeaf(); l != nil {
			return l
		}
	}
	return nil
}

func (n *Node) StartPos() token.Position {
	if l := n.FirstLeaf(); l != nil {
		return l.StartPos()
	}
	return token.Position{}
}

func (n *Node) EndPos() token.Position {
	if l := n.LastLeaf(); l != nil {
		return l.EndPos()
	}
	return token.Position{}
}

func (n *Node) Code() string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.Code())
	}
	return b.String()
}

// Index returns the position of child in n.Children, or -1.
func (n *Node) Index(child Element) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Name returns the name leaf of a class or function definition.
func (n *Node) Name() *Leaf {
	if n.Kind != KindClass && n.Kind != KindFunction {
		return nil
	}
	if len(n.Children) < 2 {
		return nil
	}
	if l, ok := n.Children[1].(*Leaf); ok && l.Kind == LeafName {
		return l
	}
	return nil
}

// Keyword returns the leading keyword of a statement node, if any.
func (n *Node) Keyword() string {
	if len(n.Children) == 0 {
		return ""
	}
	if l, ok := n.Children[0].(*Leaf); ok && l.Kind == LeafKeyword {
		return l.Value
	}
	return ""
}

func (n *Node) String() string {
	return n.Kind.String() + "(" + n.Type + ")"
}

// Dump renders the subtree rooted at e, one element per line.
func Dump(e Element, withPositions bool) string {
	var b strings.Builder
	dump(&b, e, 0, withPositions)
	return b.String()
}

func dump(b *strings.Builder, e Element, indent int, withPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(e.String())
	if withPositions {
		b.WriteString(" [" + e.StartPos().String() + "-" + e.EndPos().String() + "]")
	}
	b.WriteByte('\n')
	if n := AsNode(e); n != nil {
		for _, c := range n.Children {
			dump(b, c, indent+1, withPositions)
		}
	}
}

// AsNode returns the node behind e, unwrapping a module; nil for leaves.
func AsNode(e Element) *Node {
	switch v := e.(type) {
	case *Node:
		return v
	case *Module:
		return &v.Node
	}
	return nil
}
