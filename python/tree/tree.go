// Package tree holds the concrete syntax tree built by the parser. Leaves keep
// their prefix (whitespace and comments) so the source text can be rebuilt from
// the tree; nodes own an ordered list of children and know their parent.
package tree

import (
	"strings"

	"github.com/dhamidi/pyparse/python/token"
)

// Element is either a *Leaf, a *Node or a *Module.
type Element interface {
	Parent() *Node
	StartPos() token.Position
	EndPos() token.Position
	FirstLeaf() *Leaf
	LastLeaf() *Leaf
	Code() string
	String() string

	setParent(*Node)
}

type LeafKind int

const (
	LeafName LeafKind = iota
	LeafKeyword
	LeafString
	LeafNumber
	LeafNewline
	LeafEndMarker
	LeafOperator
	LeafError
)

var leafKindNames = map[LeafKind]string{
	LeafName:      "Name",
	LeafKeyword:   "Keyword",
	LeafString:    "String",
	LeafNumber:    "Number",
	LeafNewline:   "Newline",
	LeafEndMarker: "EndMarker",
	LeafOperator:  "Operator",
	LeafError:     "ErrorLeaf",
}

func (k LeafKind) String() string {
	if name, ok := leafKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Leaf is a terminal of the tree.
type Leaf struct {
	Kind   LeafKind
	Value  string
	Pos    token.Position
	Prefix string

	// TokenType is set on error leaves only: the lower-cased name of the
	// token type that could not be parsed.
	TokenType string

	parent *Node
}

func NewLeaf(kind LeafKind, value string, pos token.Position, prefix string) *Leaf {
	return &Leaf{Kind: kind, Value: value, Pos: pos, Prefix: prefix}
}

func NewErrorLeaf(tokenType, value string, pos token.Position, prefix string) *Leaf {
	return &Leaf{Kind: LeafError, Value: value, Pos: pos, Prefix: prefix, TokenType: tokenType}
}

func (l *Leaf) Parent() *Node             { return l.parent }
func (l *Leaf) setParent(n *Node)         { l.parent = n }
func (l *Leaf) StartPos() token.Position  { return l.Pos }
func (l *Leaf) FirstLeaf() *Leaf          { return l }
func (l *Leaf) LastLeaf() *Leaf           { return l }
func (l *Leaf) Code() string              { return l.Prefix + l.Value }
func (l *Leaf) IsError() bool             { return l.Kind == LeafError }
func (l *Leaf) IsKeyword(kw string) bool  { return l.Kind == LeafKeyword && l.Value == kw }
func (l *Leaf) IsOperator(op string) bool { return l.Kind == LeafOperator && l.Value == op }

// EndPos is the position just after the leaf's value.
func (l *Leaf) EndPos() token.Position {
	lines := strings.Split(l.Value, "\n")
	if len(lines) == 1 {
		return token.Position{Line: l.Pos.Line, Column: l.Pos.Column + len(l.Value)}
	}
	return token.Position{Line: l.Pos.Line + len(lines) - 1, Column: len(lines[len(lines)-1])}
}

func (l *Leaf) String() string {
	if l.Kind == LeafError {
		return l.Kind.String() + "(" + l.TokenType + ", " + quote(l.Value) + ")"
	}
	return l.Kind.String() + "(" + quote(l.Value) + ")"
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
