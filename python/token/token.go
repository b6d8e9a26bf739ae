// Package token defines the token records exchanged between the tokenizer,
// the grammar tables and the parsing automaton.
package token

import "fmt"

// Type is the category of a token. Token types are numbered below 256 so
// that grammar symbols can be numbered from 256 upwards in the same space.
type Type int

const (
	ENDMARKER Type = iota
	NAME
	NUMBER
	STRING
	NEWLINE
	INDENT
	DEDENT
	OP
	ERRORTOKEN

	numTypes
)

// NumTypes is the number of token types; grammar symbols start at 256.
const NumTypes = int(numTypes)

var typeNames = map[Type]string{
	ENDMARKER:  "ENDMARKER",
	NAME:       "NAME",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	NEWLINE:    "NEWLINE",
	INDENT:     "INDENT",
	DEDENT:     "DEDENT",
	OP:         "OP",
	ERRORTOKEN: "ERRORTOKEN",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// LookupType returns the token type with the given name, as written in a
// grammar (e.g. "NAME").
func LookupType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Position is a location in source text. Lines are 1-based, columns are
// 0-based byte offsets within the line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Token is a single lexical unit. Prefix holds the whitespace, comments and
// blank lines that precede the token in the source.
type Token struct {
	Type   Type
	Value  string
	Start  Position
	Prefix string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Start, t.Type, t.Value)
}

// Stream is a lazy, single-pass sequence of tokens. Next returns false once
// the stream is exhausted.
type Stream interface {
	Next() (Token, bool)
}

// SliceStream replays a fixed list of tokens.
type SliceStream struct {
	tokens []Token
	pos    int
}

func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

func (s *SliceStream) Next() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

// Collect drains a stream into a slice.
func Collect(s Stream) []Token {
	var out []Token
	for {
		tok, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}
