// Package tokenize splits Python source text into tokens. Every token keeps
// the whitespace and comments that precede it as its prefix, so the source can
// be reproduced from the token stream.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/pyparse/python/token"
)

// Tokenizer produces tokens lazily; it implements token.Stream.
type Tokenizer struct {
	input  string
	pos    int
	line   int
	column int

	indents     []int
	parenLevel  int
	atLineStart bool
	prefix      strings.Builder

	pending []token.Token
	done    bool
}

func New(source string) *Tokenizer {
	return &Tokenizer{
		input:       source,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Tokenize returns all tokens of source, ending with ENDMARKER.
func Tokenize(source string) []token.Token {
	return token.Collect(New(source))
}

func (t *Tokenizer) Position() token.Position {
	return token.Position{Line: t.line, Column: t.column}
}

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

func (t *Tokenizer) peekN(n int) byte {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return t.input[t.pos+n]
}

func (t *Tokenizer) eof() bool {
	return t.pos >= len(t.input)
}

func (t *Tokenizer) advance() byte {
	if t.pos >= len(t.input) {
		return 0
	}
	ch := t.input[t.pos]
	t.pos++
	if ch == '\n' {
		t.line++
		t.column = 0
	} else {
		t.column++
	}
	return ch
}

// newlineLen returns the length of the line break at the current position,
// or 0 if there is none.
func (t *Tokenizer) newlineLen() int {
	switch {
	case t.peek() == '\n':
		return 1
	case t.peek() == '\r' && t.peekN(1) == '\n':
		return 2
	}
	return 0
}

func (t *Tokenizer) Next() (token.Token, bool) {
	for {
		if len(t.pending) > 0 {
			tok := t.pending[0]
			t.pending = t.pending[1:]
			return tok, true
		}
		if t.done {
			return token.Token{}, false
		}
		t.scan()
	}
}

// scan queues at least one token, or marks the tokenizer as done.
func (t *Tokenizer) scan() {
	t.skipTrivia()

	if t.eof() {
		t.finish()
		return
	}

	if n := t.newlineLen(); n > 0 {
		start := t.Position()
		value := t.input[t.pos : t.pos+n]
		for i := 0; i < n; i++ {
			t.advance()
		}
		t.emit(token.NEWLINE, value, start)
		t.atLineStart = true
		return
	}

	if t.atLineStart {
		t.atLineStart = false
		if t.parenLevel == 0 {
			t.indentTo(t.column)
		}
	}

	start := t.Position()
	ch := t.peek()
	switch {
	case isNameStart(t.input[t.pos:]):
		t.scanName(start)
	case isDigit(ch) || (ch == '.' && isDigit(t.peekN(1))):
		t.scanNumber(start)
	case ch == '"' || ch == '\'':
		t.scanString(start, t.pos)
	default:
		t.scanOperator(start)
	}
}

// skipTrivia moves whitespace, comments, continuation lines and blank lines
// into the pending prefix.
func (t *Tokenizer) skipTrivia() {
	for !t.eof() {
		ch := t.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f' || (ch == '\r' && t.peekN(1) != '\n'):
			t.prefix.WriteByte(t.advance())
		case ch == '#':
			for !t.eof() && t.newlineLen() == 0 {
				t.prefix.WriteByte(t.advance())
			}
		case ch == '\\' && t.lineContinuation():
			t.prefix.WriteByte(t.advance())
			t.takeNewlineIntoPrefix()
		case t.newlineLen() > 0:
			// Blank lines and line breaks inside brackets are trivia.
			if !t.atLineStart && t.parenLevel == 0 {
				return
			}
			t.takeNewlineIntoPrefix()
		default:
			return
		}
	}
}

func (t *Tokenizer) lineContinuation() bool {
	next := t.peekN(1)
	return next == '\n' || (next == '\r' && t.peekN(2) == '\n')
}

func (t *Tokenizer) takeNewlineIntoPrefix() {
	n := t.newlineLen()
	for i := 0; i < n; i++ {
		t.prefix.WriteByte(t.advance())
	}
}

func (t *Tokenizer) indentTo(column int) {
	start := t.Position()
	if column > t.indents[len(t.indents)-1] {
		t.indents = append(t.indents, column)
		t.pending = append(t.pending, token.Token{Type: token.INDENT, Start: start})
		return
	}
	for column < t.indents[len(t.indents)-1] {
		t.indents = t.indents[:len(t.indents)-1]
		t.pending = append(t.pending, token.Token{Type: token.DEDENT, Start: start})
	}
}

func (t *Tokenizer) finish() {
	end := t.Position()
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.pending = append(t.pending, token.Token{Type: token.DEDENT, Start: end})
	}
	t.emit(token.ENDMARKER, "", end)
	t.done = true
}

func (t *Tokenizer) emit(typ token.Type, value string, start token.Position) {
	t.pending = append(t.pending, token.Token{
		Type:   typ,
		Value:  value,
		Start:  start,
		Prefix: t.prefix.String(),
	})
	t.prefix.Reset()
}

func (t *Tokenizer) scanName(start token.Position) {
	begin := t.pos
	for !t.eof() {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if !isNameRune(r) {
			break
		}
		for i := 0; i < size; i++ {
			t.advance()
		}
	}
	word := t.input[begin:t.pos]
	if ch := t.peek(); (ch == '"' || ch == '\'') && isStringPrefix(word) {
		t.scanString(start, begin)
		return
	}
	t.emit(token.NAME, word, start)
}

func (t *Tokenizer) scanNumber(start token.Position) {
	begin := t.pos
	if t.peek() == '0' && strings.ContainsRune("xXoObB", rune(t.peekN(1))) {
		t.advance()
		t.advance()
		for isHexDigit(t.peek()) || t.peek() == '_' {
			t.advance()
		}
		t.emit(token.NUMBER, t.input[begin:t.pos], start)
		return
	}

	t.digits()
	if t.peek() == '.' {
		t.advance()
		t.digits()
	}
	if (t.peek() == 'e' || t.peek() == 'E') &&
		(isDigit(t.peekN(1)) || ((t.peekN(1) == '+' || t.peekN(1) == '-') && isDigit(t.peekN(2)))) {
		t.advance()
		if t.peek() == '+' || t.peek() == '-' {
			t.advance()
		}
		t.digits()
	}
	if t.peek() == 'j' || t.peek() == 'J' || t.peek() == 'l' || t.peek() == 'L' {
		t.advance()
	}
	t.emit(token.NUMBER, t.input[begin:t.pos], start)
}

func (t *Tokenizer) digits() {
	for isDigit(t.peek()) || t.peek() == '_' {
		t.advance()
	}
}

// scanString scans a string literal whose (optional) prefix starts at begin
// and whose opening quote is at the current position.
func (t *Tokenizer) scanString(start token.Position, begin int) {
	quote := t.peek()
	triple := t.peekN(1) == quote && t.peekN(2) == quote
	if triple {
		t.advance()
		t.advance()
		t.advance()
		for !t.eof() {
			if t.peek() == '\\' {
				t.advance()
				t.advance()
				continue
			}
			if t.peek() == quote && t.peekN(1) == quote && t.peekN(2) == quote {
				t.advance()
				t.advance()
				t.advance()
				t.emit(token.STRING, t.input[begin:t.pos], start)
				return
			}
			t.advance()
		}
		t.emit(token.ERRORTOKEN, t.input[begin:t.pos], start)
		return
	}

	t.advance()
	for !t.eof() && t.newlineLen() == 0 {
		ch := t.peek()
		if ch == '\\' {
			t.advance()
			if n := t.newlineLen(); n > 0 {
				for i := 0; i < n; i++ {
					t.advance()
				}
			} else {
				t.advance()
			}
			continue
		}
		t.advance()
		if ch == quote {
			t.emit(token.STRING, t.input[begin:t.pos], start)
			return
		}
	}
	t.emit(token.ERRORTOKEN, t.input[begin:t.pos], start)
}

var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", "**", "//", ">>", "<<", "<=", ">=", "==", "!=", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">", "=", "@",
}

func (t *Tokenizer) scanOperator(start token.Position) {
	rest := t.input[t.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for i := 0; i < len(op); i++ {
				t.advance()
			}
			switch op {
			case "(", "[", "{":
				t.parenLevel++
			case ")", "]", "}":
				if t.parenLevel > 0 {
					t.parenLevel--
				}
			}
			t.emit(token.OP, op, start)
			return
		}
	}

	_, size := utf8.DecodeRuneInString(rest)
	for i := 0; i < size; i++ {
		t.advance()
	}
	t.emit(token.ERRORTOKEN, rest[:size], start)
}

func isNameStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
