// Package parser builds concrete syntax trees for Python source. It connects
// the tokenizer, the grammar tables and the LL(1) automaton, creates tree
// nodes and leaves as the automaton reduces rules, and, when recovery is
// enabled, repairs the parse stack on syntax errors so that every input
// yields a tree.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyparse/python/automaton"
	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tokenize"
	"github.com/dhamidi/pyparse/python/tree"
)

var log = commonlog.GetLogger("pyparse.parser")

// FileInput is the start symbol of whole files.
const FileInput = "file_input"

type Option func(*Parser)

// WithStartSymbol parses source as the given grammar rule instead of a file.
func WithStartSymbol(name string) Option {
	return func(p *Parser) {
		p.startSymbol = name
	}
}

// WithTokens parses a pre-tokenized stream instead of tokenizing the source.
func WithTokens(tokens token.Stream) Option {
	return func(p *Parser) {
		p.tokens = tokens
	}
}

// WithPath records the file the source was read from on the module.
func WithPath(path string) Option {
	return func(p *Parser) {
		p.path = path
	}
}

// WithRecovery turns syntax errors into error nodes and error leaves instead
// of failing the parse.
func WithRecovery() Option {
	return func(p *Parser) {
		p.recovering = true
	}
}

// SyntaxError is a rejected token. In strict mode it is returned from Parse;
// in recovering mode it is collected in SyntaxErrors.
type SyntaxError struct {
	Msg   string
	Pos   token.Position
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type Parser struct {
	grammar     *grammar.Grammar
	source      string
	startSymbol string
	tokens      token.Stream
	path        string
	recovering  bool

	addedNewline bool
	usedNames    map[string][]*tree.Leaf
	syntaxErrors []*SyntaxError
	indents      *indentFilter

	parsed tree.Element
	err    error
}

func New(g *grammar.Grammar, source string, opts ...Option) *Parser {
	p := &Parser{
		grammar:     g,
		source:      source,
		startSymbol: FileInput,
		usedNames:   make(map[string][]*tree.Leaf),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs the parser once; later calls return the same result.
func (p *Parser) Parse() (tree.Element, error) {
	if p.parsed == nil && p.err == nil {
		p.parsed, p.err = p.parse()
	}
	return p.parsed, p.err
}

// Module returns the parsed tree as a module, or nil if the start symbol was
// not file_input or parsing failed.
func (p *Parser) Module() *tree.Module {
	root, err := p.Parse()
	if err != nil {
		return nil
	}
	m, _ := root.(*tree.Module)
	return m
}

// SyntaxErrors returns the errors recovered from, in source order.
func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.syntaxErrors
}

// UsedNames maps every identifier to its Name leaves in source order.
func (p *Parser) UsedNames() map[string][]*tree.Leaf {
	return p.usedNames
}

func (p *Parser) parse() (tree.Element, error) {
	start, ok := p.grammar.Start(p.startSymbol)
	if !ok {
		return nil, fmt.Errorf("parser: unknown start symbol %q", p.startSymbol)
	}

	tokens := p.tokens
	if tokens == nil {
		source := p.source
		// Every logical line must end in a newline.
		if p.startSymbol == FileInput && !strings.HasSuffix(source, "\n") {
			source += "\n"
			p.addedNewline = true
		}
		tokens = tokenize.New(source)
	}

	cb := automaton.Callbacks{
		MakeNode: p.makeNode,
		MakeLeaf: p.makeLeaf,
		Reject:   p.strictReject,
	}
	if p.recovering {
		p.indents = newIndentFilter(tokens)
		tokens = p.indents
		cb.Reject = p.recover
	}

	a, err := automaton.New(p.grammar, start, cb)
	if err != nil {
		return nil, err
	}
	root, err := a.Parse(tokens)
	if p.recovering && errors.Is(err, automaton.ErrIncomplete) {
		log.Debugf("input ended inside %d open rules", len(*a.Stack())-1)
		removeFrames(a.Stack(), 1)
		root, err = a.Finish(), nil
	}
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, fmt.Errorf("parser: %w", err)
	}

	if p.startSymbol == FileInput {
		if _, ok := root.(*tree.Module); !ok {
			// A file with a single statement collapses to that statement.
			root = p.makeNode(p.grammar, start, []tree.Element{root})
		}
	}
	if p.addedNewline {
		removeLastNewline(root)
	}
	if m, ok := root.(*tree.Module); ok {
		m.UsedNames = p.usedNames
		m.Path = p.path
	}
	return root, nil
}

// removeLastNewline undoes the newline added to the source before
// tokenizing. It is either the end of the end marker's prefix or the value
// of the leaf just before the end marker.
func removeLastNewline(root tree.Element) {
	endmarker := root.LastLeaf()
	if endmarker == nil {
		return
	}
	if prefix := endmarker.Prefix; strings.HasSuffix(prefix, "\n") {
		prefix = prefix[:len(prefix)-1]
		endmarker.Prefix = prefix
		lastEnd := 0
		if !strings.Contains(prefix, "\n") {
			if prev := tree.PreviousLeaf(endmarker); prev != nil {
				lastEnd = prev.EndPos().Column
			}
		}
		lastLine := prefix[strings.LastIndex(prefix, "\n")+1:]
		endmarker.Pos = token.Position{Line: endmarker.Pos.Line - 1, Column: lastEnd + len(lastLine)}
		return
	}

	newline := tree.PreviousLeaf(endmarker)
	if newline == nil || !strings.HasSuffix(newline.Value, "\n") {
		return
	}
	newline.Value = newline.Value[:len(newline.Value)-1]
	endmarker.Pos = token.Position{Line: newline.Pos.Line, Column: newline.Pos.Column + len(newline.Value)}
}
