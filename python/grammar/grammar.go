// Package grammar provides the parse tables consumed by the LL(1) automaton:
// symbol numbering, the keyword set, terminal labels and one DFA per grammar
// rule together with its first set.
//
// The tables are built once from the Python grammar embedded in this package
// and are immutable afterwards; a *Grammar may be shared between parses.
package grammar

import (
	_ "embed"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/pyparse/python/token"
)

//go:embed python.ebnf
var pythonGrammar string

// FirstSymbol is the number of the first grammar symbol. Smaller numbers are
// token types.
const FirstSymbol = 256

// Label is a terminal or non-terminal that can appear on a DFA arc. For
// terminals Type is a token type and Value the keyword or operator text (empty
// for plain token types). For non-terminals Type is the symbol number.
type Label struct {
	Type  int
	Value string
}

func (l Label) IsSymbol() bool {
	return l.Type >= FirstSymbol
}

type Arc struct {
	Label int
	Next  int
}

type State struct {
	Arcs  []Arc
	Final bool
}

// DFA recognizes the right-hand side of one rule.
type DFA struct {
	Symbol int
	Name   string
	States []State
	First  map[int]bool
}

// Grammar is the complete set of parse tables.
type Grammar struct {
	SymbolToNumber map[string]int
	NumberToSymbol map[int]string
	Labels         []Label

	dfas      map[int]*DFA
	keywords  map[string]int
	operators map[string]int
	tokens    map[token.Type]int
}

var (
	pythonOnce sync.Once
	python     *Grammar
)

// Python returns the tables for the embedded Python grammar.
func Python() *Grammar {
	pythonOnce.Do(func() {
		g, err := build("python.ebnf", strings.NewReader(pythonGrammar))
		if err != nil {
			panic("grammar: embedded Python grammar: " + err.Error())
		}
		python = g
	})
	return python
}

// Source returns the text of the embedded Python grammar.
func Source() string {
	return pythonGrammar
}

// DFA returns the automaton of the given symbol.
func (g *Grammar) DFA(symbol int) *DFA {
	return g.dfas[symbol]
}

// Start returns the symbol number of a start symbol name.
func (g *Grammar) Start(name string) (int, bool) {
	n, ok := g.SymbolToNumber[name]
	return n, ok
}

// Symbol returns the name of a symbol number.
func (g *Grammar) Symbol(number int) string {
	return g.NumberToSymbol[number]
}

// IsKeyword reports whether s is a reserved word of the grammar.
func (g *Grammar) IsKeyword(s string) bool {
	_, ok := g.keywords[s]
	return ok
}

// Keywords returns the reserved words in sorted order.
func (g *Grammar) Keywords() []string {
	out := make([]string, 0, len(g.keywords))
	for kw := range g.keywords {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Symbols returns all symbol names ordered by number.
func (g *Grammar) Symbols() []string {
	out := make([]string, len(g.NumberToSymbol))
	for n, name := range g.NumberToSymbol {
		out[n-FirstSymbol] = name
	}
	return out
}

// Classify maps a token to its terminal label. It reports false for tokens
// the grammar has no label for, such as error tokens or unknown operators.
func (g *Grammar) Classify(typ token.Type, value string) (int, bool) {
	switch typ {
	case token.NAME:
		if l, ok := g.keywords[value]; ok {
			return l, true
		}
	case token.OP:
		l, ok := g.operators[value]
		return l, ok
	}
	l, ok := g.tokens[typ]
	return l, ok
}

// LabelString renders a label for diagnostics.
func (g *Grammar) LabelString(label int) string {
	l := g.Labels[label]
	switch {
	case l.IsSymbol():
		return g.NumberToSymbol[l.Type]
	case l.Value != "":
		return "'" + l.Value + "'"
	default:
		return token.Type(l.Type).String()
	}
}

// Expected returns the terminals acceptable in the given state.
func (g *Grammar) Expected(dfa *DFA, state int) []string {
	seen := map[int]bool{}
	var out []string
	add := func(label int) {
		if !seen[label] {
			seen[label] = true
			out = append(out, g.LabelString(label))
		}
	}
	for _, arc := range dfa.States[state].Arcs {
		if g.Labels[arc.Label].IsSymbol() {
			sub := g.dfas[g.Labels[arc.Label].Type]
			labels := make([]int, 0, len(sub.First))
			for l := range sub.First {
				labels = append(labels, l)
			}
			sort.Ints(labels)
			for _, l := range labels {
				add(l)
			}
			continue
		}
		add(arc.Label)
	}
	return out
}
