package grammar

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/pyparse/python/token"
)

// build reads an EBNF grammar and turns every production into a DFA. Symbols
// are numbered in the order their productions appear in the source.
func build(filename string, src io.Reader) (*Grammar, error) {
	decls, err := ebnf.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("%s: grammar has no productions", filename)
	}

	prods := make([]*ebnf.Production, 0, len(decls))
	for _, p := range decls {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})

	g := &Grammar{
		SymbolToNumber: make(map[string]int),
		NumberToSymbol: make(map[int]string),
		dfas:           make(map[int]*DFA),
		keywords:       make(map[string]int),
		operators:      make(map[string]int),
		tokens:         make(map[token.Type]int),
	}
	for i, p := range prods {
		n := FirstSymbol + i
		g.SymbolToNumber[p.Name.String] = n
		g.NumberToSymbol[n] = p.Name.String
	}

	b := &builder{g: g, labels: make(map[Label]int), computing: make(map[int]bool)}
	for _, p := range prods {
		dfa, err := b.makeDFA(p)
		if err != nil {
			return nil, err
		}
		g.dfas[dfa.Symbol] = dfa
	}
	for _, p := range prods {
		if _, err := b.first(g.SymbolToNumber[p.Name.String]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

type builder struct {
	g         *Grammar
	labels    map[Label]int
	computing map[int]bool
}

type nfaState struct {
	id   int
	arcs []nfaArc
}

// nfaArc with an empty label is an epsilon transition.
type nfaArc struct {
	label string
	next  *nfaState
}

type nfa struct {
	states []*nfaState
}

func (n *nfa) newState() *nfaState {
	s := &nfaState{id: len(n.states)}
	n.states = append(n.states, s)
	return s
}

func (s *nfaState) addArc(label string, next *nfaState) {
	s.arcs = append(s.arcs, nfaArc{label: label, next: next})
}

func (n *nfa) build(expr ebnf.Expression) (*nfaState, *nfaState, error) {
	switch x := expr.(type) {
	case ebnf.Alternative:
		a, z := n.newState(), n.newState()
		for _, alt := range x {
			s, e, err := n.build(alt)
			if err != nil {
				return nil, nil, err
			}
			a.addArc("", s)
			e.addArc("", z)
		}
		return a, z, nil
	case ebnf.Sequence:
		var first, last *nfaState
		for _, item := range x {
			s, e, err := n.build(item)
			if err != nil {
				return nil, nil, err
			}
			if first == nil {
				first = s
			} else {
				last.addArc("", s)
			}
			last = e
		}
		if first == nil {
			return nil, nil, fmt.Errorf("%s: empty sequence", x.Pos())
		}
		return first, last, nil
	case *ebnf.Name:
		a, z := n.newState(), n.newState()
		a.addArc(x.String, z)
		return a, z, nil
	case *ebnf.Token:
		a, z := n.newState(), n.newState()
		a.addArc(strconv.Quote(x.String), z)
		return a, z, nil
	case *ebnf.Group:
		return n.build(x.Body)
	case *ebnf.Option:
		s, e, err := n.build(x.Body)
		if err != nil {
			return nil, nil, err
		}
		s.addArc("", e)
		return s, e, nil
	case *ebnf.Repetition:
		s, e, err := n.build(x.Body)
		if err != nil {
			return nil, nil, err
		}
		a := n.newState()
		a.addArc("", s)
		e.addArc("", a)
		return a, a, nil
	case nil:
		return nil, nil, fmt.Errorf("empty expression")
	default:
		return nil, nil, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
	}
}

type nfaSet map[*nfaState]bool

func (set nfaSet) addClosure(s *nfaState) {
	if set[s] {
		return
	}
	set[s] = true
	for _, a := range s.arcs {
		if a.label == "" {
			set.addClosure(a.next)
		}
	}
}

func (set nfaSet) members() []*nfaState {
	out := make([]*nfaState, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (set nfaSet) key() string {
	ids := make([]string, 0, len(set))
	for _, s := range set.members() {
		ids = append(ids, strconv.Itoa(s.id))
	}
	return strings.Join(ids, ",")
}

// makeDFA runs the subset construction over the production's NFA.
func (b *builder) makeDFA(p *ebnf.Production) (*DFA, error) {
	name := p.Name.String
	if p.Expr == nil {
		return nil, fmt.Errorf("%s: rule %s is empty", p.Pos(), name)
	}
	var n nfa
	start, end, err := n.build(p.Expr)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}

	type pending struct {
		set  nfaSet
		arcs []struct {
			label string
			next  int
		}
	}
	initial := nfaSet{}
	initial.addClosure(start)
	states := []*pending{{set: initial}}
	index := map[string]int{initial.key(): 0}

	for i := 0; i < len(states); i++ {
		var order []string
		targets := map[string]nfaSet{}
		for _, s := range states[i].set.members() {
			for _, a := range s.arcs {
				if a.label == "" {
					continue
				}
				if _, ok := targets[a.label]; !ok {
					order = append(order, a.label)
					targets[a.label] = nfaSet{}
				}
				targets[a.label].addClosure(a.next)
			}
		}
		for _, label := range order {
			set := targets[label]
			k := set.key()
			next, ok := index[k]
			if !ok {
				next = len(states)
				index[k] = next
				states = append(states, &pending{set: set})
			}
			states[i].arcs = append(states[i].arcs, struct {
				label string
				next  int
			}{label, next})
		}
	}

	dfa := &DFA{Symbol: b.g.SymbolToNumber[name], Name: name}
	for _, st := range states {
		state := State{Final: st.set[end]}
		for _, a := range st.arcs {
			label, err := b.label(a.label)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}
			state.Arcs = append(state.Arcs, Arc{Label: label, Next: a.next})
		}
		dfa.States = append(dfa.States, state)
	}
	return dfa, nil
}

// label interns a terminal or non-terminal written as it appeared on an
// NFA arc: quoted for literal tokens, bare for names.
func (b *builder) label(text string) (int, error) {
	var l Label
	if strings.HasPrefix(text, `"`) {
		value, err := strconv.Unquote(text)
		if err != nil {
			return 0, err
		}
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsLetter(r) {
			l = Label{Type: int(token.NAME), Value: value}
		} else {
			l = Label{Type: int(token.OP), Value: value}
		}
	} else if sym, ok := b.g.SymbolToNumber[text]; ok {
		l = Label{Type: sym}
	} else if typ, ok := token.LookupType(text); ok {
		l = Label{Type: int(typ)}
	} else {
		return 0, fmt.Errorf("undefined name %s", text)
	}

	if idx, ok := b.labels[l]; ok {
		return idx, nil
	}
	idx := len(b.g.Labels)
	b.g.Labels = append(b.g.Labels, l)
	b.labels[l] = idx
	switch {
	case l.IsSymbol():
	case l.Value == "":
		b.g.tokens[token.Type(l.Type)] = idx
	case l.Type == int(token.NAME):
		b.g.keywords[l.Value] = idx
	default:
		b.g.operators[l.Value] = idx
	}
	return idx, nil
}

// first computes the set of terminal labels that can start sym. Rules must
// not derive the empty string, recurse on the left, or have two alternatives
// starting with the same terminal.
func (b *builder) first(sym int) (map[int]bool, error) {
	dfa := b.g.dfas[sym]
	if dfa.First != nil {
		return dfa.First, nil
	}
	if b.computing[sym] {
		return nil, fmt.Errorf("rule %s is left-recursive", dfa.Name)
	}
	if dfa.States[0].Final {
		return nil, fmt.Errorf("rule %s can derive the empty string", dfa.Name)
	}
	b.computing[sym] = true
	defer delete(b.computing, sym)

	total := map[int]bool{}
	owner := map[int]int{}
	for _, arc := range dfa.States[0].Arcs {
		l := b.g.Labels[arc.Label]
		set := map[int]bool{arc.Label: true}
		if l.IsSymbol() {
			sub, err := b.first(l.Type)
			if err != nil {
				return nil, err
			}
			set = sub
		}
		for t := range set {
			if prev, ok := owner[t]; ok && prev != arc.Label {
				return nil, fmt.Errorf("rule %s is ambiguous: %s is in the first sets of %s and %s",
					dfa.Name, b.g.LabelString(t), b.g.LabelString(prev), b.g.LabelString(arc.Label))
			}
			owner[t] = arc.Label
			total[t] = true
		}
	}
	dfa.First = total
	return total, nil
}
