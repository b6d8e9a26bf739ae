// Package automaton drives the LL(1) tables of a grammar over a token stream.
// It owns the parse stack and reports every completed rule and every accepted
// token through callbacks; what to build from them, and what to do with a
// token that does not fit, is left to the caller.
package automaton

import (
	"errors"
	"fmt"

	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tree"
)

var (
	// ErrIncomplete is returned when the token stream ends before the start
	// rule is complete.
	ErrIncomplete = errors.New("automaton: incomplete input")
	// ErrTooMuchInput is returned when a token arrives after the start rule
	// was completed.
	ErrTooMuchInput = errors.New("automaton: too much input")
)

// Frame is one rule in progress.
type Frame struct {
	DFA      *grammar.DFA
	State    int
	Symbol   int
	Children []tree.Element
}

// Stack holds the rules in progress, the start rule at index 0.
type Stack []*Frame

// Top returns the innermost frame, or nil for an empty stack.
func (s Stack) Top() *Frame {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Callbacks turn automaton events into tree elements.
type Callbacks struct {
	// MakeNode is called when a rule with other than exactly one child is
	// completed. Rules with one child collapse into that child.
	MakeNode func(g *grammar.Grammar, symbol int, children []tree.Element) tree.Element
	// MakeLeaf is called for every accepted token.
	MakeLeaf func(g *grammar.Grammar, typ token.Type, value, prefix string, start token.Position) tree.Element
	// Reject is called with the live stack when tok cannot be accepted. It
	// may rewrite the stack and feed tokens back through resubmit. A nil
	// Reject makes every rejection a *RejectError.
	Reject func(g *grammar.Grammar, stack *Stack, tok token.Token, resubmit func(token.Token) error) error
}

// RejectError reports a token the grammar does not accept in its place.
type RejectError struct {
	Token    token.Token
	Expected []string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("automaton: unexpected %s %q at %s", e.Token.Type, e.Token.Value, e.Token.Start)
}

// Automaton is a pgen-style LL(1) parser.
type Automaton struct {
	g     *grammar.Grammar
	cb    Callbacks
	stack Stack
	root  tree.Element
	done  bool
}

// New returns an automaton that recognizes the rule start.
func New(g *grammar.Grammar, start int, cb Callbacks) (*Automaton, error) {
	dfa := g.DFA(start)
	if dfa == nil {
		return nil, fmt.Errorf("automaton: unknown start symbol %d", start)
	}
	if cb.MakeNode == nil || cb.MakeLeaf == nil {
		return nil, errors.New("automaton: MakeNode and MakeLeaf are required")
	}
	return &Automaton{
		g:     g,
		cb:    cb,
		stack: Stack{{DFA: dfa, Symbol: start}},
	}, nil
}

// Stack exposes the parse stack. It is only meaningful while parsing.
func (a *Automaton) Stack() *Stack {
	return &a.stack
}

// Done reports whether the start rule has been completed.
func (a *Automaton) Done() bool {
	return a.done
}

// Root returns the completed tree, nil before Done.
func (a *Automaton) Root() tree.Element {
	return a.root
}

// Parse feeds every token of the stream to the automaton and returns the
// tree of the start rule. Tokens after the completing one are not read.
func (a *Automaton) Parse(tokens token.Stream) (tree.Element, error) {
	for {
		tok, ok := tokens.Next()
		if !ok {
			break
		}
		done, err := a.AddToken(tok)
		if err != nil {
			return nil, err
		}
		if done {
			return a.root, nil
		}
	}
	return nil, ErrIncomplete
}

// AddToken advances the automaton by one token. It reports true once the
// start rule is complete.
func (a *Automaton) AddToken(tok token.Token) (bool, error) {
	if a.done {
		return true, ErrTooMuchInput
	}
	label, ok := a.g.Classify(tok.Type, tok.Value)
	if !ok {
		return a.reject(tok)
	}

	for {
		top := a.stack.Top()
		state := top.DFA.States[top.State]

		pushed := false
		for _, arc := range state.Arcs {
			if arc.Label == label {
				a.shift(tok, arc.Next)
				for {
					top := a.stack.Top()
					st := top.DFA.States[top.State]
					if !st.Final || len(st.Arcs) > 0 {
						return false, nil
					}
					a.pop()
					if len(a.stack) == 0 {
						return true, nil
					}
				}
			}
			l := a.g.Labels[arc.Label]
			if l.IsSymbol() {
				sub := a.g.DFA(l.Type)
				if sub.First[label] {
					top.State = arc.Next
					a.push(sub)
					pushed = true
					break
				}
			}
		}
		if pushed {
			continue
		}

		if state.Final {
			a.pop()
			if len(a.stack) == 0 {
				return true, ErrTooMuchInput
			}
			continue
		}
		return a.reject(tok)
	}
}

func (a *Automaton) reject(tok token.Token) (bool, error) {
	if a.cb.Reject == nil {
		top := a.stack.Top()
		return false, &RejectError{Token: tok, Expected: a.g.Expected(top.DFA, top.State)}
	}
	err := a.cb.Reject(a.g, &a.stack, tok, func(t token.Token) error {
		_, err := a.AddToken(t)
		return err
	})
	return a.done, err
}

// Expected returns the terminals acceptable at the top of the stack.
func (a *Automaton) Expected() []string {
	top := a.stack.Top()
	if top == nil {
		return nil
	}
	return a.g.Expected(top.DFA, top.State)
}

// Finish completes every rule left on the stack as it is, innermost first,
// and returns the resulting tree.
func (a *Automaton) Finish() tree.Element {
	for len(a.stack) > 0 {
		a.pop()
	}
	return a.root
}

func (a *Automaton) shift(tok token.Token, next int) {
	top := a.stack.Top()
	leaf := a.cb.MakeLeaf(a.g, tok.Type, tok.Value, tok.Prefix, tok.Start)
	top.Children = append(top.Children, leaf)
	top.State = next
}

func (a *Automaton) push(dfa *grammar.DFA) {
	a.stack = append(a.stack, &Frame{DFA: dfa, Symbol: dfa.Symbol})
}

func (a *Automaton) pop() {
	top := a.stack.Top()
	a.stack = a.stack[:len(a.stack)-1]

	var el tree.Element
	if len(top.Children) == 1 {
		el = top.Children[0]
	} else {
		el = a.cb.MakeNode(a.g, top.Symbol, top.Children)
	}
	if parent := a.stack.Top(); parent != nil {
		parent.Children = append(parent.Children, el)
		return
	}
	a.root = el
	a.done = true
}
