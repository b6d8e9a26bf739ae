package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pyparse/python/automaton"
	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tree"
)

func frame(t *testing.T, g *grammar.Grammar, symbol string, children ...tree.Element) *automaton.Frame {
	t.Helper()
	n, ok := g.Start(symbol)
	require.True(t, ok, symbol)
	return &automaton.Frame{DFA: g.DFA(n), Symbol: n, Children: children}
}

func leaf(value string) *tree.Leaf {
	return tree.NewLeaf(tree.LeafName, value, token.Position{Line: 1}, "")
}

func TestRecoveryAnchor(t *testing.T) {
	g := grammar.Python()

	tests := []struct {
		name   string
		stack  automaton.Stack
		index  int
		symbol string
	}{
		{
			name: "module",
			stack: automaton.Stack{
				frame(t, g, "file_input"),
				frame(t, g, "stmt"),
				frame(t, g, "funcdef", leaf("def")),
			},
			index:  0,
			symbol: "file_input",
		},
		{
			name: "block with statements",
			stack: automaton.Stack{
				frame(t, g, "file_input"),
				frame(t, g, "if_stmt", leaf("if"), leaf("x"), leaf(":")),
				frame(t, g, "suite", leaf("\n"), leaf("")),
				frame(t, g, "stmt"),
			},
			index:  2,
			symbol: "suite",
		},
		{
			name: "block before its indent",
			stack: automaton.Stack{
				frame(t, g, "file_input"),
				frame(t, g, "if_stmt", leaf("if"), leaf("x"), leaf(":")),
				frame(t, g, "suite", leaf("\n")),
			},
			index:  0,
			symbol: "file_input",
		},
		{
			name: "innermost wins",
			stack: automaton.Stack{
				frame(t, g, "file_input"),
				frame(t, g, "suite", leaf("\n"), leaf("")),
				frame(t, g, "stmt"),
				frame(t, g, "simple_stmt", leaf("a"), leaf(";")),
				frame(t, g, "small_stmt"),
			},
			index:  3,
			symbol: "simple_stmt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, symbol := recoveryAnchor(g, tt.stack)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.symbol, symbol)
		})
	}
}

func TestRemoveFrames(t *testing.T) {
	g := grammar.Python()

	t.Run("moves content into one error node", func(t *testing.T) {
		def, f, paren := leaf("def"), leaf("f"), leaf("(")
		stack := automaton.Stack{
			frame(t, g, "file_input"),
			frame(t, g, "stmt"),
			frame(t, g, "funcdef", def, f),
			frame(t, g, "parameters", paren),
		}
		require.True(t, removeFrames(&stack, 1))
		require.Len(t, stack, 1)

		root := stack[0]
		require.Len(t, root.Children, 1)
		en, ok := root.Children[0].(*tree.Node)
		require.True(t, ok)
		assert.True(t, en.IsError())
		assert.Equal(t, []tree.Element{def, f, paren}, en.Children)
		assert.Same(t, en, def.Parent())
	})

	t.Run("nothing to move", func(t *testing.T) {
		stack := automaton.Stack{
			frame(t, g, "file_input", leaf("a")),
			frame(t, g, "stmt"),
			frame(t, g, "compound_stmt"),
		}
		assert.False(t, removeFrames(&stack, 1))
		assert.Len(t, stack, 1)
		assert.Len(t, stack[0].Children, 1)
	})

	t.Run("start beyond the stack", func(t *testing.T) {
		stack := automaton.Stack{frame(t, g, "file_input")}
		assert.False(t, removeFrames(&stack, 1))
		assert.Len(t, stack, 1)
	})
}
