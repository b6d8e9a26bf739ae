package automaton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tokenize"
	"github.com/dhamidi/pyparse/python/tree"
)

func callbacks() Callbacks {
	return Callbacks{
		MakeNode: func(g *grammar.Grammar, symbol int, children []tree.Element) tree.Element {
			return tree.NewNode(tree.KindNode, g.Symbol(symbol), children)
		},
		MakeLeaf: func(g *grammar.Grammar, typ token.Type, value, prefix string, start token.Position) tree.Element {
			return tree.NewLeaf(tree.LeafName, value, start, prefix)
		},
	}
}

func start(t *testing.T, name string) (*grammar.Grammar, int) {
	t.Helper()
	g := grammar.Python()
	n, ok := g.Start(name)
	require.True(t, ok)
	return g, n
}

func TestParse(t *testing.T) {
	g, n := start(t, "file_input")
	a, err := New(g, n, callbacks())
	require.NoError(t, err)

	root, err := a.Parse(tokenize.New("x = 1\nif x:\n    y\n"))
	require.NoError(t, err)
	assert.True(t, a.Done())
	assert.Same(t, root, a.Root())

	node, ok := root.(*tree.Node)
	require.True(t, ok)
	assert.Equal(t, "file_input", node.Type)
	require.Len(t, node.Children, 3)
	assert.Equal(t, "simple_stmt", node.Children[0].(*tree.Node).Type)
	assert.Equal(t, "if_stmt", node.Children[1].(*tree.Node).Type)
	assert.Equal(t, "x = 1\nif x:\n    y\n", root.Code())
}

func TestSingleChildRulesCollapse(t *testing.T) {
	g, n := start(t, "eval_input")
	a, err := New(g, n, callbacks())
	require.NoError(t, err)

	root, err := a.Parse(tokenize.New("x"))
	require.NoError(t, err)
	node := root.(*tree.Node)
	assert.Equal(t, "eval_input", node.Type)
	require.Len(t, node.Children, 2)
	leaf, ok := node.Children[0].(*tree.Leaf)
	require.True(t, ok, "test chain collapsed to %s", node.Children[0])
	assert.Equal(t, "x", leaf.Value)
}

func TestRejectWithoutHandler(t *testing.T) {
	g, n := start(t, "file_input")
	a, err := New(g, n, callbacks())
	require.NoError(t, err)

	_, err = a.Parse(tokenize.New("x = )\n"))
	var re *RejectError
	require.True(t, errors.As(err, &re), "error %v", err)
	assert.Equal(t, ")", re.Token.Value)
	assert.Equal(t, token.Position{Line: 1, Column: 4}, re.Token.Start)
	assert.NotEmpty(t, re.Expected)

	a, err = New(g, n, callbacks())
	require.NoError(t, err)
	_, err = a.Parse(tokenize.New("x $\n"))
	require.True(t, errors.As(err, &re))
	assert.Equal(t, token.ERRORTOKEN, re.Token.Type)
}

func TestIncomplete(t *testing.T) {
	g, n := start(t, "file_input")
	a, err := New(g, n, callbacks())
	require.NoError(t, err)

	tokens := tokenize.Tokenize("x = 1\n")
	_, err = a.Parse(token.NewSliceStream(tokens[:len(tokens)-1]))
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Greater(t, len(*a.Stack()), 0)

	root := a.Finish()
	require.NotNil(t, root)
	assert.Equal(t, "x = 1\n", root.Code())
	assert.Empty(t, *a.Stack())
}

func TestTooMuchInput(t *testing.T) {
	g, n := start(t, "file_input")
	a, err := New(g, n, callbacks())
	require.NoError(t, err)

	_, err = a.Parse(tokenize.New(""))
	require.NoError(t, err)
	_, err = a.AddToken(token.Token{Type: token.NAME, Value: "x"})
	assert.ErrorIs(t, err, ErrTooMuchInput)
}

func TestRejectCanResubmit(t *testing.T) {
	g, n := start(t, "file_input")
	cb := callbacks()
	var rejected []string
	cb.Reject = func(g *grammar.Grammar, stack *Stack, tok token.Token, resubmit func(token.Token) error) error {
		rejected = append(rejected, tok.Value)
		// Drop everything but the start rule and try again from there.
		*stack = (*stack)[:1]
		if len(rejected) > 1 {
			top := stack.Top()
			top.Children = append(top.Children, tree.NewErrorLeaf("op", tok.Value, tok.Start, tok.Prefix))
			return nil
		}
		return resubmit(tok)
	}
	a, err := New(g, n, cb)
	require.NoError(t, err)

	root, err := a.Parse(tokenize.New("x = )\ny\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{")", ")"}, rejected)
	assert.Equal(t, " )\ny\n", root.Code())
}

func TestNewValidates(t *testing.T) {
	g := grammar.Python()
	_, err := New(g, 1, callbacks())
	assert.Error(t, err)
	_, err = New(g, grammar.FirstSymbol, Callbacks{})
	assert.Error(t, err)
}
