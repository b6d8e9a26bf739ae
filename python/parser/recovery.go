package parser

import (
	"strings"

	"github.com/dhamidi/pyparse/python/automaton"
	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tree"
)

// strictReject is installed when recovery is off: the first rejected token
// ends the parse.
func (p *Parser) strictReject(g *grammar.Grammar, stack *automaton.Stack, tok token.Token, resubmit func(token.Token) error) error {
	return &SyntaxError{Msg: "SyntaxError: invalid syntax", Pos: tok.Start, Token: tok.Value}
}

// recover discards the fragment that tok does not fit into. Everything built
// above the nearest block (or the module) is wrapped in an error node and the
// token is tried again from there. If there was nothing to discard, the token
// itself becomes an error leaf, or, for an INDENT, the matching DEDENT is
// scheduled to be dropped.
func (p *Parser) recover(g *grammar.Grammar, stack *automaton.Stack, tok token.Token, resubmit func(token.Token) error) error {
	p.addSyntaxError(tok)

	index, symbol := recoveryAnchor(g, *stack)
	if symbol == "simple_stmt" && index >= 2 {
		// Keep the statements that were completed on this line.
		frame := (*stack)[index]
		nodes := frame.Children
		frame.Children = nil
		index -= 2
		anchor := (*stack)[index]
		anchor.Children = append(anchor.Children, tree.NewNode(tree.KindNode, "simple_stmt", nodes))
	}

	if removeFrames(stack, index+1) {
		log.Debugf("recovered at %s: discarded frames above %s, resubmitting %s",
			tok.Start, g.Symbol((*stack)[index].Symbol), tok.Type)
		return resubmit(tok)
	}

	if tok.Type == token.INDENT {
		log.Debugf("unexpected indent at %s", tok.Start)
		if p.indents != nil {
			p.indents.omitNextDedent()
		}
		return nil
	}

	log.Debugf("error leaf %s %q at %s", tok.Type, tok.Value, tok.Start)
	top := stack.Top()
	top.Children = append(top.Children,
		tree.NewErrorLeaf(strings.ToLower(tok.Type.String()), tok.Value, tok.Start, tok.Prefix))
	return nil
}

// recoveryAnchor finds the innermost frame that survives recovery: the
// module, a block that already holds a statement, or a statement line with
// at least one complete statement. Frames are examined innermost first.
func recoveryAnchor(g *grammar.Grammar, stack automaton.Stack) (int, string) {
	index := len(stack) - 1
	var symbol string
	for ; index >= 0; index-- {
		frame := stack[index]
		symbol = g.Symbol(frame.Symbol)
		if symbol == "file_input" {
			break
		}
		if (symbol == "suite" || symbol == "simple_stmt") && len(frame.Children) > 1 {
			break
		}
	}
	if index < 0 {
		index = 0
	}
	return index, symbol
}

// removeFrames truncates the stack to start frames. The children of the
// removed frames, from the first one that has any, move into one error node
// under the new top frame. It reports whether anything was moved.
func removeFrames(stack *automaton.Stack, start int) bool {
	s := *stack
	if start >= len(s) {
		return false
	}
	found := false
	var discarded []tree.Element
	for _, frame := range s[start:] {
		if len(frame.Children) > 0 {
			found = true
		}
		if found {
			discarded = append(discarded, frame.Children...)
			frame.Children = nil
		}
	}
	if found {
		anchor := s[start-1]
		anchor.Children = append(anchor.Children, tree.NewErrorNode(discarded))
	}
	*stack = s[:start]
	return found
}

// addSyntaxError records a rejection. A token that is rejected again after
// being resubmitted is reported once.
func (p *Parser) addSyntaxError(tok token.Token) {
	if n := len(p.syntaxErrors); n > 0 && p.syntaxErrors[n-1].Pos == tok.Start {
		return
	}
	msg := "invalid syntax"
	switch tok.Type {
	case token.INDENT:
		msg = "unexpected indent"
	case token.ERRORTOKEN:
		msg = "invalid token"
	case token.ENDMARKER:
		msg = "unexpected end of file"
	}
	p.syntaxErrors = append(p.syntaxErrors, &SyntaxError{Msg: msg, Pos: tok.Start, Token: tok.Value})
}
