package parser

import (
	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/token"
	"github.com/dhamidi/pyparse/python/tree"
)

// nodeKinds selects the node variant for a grammar symbol. Symbols that are
// not listed become generic nodes.
var nodeKinds = map[string]tree.NodeKind{
	"expr_stmt":      tree.KindExprStmt,
	"classdef":       tree.KindClass,
	"funcdef":        tree.KindFunction,
	"file_input":     tree.KindModule,
	"import_name":    tree.KindImportName,
	"import_from":    tree.KindImportFrom,
	"break_stmt":     tree.KindKeywordStatement,
	"continue_stmt":  tree.KindKeywordStatement,
	"return_stmt":    tree.KindReturnStmt,
	"raise_stmt":     tree.KindKeywordStatement,
	"yield_expr":     tree.KindYieldExpr,
	"del_stmt":       tree.KindKeywordStatement,
	"pass_stmt":      tree.KindKeywordStatement,
	"global_stmt":    tree.KindGlobalStmt,
	"nonlocal_stmt":  tree.KindKeywordStatement,
	"assert_stmt":    tree.KindAssertStmt,
	"if_stmt":        tree.KindIfStmt,
	"with_stmt":      tree.KindWithStmt,
	"for_stmt":       tree.KindForStmt,
	"while_stmt":     tree.KindWhileStmt,
	"try_stmt":       tree.KindTryStmt,
	"comp_for":       tree.KindCompFor,
	"decorator":      tree.KindDecorator,
	"lambdef":        tree.KindLambda,
	"lambdef_nocond": tree.KindLambda,
}

// makeNode builds the tree element for a completed rule.
func (p *Parser) makeNode(g *grammar.Grammar, symbol int, children []tree.Element) tree.Element {
	name := g.Symbol(symbol)
	kind, ok := nodeKinds[name]
	if !ok {
		kind = tree.KindNode
	}
	switch {
	case kind == tree.KindModule:
		return tree.NewModule(children)
	case name == "suite" && len(children) >= 3:
		// INDENT and DEDENT are virtual: no text, no prefix.
		kept := make([]tree.Element, 0, len(children)-2)
		kept = append(kept, children[0])
		kept = append(kept, children[2:len(children)-1]...)
		children = kept
	}
	return tree.NewNode(kind, name, children)
}

// makeLeaf builds the leaf for an accepted token and registers names.
func (p *Parser) makeLeaf(g *grammar.Grammar, typ token.Type, value, prefix string, start token.Position) tree.Element {
	switch typ {
	case token.NAME:
		if g.IsKeyword(value) {
			return tree.NewLeaf(tree.LeafKeyword, value, start, prefix)
		}
		name := tree.NewLeaf(tree.LeafName, value, start, prefix)
		p.usedNames[value] = append(p.usedNames[value], name)
		return name
	case token.STRING:
		return tree.NewLeaf(tree.LeafString, value, start, prefix)
	case token.NUMBER:
		return tree.NewLeaf(tree.LeafNumber, value, start, prefix)
	case token.NEWLINE:
		return tree.NewLeaf(tree.LeafNewline, value, start, prefix)
	case token.ENDMARKER:
		return tree.NewLeaf(tree.LeafEndMarker, value, start, prefix)
	default:
		return tree.NewLeaf(tree.LeafOperator, value, start, prefix)
	}
}
