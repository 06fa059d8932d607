package ast

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/agentstation/codesync/pkg/errors"
)

// StatementKind classifies a top-level statement of a block.
type StatementKind string

// Statement kinds recognized in function bodies.
const (
	StmtVariable   StatementKind = "variable"
	StmtReturn     StatementKind = "return"
	StmtExpression StatementKind = "expression"
	StmtIf         StatementKind = "if"
	StmtThrow      StatementKind = "throw"
	StmtJSX        StatementKind = "jsx"
	StmtComment    StatementKind = "comment"
	StmtOther      StatementKind = "other"
)

// Statement is one top-level statement of a block.
type Statement struct {
	Kind StatementKind
	Text string
}

const bodyWrapper = "function __body__() {\n"

// Statements splits a function body into its top-level statements.
// Results are cached by body text.
func (p *Parser) Statements(body string) ([]Statement, error) {
	if cached, ok := p.cache.Get(body); ok {
		return append([]Statement(nil), cached...), nil
	}

	src := []byte(bodyWrapper + body + "\n}\n")
	tree, err := p.tree(context.Background(), src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := p.syntaxError(root)
		if pe, ok := perr.(*errors.ParseError); ok {
			pe.Message = "statement block: " + pe.Message
			if pe.Line > 1 {
				pe.Line--
			}
		}
		return nil, perr
	}
	fn := root.NamedChild(0)
	if fn == nil || fn.Type() != "function_declaration" {
		return nil, errors.NewParseError(string(p.lang), "", "statement block is not a function body", errors.ErrParse)
	}
	block := fn.ChildByFieldName("body")
	if block == nil {
		return nil, errors.NewParseError(string(p.lang), "", "statement block has no body", errors.ErrParse)
	}

	b := &builder{src: src}
	var out []Statement
	for i := 0; i < int(block.NamedChildCount()); i++ {
		ch := block.NamedChild(i)
		out = append(out, Statement{Kind: classify(ch), Text: b.text(ch)})
	}
	p.cache.Add(body, out)
	return append([]Statement(nil), out...), nil
}

func classify(n *sitter.Node) StatementKind {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		return StmtVariable
	case "return_statement":
		if returnsJSX(n) {
			return StmtJSX
		}
		return StmtReturn
	case "expression_statement":
		return StmtExpression
	case "if_statement":
		return StmtIf
	case "throw_statement":
		return StmtThrow
	case "comment":
		return StmtComment
	}
	return StmtOther
}

func returnsJSX(n *sitter.Node) bool {
	if n.NamedChildCount() == 0 {
		return false
	}
	v := n.NamedChild(0)
	for v != nil && v.Type() == "parenthesized_expression" && v.NamedChildCount() > 0 {
		v = v.NamedChild(0)
	}
	if v == nil {
		return false
	}
	switch v.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}
