// Package body renders statement configurations to source text and decides
// how a freshly rendered block is merged into an existing function body.
package body

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/constants"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

// RenderFunc renders one statement. Nested blocks are rendered through r.
type RenderFunc func(r *Renderers, s schema.Statement) (string, error)

// Renderers maps statement kinds to their renderers.
type Renderers struct {
	fns map[schema.StatementKind]RenderFunc
}

// NewRenderers returns a registry holding the built-in statement kinds.
func NewRenderers() *Renderers {
	r := &Renderers{fns: make(map[schema.StatementKind]RenderFunc)}
	r.Register(schema.StatementVariable, renderVariable)
	r.Register(schema.StatementReturn, renderReturn)
	r.Register(schema.StatementExpression, renderExpression)
	r.Register(schema.StatementIf, renderIf)
	r.Register(schema.StatementThrow, renderThrow)
	r.Register(schema.StatementJSX, renderJSX)
	r.Register(schema.StatementRaw, renderRaw)
	r.Register(schema.StatementJSXElement, renderJSX)
	r.Register(schema.StatementRawFragment, renderRaw)
	return r
}

// Register adds or replaces the renderer for kind.
func (r *Renderers) Register(kind schema.StatementKind, fn RenderFunc) {
	r.fns[kind] = fn
}

// Has reports whether a renderer exists for kind.
func (r *Renderers) Has(kind schema.StatementKind) bool {
	_, ok := r.fns[kind]
	return ok
}

// Render renders a single statement.
func (r *Renderers) Render(s schema.Statement) (string, error) {
	fn, ok := r.fns[s.Kind]
	if !ok {
		return "", errors.UnknownKind("statement", string(s.Kind))
	}
	return fn(r, s)
}

// Block renders statements one per line.
func (r *Renderers) Block(stmts []schema.Statement) (string, error) {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		text, err := r.Render(s)
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func missing(kind schema.StatementKind, field string) error {
	return errors.NewConfigError("statement", string(kind)+" statement requires "+field, nil)
}

func terminate(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ";") || strings.HasSuffix(s, "}") {
		return s
	}
	return s + ";"
}

func renderVariable(_ *Renderers, s schema.Statement) (string, error) {
	if s.Name == "" {
		return "", missing(s.Kind, "a name")
	}
	kind := s.DeclKind
	if kind == "" {
		kind = "const"
	}
	out := kind + " " + s.Name
	if s.Type != "" {
		out += ": " + s.Type
	}
	if s.Initializer != "" {
		out += " = " + strings.TrimSuffix(strings.TrimSpace(s.Initializer), ";")
	}
	return out + ";", nil
}

func renderReturn(_ *Renderers, s schema.Statement) (string, error) {
	if s.Value == "" {
		return "return;", nil
	}
	return terminate("return " + s.Value), nil
}

func renderExpression(_ *Renderers, s schema.Statement) (string, error) {
	if strings.TrimSpace(s.Value) == "" {
		return "", missing(s.Kind, "a value")
	}
	return terminate(s.Value), nil
}

func renderThrow(_ *Renderers, s schema.Statement) (string, error) {
	if strings.TrimSpace(s.Value) == "" {
		return "", missing(s.Kind, "a value")
	}
	return terminate("throw " + s.Value), nil
}

func renderIf(r *Renderers, s schema.Statement) (string, error) {
	if strings.TrimSpace(s.Condition) == "" {
		return "", missing(s.Kind, "a condition")
	}
	then, err := r.Block(s.Then)
	if err != nil {
		return "", err
	}
	out := "if (" + s.Condition + ") " + braces(then)
	if len(s.Else) > 0 {
		otherwise, err := r.Block(s.Else)
		if err != nil {
			return "", err
		}
		out += " else " + braces(otherwise)
	}
	return out, nil
}

func braces(inner string) string {
	if inner == "" {
		return "{}"
	}
	return "{\n" + ast.Indent(inner, constants.IndentUnit) + "\n}"
}

func renderJSX(_ *Renderers, s schema.Statement) (string, error) {
	if s.Element == nil {
		return "", missing(s.Kind, "an element")
	}
	el, err := element(*s.Element)
	if err != nil {
		return "", err
	}
	return "return (" + el + ");", nil
}

func element(el schema.JSXElement) (string, error) {
	if el.Tag == "" {
		return "", missing(schema.StatementJSX, "a tag on every element")
	}
	var b strings.Builder
	b.WriteString("<" + el.Tag)
	for _, p := range el.Props {
		b.WriteString(" " + p.Name)
		switch {
		case p.Expr != "":
			b.WriteString("={" + p.Expr + "}")
		case p.Text != "":
			b.WriteString("=\"" + p.Text + "\"")
		}
	}
	if len(el.Children) == 0 && el.Text == "" {
		b.WriteString(" />")
		return b.String(), nil
	}
	b.WriteString(">")
	if len(el.Children) == 0 {
		b.WriteString(el.Text)
	}
	for _, c := range el.Children {
		child, err := element(c)
		if err != nil {
			return "", err
		}
		b.WriteString(child)
	}
	b.WriteString("</" + el.Tag + ">")
	return b.String(), nil
}

func renderRaw(_ *Renderers, s schema.Statement) (string, error) {
	if strings.TrimSpace(s.Template) == "" {
		return "", missing(s.Kind, "a template")
	}
	tmpl, err := template.New("fragment").Option("missingkey=error").Parse(s.Template)
	if err != nil {
		return "", errors.NewConfigError("statement", "malformed fragment template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s.Params); err != nil {
		return "", errors.NewConfigError("statement", "fragment template failed", err)
	}
	return ast.Dedent(buf.String()), nil
}
