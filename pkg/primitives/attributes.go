package primitives

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

// Attribute helpers shared by the declaration primitives. The set* helpers
// change a field only when it differs from a specified value and record the
// change; the check* helpers report the same differences as issues.

func visibility(scope string) string {
	if scope == "" {
		return "public"
	}
	return scope
}

func (b *base) setFlag(path string, have *bool, want bool) {
	if *have == want {
		return
	}
	b.mark(path, strconv.FormatBool(*have), strconv.FormatBool(want))
	*have = want
}

func (b *base) setType(path string, have *string, want string) {
	if want == "" || b.norm().EqualType(*have, want) {
		return
	}
	b.mark(path, *have, want)
	*have = want
}

func (b *base) setCode(path string, have *string, want string) {
	want = strings.TrimSuffix(strings.TrimSpace(want), ";")
	if want == "" || b.norm().Equal(*have, want) {
		return
	}
	b.mark(path, *have, want)
	*have = want
}

func (b *base) setScope(have *string, want string) {
	if want == "" || visibility(*have) == visibility(want) {
		return
	}
	b.mark("scope", *have, want)
	*have = want
}

func (b *base) checkType(is *issues, name, have, want string) {
	if want != "" && !b.norm().EqualType(have, want) {
		is.attr(name, have, want)
	}
}

func (b *base) checkCode(is *issues, name, have, want string) {
	want = strings.TrimSuffix(strings.TrimSpace(want), ";")
	if want != "" && !b.norm().Equal(have, want) {
		is.attr(name, have, want)
	}
}

func checkScope(is *issues, have, want string) {
	if want != "" && visibility(have) != visibility(want) {
		is.attr("scope", visibility(have), want)
	}
}

// Docs

func (b *base) setDoc(d *ast.Docs, want string) {
	want = strings.TrimSpace(want)
	if want == "" {
		return
	}
	old := ""
	if d.Doc != nil {
		if b.norm().Equal(d.Doc.Text, want) {
			return
		}
		old = d.Doc.Text
	}
	b.mark("doc", old, want)
	d.Doc = &ast.Doc{Text: want}
}

func (b *base) checkDoc(is *issues, d *ast.Docs, want string) {
	want = strings.TrimSpace(want)
	switch {
	case want == "":
	case d.Doc == nil:
		is.addf("is missing its doc comment")
	case !b.norm().Equal(d.Doc.Text, want):
		is.addf("has a doc comment that does not match")
	}
}

func newDoc(text string) ast.Docs {
	text = strings.TrimSpace(text)
	if text == "" {
		return ast.Docs{}
	}
	return ast.Docs{Doc: &ast.Doc{Text: text}}
}

// Decorators

func newDecorators(cfgs []schema.DecoratorConfig) ast.Decorations {
	var d ast.Decorations
	for _, c := range cfgs {
		d.Decorators = append(d.Decorators, newDecorator(c))
	}
	return d
}

func newDecorator(c schema.DecoratorConfig) *ast.Decorator {
	return &ast.Decorator{Name: strings.TrimPrefix(c.Name, "@"), Args: append([]string(nil), c.Args...), Call: true}
}

func findDecorator(d *ast.Decorations, name string) *ast.Decorator {
	name = strings.TrimPrefix(name, "@")
	for _, dec := range d.Decorators {
		if dec.Name == name {
			return dec
		}
	}
	return nil
}

func (b *base) argsMatch(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range have {
		if !b.norm().Equal(have[i], want[i]) {
			return false
		}
	}
	return true
}

// setDecorators adds missing decorators and rewrites mismatched arguments.
// Decorators not named in want are left alone.
func (b *base) setDecorators(path string, d *ast.Decorations, want []schema.DecoratorConfig) {
	for _, c := range want {
		dec := findDecorator(d, c.Name)
		if dec == nil {
			added := newDecorator(c)
			b.mark(path, "", ast.FormatDecorator(added))
			d.Decorators = append(d.Decorators, added)
			continue
		}
		if b.argsMatch(dec.Args, c.Args) {
			continue
		}
		old := ast.FormatDecorator(dec)
		dec.Args = append([]string(nil), c.Args...)
		dec.Call = true
		b.mark(path, old, ast.FormatDecorator(dec))
	}
}

func (b *base) checkDecorators(is *issues, d *ast.Decorations, want []schema.DecoratorConfig) {
	for _, c := range want {
		name := "@" + strings.TrimPrefix(c.Name, "@")
		dec := findDecorator(d, c.Name)
		if dec == nil {
			is.addf("is missing decorator '%s'", name)
			continue
		}
		if len(dec.Args) != len(c.Args) {
			is.raw(fmt.Sprintf("Decorator '%s' on %s has %d arguments, expected %d.", name, is.subject, len(dec.Args), len(c.Args)))
			continue
		}
		for i := range c.Args {
			if !b.norm().Equal(dec.Args[i], c.Args[i]) {
				is.raw(fmt.Sprintf("Decorator '%s' on %s has argument %d '%s', expected '%s'.",
					name, is.subject, i+1, dec.Args[i], c.Args[i]))
			}
		}
	}
}

// Parameters

func newParam(c schema.ParameterConfig) *ast.Parameter {
	return &ast.Parameter{
		Decorations: newDecorators(c.Decorators),
		Name:        c.Name,
		Scope:       c.Scope,
		Readonly:    c.Readonly,
		Optional:    c.Optional,
		Rest:        c.Rest,
		Type:        c.Type,
		Initializer: strings.TrimSuffix(strings.TrimSpace(c.Initializer), ";"),
	}
}

func newParams(cfgs []schema.ParameterConfig) []*ast.Parameter {
	out := make([]*ast.Parameter, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, newParam(c))
	}
	return out
}

// setParams reconciles the parameter list by position. An empty want leaves
// the list alone; otherwise the list is made exactly as long as want.
func (b *base) setParams(have *[]*ast.Parameter, want []schema.ParameterConfig) {
	if len(want) == 0 {
		return
	}
	params := *have
	for i, c := range want {
		if i >= len(params) {
			added := newParam(c)
			b.mark(fmt.Sprintf("params[%d]", i), "", ast.FormatParam(added))
			params = append(params, added)
			continue
		}
		p := params[i]
		path := fmt.Sprintf("params[%d]", i)
		if p.Name != c.Name {
			b.mark(path+".name", p.Name, c.Name)
			p.Name = c.Name
		}
		b.setType(path+".type", &p.Type, c.Type)
		b.setCode(path+".initializer", &p.Initializer, c.Initializer)
		b.setFlag(path+".optional", &p.Optional, c.Optional)
		b.setFlag(path+".rest", &p.Rest, c.Rest)
		b.setFlag(path+".readonly", &p.Readonly, c.Readonly)
		if c.Scope != "" && p.Scope != c.Scope {
			b.mark(path+".scope", p.Scope, c.Scope)
			p.Scope = c.Scope
		}
		b.setDecorators(path+".decorators", &p.Decorations, c.Decorators)
	}
	if len(params) > len(want) {
		for i := len(want); i < len(params); i++ {
			b.mark(fmt.Sprintf("params[%d]", i), ast.FormatParam(params[i]), "")
		}
		params = params[:len(want)]
	}
	*have = params
}

func (b *base) checkParams(is *issues, have []*ast.Parameter, want []schema.ParameterConfig) {
	if len(want) == 0 {
		return
	}
	if len(have) != len(want) {
		is.addf("has %d parameters, expected %d", len(have), len(want))
	}
	for i, c := range want {
		if i >= len(have) {
			break
		}
		p := have[i]
		if p.Name != c.Name {
			is.addf("has parameter %d named '%s', expected '%s'", i+1, p.Name, c.Name)
			continue
		}
		ps := newIssues("Parameter", p.Name, "")
		ps.subject += " of " + is.subject
		b.checkType(ps, "type", p.Type, c.Type)
		b.checkCode(ps, "initializer", p.Initializer, c.Initializer)
		ps.flag("optional", p.Optional, c.Optional)
		ps.flag("a rest parameter", p.Rest, c.Rest)
		ps.flag("readonly", p.Readonly, c.Readonly)
		if c.Scope != "" && p.Scope != c.Scope {
			ps.attr("scope", p.Scope, c.Scope)
		}
		b.checkDecorators(ps, &p.Decorations, c.Decorators)
		is.merge(ps.list)
	}
}

// Bodies

// setBody applies the configured statements to a body.
func (b *base) setBody(have **string, cfg schema.Body) error {
	if !cfg.Enforced() {
		return nil
	}
	text, outcome, err := b.env.Body.Reconcile(*have, cfg.Statements, cfg.Overwrite)
	if err != nil {
		return err
	}
	if !outcome.Changed() {
		return nil
	}
	old := ""
	if *have != nil {
		old = **have
	}
	b.mark("body", old, string(outcome))
	*have = ast.StringPtr(text)
	return nil
}

func (b *base) checkBody(is *issues, have *string, cfg schema.Body) error {
	if !cfg.Enforced() {
		return nil
	}
	ok, err := b.env.Body.Matches(have, cfg.Statements, cfg.Overwrite)
	if err != nil {
		return err
	}
	if !ok {
		if have == nil {
			is.addf("has no body")
		} else {
			is.addf("has a body that does not match the generated statements")
		}
	}
	return nil
}

// newBody renders the initial body of a created construct.
func (b *base) newBody(cfg schema.Body) (*string, error) {
	text, err := b.env.Body.Render(cfg.Statements)
	if err != nil {
		return nil, err
	}
	return ast.StringPtr(text), nil
}

func requireName(component, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewConfigError(component, "name is required", nil)
	}
	return nil
}
