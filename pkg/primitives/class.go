package primitives

import (
	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/schema"
)

func classFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Classes))
	for _, c := range def.Classes {
		out = append(out, NewClass(env, c))
	}
	return out
}

// Class reconciles a class declaration and its members.
type Class struct {
	base
	cfg schema.ClassConfig
}

// NewClass creates a class primitive.
func NewClass(env *Env, cfg schema.ClassConfig) *Class {
	return &Class{base: base{env: env}, cfg: cfg}
}

func (p *Class) Kind() string { return "Class" }
func (p *Class) Name() string { return p.cfg.Name }

func (p *Class) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if c, ok := ast.Find(parent, func(c *ast.Class) bool { return c.Name == p.cfg.Name }); ok {
		return c
	}
	return nil
}

func (p *Class) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindClass, p.cfg.Name)
}

func (p *Class) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("class", p.cfg.Name); err != nil {
		return nil, err
	}
	c := &ast.Class{
		Docs:        newDoc(p.cfg.Doc),
		Decorations: newDecorators(p.cfg.Decorators),
		Name:        p.cfg.Name,
		Exported:    p.cfg.Exported || p.cfg.Default,
		Default:     p.cfg.Default,
		Abstract:    p.cfg.Abstract,
		TypeParams:  p.cfg.TypeParams,
		Extends:     p.cfg.Extends,
		Implements:  append([]string(nil), p.cfg.Implements...),
	}
	parent.Append(c)
	if err := p.ensureMembers(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Class) Update(node ast.Node) error {
	c, ok := node.(*ast.Class)
	if !ok {
		return wrongNode("update", "class", p.cfg.Name, node)
	}
	p.setFlag("exported", &c.Exported, p.cfg.Exported || p.cfg.Default)
	p.setFlag("default", &c.Default, p.cfg.Default)
	p.setFlag("abstract", &c.Abstract, p.cfg.Abstract)
	p.setType("type_params", &c.TypeParams, p.cfg.TypeParams)
	p.setType("extends", &c.Extends, p.cfg.Extends)
	for _, iface := range p.cfg.Implements {
		if !p.implements(c, iface) {
			p.mark("implements", "", iface)
			c.Implements = append(c.Implements, iface)
		}
	}
	p.setDoc(&c.Docs, p.cfg.Doc)
	p.setDecorators("decorators", &c.Decorations, p.cfg.Decorators)
	return p.ensureMembers(c)
}

func (p *Class) Validate(node ast.Node) (ValidationResult, error) {
	c, ok := node.(*ast.Class)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "class", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", c.Exported, p.cfg.Exported || p.cfg.Default)
	is.flag("the default export", c.Default, p.cfg.Default)
	is.flag("abstract", c.Abstract, p.cfg.Abstract)
	p.checkType(is, "type parameters", c.TypeParams, p.cfg.TypeParams)
	p.checkType(is, "base class", c.Extends, p.cfg.Extends)
	for _, iface := range p.cfg.Implements {
		if !p.implements(c, iface) {
			is.addf("does not implement '%s'", iface)
		}
	}
	p.checkDoc(is, &c.Docs, p.cfg.Doc)
	p.checkDecorators(is, &c.Decorations, p.cfg.Decorators)

	for _, m := range p.members() {
		found, err := Check(m, c)
		if err != nil {
			return ValidationResult{}, err
		}
		is.merge(found)
	}
	return is.result(), nil
}

func (p *Class) implements(c *ast.Class, iface string) bool {
	for _, have := range c.Implements {
		if p.norm().EqualType(have, iface) {
			return true
		}
	}
	return false
}

// members returns the member primitives in placement order.
func (p *Class) members() []Primitive {
	var out []Primitive
	for _, c := range p.cfg.Properties {
		out = append(out, NewProperty(p.env, c))
	}
	if p.cfg.Constructor != nil {
		out = append(out, NewConstructor(p.env, *p.cfg.Constructor))
	}
	for _, c := range p.cfg.Accessors {
		out = append(out, NewAccessor(p.env, c))
	}
	for _, c := range p.cfg.Methods {
		out = append(out, NewMethod(p.env, c))
	}
	return out
}

func (p *Class) ensureMembers(c *ast.Class) error {
	for _, m := range p.members() {
		if _, err := Ensure(p.env, m, c); err != nil {
			return err
		}
	}
	return nil
}
