package primitives

import (
	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/schema"
)

func interfaceFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Interfaces))
	for _, c := range def.Interfaces {
		out = append(out, NewInterface(env, c))
	}
	return out
}

// Interface reconciles an interface declaration and its signatures.
type Interface struct {
	base
	cfg schema.InterfaceConfig
}

// NewInterface creates an interface primitive.
func NewInterface(env *Env, cfg schema.InterfaceConfig) *Interface {
	return &Interface{base: base{env: env}, cfg: cfg}
}

func (p *Interface) Kind() string { return "Interface" }
func (p *Interface) Name() string { return p.cfg.Name }

func (p *Interface) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Interface) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Interface) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindInterface, p.cfg.Name)
}

func (p *Interface) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("interface", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Interface{
		Docs:       newDoc(p.cfg.Doc),
		Name:       p.cfg.Name,
		Exported:   p.cfg.Exported,
		TypeParams: p.cfg.TypeParams,
		Extends:    append([]string(nil), p.cfg.Extends...),
	}
	parent.Append(n)
	if err := p.ensureMembers(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Interface) Update(node ast.Node) error {
	n, ok := node.(*ast.Interface)
	if !ok {
		return wrongNode("update", "interface", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported)
	p.setType("type_params", &n.TypeParams, p.cfg.TypeParams)
	for _, e := range p.cfg.Extends {
		if !p.extends(n, e) {
			p.mark("extends", "", e)
			n.Extends = append(n.Extends, e)
		}
	}
	p.setDoc(&n.Docs, p.cfg.Doc)
	return p.ensureMembers(n)
}

func (p *Interface) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Interface)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "interface", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported)
	p.checkType(is, "type parameters", n.TypeParams, p.cfg.TypeParams)
	for _, e := range p.cfg.Extends {
		if !p.extends(n, e) {
			is.addf("does not extend '%s'", e)
		}
	}
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	for _, m := range p.members() {
		found, err := Check(m, n)
		if err != nil {
			return ValidationResult{}, err
		}
		is.merge(found)
	}
	return is.result(), nil
}

func (p *Interface) extends(n *ast.Interface, name string) bool {
	for _, have := range n.Extends {
		if p.norm().EqualType(have, name) {
			return true
		}
	}
	return false
}

func (p *Interface) members() []Primitive {
	out := make([]Primitive, 0, len(p.cfg.Properties)+len(p.cfg.Methods))
	for _, c := range p.cfg.Properties {
		out = append(out, NewProperty(p.env, c))
	}
	for _, c := range p.cfg.Methods {
		out = append(out, NewMethod(p.env, c))
	}
	return out
}

func (p *Interface) ensureMembers(n *ast.Interface) error {
	for _, m := range p.members() {
		if _, err := Ensure(p.env, m, n); err != nil {
			return err
		}
	}
	return nil
}
