package primitives

import (
	"fmt"
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/schema"
)

func enumFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Enums))
	for _, c := range def.Enums {
		out = append(out, NewEnum(env, c))
	}
	return out
}

// Enum reconciles an enum declaration. Members not in the configuration
// are kept; configured members are added in order when missing.
type Enum struct {
	base
	cfg schema.EnumConfig
}

// NewEnum creates an enum primitive.
func NewEnum(env *Env, cfg schema.EnumConfig) *Enum {
	return &Enum{base: base{env: env}, cfg: cfg}
}

func (p *Enum) Kind() string { return "Enum" }
func (p *Enum) Name() string { return p.cfg.Name }

func (p *Enum) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Enum) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Enum) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindEnum, p.cfg.Name)
}

func (p *Enum) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("enum", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Enum{
		Docs:     newDoc(p.cfg.Doc),
		Name:     p.cfg.Name,
		Exported: p.cfg.Exported,
		Const:    p.cfg.Const,
	}
	for _, m := range p.cfg.Members {
		if err := requireName("enum member", m.Name); err != nil {
			return nil, err
		}
		n.Members = append(n.Members, &ast.EnumMember{Name: m.Name, Value: strings.TrimSpace(m.Value)})
	}
	parent.Append(n)
	return n, nil
}

func (p *Enum) Update(node ast.Node) error {
	n, ok := node.(*ast.Enum)
	if !ok {
		return wrongNode("update", "enum", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported)
	p.setFlag("const", &n.Const, p.cfg.Const)
	p.setDoc(&n.Docs, p.cfg.Doc)
	for _, m := range p.cfg.Members {
		have := n.Member(m.Name)
		if have == nil {
			value := strings.TrimSpace(m.Value)
			p.mark("members."+m.Name, "", value)
			n.Members = append(n.Members, &ast.EnumMember{Name: m.Name, Value: value})
			continue
		}
		p.setCode("members."+m.Name, &have.Value, m.Value)
	}
	return nil
}

func (p *Enum) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Enum)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "enum", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported)
	is.flag("const", n.Const, p.cfg.Const)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	for _, m := range p.cfg.Members {
		have := n.Member(m.Name)
		if have == nil {
			is.addf("is missing member '%s'", m.Name)
			continue
		}
		ms := newIssues("Enum member", fmt.Sprintf("%s.%s", p.cfg.Name, m.Name), p.scope)
		p.checkCode(ms, "value", have.Value, m.Value)
		is.merge(ms.list)
	}
	return is.result(), nil
}
