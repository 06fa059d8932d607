package primitives

import (
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

func moduleFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Modules))
	for _, c := range def.Modules {
		out = append(out, NewModule(env, c))
	}
	return out
}

// Module reconciles a namespace. Its body is reconciled as a nested
// definition through the environment's walk hooks.
type Module struct {
	base
	cfg schema.ModuleConfig
}

// NewModule creates a module primitive.
func NewModule(env *Env, cfg schema.ModuleConfig) *Module {
	return &Module{base: base{env: env}, cfg: cfg}
}

func (p *Module) Kind() string { return "Module" }
func (p *Module) Name() string { return p.cfg.Name }

func (p *Module) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Namespace) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Module) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindNamespace, p.cfg.Name)
}

func (p *Module) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("module", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Namespace{
		Docs:     newDoc(p.cfg.Doc),
		Name:     p.cfg.Name,
		Keyword:  "namespace",
		Exported: p.cfg.Exported,
	}
	parent.Append(n)
	if err := p.reconcile(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Module) Update(node ast.Node) error {
	n, ok := node.(*ast.Namespace)
	if !ok {
		return wrongNode("update", "module", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported)
	p.setDoc(&n.Docs, p.cfg.Doc)
	return p.reconcile(n)
}

func (p *Module) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Namespace)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "module", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	if p.env.Validate == nil {
		return ValidationResult{}, errors.NewConfigError("module", "no nested validation configured", nil)
	}
	nested, err := p.env.Validate(n, p.cfg.Definition)
	if err != nil {
		return ValidationResult{}, err
	}
	is.merge(nested)
	return is.result(), nil
}

func (p *Module) reconcile(n *ast.Namespace) error {
	if p.env.Reconcile == nil {
		return errors.NewConfigError("module", "no nested reconciliation configured", nil)
	}
	return p.env.Reconcile(n, p.cfg.Definition)
}

func headerFactory(env *Env, def schema.FileDefinition) []Primitive {
	if strings.TrimSpace(def.Header) == "" {
		return nil
	}
	return []Primitive{NewHeader(env, def.Header)}
}

// Header keeps a sentinel comment on the first line of a container.
type Header struct {
	base
	text string
}

// NewHeader creates a header primitive.
func NewHeader(env *Env, text string) *Header {
	return &Header{base: base{env: env}, text: strings.TrimSpace(text)}
}

func (p *Header) Kind() string { return "Header" }
func (p *Header) Name() string { return p.text }

func (p *Header) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(r *ast.Raw) bool { return strings.TrimSpace(r.Text) == p.text }); ok {
		return n
	}
	return nil
}

func (p *Header) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	n := &ast.Raw{Text: p.text}
	parent.InsertAt(0, n)
	return n, nil
}

// Update moves the header to the first position.
func (p *Header) Update(node ast.Node) error {
	parent, ok := p.parent(node)
	if !ok {
		return nil
	}
	if i := parent.IndexOf(node); i > 0 {
		p.mark("position", "", "0")
		parent.Remove(node)
		parent.InsertAt(0, node)
	}
	return nil
}

func (p *Header) Validate(node ast.Node) (ValidationResult, error) {
	is := newIssues(p.Kind(), p.text, p.scope)
	if parent, ok := p.parent(node); ok && parent.IndexOf(node) > 0 {
		is.addf("is not on the first line")
	}
	return is.result(), nil
}

// parent returns the container last bound through Find, when it still
// holds node.
func (p *Header) parent(node ast.Node) (ast.Container, bool) {
	if p.container == nil || p.container.IndexOf(node) < 0 {
		return nil, false
	}
	return p.container, true
}
