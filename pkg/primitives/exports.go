package primitives

import (
	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

func exportFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Exports))
	for _, c := range def.Exports {
		out = append(out, NewExport(env, c))
	}
	return out
}

// localExports names the export list without a source module in messages.
const localExports = "local"

// Export consolidates a re-export or the local export list. The same
// folding and deduplication rules as Import apply, keyed by exported name.
type Export struct {
	base
	cfg schema.ExportConfig
}

// NewExport creates an export primitive.
func NewExport(env *Env, cfg schema.ExportConfig) *Export {
	return &Export{base: base{env: env}, cfg: cfg}
}

func (p *Export) Kind() string { return "Export" }

func (p *Export) Name() string {
	if p.cfg.Module == "" {
		return localExports
	}
	return p.cfg.Module
}

func (p *Export) wildcard() bool {
	return p.cfg.Wildcard || p.cfg.Namespace != ""
}

// matches reports whether e is the declaration this primitive owns.
func (p *Export) matches(e *ast.Export) bool {
	if p.cfg.Module == "" {
		return e.Specifier == "" && !e.Wildcard
	}
	if e.Specifier == "" || !p.norm().SameModule(e.Specifier, p.cfg.Module) {
		return false
	}
	return e.Namespace == p.cfg.Namespace
}

func (p *Export) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, p.matches); ok {
		return n
	}
	return nil
}

func (p *Export) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if p.wildcard() && p.cfg.Module == "" {
		return nil, errors.NewConfigError("export", "wildcard export requires a module", nil)
	}
	if !p.wildcard() && len(p.cfg.Named) == 0 {
		return nil, errors.NewConfigError("export", "export of '"+p.Name()+"' needs named bindings or wildcard", nil)
	}
	n := &ast.Export{
		TypeOnly:  p.cfg.TypeOnly,
		Wildcard:  p.wildcard(),
		Namespace: p.cfg.Namespace,
		Specifier: p.cfg.Module,
	}
	if !n.Wildcard {
		n.Named = newSpecifiers(p.cfg.Named)
	}
	parent.Append(n)
	p.dedupe(n)
	return n, nil
}

func (p *Export) Update(node ast.Node) error {
	n, ok := node.(*ast.Export)
	if !ok {
		return wrongNode("update", "export", p.Name(), node)
	}
	p.fold(n)
	if p.cfg.Module != "" && n.Specifier != p.cfg.Module {
		p.mark("specifier", n.Specifier, p.cfg.Module)
		n.Specifier = p.cfg.Module
	}
	p.setFlag("wildcard", &n.Wildcard, p.wildcard())
	if n.Wildcard {
		if len(n.Named) > 0 {
			p.mark("named", formatSpecifiers(n.Named), "")
			n.Named = nil
		}
	} else {
		p.setSpecifiers("named", &n.Named, p.cfg.Named)
	}
	p.setFlag("type_only", &n.TypeOnly, p.cfg.TypeOnly)
	if n.TypeOnly {
		p.stripTypeMarkers(n.Named)
	}
	p.dedupe(n)
	return nil
}

func (p *Export) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Export)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "export", p.Name(), node)
	}
	is := newIssues(p.Kind(), p.Name(), p.scope)
	if p.cfg.Module != "" && n.Specifier != p.cfg.Module {
		is.attr("specifier", n.Specifier, p.cfg.Module)
	}
	is.flag("a wildcard re-export", n.Wildcard, p.wildcard())
	if !p.wildcard() {
		checkSpecifiers(is, "named export", n.Named, p.cfg.Named)
	}
	is.flag("type-only", n.TypeOnly, p.cfg.TypeOnly)
	return is.result(), nil
}

// fold merges other named lists of the same module into n.
func (p *Export) fold(n *ast.Export) {
	if p.wildcard() {
		return
	}
	for _, other := range ast.All[*ast.Export](p.container) {
		if other == n || other.Wildcard || !p.matches(other) {
			continue
		}
		if other.TypeOnly != n.TypeOnly {
			typed := other
			if n.TypeOnly {
				typed = n
				n.TypeOnly = false
			}
			for _, s := range typed.Named {
				s.TypeOnly = true
			}
		}
		for _, s := range other.Named {
			if !hasSpecifier(n.Named, s) {
				n.Named = append(n.Named, s)
			}
		}
		p.mark("merged", other.Specifier, n.Specifier)
		p.remove("Export", p.Name(), other)
	}
}

// dedupe removes the names n exports from every other named export list.
func (p *Export) dedupe(n *ast.Export) {
	if n.Wildcard {
		return
	}
	exported := make(map[string]bool, len(n.Named))
	for _, s := range n.Named {
		exported[s.Local()] = true
	}
	if len(exported) == 0 {
		return
	}
	for _, other := range ast.All[*ast.Export](p.container) {
		if other == n || other.Wildcard {
			continue
		}
		kept := other.Named[:0]
		for _, s := range other.Named {
			if !exported[s.Local()] {
				kept = append(kept, s)
			}
		}
		if len(kept) == len(other.Named) {
			continue
		}
		other.Named = kept
		name := other.Specifier
		if name == "" {
			name = localExports
		}
		p.mark("dedupe", name, "")
		if len(other.Named) == 0 {
			p.remove("Export", name, other)
		}
	}
}
