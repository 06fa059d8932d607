package primitives

import (
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

func importFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Imports))
	for _, c := range def.Imports {
		out = append(out, NewImport(env, c))
	}
	return out
}

// Import consolidates the import declarations of one module.
//
// Declarations whose specifiers normalize to the configured module are
// folded into one, the specifier is rewritten to the configured text and the
// named bindings become exactly the requested set. Bindings the declaration
// introduces are removed from every other import, and imports left empty by
// that are deleted.
type Import struct {
	base
	cfg schema.ImportConfig
}

// NewImport creates an import primitive.
func NewImport(env *Env, cfg schema.ImportConfig) *Import {
	return &Import{base: base{env: env}, cfg: cfg}
}

func (p *Import) Kind() string { return "Import" }
func (p *Import) Name() string { return p.cfg.Module }

func (p *Import) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Import) bool { return p.norm().SameModule(n.Specifier, p.cfg.Module) }); ok {
		return n
	}
	return nil
}

func (p *Import) FindOpaque(parent ast.Container) *ast.Raw {
	if r, ok := ast.FindOpaque(parent, ast.KindImport, func(spec string) bool { return p.norm().SameModule(spec, p.cfg.Module) }); ok {
		return r
	}
	return nil
}

func (p *Import) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireModule("import", p.cfg.Module); err != nil {
		return nil, err
	}
	n := &ast.Import{
		TypeOnly:  p.cfg.TypeOnly,
		Default:   p.cfg.Default,
		Namespace: p.cfg.Namespace,
		Named:     newSpecifiers(p.cfg.Named),
		Specifier: p.cfg.Module,
	}
	parent.InsertAt(importIndex(parent), n)
	p.dedupe(n)
	return n, nil
}

func (p *Import) Update(node ast.Node) error {
	n, ok := node.(*ast.Import)
	if !ok {
		return wrongNode("update", "import", p.cfg.Module, node)
	}
	p.fold(n)
	if n.Specifier != p.cfg.Module {
		p.mark("specifier", n.Specifier, p.cfg.Module)
		n.Specifier = p.cfg.Module
	}
	if p.cfg.Default != "" && n.Default != p.cfg.Default {
		p.mark("default", n.Default, p.cfg.Default)
		n.Default = p.cfg.Default
	}
	if p.cfg.Namespace != "" && n.Namespace != p.cfg.Namespace {
		p.mark("namespace", n.Namespace, p.cfg.Namespace)
		n.Namespace = p.cfg.Namespace
	}
	if n.Namespace != "" && len(n.Named) > 0 && len(p.cfg.Named) == 0 {
		// a namespace import cannot carry a named list
		p.mark("named", formatSpecifiers(n.Named), "")
		n.Named = nil
	}
	p.setSpecifiers("named", &n.Named, p.cfg.Named)
	p.setFlag("type_only", &n.TypeOnly, p.cfg.TypeOnly)
	if n.TypeOnly {
		p.stripTypeMarkers(n.Named)
	}
	p.dedupe(n)
	return nil
}

func (p *Import) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Import)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "import", p.cfg.Module, node)
	}
	is := newIssues(p.Kind(), p.cfg.Module, p.scope)
	if n.Specifier != p.cfg.Module {
		is.attr("specifier", n.Specifier, p.cfg.Module)
	}
	if p.cfg.Default != "" && n.Default != p.cfg.Default {
		is.attr("default binding", n.Default, p.cfg.Default)
	}
	if p.cfg.Namespace != "" && n.Namespace != p.cfg.Namespace {
		is.attr("namespace binding", n.Namespace, p.cfg.Namespace)
	}
	checkSpecifiers(is, "named binding", n.Named, p.cfg.Named)
	if n.Namespace != "" && len(p.cfg.Named) == 0 {
		for _, s := range n.Named {
			is.addf("has unexpected named binding '%s'", s.Name)
		}
	}
	is.flag("type-only", n.TypeOnly, p.cfg.TypeOnly)
	p.checkShadowed(is, n)
	return is.result(), nil
}

// checkShadowed reports bindings of other imports that reuse a local name
// this import introduces. Reconciling removes them.
func (p *Import) checkShadowed(is *issues, n *ast.Import) {
	locals := importLocals(&ast.Import{
		Default:   p.cfg.Default,
		Namespace: p.cfg.Namespace,
		Named:     newSpecifiers(p.cfg.Named),
	})
	if len(locals) == 0 {
		return
	}
	for _, other := range ast.All[*ast.Import](p.container) {
		if other == n {
			continue
		}
		for _, name := range []string{other.Default, other.Namespace} {
			if name != "" && locals[name] {
				is.addf("has unexpected binding '%s' imported from '%s'", name, other.Specifier)
			}
		}
		for _, s := range other.Named {
			if locals[s.Local()] {
				is.addf("has unexpected binding '%s' imported from '%s'", s.Local(), other.Specifier)
			}
		}
	}
}

// fold merges the other declarations of the same module into n.
func (p *Import) fold(n *ast.Import) {
	for _, other := range ast.All[*ast.Import](p.container) {
		if other == n || !p.norm().SameModule(other.Specifier, p.cfg.Module) {
			continue
		}
		if !canFold(n, other) {
			continue
		}
		if other.TypeOnly != n.TypeOnly {
			// the type-only side keeps its meaning through per-binding markers
			typed := other
			if n.TypeOnly {
				typed = n
				n.TypeOnly = false
			}
			for _, s := range typed.Named {
				s.TypeOnly = true
			}
		}
		if n.Default == "" {
			n.Default = other.Default
		}
		if n.Namespace == "" {
			n.Namespace = other.Namespace
		}
		for _, s := range other.Named {
			if !hasSpecifier(n.Named, s) {
				n.Named = append(n.Named, s)
			}
		}
		p.mark("merged", other.Specifier, n.Specifier)
		p.remove("Import", other.Specifier, other)
	}
}

// canFold reports whether a and b combine into one valid declaration.
func canFold(a, b *ast.Import) bool {
	if a.Default != "" && b.Default != "" && a.Default != b.Default {
		return false
	}
	if a.Namespace != "" && b.Namespace != "" && a.Namespace != b.Namespace {
		return false
	}
	ns := a.Namespace != "" || b.Namespace != ""
	if ns && len(a.Named)+len(b.Named) > 0 {
		return false
	}
	if a.TypeOnly != b.TypeOnly {
		typed := a
		if b.TypeOnly {
			typed = b
		}
		// default and namespace bindings have no per-binding type marker
		return typed.Default == "" && typed.Namespace == ""
	}
	return true
}

// dedupe removes the local names n introduces from every other import.
func (p *Import) dedupe(n *ast.Import) {
	locals := importLocals(n)
	if len(locals) == 0 {
		return
	}
	for _, other := range ast.All[*ast.Import](p.container) {
		if other == n {
			continue
		}
		changed := false
		if other.Default != "" && locals[other.Default] {
			other.Default = ""
			changed = true
		}
		if other.Namespace != "" && locals[other.Namespace] {
			other.Namespace = ""
			changed = true
		}
		kept := other.Named[:0]
		for _, s := range other.Named {
			if locals[s.Local()] {
				changed = true
				continue
			}
			kept = append(kept, s)
		}
		other.Named = kept
		if !changed {
			continue
		}
		p.mark("dedupe", other.Specifier, "")
		if other.Empty() {
			p.remove("Import", other.Specifier, other)
		}
	}
}

func importLocals(n *ast.Import) map[string]bool {
	locals := make(map[string]bool)
	if n.Default != "" {
		locals[n.Default] = true
	}
	if n.Namespace != "" {
		locals[n.Namespace] = true
	}
	for _, s := range n.Named {
		locals[s.Local()] = true
	}
	return locals
}

// importIndex returns where a new import goes: after the last import, or
// after the comments leading the container.
func importIndex(parent ast.Container) int {
	if last := ast.LastIndex[*ast.Import](parent); last >= 0 {
		return last + 1
	}
	i := 0
	for _, n := range parent.Children() {
		r, ok := n.(*ast.Raw)
		if !ok || !r.IsComment() {
			break
		}
		i++
	}
	return i
}

// remove deletes a node from the bound container and records it.
func (b *base) remove(kind, name string, n ast.Node) {
	if !b.container.Remove(n) {
		return
	}
	b.env.Changes.record(Change{Type: ChangeRemove, Kind: kind, Name: name, Scope: b.scope})
	b.env.Logger.Debug().
		Str("kind", kind).
		Str("name", name).
		Str("scope", b.scope).
		Msg("Removed declaration")
}

// Specifier lists

func newSpecifiers(bindings []string) []*ast.ImportSpecifier {
	var out []*ast.ImportSpecifier
	for _, b := range bindings {
		name, alias := schema.ParseBinding(b)
		if name == "" {
			continue
		}
		out = append(out, &ast.ImportSpecifier{Name: name, Alias: alias})
	}
	return out
}

func hasSpecifier(list []*ast.ImportSpecifier, s *ast.ImportSpecifier) bool {
	for _, have := range list {
		if have.Name == s.Name && have.Local() == s.Local() {
			return true
		}
	}
	return false
}

func formatSpecifiers(list []*ast.ImportSpecifier) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = s.Name
		if s.Alias != "" {
			parts[i] += " as " + s.Alias
		}
	}
	return strings.Join(parts, ", ")
}

// setSpecifiers makes list hold exactly the requested bindings. Existing
// entries keep their position; missing ones are appended in request order.
// An empty request leaves the list alone.
func (b *base) setSpecifiers(path string, list *[]*ast.ImportSpecifier, want []string) {
	if len(want) == 0 {
		return
	}
	requested := newSpecifiers(want)
	index := make(map[string]*ast.ImportSpecifier, len(requested))
	for _, r := range requested {
		index[r.Name] = r
	}

	seen := make(map[string]bool, len(requested))
	kept := make([]*ast.ImportSpecifier, 0, len(requested))
	for _, s := range *list {
		r, ok := index[s.Name]
		if !ok || seen[s.Name] {
			b.mark(path, formatSpecifiers([]*ast.ImportSpecifier{s}), "")
			continue
		}
		seen[s.Name] = true
		if r.Alias != "" && s.Alias != r.Alias {
			b.mark(path+"."+s.Name+".alias", s.Alias, r.Alias)
			s.Alias = r.Alias
		}
		kept = append(kept, s)
	}
	for _, r := range requested {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		b.mark(path, "", formatSpecifiers([]*ast.ImportSpecifier{r}))
		kept = append(kept, r)
	}
	*list = kept
}

// checkSpecifiers compares a binding list with the requested one the way
// setSpecifiers would reconcile it: missing and misaliased bindings are
// reported, and so are unrequested or repeated ones.
func checkSpecifiers(is *issues, label string, list []*ast.ImportSpecifier, want []string) {
	if len(want) == 0 {
		return
	}
	requested := make(map[string]bool)
	for _, r := range newSpecifiers(want) {
		requested[r.Name] = true
	}
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		if !requested[s.Name] || seen[s.Name] {
			is.addf("has unexpected %s '%s'", label, s.Name)
			continue
		}
		seen[s.Name] = true
	}
	for _, r := range newSpecifiers(want) {
		var found *ast.ImportSpecifier
		for _, s := range list {
			if s.Name == r.Name {
				found = s
				break
			}
		}
		if found == nil {
			is.addf("is missing %s '%s'", label, r.Name)
			continue
		}
		if r.Alias != "" && found.Alias != r.Alias {
			is.attr("alias for '"+r.Name+"'", found.Alias, r.Alias)
		}
	}
}

func (b *base) stripTypeMarkers(list []*ast.ImportSpecifier) {
	for _, s := range list {
		if s.TypeOnly {
			b.mark("named."+s.Name+".type_only", "true", "false")
			s.TypeOnly = false
		}
	}
}

func requireModule(component, module string) error {
	if strings.TrimSpace(module) == "" {
		return errors.NewConfigError(component, "module is required", nil)
	}
	return nil
}
