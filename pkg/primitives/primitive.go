// Package primitives implements find, create, update and validate for every
// construct kind the reconciler knows about. A primitive wraps one
// construct configuration; only primitives read the syntax tree.
package primitives

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/body"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/normalize"
	"github.com/agentstation/codesync/pkg/schema"
)

// Primitive reconciles one construct against a container.
type Primitive interface {
	// Kind is the display kind used in messages, e.g. "Method".
	Kind() string
	// Name is the construct identity used in messages.
	Name() string
	// Find locates the existing construct in parent, or returns nil.
	Find(parent ast.Container) ast.Node
	// Create adds the construct to parent.
	Create(parent ast.Container) (ast.Node, error)
	// Update changes only the mismatched attributes of node.
	Update(node ast.Node) error
	// Validate compares node with the configuration without mutating it.
	Validate(node ast.Node) (ValidationResult, error)
}

// Opaque is implemented by primitives that can recognise their construct in
// a declaration the parser kept as plain source text. Such a construct is
// present but cannot be edited or compared.
type Opaque interface {
	FindOpaque(parent ast.Container) *ast.Raw
}

func findOpaque(p Primitive, parent ast.Container) *ast.Raw {
	if o, ok := p.(Opaque); ok {
		return o.FindOpaque(parent)
	}
	return nil
}

// ValidationResult is the outcome of a read-only comparison.
type ValidationResult struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Issues []string `json:"issues" yaml:"issues"`
}

// Result builds a ValidationResult from issues.
func Result(issues []string) ValidationResult {
	if issues == nil {
		issues = []string{}
	}
	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// Env is the per-pass state threaded through every primitive.
type Env struct {
	Body    *body.Reconciler
	Norm    *normalize.Normalizer
	Changes *Changeset
	Logger  *zerolog.Logger

	// Reconcile and Validate re-enter the definition walk for nested
	// containers. The reconciler sets them.
	Reconcile func(c ast.Container, def schema.FileDefinition) error
	Validate  func(c ast.Container, def schema.FileDefinition) ([]string, error)
}

// NewEnv creates an environment with a fresh changeset. Nil arguments
// select defaults.
func NewEnv(b *body.Reconciler, norm *normalize.Normalizer, logger *zerolog.Logger) *Env {
	if norm == nil {
		norm = normalize.Default
	}
	if b == nil {
		b = body.NewReconciler(nil, ast.NewParser(ast.TypeScript), norm)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Env{Body: b, Norm: norm, Changes: NewChangeset(), Logger: logger}
}

func (e *Env) mark(path, oldValue, newValue string) {
	e.Changes.Mark(path, oldValue, newValue)
}

// Ensure finds the construct and updates it, or creates it when absent.
func Ensure(env *Env, p Primitive, parent ast.Container) (ast.Node, error) {
	ch := Change{Kind: p.Kind(), Name: p.Name(), Scope: parent.Label()}

	node := p.Find(parent)
	if node == nil {
		if raw := findOpaque(p, parent); raw != nil {
			ch.Type = ChangeUnchanged
			env.Changes.record(ch)
			env.Logger.Warn().
				Str("kind", ch.Kind).
				Str("name", ch.Name).
				Str("scope", ch.Scope).
				Msg("Construct is written in a form that cannot be edited, kept as is")
			return raw, nil
		}
		created, err := p.Create(parent)
		if err != nil {
			return nil, err
		}
		ch.Type = ChangeCreate
		env.Changes.record(ch)
		env.Logger.Debug().
			Str("kind", ch.Kind).
			Str("name", ch.Name).
			Str("scope", ch.Scope).
			Msg("Created construct")
		return created, nil
	}

	// nested Ensure calls record their own changes, so the record for this
	// construct goes in after them
	env.Changes.begin()
	err := p.Update(node)
	ch.Fields = env.Changes.end()
	if err != nil {
		return nil, err
	}
	ch.Type = ChangeUnchanged
	if len(ch.Fields) > 0 {
		ch.Type = ChangeUpdate
	}
	env.Changes.record(ch)
	env.Logger.Debug().
		Str("kind", ch.Kind).
		Str("name", ch.Name).
		Str("scope", ch.Scope).
		Str("change", string(ch.Type)).
		Int("fields", len(ch.Fields)).
		Msg("Reconciled construct")
	return node, nil
}

// Check finds the construct and validates it. A missing construct is
// reported as an issue, never as an error. An opaque construct counts as
// present and is not compared.
func Check(p Primitive, parent ast.Container) ([]string, error) {
	node := p.Find(parent)
	if node == nil {
		if findOpaque(p, parent) != nil {
			return nil, nil
		}
		return []string{missingIssue(p.Kind(), p.Name(), parent.Label())}, nil
	}
	res, err := p.Validate(node)
	if err != nil {
		return nil, err
	}
	return res.Issues, nil
}

// Factory builds the primitives for one group of a definition.
type Factory func(env *Env, def schema.FileDefinition) []Primitive

// Registry maps definition groups to primitive factories.
type Registry struct {
	factories map[schema.Group]Factory
}

// NewRegistry returns a registry holding every built-in group.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[schema.Group]Factory)}
	r.Register(schema.GroupHeader, headerFactory)
	r.Register(schema.GroupImports, importFactory)
	r.Register(schema.GroupExports, exportFactory)
	r.Register(schema.GroupClasses, classFactory)
	r.Register(schema.GroupInterfaces, interfaceFactory)
	r.Register(schema.GroupEnums, enumFactory)
	r.Register(schema.GroupTypes, typeAliasFactory)
	r.Register(schema.GroupVariables, variableFactory)
	r.Register(schema.GroupFunctions, functionFactory)
	r.Register(schema.GroupModules, moduleFactory)
	return r
}

// Register adds or replaces the factory for a group.
func (r *Registry) Register(g schema.Group, f Factory) {
	r.factories[g] = f
}

// Primitives builds the primitives for group g of def.
func (r *Registry) Primitives(env *Env, def schema.FileDefinition, g schema.Group) ([]Primitive, error) {
	f, ok := r.factories[g]
	if !ok {
		return nil, errors.UnknownKind("registry", string(g))
	}
	return f(env, def), nil
}

// base carries what every primitive shares: the environment and the
// container it was last bound to by Find or Create.
type base struct {
	env       *Env
	container ast.Container
	scope     string
}

func (b *base) bind(parent ast.Container) {
	b.container = parent
	b.scope = parent.Label()
}

// Validate reports no issues.
func (b *base) Validate(ast.Node) (ValidationResult, error) {
	return Result(nil), nil
}

func (b *base) norm() *normalize.Normalizer { return b.env.Norm }

func (b *base) opaque(parent ast.Container, kind ast.Kind, name string) *ast.Raw {
	if r, ok := ast.FindOpaque(parent, kind, func(n string) bool { return n == name }); ok {
		return r
	}
	return nil
}

func (b *base) mark(path, oldValue, newValue string) { b.env.mark(path, oldValue, newValue) }

func wrongNode(op, kind, name string, n ast.Node) error {
	return errors.NewTreeError(op, kind, name, "unexpected node kind "+string(n.Kind()))
}
