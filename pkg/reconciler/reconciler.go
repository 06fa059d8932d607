// Package reconciler walks a file definition against a syntax tree. Reconcile
// creates or updates every declared construct in place; Validate performs the
// same walk read-only and reports drift as a flat list of issues.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/body"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/primitives"
	"github.com/agentstation/codesync/pkg/schema"
)

// Reconciler is the main interface for bringing a tree in line with a
// definition.
type Reconciler interface {
	// Reconcile creates or updates every construct of def inside c.
	// The first error aborts the pass; c may be partially updated.
	Reconcile(ctx context.Context, c ast.Container, def schema.FileDefinition) (*Result, error)

	// Validate compares c with def without mutating it.
	Validate(ctx context.Context, c ast.Container, def schema.FileDefinition) (ValidationResult, error)

	// Parser returns the parser configured for a language.
	Parser(lang ast.Language) *ast.Parser
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	registry *primitives.Registry
	options  *options
	bodies   map[ast.Language]*body.Reconciler
	fallback ast.Language
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	r := &reconciler{
		registry: options.registry,
		options:  options,
		bodies:   make(map[ast.Language]*body.Reconciler, len(options.parsers)),
		fallback: options.language,
	}
	for lang, parser := range options.parsers {
		r.bodies[lang] = body.NewReconciler(options.renderers, parser, options.normalizer)
	}
	return r, nil
}

func (r *reconciler) Parser(lang ast.Language) *ast.Parser {
	if p, ok := r.options.parsers[lang]; ok {
		return p
	}
	return r.options.parsers[r.fallback]
}

// language resolves the grammar for c: a file's own language, else the
// configured default.
func (r *reconciler) language(c ast.Container) ast.Language {
	if f, ok := c.(*ast.File); ok && f.Language != "" {
		if _, known := r.bodies[f.Language]; known {
			return f.Language
		}
	}
	return r.fallback
}

// env builds the per-pass environment with the walk hooks wired in.
func (r *reconciler) env(ctx context.Context, c ast.Container) (*primitives.Env, *walk) {
	env := primitives.NewEnv(r.bodies[r.language(c)], r.options.normalizer, logging.FromContext(ctx))
	w := &walk{ctx: ctx, registry: r.registry, env: env, logger: env.Logger}
	env.Reconcile = w.reconcile
	env.Validate = w.validate
	return env, w
}

// Reconcile brings c in line with def.
func (r *reconciler) Reconcile(ctx context.Context, c ast.Container, def schema.FileDefinition) (*Result, error) {
	if c == nil {
		return nil, &errors.ValidationError{
			Field:   "container",
			Message: "cannot be nil",
		}
	}

	result := NewResult()
	env, w := r.env(ctx, c)
	result.Changeset = env.Changes

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("scope", c.Label()).
		Msg("Starting reconciliation")

	w.groups = &result.Metadata.Groups
	if err := w.reconcile(c, def); err != nil {
		return nil, err
	}

	result.Finalize()
	logger.Debug().
		Int("created", result.Metadata.Stats.Created).
		Int("updated", result.Metadata.Stats.Updated).
		Int("removed", result.Metadata.Stats.Removed).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation completed")
	return result, nil
}

// Validate reports every drift between c and def.
func (r *reconciler) Validate(ctx context.Context, c ast.Container, def schema.FileDefinition) (ValidationResult, error) {
	if c == nil {
		return ValidationResult{}, &errors.ValidationError{
			Field:   "container",
			Message: "cannot be nil",
		}
	}
	_, w := r.env(ctx, c)
	issues, err := w.validate(c, def)
	if err != nil {
		return ValidationResult{}, err
	}
	logging.FromContext(ctx).Debug().
		Str("scope", c.Label()).
		Int("issues", len(issues)).
		Msg("Validation completed")
	return primitives.Result(issues), nil
}

// walk visits the groups of a definition in declared order. Module
// primitives re-enter it through the environment hooks for nested
// namespaces.
type walk struct {
	ctx      context.Context
	registry *primitives.Registry
	env      *primitives.Env
	logger   *zerolog.Logger
	groups   *[]string // top-level groups visited, nil for validation
	depth    int
}

func (w *walk) reconcile(c ast.Container, def schema.FileDefinition) error {
	w.depth++
	defer func() { w.depth-- }()

	for _, g := range def.Groups() {
		if def.Len(g) == 0 {
			continue
		}
		if err := w.ctx.Err(); err != nil {
			return err
		}
		ps, err := w.registry.Primitives(w.env, def, g)
		if err != nil {
			return err
		}
		if w.groups != nil && w.depth == 1 {
			*w.groups = append(*w.groups, string(g))
		}
		w.logger.Debug().
			Str("group", string(g)).
			Int("entries", len(ps)).
			Int("depth", w.depth).
			Msg("Reconciling group")
		for _, p := range ps {
			if _, err := primitives.Ensure(w.env, p, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walk) validate(c ast.Container, def schema.FileDefinition) ([]string, error) {
	issues := []string{}
	for _, g := range def.Groups() {
		if def.Len(g) == 0 {
			continue
		}
		if err := w.ctx.Err(); err != nil {
			return nil, err
		}
		ps, err := w.registry.Primitives(w.env, def, g)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			found, err := primitives.Check(p, c)
			if err != nil {
				return nil, err
			}
			issues = append(issues, found...)
		}
	}
	return issues, nil
}

// HoistHeader removes every occurrence of marker from text and puts exactly
// one copy on the first line. Lines left blank by the removal are dropped.
// Text without the marker is returned unchanged.
func HoistHeader(text, marker string) string {
	marker = strings.TrimSpace(marker)
	if marker == "" || !strings.Contains(text, marker) {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines)+1)
	kept = append(kept, marker)
	for _, line := range lines {
		if !strings.Contains(line, marker) {
			kept = append(kept, line)
			continue
		}
		rest := strings.ReplaceAll(line, marker, "")
		if strings.TrimSpace(rest) != "" {
			kept = append(kept, strings.TrimRight(rest, " \t"))
		}
	}
	return strings.Join(kept, "\n")
}
