// Package codesync keeps TypeScript and TSX source files in line with a
// declarative description of the constructs they must contain.
//
// The Engine works on whole files: it parses the current source, reconciles
// it against a definition, prints the tree and moves the generated-file
// header to the first line. Constructs are created when missing and updated
// in place when they drift; hand-written code that the definition does not
// name is left alone, and statements already present in generated bodies
// are kept verbatim.
//
// Example usage:
//
//	engine, err := codesync.New(
//	    codesync.WithHeader("// @generated by codesync"),
//	    codesync.WithConcurrency(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manifest, err := schema.LoadManifest("codesync.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write every file of the manifest
//	results, err := engine.SyncAll(ctx, manifest)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s: %s\n", r.Path, r.Result.Summary())
//	}
//
//	// Report drift without touching the files
//	audits, err := engine.AuditAll(ctx, manifest)
package codesync

import (
	"fmt"

	"github.com/agentstation/codesync/pkg/reconciler"
)

// Engine reconciles files on disk. It is safe for concurrent use.
type Engine struct {
	*hooks

	config     *config
	reconciler reconciler.Reconciler
}

// New creates a new Engine with the given options
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	if err := cfg.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	rec, err := reconciler.New(cfg.reconciler...)
	if err != nil {
		return nil, fmt.Errorf("creating reconciler: %w", err)
	}

	return &Engine{
		hooks:      newHooks(),
		config:     cfg,
		reconciler: rec,
	}, nil
}

// Reconciler returns the reconciler the engine runs.
func (e *Engine) Reconciler() reconciler.Reconciler {
	return e.reconciler
}
