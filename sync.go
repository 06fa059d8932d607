package codesync

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/constants"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/reconciler"
	"github.com/agentstation/codesync/pkg/schema"
)

// SyncSource reconciles src against def and returns the new text. Nothing is
// written. The grammar is chosen from the path extension.
func (e *Engine) SyncSource(ctx context.Context, path string, src []byte, def schema.FileDefinition) (*FileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithFile(logging.WithOperation(ctx, "reconcile"), path)

	header := e.headerFor(def)
	def.Header = header

	f, err := e.parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	result, err := e.reconciler.Reconcile(ctx, f, def)
	if err != nil {
		return nil, err
	}

	out := reconciler.HoistHeader(ast.Print(f), header)
	return &FileResult{
		Path:     path,
		Language: f.Language,
		Output:   out,
		Changed:  out != string(src),
		Result:   result,
	}, nil
}

// SyncFile reconciles the file at path and writes it back when it changed.
// A missing file is treated as empty and created along with its directory.
func (e *Engine) SyncFile(ctx context.Context, path string, def schema.FileDefinition) (*FileResult, error) {
	src, _, err := readSource(path)
	if err != nil {
		return nil, err
	}
	res, err := e.SyncSource(ctx, path, src, def)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	if !res.Changed || e.config.dryRun {
		logger.Info().
			Str("file", path).
			Bool("changed", res.Changed).
			Bool("dry_run", e.config.dryRun).
			Str("summary", res.Result.Changeset.String()).
			Msg("File reconciled")
		return res, nil
	}

	if err := writeSource(path, res.Output); err != nil {
		return nil, err
	}
	res.Written = true
	logger.Info().
		Str("file", path).
		Str("summary", res.Result.Changeset.String()).
		Msg("File written")
	e.fileWritten(*res)
	return res, nil
}

// SyncAll syncs every file of the manifest in parallel. Results are in
// manifest order. The first error cancels the remaining files.
func (e *Engine) SyncAll(ctx context.Context, m *schema.Manifest) ([]*FileResult, error) {
	if m == nil {
		return nil, &errors.ValidationError{
			Field:   "manifest",
			Message: "cannot be nil",
		}
	}
	results := make([]*FileResult, len(m.Files))
	err := e.each(ctx, m, func(ctx context.Context, i int, spec schema.FileSpec) error {
		def := spec.Definition
		def.Header = m.HeaderFor(spec)
		res, err := e.SyncFile(ctx, m.Resolve(spec.Path), def)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// each runs fn for every manifest entry with bounded parallelism.
func (e *Engine) each(ctx context.Context, m *schema.Manifest, fn func(ctx context.Context, i int, spec schema.FileSpec) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.concurrency)
	for i, spec := range m.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, spec)
		})
	}
	return g.Wait()
}

func (e *Engine) headerFor(def schema.FileDefinition) string {
	if def.Header != "" {
		return def.Header
	}
	return e.config.header
}

func (e *Engine) parse(ctx context.Context, path string, src []byte) (*ast.File, error) {
	f, err := e.reconciler.Parser(ast.LanguageFor(path)).Parse(ctx, src)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) && perr.File == "" {
			perr.File = path
		}
		return nil, err
	}
	f.Path = path
	return f, nil
}

// readSource reads path. A missing file yields empty source and exists=false.
func readSource(path string) (src []byte, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapIO("read", path, err)
	}
	return data, true, nil
}

func writeSource(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(text), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
