package codesync

import (
	"context"

	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/schema"
)

// AuditSource validates src against def without modifying anything.
func (e *Engine) AuditSource(ctx context.Context, path string, src []byte, def schema.FileDefinition) (*AuditResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithFile(logging.WithOperation(ctx, "validate"), path)
	def.Header = e.headerFor(def)

	f, err := e.parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	res, err := e.reconciler.Validate(ctx, f, def)
	if err != nil {
		return nil, err
	}
	return &AuditResult{Path: path, ValidationResult: res}, nil
}

// AuditFile validates the file at path. A missing file reports every
// construct of def as missing.
func (e *Engine) AuditFile(ctx context.Context, path string, def schema.FileDefinition) (*AuditResult, error) {
	src, exists, err := readSource(path)
	if err != nil {
		return nil, err
	}
	res, err := e.AuditSource(ctx, path, src, def)
	if err != nil {
		return nil, err
	}
	res.Missing = !exists

	logging.FromContext(ctx).Info().
		Str("file", path).
		Bool("valid", res.Valid).
		Int("issues", len(res.Issues)).
		Msg("File validated")
	e.drift(*res)
	return res, nil
}

// AuditAll validates every file of the manifest in parallel. Results are in
// manifest order.
func (e *Engine) AuditAll(ctx context.Context, m *schema.Manifest) ([]*AuditResult, error) {
	if m == nil {
		return nil, &errors.ValidationError{
			Field:   "manifest",
			Message: "cannot be nil",
		}
	}
	results := make([]*AuditResult, len(m.Files))
	err := e.each(ctx, m, func(ctx context.Context, i int, spec schema.FileSpec) error {
		def := spec.Definition
		def.Header = m.HeaderFor(spec)
		res, err := e.AuditFile(ctx, m.Resolve(spec.Path), def)
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
