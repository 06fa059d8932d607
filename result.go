package codesync

import (
	"fmt"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/reconciler"
)

// FileResult is the outcome of syncing one file.
type FileResult struct {
	Path     string       `json:"path" yaml:"path"`
	Language ast.Language `json:"language" yaml:"language"`

	// Output is the reconciled source text.
	Output string `json:"-" yaml:"-"`

	// Changed is true when Output differs from the source that was read.
	Changed bool `json:"changed" yaml:"changed"`

	// Written is true when Output was written to Path.
	Written bool `json:"written" yaml:"written"`

	// Result carries the changeset of the pass.
	Result *reconciler.Result `json:"-" yaml:"-"`
}

// Summary returns a one line description of the result.
func (r *FileResult) Summary() string {
	state := "unchanged"
	switch {
	case r.Written:
		state = "written"
	case r.Changed:
		state = "would change"
	}
	if r.Result == nil || r.Result.Changeset == nil {
		return fmt.Sprintf("%s: %s", r.Path, state)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Path, state, r.Result.Changeset.String())
}

// AuditResult is the outcome of validating one file.
type AuditResult struct {
	Path string `json:"path" yaml:"path"`

	// Missing is true when the file does not exist.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`

	reconciler.ValidationResult `yaml:",inline"`
}

// Drifted reports whether any result has issues.
func Drifted(results []*AuditResult) bool {
	for _, r := range results {
		if r != nil && !r.Valid {
			return true
		}
	}
	return false
}
