package body

import (
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/normalize"
	"github.com/agentstation/codesync/pkg/schema"
)

// Splitter breaks a statement block into classified top-level statements.
// *ast.Parser implements it.
type Splitter interface {
	Statements(body string) ([]ast.Statement, error)
}

// Outcome describes what Reconcile did to a body.
type Outcome string

// Reconcile outcomes.
const (
	Unchanged   Outcome = "unchanged"   // existing body already matches
	Written     Outcome = "written"     // there was no body; the rendered block was written
	Overwritten Outcome = "overwritten" // always-overwrite replaced the body
	Merged      Outcome = "merged"      // missing statements were appended to the existing body
	Preserved   Outcome = "preserved"   // every generated statement has an existing counterpart
)

// Changed reports whether the body text was modified.
func (o Outcome) Changed() bool {
	return o == Written || o == Overwritten || o == Merged
}

// Reconciler merges rendered statement blocks into existing bodies.
//
// Matching is strict: generated statement i is satisfied when existing
// statement i (comments skipped) has the same kind, or when some existing
// statement has the same text under normalize.Code. Existing statements are
// never rewritten or reordered; unsatisfied statements are appended in
// declared order.
type Reconciler struct {
	renderers *Renderers
	splitter  Splitter
	norm      *normalize.Normalizer
}

// NewReconciler creates a body reconciler. A nil renderer registry or
// normalizer selects the defaults.
func NewReconciler(renderers *Renderers, splitter Splitter, norm *normalize.Normalizer) *Reconciler {
	if renderers == nil {
		renderers = NewRenderers()
	}
	if norm == nil {
		norm = normalize.Default
	}
	return &Reconciler{renderers: renderers, splitter: splitter, norm: norm}
}

// Render renders a statement list to a block.
func (r *Reconciler) Render(stmts []schema.Statement) (string, error) {
	return r.renderers.Block(stmts)
}

// Reconcile returns the body text that results from applying stmts to
// existing. A nil existing means the construct has no body yet.
func (r *Reconciler) Reconcile(existing *string, stmts []schema.Statement, overwrite bool) (string, Outcome, error) {
	candidate, err := r.Render(stmts)
	if err != nil {
		return "", "", err
	}

	if overwrite {
		if existing != nil && *existing == candidate {
			return candidate, Unchanged, nil
		}
		return candidate, Overwritten, nil
	}
	if existing == nil {
		return candidate, Written, nil
	}
	if r.norm.Code(*existing) == r.norm.Code(candidate) {
		return *existing, Unchanged, nil
	}

	missing, err := r.unsatisfied(*existing, candidate)
	if err != nil {
		return "", "", err
	}
	if len(missing) == 0 {
		return *existing, Preserved, nil
	}

	var b strings.Builder
	if trimmed := strings.TrimRight(*existing, " \t\n"); trimmed != "" {
		b.WriteString(trimmed)
		b.WriteString("\n")
	}
	for i, s := range missing {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Text)
	}
	return b.String(), Merged, nil
}

// Matches reports whether reconciling existing would leave it untouched.
// With overwrite set the body must equal the rendered block under
// normalize.Code.
func (r *Reconciler) Matches(existing *string, stmts []schema.Statement, overwrite bool) (bool, error) {
	candidate, err := r.Render(stmts)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if r.norm.Code(*existing) == r.norm.Code(candidate) {
		return true, nil
	}
	if overwrite {
		return false, nil
	}
	missing, err := r.unsatisfied(*existing, candidate)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// unsatisfied returns the generated statements with no existing counterpart.
func (r *Reconciler) unsatisfied(existing, candidate string) ([]ast.Statement, error) {
	if r.splitter == nil {
		return nil, errors.NewConfigError("body", "no statement splitter configured", nil)
	}
	have, err := r.splitter.Statements(existing)
	if err != nil {
		return nil, errors.WrapTree("split", "body", "", err)
	}
	want, err := r.splitter.Statements(candidate)
	if err != nil {
		return nil, errors.NewConfigError("statement", "rendered block does not parse", err)
	}
	have = code(have)
	want = code(want)

	present := make(map[string]bool, len(have))
	for _, s := range have {
		present[r.norm.Code(s.Text)] = true
	}

	var missing []ast.Statement
	for i, s := range want {
		if i < len(have) && have[i].Kind == s.Kind {
			continue
		}
		if present[r.norm.Code(s.Text)] {
			continue
		}
		missing = append(missing, s)
	}
	return missing, nil
}

// code drops comment statements.
func code(stmts []ast.Statement) []ast.Statement {
	out := stmts[:0:0]
	for _, s := range stmts {
		if s.Kind != ast.StmtComment {
			out = append(out, s)
		}
	}
	return out
}
