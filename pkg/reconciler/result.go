package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/codesync/pkg/primitives"
)

// Result represents the outcome of a reconciliation pass.
type Result struct {
	// Changes made to the tree, in the order they happened
	Changeset *primitives.Changeset

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation pass.
type ResultMetadata struct {
	// StartTime when reconciliation started
	StartTime time.Time

	// EndTime when reconciliation completed
	EndTime time.Time

	// Duration of the reconciliation
	Duration time.Duration

	// Groups that were walked, in order
	Groups []string

	// Statistics about the reconciliation
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	Created     int
	Updated     int
	Removed     int
	Unchanged   int
	TotalTimeMs int64
}

// HasChanges returns true if the pass modified the tree.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.HasChanges() {
		return fmt.Sprintf("Reconciliation successful. %s", r.Changeset.String())
	}
	return "Reconciliation completed. No changes needed."
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Changeset: primitives.NewChangeset(),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Groups:    []string{},
		},
	}
}

// Finalize calculates duration and statistics.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
	if r.Changeset != nil {
		r.Metadata.Stats.Created = r.Changeset.Count(primitives.ChangeCreate)
		r.Metadata.Stats.Updated = r.Changeset.Count(primitives.ChangeUpdate)
		r.Metadata.Stats.Removed = r.Changeset.Count(primitives.ChangeRemove)
		r.Metadata.Stats.Unchanged = r.Changeset.Count(primitives.ChangeUnchanged)
	}
}
