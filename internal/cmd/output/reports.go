package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/codesync"
)

// SyncReport summarizes a sync run.
type SyncReport struct {
	DryRun bool       `json:"dry_run" yaml:"dry_run"`
	Files  []SyncFile `json:"files" yaml:"files"`
}

// SyncFile is one row of a SyncReport.
type SyncFile struct {
	Path      string `json:"path" yaml:"path"`
	State     string `json:"state" yaml:"state"`
	Created   int    `json:"created" yaml:"created"`
	Updated   int    `json:"updated" yaml:"updated"`
	Removed   int    `json:"removed" yaml:"removed"`
	Unchanged int    `json:"unchanged" yaml:"unchanged"`
}

// NewSyncReport builds a report from engine results.
func NewSyncReport(results []*codesync.FileResult, dryRun bool) SyncReport {
	report := SyncReport{DryRun: dryRun, Files: make([]SyncFile, 0, len(results))}
	for _, r := range results {
		if r == nil {
			continue
		}
		row := SyncFile{Path: r.Path, State: syncState(r)}
		if r.Result != nil {
			stats := r.Result.Metadata.Stats
			row.Created, row.Updated, row.Removed, row.Unchanged = stats.Created, stats.Updated, stats.Removed, stats.Unchanged
		}
		report.Files = append(report.Files, row)
	}
	return report
}

func syncState(r *codesync.FileResult) string {
	switch {
	case r.Written:
		return "written"
	case r.Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// Changed returns the number of files that were or would be modified.
func (r SyncReport) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.State != "unchanged" {
			n++
		}
	}
	return n
}

// Table implements Tabler.
func (r SyncReport) Table() Data {
	data := Data{
		Headers:         []string{"path", "state", "created", "updated", "removed"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for _, f := range r.Files {
		data.Rows = append(data.Rows, []string{
			f.Path, f.State, strconv.Itoa(f.Created), strconv.Itoa(f.Updated), strconv.Itoa(f.Removed),
		})
	}
	return data
}

// Text implements Texter.
func (r SyncReport) Text(w io.Writer) error {
	for _, f := range r.Files {
		if _, err := fmt.Fprintf(w, "%-9s %s (%d created, %d updated, %d removed)\n",
			f.State, f.Path, f.Created, f.Updated, f.Removed); err != nil {
			return err
		}
	}
	verb := "changed"
	if r.DryRun {
		verb = "would change"
	}
	_, err := fmt.Fprintf(w, "%d of %d files %s\n", r.Changed(), len(r.Files), verb)
	return err
}

// AuditReport summarizes a validate run.
type AuditReport struct {
	Valid bool                    `json:"valid" yaml:"valid"`
	Files []*codesync.AuditResult `json:"files" yaml:"files"`
}

// NewAuditReport builds a report from engine results.
func NewAuditReport(results []*codesync.AuditResult) AuditReport {
	return AuditReport{Valid: !codesync.Drifted(results), Files: results}
}

// Issues returns the total number of issues.
func (r AuditReport) Issues() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Issues)
	}
	return n
}

// Table implements Tabler. Each issue gets its own row.
func (r AuditReport) Table() Data {
	data := Data{Headers: []string{"path", "status", "issue"}}
	for _, f := range r.Files {
		if f.Valid {
			data.Rows = append(data.Rows, []string{f.Path, "ok", ""})
			continue
		}
		for _, issue := range f.Issues {
			data.Rows = append(data.Rows, []string{f.Path, "drift", issue})
		}
	}
	return data
}

// Text implements Texter.
func (r AuditReport) Text(w io.Writer) error {
	for _, f := range r.Files {
		if f.Valid {
			if _, err := fmt.Fprintf(w, "ok     %s\n", f.Path); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "drift  %s\n", f.Path); err != nil {
			return err
		}
		for _, issue := range f.Issues {
			if _, err := fmt.Fprintf(w, "  - %s\n", issue); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d issues in %d files\n", r.Issues(), len(r.Files))
	return err
}
