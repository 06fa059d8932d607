package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/pkg/primitives"
)

func auditResults() []*codesync.AuditResult {
	return []*codesync.AuditResult{
		{Path: "a.ts", ValidationResult: primitives.Result(nil)},
		{Path: "b.ts", ValidationResult: primitives.Result([]string{"Class 'B' is missing."})},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table", FormatTable, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestAuditReport(t *testing.T) {
	report := NewAuditReport(auditResults())
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.Issues())

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText).Format(&buf, report))
	assert.Equal(t, "ok     a.ts\ndrift  b.ts\n  - Class 'B' is missing.\n1 issues in 2 files\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, report))
	var decoded struct {
		Valid bool `json:"valid"`
		Files []struct {
			Path   string   `json:"path"`
			Valid  bool     `json:"valid"`
			Issues []string `json:"issues"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.Valid)
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, []string{"Class 'B' is missing."}, decoded.Files[1].Issues)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, report))
	assert.Contains(t, buf.String(), "valid: false")
	assert.Contains(t, buf.String(), "path: b.ts")
}

func TestSyncReport(t *testing.T) {
	results := []*codesync.FileResult{
		{Path: "a.ts", Changed: true, Written: true},
		{Path: "b.ts"},
	}
	report := NewSyncReport(results, false)
	assert.Equal(t, 1, report.Changed())

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText).Format(&buf, report))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "written"))
	assert.Equal(t, "1 of 2 files changed", lines[2])

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, report))
	assert.Contains(t, buf.String(), "a.ts")
	assert.Contains(t, buf.String(), "written")
}
