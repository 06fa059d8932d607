package codesync_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/schema"
)

const header = "// @generated by codesync"

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.NewNopLogger())
}

func newEngine(t *testing.T, opts ...codesync.Option) *codesync.Engine {
	t.Helper()
	e, err := codesync.New(append([]codesync.Option{codesync.WithHeader(header)}, opts...)...)
	require.NoError(t, err)
	return e
}

var service = schema.FileDefinition{
	Imports: []schema.ImportConfig{{Module: "./repo", Named: []string{"Repo"}}},
	Classes: []schema.ClassConfig{{
		Name:     "UserService",
		Exported: true,
		Methods: []schema.MethodConfig{{
			Name:       "list",
			ReturnType: "string[]",
			Body:       schema.Body{Statements: []schema.Statement{schema.Return("[]")}},
		}},
	}},
}

func TestSyncFileCreatesMissingFile(t *testing.T) {
	e := newEngine(t)
	path := filepath.Join(t.TempDir(), "src", "services", "user.ts")

	res, err := e.SyncFile(testContext(), path, service)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, header+"\n"), text)
	assert.Contains(t, text, "import { Repo } from './repo';")
	assert.Contains(t, text, "export class UserService {")

	again, err := e.SyncFile(testContext(), path, service)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.False(t, again.Written)
	assert.False(t, again.Result.HasChanges())
}

func TestSyncFilePreservesHandEdits(t *testing.T) {
	e := newEngine(t)
	path := filepath.Join(t.TempDir(), "user.ts")
	src := "import { Repo } from './repo';\n\nexport class UserService {\n  list(): string[] {\n    return this.cached;\n  }\n\n  private helper() {\n    return 1;\n  }\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := e.SyncFile(testContext(), path, service)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "return this.cached;")
	assert.Contains(t, text, "private helper()")
	assert.Equal(t, 1, strings.Count(text, header))
}

func TestSyncConformingFileIsUnchanged(t *testing.T) {
	e := newEngine(t)
	src := header + `
import { Repo } from "./repo";

const   KEEP = 1

export class UserService {
    list(): string[] {
        return [];
    }

    helper(
        a: string,
        b: number,
    ) {
        return a + b;
    }
}
`
	res, err := e.SyncSource(testContext(), "user.ts", []byte(src), service)
	require.NoError(t, err)
	assert.False(t, res.Result.HasChanges(), res.Result.Changeset.Details())
	assert.False(t, res.Changed)
	assert.Equal(t, src, res.Output)
}

func TestSyncHoistsHeader(t *testing.T) {
	e := newEngine(t)
	src := "import { Repo } from './repo';\n" + header + "\nexport const x = 1;\n"
	def := schema.FileDefinition{Variables: []schema.VariableConfig{{Name: "x", Exported: true, Initializer: "1"}}}

	res, err := e.SyncSource(testContext(), "x.ts", []byte(src), def)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Output, header+"\n"), res.Output)
	assert.Equal(t, 1, strings.Count(res.Output, header))
}

func TestSyncDryRun(t *testing.T) {
	e := newEngine(t, codesync.WithDryRun(true))
	path := filepath.Join(t.TempDir(), "user.ts")

	res, err := e.SyncFile(testContext(), path, service)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Written)
	assert.NotEmpty(t, res.Output)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSyncTSX(t *testing.T) {
	e := newEngine(t)
	def := schema.FileDefinition{Functions: []schema.FunctionConfig{{
		Name:     "Badge",
		Exported: true,
		Body: schema.Body{Statements: []schema.Statement{
			schema.JSX(schema.JSXElement{Tag: "span", Props: []schema.JSXProp{{Name: "className", Text: "badge"}}, Text: "new"}),
		}},
	}}}

	res, err := e.SyncSource(testContext(), "badge.tsx", nil, def)
	require.NoError(t, err)
	assert.Equal(t, "tsx", string(res.Language))
	assert.Contains(t, res.Output, `<span className="badge">new</span>`)

	again, err := e.SyncSource(testContext(), "badge.tsx", []byte(res.Output), def)
	require.NoError(t, err)
	assert.False(t, again.Changed)
}

func TestAuditFile(t *testing.T) {
	e := newEngine(t)
	dir := t.TempDir()

	missing, err := e.AuditFile(testContext(), filepath.Join(dir, "none.ts"), service)
	require.NoError(t, err)
	assert.True(t, missing.Missing)
	assert.False(t, missing.Valid)
	assert.Contains(t, missing.Issues, "Class 'UserService' is missing.")

	path := filepath.Join(dir, "user.ts")
	require.NoError(t, os.WriteFile(path, []byte(header+"\nexport class UserService {}\n"), 0o644))
	drifted, err := e.AuditFile(testContext(), path, service)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Import './repo' is missing.",
		"Method 'list' is missing in UserService.",
	}, drifted.Issues)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"\nexport class UserService {}\n", string(before))
}

func TestManifestRuns(t *testing.T) {
	dir := t.TempDir()
	m := &schema.Manifest{Dir: dir, Header: header}
	for _, name := range []string{"a.ts", "b.ts", "nested/c.ts", "d.tsx"} {
		m.Files = append(m.Files, schema.FileSpec{
			Path: name,
			Definition: schema.FileDefinition{Types: []schema.TypeAliasConfig{{
				Name:     "T" + strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
				Exported: true,
				Type:     "string",
			}}},
		})
	}

	e, err := codesync.New(codesync.WithConcurrency(2))
	require.NoError(t, err)

	var mu sync.Mutex
	var written []string
	e.OnFileWritten(func(r codesync.FileResult) {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, r.Path)
	})
	var drifted int
	e.OnDrift(func(codesync.AuditResult) {
		mu.Lock()
		defer mu.Unlock()
		drifted++
	})

	audits, err := e.AuditAll(testContext(), m)
	require.NoError(t, err)
	assert.True(t, codesync.Drifted(audits))
	assert.Equal(t, 4, drifted)

	results, err := e.SyncAll(testContext(), m)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, m.Resolve(m.Files[i].Path), r.Path)
		assert.True(t, r.Written)
	}
	assert.Len(t, written, 4)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "c.ts"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), header+"\n"))
	assert.Contains(t, string(data), "export type Tc = string;")

	audits, err = e.AuditAll(testContext(), m)
	require.NoError(t, err)
	assert.False(t, codesync.Drifted(audits))
	for _, a := range audits {
		assert.Empty(t, a.Issues, a.Path)
	}
}

func TestErrors(t *testing.T) {
	_, err := codesync.New(codesync.WithConcurrency(0))
	assert.True(t, errors.IsValidationError(err))

	e := newEngine(t)
	_, err = e.SyncSource(testContext(), "broken.ts", []byte("class {\n"), service)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	var perr *errors.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.ts", perr.File)

	_, err = e.SyncAll(testContext(), nil)
	assert.True(t, errors.IsValidationError(err))
}
