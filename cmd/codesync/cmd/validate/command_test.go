package validate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/cmd/application"
	"github.com/agentstation/codesync/cmd/codesync/cmd/validate"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := validate.NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	m := &schema.Manifest{
		Dir: dir,
		Files: []schema.FileSpec{{
			Path:       "a.ts",
			Definition: schema.FileDefinition{Types: []schema.TypeAliasConfig{{Name: "A", Exported: true, Type: "string"}}},
		}},
	}
	app := &application.Mock{
		ManifestFunc: func(string) (*schema.Manifest, error) { return m, nil },
	}

	out, err := run(t, app)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrDrift))
	assert.Contains(t, out, "drift  "+path)
	assert.Contains(t, out, "1 issues in 1 files")

	require.NoError(t, os.WriteFile(path, []byte("export type A = string;\n"), 0o644))
	out, err = run(t, app)
	require.NoError(t, err)
	assert.Equal(t, "ok     "+path+"\n0 issues in 1 files\n", out)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export type A = string;\n", string(before))
}

func TestValidateCommandManifestError(t *testing.T) {
	app := &application.Mock{
		ManifestFunc: func(path string) (*schema.Manifest, error) {
			return schema.LoadManifest(filepath.Join(t.TempDir(), "none.yaml"))
		},
	}
	_, err := run(t, app)
	require.Error(t, err)
	assert.False(t, errors.Is(err, validate.ErrDrift))
}
