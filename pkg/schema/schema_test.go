package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

const manifestYAML = `
header: "// @generated"
files:
  - path: src/user.service.ts
    definition:
      classes:
        - name: UserService
          exported: true
          methods:
            - name: list
              return_type: Promise<User[]>
              async: true
              statements:
                - kind: variable
                  name: users
                  initializer: await this.repo.find()
                - kind: return
                  value: users
      imports:
        - module: ./user
          named: [User]
          type_only: true
  - path: /abs/index.ts
    definition:
      exports:
        - module: ./user.service
          wildcard: true
`

func TestParseManifest(t *testing.T) {
	m, err := schema.ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	require.Len(t, m.Files, 2)

	def := m.Files[0].Definition
	assert.Equal(t, []schema.Group{schema.GroupClasses, schema.GroupImports}, def.Order)
	require.Len(t, def.Classes, 1)
	method := def.Classes[0].Methods[0]
	assert.Equal(t, "Promise<User[]>", method.ReturnType)
	assert.True(t, method.Async)
	require.Len(t, method.Statements, 2)
	assert.Equal(t, schema.StatementVariable, method.Statements[0].Kind)
	assert.Equal(t, "users", method.Statements[1].Value)
	assert.True(t, def.Imports[0].TypeOnly)

	assert.True(t, m.Files[1].Definition.Exports[0].Wildcard)
	assert.Equal(t, "// @generated", m.HeaderFor(m.Files[0]))
}

func TestParseManifestRejectsUnknownGroup(t *testing.T) {
	_, err := schema.ParseManifest([]byte("files:\n  - path: a.ts\n    definition:\n      bogus: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name    string
		files   []schema.FileSpec
		wantErr bool
	}{
		{"ok", []schema.FileSpec{{Path: "a.ts"}, {Path: "b.ts"}}, false},
		{"missing path", []schema.FileSpec{{}}, true},
		{"duplicate path", []schema.FileSpec{{Path: "a.ts"}, {Path: "a.ts"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&schema.Manifest{Files: tt.files}).Validate()
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestYAML), 0o644))

	m, err := schema.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src/user.service.ts"), m.Resolve(m.Files[0].Path))
	assert.Equal(t, "/abs/index.ts", m.Resolve(m.Files[1].Path))

	_, err = schema.LoadManifest(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestGroups(t *testing.T) {
	def := schema.FileDefinition{Order: []schema.Group{schema.GroupFunctions, schema.GroupImports, schema.GroupFunctions}}
	groups := def.Groups()
	assert.Equal(t, schema.GroupFunctions, groups[0])
	assert.Equal(t, schema.GroupImports, groups[1])
	assert.Len(t, groups, len(schema.DefaultOrder))

	assert.Equal(t, schema.DefaultOrder, schema.FileDefinition{}.Groups())
	assert.True(t, schema.FileDefinition{}.Empty())
	assert.False(t, schema.FileDefinition{Header: "// x"}.Empty())
	assert.Equal(t, -1, def.Len("bogus"))
}

func TestParseBinding(t *testing.T) {
	name, alias := schema.ParseBinding("readFile as rf")
	assert.Equal(t, "readFile", name)
	assert.Equal(t, "rf", alias)

	name, alias = schema.ParseBinding(" User ")
	assert.Equal(t, "User", name)
	assert.Empty(t, alias)
}
