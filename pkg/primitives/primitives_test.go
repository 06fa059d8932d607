package primitives_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/primitives"
	"github.com/agentstation/codesync/pkg/schema"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := ast.NewParser(ast.TypeScript).Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

// newEnv returns an environment whose nested walk runs every group of a
// definition through the registry.
func newEnv() *primitives.Env {
	env := primitives.NewEnv(nil, nil, logging.NewNopLogger())
	reg := primitives.NewRegistry()
	env.Reconcile = func(c ast.Container, def schema.FileDefinition) error {
		for _, g := range def.Groups() {
			prims, err := reg.Primitives(env, def, g)
			if err != nil {
				return err
			}
			for _, p := range prims {
				if _, err := primitives.Ensure(env, p, c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	env.Validate = func(c ast.Container, def schema.FileDefinition) ([]string, error) {
		var out []string
		for _, g := range def.Groups() {
			prims, err := reg.Primitives(env, def, g)
			if err != nil {
				return nil, err
			}
			for _, p := range prims {
				found, err := primitives.Check(p, c)
				if err != nil {
					return nil, err
				}
				out = append(out, found...)
			}
		}
		return out, nil
	}
	return env
}

// apply reconciles def into src and returns the printed result and the
// changeset. It then checks that a second pass over the output is a no-op.
func apply(t *testing.T, src string, def schema.FileDefinition) (string, *primitives.Changeset) {
	t.Helper()
	env := newEnv()
	f := parse(t, src)
	require.NoError(t, env.Reconcile(f, def))
	out := ast.Print(f)

	again := newEnv()
	g := parse(t, out)
	require.NoError(t, again.Reconcile(g, def))
	assert.Equal(t, out, ast.Print(g), "second pass changed the output")
	assert.False(t, again.Changes.HasChanges(), "second pass recorded changes:\n%s", again.Changes.Details())

	issues, err := again.Validate(g, def)
	require.NoError(t, err)
	assert.Empty(t, issues)
	return out, env.Changes
}

func check(t *testing.T, src string, def schema.FileDefinition) []string {
	t.Helper()
	issues, err := newEnv().Validate(parse(t, src), def)
	require.NoError(t, err)
	return issues
}

var userService = schema.ClassConfig{
	Name:       "UserService",
	Exported:   true,
	Doc:        "Service for users.",
	Decorators: []schema.DecoratorConfig{{Name: "Injectable"}},
	Properties: []schema.PropertyConfig{
		{Name: "cache", Scope: "private", Readonly: true, Type: "Map<string, User>", Initializer: "new Map()"},
	},
	Methods: []schema.MethodConfig{{
		Name:       "list",
		Async:      true,
		ReturnType: "Promise<User[]>",
		Body: schema.Body{Statements: []schema.Statement{
			schema.Var("users", "await this.repo.find()"),
			schema.Return("users"),
		}},
	}},
}

func TestCreateClass(t *testing.T) {
	out, changes := apply(t, "", schema.FileDefinition{Classes: []schema.ClassConfig{userService}})

	want := `/** Service for users. */
@Injectable()
export class UserService {
  private readonly cache: Map<string, User> = new Map();

  async list(): Promise<User[]> {
    const users = await this.repo.find();
    return users;
  }
}
`
	assert.Equal(t, want, out)
	assert.Equal(t, 3, changes.Count(primitives.ChangeCreate))
}

func TestUpdateKeepsUnlistedMembers(t *testing.T) {
	src := `export class UserService {
  private readonly cache: Map<string, User> = new Map();

  list(): string {
    return 'x';
  }

  helper() {
    return 1;
  }
}
`
	def := schema.FileDefinition{Classes: []schema.ClassConfig{{
		Name:     "UserService",
		Exported: true,
		Methods:  []schema.MethodConfig{{Name: "list", ReturnType: "Promise<User[]>"}},
	}}}

	issues := check(t, src, def)
	assert.Equal(t, []string{"Method 'list' in UserService has return type 'string', expected 'Promise<User[]>'."}, issues)

	out, changes := apply(t, src, def)
	assert.Contains(t, out, "  list(): Promise<User[]> {\n    return 'x';\n  }")
	assert.Contains(t, out, "  helper() {\n    return 1;\n  }")
	assert.Contains(t, out, "private readonly cache")

	updated := changes.Filter(primitives.ChangeUpdate)
	require.Len(t, updated, 1)
	assert.Equal(t, "list", updated[0].Name)
	assert.Equal(t, "UserService", updated[0].Scope)
	assert.Equal(t, []primitives.FieldChange{{Path: "return_type", OldValue: "string", NewValue: "Promise<User[]>"}}, updated[0].Fields)
}

func TestValidateMissing(t *testing.T) {
	def := schema.FileDefinition{Classes: []schema.ClassConfig{userService}}

	assert.Equal(t, []string{"Class 'UserService' is missing."}, check(t, "", def))

	issues := check(t, "class UserService {}\n", def)
	assert.Contains(t, issues, "Class 'UserService' should be exported.")
	assert.Contains(t, issues, "Class 'UserService' is missing its doc comment.")
	assert.Contains(t, issues, "Class 'UserService' is missing decorator '@Injectable'.")
	assert.Contains(t, issues, "Property 'cache' is missing in UserService.")
	assert.Contains(t, issues, "Method 'list' is missing in UserService.")
}

func TestMemberPlacement(t *testing.T) {
	src := `class Widget {
  a = 1;

  run() {}
}
`
	def := schema.FileDefinition{Classes: []schema.ClassConfig{{
		Name:        "Widget",
		Properties:  []schema.PropertyConfig{{Name: "a", Initializer: "1"}, {Name: "b", Type: "string"}},
		Constructor: &schema.ConstructorConfig{Params: []schema.ParameterConfig{{Name: "svc", Type: "Service", Scope: "private"}}},
		Accessors:   []schema.AccessorConfig{{Name: "size", Kind: schema.AccessorGet, ReturnType: "number", Body: schema.Body{Statements: []schema.Statement{schema.Return("0")}}}},
	}}}

	f := parse(t, src)
	env := newEnv()
	require.NoError(t, env.Reconcile(f, def))

	cls, ok := ast.Find[*ast.Class](f, nil)
	require.True(t, ok)
	var order []string
	for _, n := range cls.Children() {
		order = append(order, ast.Named(n))
	}
	assert.Equal(t, []string{"a", "b", "constructor", "run", "size"}, order)
	assert.Contains(t, ast.Print(f), "  constructor(private svc: Service) {}")
}

func TestDecoratorsAndParameters(t *testing.T) {
	src := `class Users {
  @Get('old')
  list(a: string, b) {}
}
`
	def := schema.FileDefinition{Classes: []schema.ClassConfig{{
		Name: "Users",
		Methods: []schema.MethodConfig{{
			Name:       "list",
			Decorators: []schema.DecoratorConfig{{Name: "Get", Args: []string{"'/users'"}}},
			Params:     []schema.ParameterConfig{{Name: "a", Type: "number"}},
		}},
	}}}

	issues := check(t, src, def)
	assert.ElementsMatch(t, []string{
		"Method 'list' in Users has 2 parameters, expected 1.",
		"Parameter 'a' of Method 'list' in Users has type 'string', expected 'number'.",
		"Decorator '@Get' on Method 'list' in Users has argument 1 ''old'', expected ''/users''.",
	}, issues)

	out, _ := apply(t, src, def)
	assert.Contains(t, out, "  @Get('/users')\n  list(a: number) {}")
}

func TestBodyMerge(t *testing.T) {
	src := `function load() {
  const users = fetchAll();
}
`
	def := schema.FileDefinition{Functions: []schema.FunctionConfig{{
		Name: "load",
		Body: schema.Body{Statements: []schema.Statement{
			schema.Var("users", "fetchUsers()"),
			schema.Return("users"),
		}},
	}}}

	issues := check(t, src, def)
	assert.Equal(t, []string{"Function 'load' has a body that does not match the generated statements."}, issues)

	out, _ := apply(t, src, def)
	assert.Equal(t, "function load() {\n  const users = fetchAll();\n  return users;\n}\n", out)
}

func TestImportConsolidation(t *testing.T) {
	src := `// @generated
import { User } from '@/models/user/dist/index';
import { Role, Extra } from '@/models/user';
import { User, helper } from './legacy';
import { Role } from './roles';
import './polyfill';
`
	def := schema.FileDefinition{Imports: []schema.ImportConfig{{Module: "@/models/user", Named: []string{"User", "Role"}}}}

	out, changes := apply(t, src, def)
	assert.Equal(t, `// @generated
import { User, Role } from '@/models/user';
import { helper } from './legacy';
import './polyfill';
`, out)
	assert.Equal(t, 2, changes.Count(primitives.ChangeRemove))
}

func TestImportForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		cfg  schema.ImportConfig
		want string
	}{
		{
			name: "type only strips binding markers",
			src:  "import { type A, B } from './t';\n",
			cfg:  schema.ImportConfig{Module: "./t", Named: []string{"A", "B"}, TypeOnly: true},
			want: "import type { A, B } from './t';\n",
		},
		{
			name: "type only declaration folds with markers",
			src:  "import { B } from './t';\nimport type { A } from './t';\n",
			cfg:  schema.ImportConfig{Module: "./t", Named: []string{"B", "A"}},
			want: "import { B, type A } from './t';\n",
		},
		{
			name: "alias is applied",
			src:  "import { readFile } from 'fs';\n",
			cfg:  schema.ImportConfig{Module: "fs", Named: []string{"readFile as rf"}},
			want: "import { readFile as rf } from 'fs';\n",
		},
		{
			name: "default added next to named",
			src:  "import { useState } from 'react';\n",
			cfg:  schema.ImportConfig{Module: "react", Default: "React", Named: []string{"useState"}},
			want: "import React, { useState } from 'react';\n",
		},
		{
			name: "created after leading comments",
			src:  "// header\nclass A {}\n",
			cfg:  schema.ImportConfig{Module: "y", Named: []string{"x"}},
			want: "// header\nimport { x } from 'y';\n\nclass A {}\n",
		},
		{
			name: "side effect import",
			src:  "const a = 1;\n",
			cfg:  schema.ImportConfig{Module: "./polyfill"},
			want: "import './polyfill';\n\nconst a = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := apply(t, tt.src, schema.FileDefinition{Imports: []schema.ImportConfig{tt.cfg}})
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestImportValidation(t *testing.T) {
	src := "import { User } from '@/models/user/dist/index';\n"
	def := schema.FileDefinition{Imports: []schema.ImportConfig{{Module: "@/models/user", Named: []string{"User", "Role"}, TypeOnly: true}}}
	assert.Equal(t, []string{
		"Import '@/models/user' has specifier '@/models/user/dist/index', expected '@/models/user'.",
		"Import '@/models/user' is missing named binding 'Role'.",
		"Import '@/models/user' should be type-only.",
	}, check(t, src, def))
}

func TestImportUnexpectedBindings(t *testing.T) {
	src := "import { User, Extra } from './models';\nimport { Role } from './roles';\n"
	def := schema.FileDefinition{Imports: []schema.ImportConfig{{Module: "./models", Named: []string{"User", "Role"}}}}

	assert.Equal(t, []string{
		"Import './models' has unexpected named binding 'Extra'.",
		"Import './models' is missing named binding 'Role'.",
		"Import './models' has unexpected binding 'Role' imported from './roles'.",
	}, check(t, src, def))

	out, _ := apply(t, src, def)
	assert.Equal(t, "import { User, Role } from './models';\n", out)
}

func TestOpaqueConstructs(t *testing.T) {
	src := "const a = 1, b = 2;\n"
	def := schema.FileDefinition{Variables: []schema.VariableConfig{{Name: "a", Kind: "let", Initializer: "3"}}}

	assert.Empty(t, check(t, src, def))

	env := newEnv()
	f := parse(t, src)
	require.NoError(t, env.Reconcile(f, def))
	assert.Equal(t, src, ast.Print(f))
	assert.Equal(t, 1, env.Changes.Count(primitives.ChangeUnchanged))
	assert.False(t, env.Changes.HasChanges())
}

func TestExports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		cfg  []schema.ExportConfig
		want string
	}{
		{
			name: "wildcard clears the named list",
			src:  "export { a, b } from './a';\n",
			cfg:  []schema.ExportConfig{{Module: "./a", Wildcard: true}},
			want: "export * from './a';\n",
		},
		{
			name: "local lists are folded",
			src:  "export { a, b };\nexport { c, a };\n",
			cfg:  []schema.ExportConfig{{Named: []string{"a", "c"}}},
			want: "export { a, c };\n",
		},
		{
			name: "names move between declarations",
			src:  "export { a, b } from './old';\n",
			cfg:  []schema.ExportConfig{{Module: "./new", Named: []string{"a"}}},
			want: "export { b } from './old';\nexport { a } from './new';\n",
		},
		{
			name: "namespace re-export",
			src:  "",
			cfg:  []schema.ExportConfig{{Module: "./b", Namespace: "b"}},
			want: "export * as b from './b';\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := apply(t, tt.src, schema.FileDefinition{Exports: tt.cfg})
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEnum(t *testing.T) {
	src := "export enum Role {\n  Admin = 'root',\n  Guest,\n}\n"
	def := schema.FileDefinition{Enums: []schema.EnumConfig{{
		Name:     "Role",
		Exported: true,
		Members:  []schema.EnumMemberConfig{{Name: "Admin", Value: "'admin'"}, {Name: "User", Value: "'user'"}},
	}}}

	assert.Equal(t, []string{
		"Enum member 'Role.Admin' has value ''root'', expected ''admin''.",
		"Enum 'Role' is missing member 'User'.",
	}, check(t, src, def))

	out, _ := apply(t, src, def)
	assert.Equal(t, "export enum Role {\n  Admin = 'admin',\n  Guest,\n  User = 'user',\n}\n", out)
}

func TestDeclarations(t *testing.T) {
	src := "let limit = 5;\n\ntype ID = string;\n"
	def := schema.FileDefinition{
		Types:     []schema.TypeAliasConfig{{Name: "ID", Exported: true, Type: "string | number"}},
		Variables: []schema.VariableConfig{{Name: "limit", Kind: "const", Type: "number", Initializer: "10"}},
		Interfaces: []schema.InterfaceConfig{{
			Name:       "Props",
			Properties: []schema.PropertyConfig{{Name: "id", Type: "ID", Readonly: true}},
			Methods:    []schema.MethodConfig{{Name: "render", ReturnType: "string"}},
		}},
	}
	out, _ := apply(t, src, def)
	assert.Equal(t, `const limit: number = 10;

export type ID = string | number;

interface Props {
  readonly id: ID;
  render(): string;
}
`, out)
}

func TestHeader(t *testing.T) {
	src := "import { a } from 'a';\n// @generated by codesync\n"
	def := schema.FileDefinition{Header: "// @generated by codesync"}

	assert.Equal(t, []string{"Header '// @generated by codesync' is not on the first line."}, check(t, src, def))

	out, _ := apply(t, src, def)
	assert.Equal(t, "// @generated by codesync\nimport { a } from 'a';\n", out)
}

func TestModule(t *testing.T) {
	def := schema.FileDefinition{Modules: []schema.ModuleConfig{{
		Name:     "Shapes",
		Exported: true,
		Definition: schema.FileDefinition{Functions: []schema.FunctionConfig{{
			Name:       "area",
			Exported:   true,
			ReturnType: "number",
			Body:       schema.Body{Statements: []schema.Statement{schema.Return("0")}},
		}}},
	}}}

	out, _ := apply(t, "", def)
	assert.Equal(t, "export namespace Shapes {\n  export function area(): number {\n    return 0;\n  }\n}\n", out)

	issues := check(t, "export namespace Shapes {}\n", def)
	assert.Equal(t, []string{"Function 'area' is missing in Shapes."}, issues)
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		def  schema.FileDefinition
	}{
		{"class without name", schema.FileDefinition{Classes: []schema.ClassConfig{{}}}},
		{"type without type", schema.FileDefinition{Types: []schema.TypeAliasConfig{{Name: "X"}}}},
		{"const without initializer", schema.FileDefinition{Variables: []schema.VariableConfig{{Name: "x"}}}},
		{"import without module", schema.FileDefinition{Imports: []schema.ImportConfig{{Named: []string{"a"}}}}},
		{"local wildcard", schema.FileDefinition{Exports: []schema.ExportConfig{{Wildcard: true}}}},
		{"empty export", schema.FileDefinition{Exports: []schema.ExportConfig{{Module: "./a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newEnv().Reconcile(parse(t, ""), tt.def)
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err), "unexpected error: %v", err)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := primitives.NewRegistry()
	env := newEnv()
	_, err := reg.Primitives(env, schema.FileDefinition{}, schema.Group("bogus"))
	assert.True(t, errors.IsUnknownKind(err))

	prims, err := reg.Primitives(env, schema.FileDefinition{Header: "// x"}, schema.GroupHeader)
	require.NoError(t, err)
	require.Len(t, prims, 1)
	assert.Equal(t, "Header", prims[0].Kind())
}

func TestChangesetSummary(t *testing.T) {
	_, changes := apply(t, "class UserService {}\n", schema.FileDefinition{Classes: []schema.ClassConfig{userService}})
	assert.True(t, changes.HasChanges())
	assert.Equal(t, "2 created, 1 updated, 0 removed, 0 unchanged", changes.String())
	assert.Contains(t, changes.Details(), "create Method 'list' in UserService")
}
