package reconciler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
	"github.com/agentstation/codesync/pkg/primitives"
	"github.com/agentstation/codesync/pkg/reconciler"
	"github.com/agentstation/codesync/pkg/schema"
)

func newReconciler(t *testing.T, opts ...reconciler.Option) reconciler.Reconciler {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	return r
}

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.NewNopLogger())
}

func parse(t *testing.T, r reconciler.Reconciler, src string) *ast.File {
	t.Helper()
	f, err := r.Parser(ast.TypeScript).Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

// sync reconciles src against def and returns the printed output.
func sync(t *testing.T, r reconciler.Reconciler, src string, def schema.FileDefinition) (string, *reconciler.Result) {
	t.Helper()
	f := parse(t, r, src)
	result, err := r.Reconcile(testContext(), f, def)
	require.NoError(t, err)
	return ast.Print(f), result
}

func validate(t *testing.T, r reconciler.Reconciler, src string, def schema.FileDefinition) reconciler.ValidationResult {
	t.Helper()
	res, err := r.Validate(testContext(), parse(t, r, src), def)
	require.NoError(t, err)
	return res
}

var listService = schema.FileDefinition{Classes: []schema.ClassConfig{{
	Name:    "UserService",
	Methods: []schema.MethodConfig{{Name: "list", ReturnType: "void"}},
}}}

func TestScenarios(t *testing.T) {
	r := newReconciler(t)

	t.Run("empty file round trip", func(t *testing.T) {
		out, result := sync(t, r, "", listService)
		assert.True(t, result.HasChanges())
		res := validate(t, r, out, listService)
		assert.True(t, res.Valid)
		assert.Equal(t, []string{}, res.Issues)
	})

	t.Run("missing method", func(t *testing.T) {
		res := validate(t, r, "class UserService {}\n", listService)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Issues, "Method 'list' is missing in UserService.")
	})

	t.Run("return type mismatch", func(t *testing.T) {
		def := schema.FileDefinition{Classes: []schema.ClassConfig{{
			Name:    "UserService",
			Methods: []schema.MethodConfig{{Name: "list", ReturnType: "Promise<User[]>"}},
		}}}
		src := "class UserService {\n  list(): string {\n    return '';\n  }\n}\n"
		res := validate(t, r, src, def)
		require.Len(t, res.Issues, 1)
		assert.Contains(t, res.Issues[0], "'string'")
		assert.Contains(t, res.Issues[0], "'Promise<User[]>'")
	})

	t.Run("extra members are ignored", func(t *testing.T) {
		src := "class UserService {\n  list(): void {}\n\n  private helper() {\n    return 1;\n  }\n}\n"
		res := validate(t, r, src, listService)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Issues)
	})

	t.Run("remapped import merges in place", func(t *testing.T) {
		def := schema.FileDefinition{Imports: []schema.ImportConfig{{Module: "@/lib/core/utils.ts", Named: []string{"cn"}}}}
		out, result := sync(t, r, "import { cn } from '@/lib/utils.ts';\n", def)
		assert.Equal(t, "import { cn } from '@/lib/core/utils.ts';\n", out)
		assert.Equal(t, 0, result.Metadata.Stats.Created)
		assert.Equal(t, 1, result.Metadata.Stats.Updated)
	})
}

func TestIdempotence(t *testing.T) {
	r := newReconciler(t)
	def := schema.FileDefinition{
		Header:  "// @generated by codesync",
		Imports: []schema.ImportConfig{{Module: "./models", Named: []string{"User"}, TypeOnly: true}},
		Classes: []schema.ClassConfig{{
			Name:       "UserService",
			Exported:   true,
			Properties: []schema.PropertyConfig{{Name: "users", Scope: "private", Type: "User[]", Initializer: "[]"}},
			Methods: []schema.MethodConfig{{
				Name:       "count",
				ReturnType: "number",
				Body:       schema.Body{Statements: []schema.Statement{schema.Return("this.users.length")}},
			}},
		}},
		Enums:     []schema.EnumConfig{{Name: "Role", Members: []schema.EnumMemberConfig{{Name: "Admin", Value: "'admin'"}}}},
		Variables: []schema.VariableConfig{{Name: "LIMIT", Initializer: "10", Exported: true}},
	}
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"hand edited", "import { User } from './models';\n\nexport class UserService {\n  count(): string {\n    // keep\n    return 'n';\n  }\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once, _ := sync(t, r, tt.src, def)
			twice, result := sync(t, r, once, def)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("second pass changed output (-first +second):\n%s", diff)
			}
			assert.False(t, result.HasChanges(), result.Changeset.Details())
			assert.Equal(t, "Reconciliation completed. No changes needed.", result.Summary())
			assert.True(t, validate(t, r, once, def).Valid)
		})
	}
}

func TestPreservation(t *testing.T) {
	r := newReconciler(t)
	def := schema.FileDefinition{Functions: []schema.FunctionConfig{{
		Name: "load",
		Body: schema.Body{Statements: []schema.Statement{
			schema.Var("users", "fetchUsers()"),
			schema.Return("users"),
		}},
	}}}
	src := "function load() {\n  const users = cache.get('users');\n  return users;\n}\n"

	out, result := sync(t, r, src, def)
	assert.Contains(t, out, "const users = cache.get('users');")
	assert.NotContains(t, out, "fetchUsers()")
	assert.False(t, result.HasChanges())
}

func TestUnmodeledSyntaxIsNotDuplicated(t *testing.T) {
	r := newReconciler(t)
	tests := []struct {
		name string
		src  string
		def  schema.FileDefinition
	}{
		{
			name: "override modifier",
			src:  "class A extends B {\n  override list(): void {}\n}\n",
			def: schema.FileDefinition{Classes: []schema.ClassConfig{{
				Name:    "A",
				Methods: []schema.MethodConfig{{Name: "list", ReturnType: "void"}},
			}}},
		},
		{
			name: "definite assignment",
			src:  "class A {\n  name!: string;\n}\n",
			def: schema.FileDefinition{Classes: []schema.ClassConfig{{
				Name:       "A",
				Properties: []schema.PropertyConfig{{Name: "name", Type: "string"}},
			}}},
		},
		{
			name: "comment after last enum member",
			src:  "enum Role {\n  Admin = 'admin', // more later\n}\n",
			def: schema.FileDefinition{Enums: []schema.EnumConfig{{
				Name:    "Role",
				Members: []schema.EnumMemberConfig{{Name: "Admin", Value: "'admin'"}},
			}}},
		},
		{
			name: "comment in parameter list",
			src:  "function load(id: string /* user id */) {}\n",
			def: schema.FileDefinition{Functions: []schema.FunctionConfig{{
				Name:   "load",
				Params: []schema.ParameterConfig{{Name: "id", Type: "string"}},
			}}},
		},
		{
			name: "several declarators",
			src:  "const a = 1, b = 2;\n",
			def:  schema.FileDefinition{Variables: []schema.VariableConfig{{Name: "b", Kind: "const", Initializer: "2"}}},
		},
		{
			name: "generator function",
			src:  "export function* ids() {\n  yield 1;\n}\n",
			def:  schema.FileDefinition{Functions: []schema.FunctionConfig{{Name: "ids", Exported: true}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(t, r, tt.src, tt.def)
			assert.True(t, res.Valid, res.Issues)

			out, result := sync(t, r, tt.src, tt.def)
			assert.Equal(t, tt.src, out)
			assert.Empty(t, result.Changeset.Filter(primitives.ChangeCreate))
			assert.False(t, result.HasChanges(), result.Changeset.Details())
		})
	}
}

func TestNestedModules(t *testing.T) {
	r := newReconciler(t)
	def := schema.FileDefinition{Modules: []schema.ModuleConfig{{
		Name: "Api",
		Definition: schema.FileDefinition{
			Functions: []schema.FunctionConfig{{Name: "ping", ReturnType: "string"}},
		},
	}}}

	res := validate(t, r, "", def)
	assert.Equal(t, []string{"Module 'Api' is missing."}, res.Issues)

	res = validate(t, r, "namespace Api {}\n", def)
	assert.Equal(t, []string{"Function 'ping' is missing in Api."}, res.Issues)

	out, result := sync(t, r, "namespace Api {}\n", def)
	assert.Contains(t, out, "function ping(): string")
	assert.Equal(t, []string{"modules"}, result.Metadata.Groups)
	created := result.Changeset.Filter(primitives.ChangeCreate)
	require.Len(t, created, 1)
	assert.Equal(t, "Api", created[0].Scope)
}

func TestDeclaredOrder(t *testing.T) {
	r := newReconciler(t)
	def := schema.FileDefinition{
		Functions: []schema.FunctionConfig{{Name: "b"}},
		Types:     []schema.TypeAliasConfig{{Name: "A", Type: "string"}},
		Order:     []schema.Group{schema.GroupFunctions, schema.GroupTypes},
	}
	out, result := sync(t, r, "", def)
	assert.Equal(t, []string{"functions", "types"}, result.Metadata.Groups)
	assert.Less(t, strings.Index(out, "function b"), strings.Index(out, "type A"))

	res := validate(t, r, "", def)
	assert.Equal(t, []string{"Function 'b' is missing.", "Type 'A' is missing."}, res.Issues)
}

func TestValidateDoesNotMutate(t *testing.T) {
	r := newReconciler(t)
	src := "class UserService {}\n"
	f := parse(t, r, src)
	_, err := r.Validate(testContext(), f, listService)
	require.NoError(t, err)
	assert.Equal(t, src, ast.Print(f))
}

func TestErrors(t *testing.T) {
	r := newReconciler(t)

	t.Run("nil container", func(t *testing.T) {
		_, err := r.Reconcile(testContext(), nil, listService)
		assert.True(t, errors.IsValidationError(err))
		_, err = r.Validate(testContext(), nil, listService)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("configuration error aborts", func(t *testing.T) {
		def := schema.FileDefinition{Functions: []schema.FunctionConfig{{
			Name: "f",
			Body: schema.Body{Statements: []schema.Statement{{Kind: "loop"}}},
		}}}
		_, err := r.Reconcile(testContext(), parse(t, r, ""), def)
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(testContext())
		cancel()
		_, err := r.Reconcile(ctx, parse(t, r, ""), listService)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  reconciler.Option
	}{
		{"nil registry", reconciler.WithRegistry(nil)},
		{"nil normalizer", reconciler.WithNormalizer(nil)},
		{"nil renderers", reconciler.WithRenderer(nil)},
		{"nil parser", reconciler.WithParser(nil)},
		{"unknown language", reconciler.WithLanguage("python")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	r := newReconciler(t, reconciler.WithLanguage(ast.TSX))
	assert.Equal(t, ast.TSX, r.Parser("unknown").Language())
	assert.Equal(t, ast.TypeScript, r.Parser(ast.TypeScript).Language())
}

func TestHoistHeader(t *testing.T) {
	const marker = "// @generated"
	tests := []struct {
		name string
		text string
		want string
	}{
		{"absent", "const a = 1;\n", "const a = 1;\n"},
		{"already first", marker + "\nconst a = 1;\n", marker + "\nconst a = 1;\n"},
		{"moved up", "import x from 'x';\n" + marker + "\nconst a = 1;\n", marker + "\nimport x from 'x';\nconst a = 1;\n"},
		{"duplicates collapse", marker + "\n" + marker + "\nconst a = 1;\n", marker + "\nconst a = 1;\n"},
		{"inline occurrence", "const a = 1; " + marker + "\n", marker + "\nconst a = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconciler.HoistHeader(tt.text, marker))
		})
	}
}

func TestResultSummary(t *testing.T) {
	r := newReconciler(t)
	_, result := sync(t, r, "", listService)
	assert.Equal(t, "Reconciliation successful. 2 created, 0 updated, 0 removed, 0 unchanged", result.Summary())
	assert.Equal(t, 2, result.Metadata.Stats.Created)
	assert.False(t, result.Metadata.EndTime.Before(result.Metadata.StartTime))
}
