package ast_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
)

const serviceSource = `import { Injectable } from '@nestjs/common';
import type { User } from './user';

export enum Role {
  Admin = 'admin',
  User,
}

/** Service for users. */
@Injectable()
export class UserService extends Base implements OnInit {
  private readonly cache: Map<string, User> = new Map();
  static count = 0;

  constructor(private readonly repo: Repo) {
    super();
  }

  async list(limit?: number): Promise<User[]> {
    const users = await this.repo.find();
    return users;
  }

  get size(): number {
    return this.cache.size;
  }
}
`

const moduleSource = `// leading comment
import * as path from 'path';
import fs, { readFile as rf } from 'fs';

export * from './a';
export * as b from './b';
export { c, d as e } from './c';

export type ID = string | number;

export interface Props<T> extends Base {
  readonly id: ID;
  name?: string;
  render(value: T): string;
}

export const DEFAULT_LIMIT: number = 10;

export async function load(id: ID, ...rest: string[]): Promise<void> {}

export namespace Shapes {
  export function area(r: number): number {
    return r * r;
  }
}

console.log('done');
`

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := ast.NewParser(ast.TypeScript).Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

func TestPrintIsFixedPoint(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"class with members", serviceSource},
		{"module level declarations", moduleSource},
		{"empty file", ""},
		{"empty class", "class Empty {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ast.Print(parse(t, tt.src))
			if diff := cmp.Diff(tt.src, got); diff != "" {
				t.Errorf("Print() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseClass(t *testing.T) {
	f := parse(t, serviceSource)

	imports := ast.All[*ast.Import](f)
	require.Len(t, imports, 2)
	assert.Equal(t, "@nestjs/common", imports[0].Specifier)
	assert.True(t, imports[1].TypeOnly)

	cls, ok := ast.Find(f, func(c *ast.Class) bool { return c.Name == "UserService" })
	require.True(t, ok)
	assert.True(t, cls.Exported)
	assert.Equal(t, "Base", cls.Extends)
	assert.Equal(t, []string{"OnInit"}, cls.Implements)
	require.NotNil(t, cls.Doc)
	assert.Equal(t, "Service for users.", cls.Doc.Text)
	require.Len(t, cls.Decorators, 1)
	assert.Equal(t, "Injectable", cls.Decorators[0].Name)
	assert.True(t, cls.Decorators[0].Call)

	props := ast.All[*ast.Property](cls)
	require.Len(t, props, 2)
	assert.Equal(t, "private", props[0].Scope)
	assert.True(t, props[0].Readonly)
	assert.Equal(t, "Map<string, User>", props[0].Type)
	assert.Equal(t, "new Map()", props[0].Initializer)
	assert.True(t, props[1].Static)

	ctor, ok := ast.Find[*ast.Constructor](cls, nil)
	require.True(t, ok)
	require.Len(t, ctor.Params, 1)
	assert.Equal(t, "repo", ctor.Params[0].Name)
	assert.Equal(t, "private", ctor.Params[0].Scope)
	assert.Equal(t, "super();", *ctor.Body)

	list, ok := ast.Find(cls, func(m *ast.Method) bool { return m.Name == "list" })
	require.True(t, ok)
	assert.True(t, list.Async)
	assert.Equal(t, "Promise<User[]>", list.ReturnType)
	require.Len(t, list.Params, 1)
	assert.True(t, list.Params[0].Optional)
	assert.Equal(t, "const users = await this.repo.find();\nreturn users;", *list.Body)

	acc, ok := ast.Find[*ast.Accessor](cls, nil)
	require.True(t, ok)
	assert.Equal(t, "size", acc.Name)
	assert.False(t, acc.Setter)

	enum, ok := ast.Find[*ast.Enum](f, nil)
	require.True(t, ok)
	require.Len(t, enum.Members, 2)
	assert.Equal(t, "'admin'", enum.Member("Admin").Value)
}

func TestParseModule(t *testing.T) {
	f := parse(t, moduleSource)

	raw, ok := f.Children()[0].(*ast.Raw)
	require.True(t, ok)
	assert.True(t, raw.IsComment())

	imports := ast.All[*ast.Import](f)
	require.Len(t, imports, 2)
	assert.Equal(t, "path", imports[0].Namespace)
	assert.Equal(t, "fs", imports[1].Default)
	assert.Equal(t, "rf", imports[1].Named[0].Local())

	exports := ast.All[*ast.Export](f)
	require.Len(t, exports, 3)
	assert.True(t, exports[0].Wildcard)
	assert.Equal(t, "b", exports[1].Namespace)
	assert.Equal(t, "e", exports[2].Named[1].Alias)

	alias, ok := ast.Find[*ast.TypeAlias](f, nil)
	require.True(t, ok)
	assert.Equal(t, "string | number", alias.Type)

	iface, ok := ast.Find[*ast.Interface](f, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"Base"}, iface.Extends)
	assert.Len(t, ast.All[*ast.Property](iface), 2)
	assert.Len(t, ast.All[*ast.Method](iface), 1)

	fn, ok := ast.Find[*ast.Function](f, nil)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.True(t, fn.Params[1].Rest)
	assert.Equal(t, "", *fn.Body)

	ns, ok := ast.Find[*ast.Namespace](f, nil)
	require.True(t, ok)
	assert.Equal(t, "Shapes", ns.Name)
	_, ok = ast.Find(ns, func(f *ast.Function) bool { return f.Name == "area" })
	assert.True(t, ok)
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, n ast.Node)
	}{
		{
			name: "override method",
			src:  "class A extends B {\n  override list(): void {}\n}\n",
			check: func(t *testing.T, n ast.Node) {
				m, ok := ast.Find[*ast.Method](n.(ast.Container), nil)
				require.True(t, ok)
				assert.True(t, m.Override)
			},
		},
		{
			name: "definite assignment",
			src:  "class A {\n  name!: string;\n}\n",
			check: func(t *testing.T, n ast.Node) {
				p, ok := ast.Find[*ast.Property](n.(ast.Container), nil)
				require.True(t, ok)
				assert.True(t, p.Definite)
				assert.Equal(t, "string", p.Type)
			},
		},
		{
			name: "declared field",
			src:  "class A {\n  declare id: number;\n}\n",
			check: func(t *testing.T, n ast.Node) {
				p, ok := ast.Find[*ast.Property](n.(ast.Container), nil)
				require.True(t, ok)
				assert.True(t, p.Declare)
			},
		},
		{
			name: "comment after last enum member",
			src:  "enum Role {\n  Admin = 'admin',\n  // more later\n}\n",
			check: func(t *testing.T, n ast.Node) {
				e := n.(*ast.Enum)
				require.Len(t, e.Members, 1)
				assert.Equal(t, []string{"// more later"}, e.Trailing)
			},
		},
		{
			name: "comment in parameter list",
			src:  "function load(id: string /* user id */) {}\n",
			check: func(t *testing.T, n ast.Node) {
				fn := n.(*ast.Function)
				require.Len(t, fn.Params, 1)
				assert.Equal(t, "id", fn.Params[0].Name)
			},
		},
		{
			name: "ambient variable",
			src:  "declare const VERSION: string;\n",
			check: func(t *testing.T, n ast.Node) {
				assert.True(t, n.(*ast.Variable).Declare)
			},
		},
		{
			name: "ambient function",
			src:  "declare function ping(): void;\n",
			check: func(t *testing.T, n ast.Node) {
				fn := n.(*ast.Function)
				assert.True(t, fn.Declare)
				assert.Nil(t, fn.Body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			require.Len(t, f.Children(), 1)
			n := f.Children()[0]
			_, isRaw := n.(*ast.Raw)
			require.False(t, isRaw, "declaration was kept as raw text")
			tt.check(t, n)
			assert.Equal(t, strings.TrimSuffix(tt.src, "\n"), ast.PrintNode(n))
		})
	}
}

func TestParseOpaqueDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  ast.Kind
		names []string
	}{
		{"several declarators", "const a = 1, b = 2;\n", ast.KindVariable, []string{"a", "b"}},
		{"generator function", "function* gen() {}\n", ast.KindFunction, []string{"gen"}},
		{"exported generator", "export function* gen() {}\n", ast.KindFunction, []string{"gen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			raw, ok := f.Children()[0].(*ast.Raw)
			require.True(t, ok)
			assert.Equal(t, tt.kind, raw.Decl)
			assert.Equal(t, tt.names, raw.Names)
			for _, name := range tt.names {
				_, found := ast.FindOpaque(f, tt.kind, func(n string) bool { return n == name })
				assert.True(t, found, name)
			}
			assert.Equal(t, tt.src, ast.Print(f))
		})
	}
}

func TestPrintKeepsUnmodifiedSource(t *testing.T) {
	const src = `import { a } from "./x";

const   KEEP = 1
const b = 2;

export function helper(
    first: string,
    second: number,
) {
    return first;
}
`
	f := parse(t, src)
	assert.Equal(t, src, ast.Print(f))

	v, ok := ast.Find(f, func(v *ast.Variable) bool { return v.Name == "b" })
	require.True(t, ok)
	v.Initializer = "3"
	want := strings.Replace(src, "const b = 2;", "const b = 3;", 1)
	if diff := cmp.Diff(want, ast.Print(f)); diff != "" {
		t.Errorf("Print() after edit mismatch (-want +got):\n%s", diff)
	}

	f.Append(&ast.Variable{Name: "c", DeclKind: "let", Initializer: "4"})
	assert.True(t, strings.HasSuffix(ast.Print(f), "}\n\nlet c = 4;\n"))
}

func TestPrintModifiedContainerKeepsMemberText(t *testing.T) {
	src := "class A {\n    a = 1;\n\n    run() {\n        go();\n    }\n}\n"
	f := parse(t, src)
	cls, ok := ast.Find[*ast.Class](f, nil)
	require.True(t, ok)
	cls.Exported = true

	assert.Equal(t, "export class A {\n  a = 1;\n\n  run() {\n      go();\n  }\n}\n", ast.Print(f))
}

func TestParseRejectsSyntaxErrors(t *testing.T) {
	_, err := ast.NewParser(ast.TypeScript).Parse(context.Background(), []byte("class {\n"))
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestLanguageFor(t *testing.T) {
	assert.Equal(t, ast.TSX, ast.LanguageFor("src/App.tsx"))
	assert.Equal(t, ast.TSX, ast.LanguageFor("legacy.JSX"))
	assert.Equal(t, ast.TypeScript, ast.LanguageFor("src/index.ts"))
}
