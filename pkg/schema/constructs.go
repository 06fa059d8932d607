package schema

import "strings"

// Empty string attributes are unspecified and never enforced. Boolean flags
// are always enforced.

// ImportConfig declares one import declaration, identified by its
// normalized module path.
type ImportConfig struct {
	Module    string   `json:"module" yaml:"module"`                           // Canonical module specifier
	Default   string   `json:"default,omitempty" yaml:"default,omitempty"`     // Default binding
	Namespace string   `json:"namespace,omitempty" yaml:"namespace,omitempty"` // `* as ns` binding
	Named     []string `json:"named,omitempty" yaml:"named,omitempty"`         // Named bindings, "name" or "name as alias"
	TypeOnly  bool     `json:"type_only,omitempty" yaml:"type_only,omitempty"` // import type
}

// SideEffect reports whether the import binds nothing.
func (c ImportConfig) SideEffect() bool {
	return c.Default == "" && c.Namespace == "" && len(c.Named) == 0
}

// ExportConfig declares a re-export or a local export list. An empty Module
// means `export { ... }` without a source.
type ExportConfig struct {
	Module    string   `json:"module,omitempty" yaml:"module,omitempty"`
	Named     []string `json:"named,omitempty" yaml:"named,omitempty"`
	Wildcard  bool     `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`   // export * from
	Namespace string   `json:"namespace,omitempty" yaml:"namespace,omitempty"` // export * as ns from
	TypeOnly  bool     `json:"type_only,omitempty" yaml:"type_only,omitempty"`
}

// ParseBinding splits "name as alias" into its parts.
func ParseBinding(s string) (name, alias string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " as "); i > 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+4:])
	}
	return s, ""
}

// DecoratorConfig declares a decorator. Decorators are always written in
// call form.
type DecoratorConfig struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"` // Argument source text by position
}

// ParameterConfig declares one formal parameter.
type ParameterConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Optional    bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	Rest        bool              `json:"rest,omitempty" yaml:"rest,omitempty"`
	Initializer string            `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	Scope       string            `json:"scope,omitempty" yaml:"scope,omitempty"` // Parameter property visibility
	Readonly    bool              `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Decorators  []DecoratorConfig `json:"decorators,omitempty" yaml:"decorators,omitempty"`
}

// PropertyConfig declares a class field or an interface property.
type PropertyConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Initializer string            `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	Scope       string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Static      bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Abstract    bool              `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Readonly    bool              `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Optional    bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	Doc         string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Decorators  []DecoratorConfig `json:"decorators,omitempty" yaml:"decorators,omitempty"`
}

// Body holds the statements that make up a generated body.
type Body struct {
	Statements []Statement `json:"statements,omitempty" yaml:"statements,omitempty"`
	Overwrite  bool        `json:"overwrite,omitempty" yaml:"overwrite,omitempty"` // Replace the body on every run
}

// Enforced reports whether the body is reconciled at all.
func (b Body) Enforced() bool {
	return b.Overwrite || len(b.Statements) > 0
}

// MethodConfig declares a class method or an interface method signature.
type MethodConfig struct {
	Name       string            `json:"name" yaml:"name"`
	Scope      string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Static     bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Abstract   bool              `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Async      bool              `json:"async,omitempty" yaml:"async,omitempty"`
	Optional   bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	TypeParams string            `json:"type_params,omitempty" yaml:"type_params,omitempty"` // e.g. "<T>"
	Params     []ParameterConfig `json:"params,omitempty" yaml:"params,omitempty"`
	ReturnType string            `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Decorators []DecoratorConfig `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Body       `yaml:",inline"`
}

// ConstructorConfig declares the class constructor.
type ConstructorConfig struct {
	Scope      string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Params     []ParameterConfig `json:"params,omitempty" yaml:"params,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Decorators []DecoratorConfig `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Body       `yaml:",inline"`
}

// Accessor kinds.
const (
	AccessorGet = "get"
	AccessorSet = "set"
)

// AccessorConfig declares a get or set accessor, identified by name and kind.
type AccessorConfig struct {
	Name       string            `json:"name" yaml:"name"`
	Kind       string            `json:"kind" yaml:"kind"` // get or set
	Scope      string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Static     bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Params     []ParameterConfig `json:"params,omitempty" yaml:"params,omitempty"`
	ReturnType string            `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Decorators []DecoratorConfig `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Body       `yaml:",inline"`
}

// Setter reports whether the accessor is a set accessor.
func (c AccessorConfig) Setter() bool { return c.Kind == AccessorSet }

// ClassConfig declares a class and its members.
type ClassConfig struct {
	Name        string             `json:"name" yaml:"name"`
	Exported    bool               `json:"exported,omitempty" yaml:"exported,omitempty"`
	Default     bool               `json:"default,omitempty" yaml:"default,omitempty"`
	Abstract    bool               `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	TypeParams  string             `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Extends     string             `json:"extends,omitempty" yaml:"extends,omitempty"`
	Implements  []string           `json:"implements,omitempty" yaml:"implements,omitempty"`
	Doc         string             `json:"doc,omitempty" yaml:"doc,omitempty"`
	Decorators  []DecoratorConfig  `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Properties  []PropertyConfig   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Constructor *ConstructorConfig `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Accessors   []AccessorConfig   `json:"accessors,omitempty" yaml:"accessors,omitempty"`
	Methods     []MethodConfig     `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// InterfaceConfig declares an interface.
type InterfaceConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Exported   bool             `json:"exported,omitempty" yaml:"exported,omitempty"`
	TypeParams string           `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Extends    []string         `json:"extends,omitempty" yaml:"extends,omitempty"`
	Doc        string           `json:"doc,omitempty" yaml:"doc,omitempty"`
	Properties []PropertyConfig `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods    []MethodConfig   `json:"methods,omitempty" yaml:"methods,omitempty"` // Signatures only
}

// EnumMemberConfig declares one enum member.
type EnumMemberConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"` // Initializer source text
}

// EnumConfig declares an enum.
type EnumConfig struct {
	Name     string             `json:"name" yaml:"name"`
	Exported bool               `json:"exported,omitempty" yaml:"exported,omitempty"`
	Const    bool               `json:"const,omitempty" yaml:"const,omitempty"`
	Doc      string             `json:"doc,omitempty" yaml:"doc,omitempty"`
	Members  []EnumMemberConfig `json:"members,omitempty" yaml:"members,omitempty"`
}

// TypeAliasConfig declares a type alias.
type TypeAliasConfig struct {
	Name       string `json:"name" yaml:"name"`
	Exported   bool   `json:"exported,omitempty" yaml:"exported,omitempty"`
	TypeParams string `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Type       string `json:"type" yaml:"type"`
	Doc        string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// VariableConfig declares a module level variable.
type VariableConfig struct {
	Name        string `json:"name" yaml:"name"`
	Exported    bool   `json:"exported,omitempty" yaml:"exported,omitempty"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"` // const (default), let or var
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Initializer string `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	Doc         string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// DeclKind returns the declaration keyword.
func (c VariableConfig) DeclKind() string {
	if c.Kind == "" {
		return "const"
	}
	return c.Kind
}

// FunctionConfig declares a function.
type FunctionConfig struct {
	Name       string            `json:"name" yaml:"name"`
	Exported   bool              `json:"exported,omitempty" yaml:"exported,omitempty"`
	Default    bool              `json:"default,omitempty" yaml:"default,omitempty"`
	Async      bool              `json:"async,omitempty" yaml:"async,omitempty"`
	TypeParams string            `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Params     []ParameterConfig `json:"params,omitempty" yaml:"params,omitempty"`
	ReturnType string            `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Body       `yaml:",inline"`
}

// ModuleConfig declares a namespace whose body is itself a definition.
type ModuleConfig struct {
	Name       string         `json:"name" yaml:"name"`
	Exported   bool           `json:"exported,omitempty" yaml:"exported,omitempty"`
	Doc        string         `json:"doc,omitempty" yaml:"doc,omitempty"`
	Definition FileDefinition `json:"definition" yaml:"definition"`
}
