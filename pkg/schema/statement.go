package schema

// StatementKind discriminates Statement variants.
type StatementKind string

// Statement kinds.
const (
	StatementVariable   StatementKind = "variable"
	StatementReturn     StatementKind = "return"
	StatementExpression StatementKind = "expression"
	StatementIf         StatementKind = "if"
	StatementThrow      StatementKind = "throw"
	StatementJSX        StatementKind = "jsx"
	StatementRaw        StatementKind = "raw"

	// Long spellings accepted for jsx and raw.
	StatementJSXElement  StatementKind = "jsx-element"
	StatementRawFragment StatementKind = "raw-fragment"
)

// Statement is one statement of a generated body. Kind selects which of the
// remaining fields are read:
//
//	variable   Name, DeclKind, Type, Initializer
//	return     Value (optional)
//	expression Value
//	if         Condition, Then, Else
//	throw      Value
//	jsx        Element (also spelled jsx-element)
//	raw        Template, Params (also spelled raw-fragment)
type Statement struct {
	Kind        StatementKind  `json:"kind" yaml:"kind"`
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	DeclKind    string         `json:"decl_kind,omitempty" yaml:"decl_kind,omitempty"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Initializer string         `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	Value       string         `json:"value,omitempty" yaml:"value,omitempty"`
	Condition   string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Then        []Statement    `json:"then,omitempty" yaml:"then,omitempty"`
	Else        []Statement    `json:"else,omitempty" yaml:"else,omitempty"`
	Element     *JSXElement    `json:"element,omitempty" yaml:"element,omitempty"`
	Template    string         `json:"template,omitempty" yaml:"template,omitempty"` // text/template source
	Params      map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// JSXElement is a JSX element tree.
type JSXElement struct {
	Tag      string       `json:"tag" yaml:"tag"`
	Props    []JSXProp    `json:"props,omitempty" yaml:"props,omitempty"`
	Children []JSXElement `json:"children,omitempty" yaml:"children,omitempty"`
	Text     string       `json:"text,omitempty" yaml:"text,omitempty"` // Text content, used when there are no children
}

// JSXProp is one attribute. Expr renders as name={expr}, Text as
// name="text", and neither as a bare boolean attribute.
type JSXProp struct {
	Name string `json:"name" yaml:"name"`
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Helpers for building statements in code.

// Var declares a const.
func Var(name, initializer string) Statement {
	return Statement{Kind: StatementVariable, Name: name, Initializer: initializer}
}

// Return returns value.
func Return(value string) Statement {
	return Statement{Kind: StatementReturn, Value: value}
}

// Expr evaluates an expression.
func Expr(value string) Statement {
	return Statement{Kind: StatementExpression, Value: value}
}

// If branches on cond.
func If(cond string, then []Statement, otherwise ...Statement) Statement {
	return Statement{Kind: StatementIf, Condition: cond, Then: then, Else: otherwise}
}

// Throw throws value.
func Throw(value string) Statement {
	return Statement{Kind: StatementThrow, Value: value}
}

// JSX returns an element.
func JSX(el JSXElement) Statement {
	return Statement{Kind: StatementJSX, Element: &el}
}

// Raw renders a template fragment.
func Raw(template string, params map[string]any) Statement {
	return Statement{Kind: StatementRaw, Template: template, Params: params}
}
