package primitives

import (
	"strings"

	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

func typeAliasFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Types))
	for _, c := range def.Types {
		out = append(out, NewTypeAlias(env, c))
	}
	return out
}

func variableFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Variables))
	for _, c := range def.Variables {
		out = append(out, NewVariable(env, c))
	}
	return out
}

func functionFactory(env *Env, def schema.FileDefinition) []Primitive {
	out := make([]Primitive, 0, len(def.Functions))
	for _, c := range def.Functions {
		out = append(out, NewFunction(env, c))
	}
	return out
}

// TypeAlias reconciles a type alias.
type TypeAlias struct {
	base
	cfg schema.TypeAliasConfig
}

// NewTypeAlias creates a type alias primitive.
func NewTypeAlias(env *Env, cfg schema.TypeAliasConfig) *TypeAlias {
	return &TypeAlias{base: base{env: env}, cfg: cfg}
}

func (p *TypeAlias) Kind() string { return "Type" }
func (p *TypeAlias) Name() string { return p.cfg.Name }

func (p *TypeAlias) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.TypeAlias) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *TypeAlias) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindTypeAlias, p.cfg.Name)
}

func (p *TypeAlias) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("type", p.cfg.Name); err != nil {
		return nil, err
	}
	if p.cfg.Type == "" {
		return nil, errors.NewConfigError("type", "type alias '"+p.cfg.Name+"' requires a type", nil)
	}
	n := &ast.TypeAlias{
		Docs:       newDoc(p.cfg.Doc),
		Name:       p.cfg.Name,
		Exported:   p.cfg.Exported,
		TypeParams: p.cfg.TypeParams,
		Type:       p.cfg.Type,
	}
	parent.Append(n)
	return n, nil
}

func (p *TypeAlias) Update(node ast.Node) error {
	n, ok := node.(*ast.TypeAlias)
	if !ok {
		return wrongNode("update", "type", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported)
	p.setType("type_params", &n.TypeParams, p.cfg.TypeParams)
	p.setType("type", &n.Type, p.cfg.Type)
	p.setDoc(&n.Docs, p.cfg.Doc)
	return nil
}

func (p *TypeAlias) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.TypeAlias)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "type", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported)
	p.checkType(is, "type parameters", n.TypeParams, p.cfg.TypeParams)
	p.checkType(is, "type", n.Type, p.cfg.Type)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	return is.result(), nil
}

// Variable reconciles a single-declarator variable statement.
type Variable struct {
	base
	cfg schema.VariableConfig
}

// NewVariable creates a variable primitive.
func NewVariable(env *Env, cfg schema.VariableConfig) *Variable {
	return &Variable{base: base{env: env}, cfg: cfg}
}

func (p *Variable) Kind() string { return "Variable" }
func (p *Variable) Name() string { return p.cfg.Name }

func (p *Variable) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Variable) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Variable) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindVariable, p.cfg.Name)
}

func (p *Variable) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("variable", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Variable{
		Docs:        newDoc(p.cfg.Doc),
		Name:        p.cfg.Name,
		Exported:    p.cfg.Exported,
		DeclKind:    p.cfg.DeclKind(),
		Type:        p.cfg.Type,
		Initializer: strings.TrimSuffix(strings.TrimSpace(p.cfg.Initializer), ";"),
	}
	if n.DeclKind == "const" && n.Initializer == "" {
		return nil, errors.NewConfigError("variable", "const '"+p.cfg.Name+"' requires an initializer", nil)
	}
	parent.Append(n)
	return n, nil
}

func (p *Variable) Update(node ast.Node) error {
	n, ok := node.(*ast.Variable)
	if !ok {
		return wrongNode("update", "variable", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported)
	if p.cfg.Kind != "" && n.DeclKind != p.cfg.Kind {
		p.mark("kind", n.DeclKind, p.cfg.Kind)
		n.DeclKind = p.cfg.Kind
	}
	p.setType("type", &n.Type, p.cfg.Type)
	p.setCode("initializer", &n.Initializer, p.cfg.Initializer)
	p.setDoc(&n.Docs, p.cfg.Doc)
	return nil
}

func (p *Variable) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Variable)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "variable", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported)
	if p.cfg.Kind != "" && n.DeclKind != p.cfg.Kind {
		is.attr("declaration kind", n.DeclKind, p.cfg.Kind)
	}
	p.checkType(is, "type", n.Type, p.cfg.Type)
	p.checkCode(is, "initializer", n.Initializer, p.cfg.Initializer)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	return is.result(), nil
}

// Function reconciles a function declaration and its body.
type Function struct {
	base
	cfg schema.FunctionConfig
}

// NewFunction creates a function primitive.
func NewFunction(env *Env, cfg schema.FunctionConfig) *Function {
	return &Function{base: base{env: env}, cfg: cfg}
}

func (p *Function) Kind() string { return "Function" }
func (p *Function) Name() string { return p.cfg.Name }

func (p *Function) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Function) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Function) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindFunction, p.cfg.Name)
}

func (p *Function) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("function", p.cfg.Name); err != nil {
		return nil, err
	}
	b, err := p.newBody(p.cfg.Body)
	if err != nil {
		return nil, err
	}
	n := &ast.Function{
		Docs:       newDoc(p.cfg.Doc),
		Name:       p.cfg.Name,
		Exported:   p.cfg.Exported || p.cfg.Default,
		Default:    p.cfg.Default,
		Async:      p.cfg.Async,
		TypeParams: p.cfg.TypeParams,
		Params:     newParams(p.cfg.Params),
		ReturnType: p.cfg.ReturnType,
		Body:       b,
	}
	parent.Append(n)
	return n, nil
}

func (p *Function) Update(node ast.Node) error {
	n, ok := node.(*ast.Function)
	if !ok {
		return wrongNode("update", "function", p.cfg.Name, node)
	}
	p.setFlag("exported", &n.Exported, p.cfg.Exported || p.cfg.Default)
	p.setFlag("default", &n.Default, p.cfg.Default)
	p.setFlag("async", &n.Async, p.cfg.Async)
	p.setType("type_params", &n.TypeParams, p.cfg.TypeParams)
	p.setParams(&n.Params, p.cfg.Params)
	p.setType("return_type", &n.ReturnType, p.cfg.ReturnType)
	p.setDoc(&n.Docs, p.cfg.Doc)
	return p.setBody(&n.Body, p.cfg.Body)
}

func (p *Function) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Function)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "function", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	is.flag("exported", n.Exported, p.cfg.Exported || p.cfg.Default)
	is.flag("the default export", n.Default, p.cfg.Default)
	is.flag("async", n.Async, p.cfg.Async)
	p.checkType(is, "type parameters", n.TypeParams, p.cfg.TypeParams)
	p.checkParams(is, n.Params, p.cfg.Params)
	p.checkType(is, "return type", n.ReturnType, p.cfg.ReturnType)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	if err := p.checkBody(is, n.Body, p.cfg.Body); err != nil {
		return ValidationResult{}, err
	}
	return is.result(), nil
}
