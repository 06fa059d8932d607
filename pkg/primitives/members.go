package primitives

import (
	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/schema"
)

// afterProperties returns the insertion index following the last property.
func afterProperties(parent ast.Container) int {
	return ast.LastIndex[*ast.Property](parent) + 1
}

func isInterface(parent ast.Container) bool {
	_, ok := parent.(*ast.Interface)
	return ok
}

// Property reconciles a class field or an interface property signature.
type Property struct {
	base
	cfg schema.PropertyConfig
}

// NewProperty creates a property primitive.
func NewProperty(env *Env, cfg schema.PropertyConfig) *Property {
	return &Property{base: base{env: env}, cfg: cfg}
}

func (p *Property) Kind() string { return "Property" }
func (p *Property) Name() string { return p.cfg.Name }

func (p *Property) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find(parent, func(n *ast.Property) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Property) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindProperty, p.cfg.Name)
}

func (p *Property) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("property", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Property{
		Docs:        newDoc(p.cfg.Doc),
		Decorations: newDecorators(p.cfg.Decorators),
		Name:        p.cfg.Name,
		Scope:       p.cfg.Scope,
		Static:      p.cfg.Static,
		Abstract:    p.cfg.Abstract,
		Readonly:    p.cfg.Readonly,
		Optional:    p.cfg.Optional,
		Type:        p.cfg.Type,
	}
	if !isInterface(parent) {
		n.Initializer = p.cfg.Initializer
	}
	parent.InsertAt(afterProperties(parent), n)
	return n, nil
}

func (p *Property) Update(node ast.Node) error {
	n, ok := node.(*ast.Property)
	if !ok {
		return wrongNode("update", "property", p.cfg.Name, node)
	}
	p.setScope(&n.Scope, p.cfg.Scope)
	p.setFlag("static", &n.Static, p.cfg.Static)
	p.setFlag("abstract", &n.Abstract, p.cfg.Abstract)
	p.setFlag("readonly", &n.Readonly, p.cfg.Readonly)
	p.setFlag("optional", &n.Optional, p.cfg.Optional)
	p.setType("type", &n.Type, p.cfg.Type)
	p.setCode("initializer", &n.Initializer, p.cfg.Initializer)
	p.setDoc(&n.Docs, p.cfg.Doc)
	p.setDecorators("decorators", &n.Decorations, p.cfg.Decorators)
	return nil
}

func (p *Property) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Property)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "property", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	checkScope(is, n.Scope, p.cfg.Scope)
	is.flag("static", n.Static, p.cfg.Static)
	is.flag("abstract", n.Abstract, p.cfg.Abstract)
	is.flag("readonly", n.Readonly, p.cfg.Readonly)
	is.flag("optional", n.Optional, p.cfg.Optional)
	p.checkType(is, "type", n.Type, p.cfg.Type)
	p.checkCode(is, "initializer", n.Initializer, p.cfg.Initializer)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	p.checkDecorators(is, &n.Decorations, p.cfg.Decorators)
	return is.result(), nil
}

// Method reconciles a class method or an interface method signature.
type Method struct {
	base
	cfg       schema.MethodConfig
	signature bool
}

// NewMethod creates a method primitive.
func NewMethod(env *Env, cfg schema.MethodConfig) *Method {
	return &Method{base: base{env: env}, cfg: cfg}
}

func (p *Method) Kind() string { return "Method" }
func (p *Method) Name() string { return p.cfg.Name }

func (p *Method) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	p.signature = isInterface(parent)
	if n, ok := ast.Find(parent, func(n *ast.Method) bool { return n.Name == p.cfg.Name }); ok {
		return n
	}
	return nil
}

func (p *Method) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindMethod, p.cfg.Name)
}

func (p *Method) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	p.signature = isInterface(parent)
	if err := requireName("method", p.cfg.Name); err != nil {
		return nil, err
	}
	n := &ast.Method{
		Docs:        newDoc(p.cfg.Doc),
		Decorations: newDecorators(p.cfg.Decorators),
		Name:        p.cfg.Name,
		Scope:       p.cfg.Scope,
		Static:      p.cfg.Static,
		Abstract:    p.cfg.Abstract,
		Async:       p.cfg.Async,
		Optional:    p.cfg.Optional,
		TypeParams:  p.cfg.TypeParams,
		Params:      newParams(p.cfg.Params),
		ReturnType:  p.cfg.ReturnType,
	}
	if !p.signature && !(p.cfg.Abstract && len(p.cfg.Statements) == 0) {
		b, err := p.newBody(p.cfg.Body)
		if err != nil {
			return nil, err
		}
		n.Body = b
	}
	parent.Append(n)
	return n, nil
}

func (p *Method) Update(node ast.Node) error {
	n, ok := node.(*ast.Method)
	if !ok {
		return wrongNode("update", "method", p.cfg.Name, node)
	}
	p.setScope(&n.Scope, p.cfg.Scope)
	p.setFlag("static", &n.Static, p.cfg.Static)
	p.setFlag("abstract", &n.Abstract, p.cfg.Abstract)
	p.setFlag("async", &n.Async, p.cfg.Async)
	p.setFlag("optional", &n.Optional, p.cfg.Optional)
	p.setType("type_params", &n.TypeParams, p.cfg.TypeParams)
	p.setParams(&n.Params, p.cfg.Params)
	p.setType("return_type", &n.ReturnType, p.cfg.ReturnType)
	p.setDoc(&n.Docs, p.cfg.Doc)
	p.setDecorators("decorators", &n.Decorations, p.cfg.Decorators)
	if p.signature {
		return nil
	}
	return p.setBody(&n.Body, p.cfg.Body)
}

func (p *Method) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Method)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "method", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	checkScope(is, n.Scope, p.cfg.Scope)
	is.flag("static", n.Static, p.cfg.Static)
	is.flag("abstract", n.Abstract, p.cfg.Abstract)
	is.flag("async", n.Async, p.cfg.Async)
	is.flag("optional", n.Optional, p.cfg.Optional)
	p.checkType(is, "type parameters", n.TypeParams, p.cfg.TypeParams)
	p.checkParams(is, n.Params, p.cfg.Params)
	p.checkType(is, "return type", n.ReturnType, p.cfg.ReturnType)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	p.checkDecorators(is, &n.Decorations, p.cfg.Decorators)
	if !p.signature {
		if err := p.checkBody(is, n.Body, p.cfg.Body); err != nil {
			return ValidationResult{}, err
		}
	}
	return is.result(), nil
}

// Constructor reconciles the class constructor. A class has at most one.
type Constructor struct {
	base
	cfg schema.ConstructorConfig
}

// NewConstructor creates a constructor primitive.
func NewConstructor(env *Env, cfg schema.ConstructorConfig) *Constructor {
	return &Constructor{base: base{env: env}, cfg: cfg}
}

func (p *Constructor) Kind() string { return "Constructor" }
func (p *Constructor) Name() string { return "constructor" }

func (p *Constructor) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	if n, ok := ast.Find[*ast.Constructor](parent, nil); ok {
		return n
	}
	return nil
}

func (p *Constructor) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindConstructor, "constructor")
}

func (p *Constructor) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	b, err := p.newBody(p.cfg.Body)
	if err != nil {
		return nil, err
	}
	n := &ast.Constructor{
		Docs:        newDoc(p.cfg.Doc),
		Decorations: newDecorators(p.cfg.Decorators),
		Scope:       p.cfg.Scope,
		Params:      newParams(p.cfg.Params),
		Body:        b,
	}
	parent.InsertAt(afterProperties(parent), n)
	return n, nil
}

func (p *Constructor) Update(node ast.Node) error {
	n, ok := node.(*ast.Constructor)
	if !ok {
		return wrongNode("update", "constructor", "constructor", node)
	}
	p.setScope(&n.Scope, p.cfg.Scope)
	p.setParams(&n.Params, p.cfg.Params)
	p.setDoc(&n.Docs, p.cfg.Doc)
	p.setDecorators("decorators", &n.Decorations, p.cfg.Decorators)
	return p.setBody(&n.Body, p.cfg.Body)
}

func (p *Constructor) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Constructor)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "constructor", "constructor", node)
	}
	is := newIssues(p.Kind(), "constructor", p.scope)
	checkScope(is, n.Scope, p.cfg.Scope)
	p.checkParams(is, n.Params, p.cfg.Params)
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	p.checkDecorators(is, &n.Decorations, p.cfg.Decorators)
	if err := p.checkBody(is, n.Body, p.cfg.Body); err != nil {
		return ValidationResult{}, err
	}
	return is.result(), nil
}

// Accessor reconciles a get or set accessor, identified by name and kind.
type Accessor struct {
	base
	cfg schema.AccessorConfig
}

// NewAccessor creates an accessor primitive.
func NewAccessor(env *Env, cfg schema.AccessorConfig) *Accessor {
	return &Accessor{base: base{env: env}, cfg: cfg}
}

func (p *Accessor) Kind() string {
	if p.cfg.Setter() {
		return "Setter"
	}
	return "Getter"
}

func (p *Accessor) Name() string { return p.cfg.Name }

func (p *Accessor) Find(parent ast.Container) ast.Node {
	p.bind(parent)
	setter := p.cfg.Setter()
	if n, ok := ast.Find(parent, func(n *ast.Accessor) bool { return n.Name == p.cfg.Name && n.Setter == setter }); ok {
		return n
	}
	return nil
}

func (p *Accessor) FindOpaque(parent ast.Container) *ast.Raw {
	return p.opaque(parent, ast.KindAccessor, p.cfg.Name)
}

func (p *Accessor) Create(parent ast.Container) (ast.Node, error) {
	p.bind(parent)
	if err := requireName("accessor", p.cfg.Name); err != nil {
		return nil, err
	}
	b, err := p.newBody(p.cfg.Body)
	if err != nil {
		return nil, err
	}
	n := &ast.Accessor{
		Docs:        newDoc(p.cfg.Doc),
		Decorations: newDecorators(p.cfg.Decorators),
		Name:        p.cfg.Name,
		Setter:      p.cfg.Setter(),
		Scope:       p.cfg.Scope,
		Static:      p.cfg.Static,
		Params:      newParams(p.cfg.Params),
		Body:        b,
	}
	if n.Setter {
		if len(n.Params) == 0 {
			n.Params = []*ast.Parameter{{Name: "value", Type: p.cfg.ReturnType}}
		}
	} else {
		n.ReturnType = p.cfg.ReturnType
	}
	parent.Append(n)
	return n, nil
}

func (p *Accessor) Update(node ast.Node) error {
	n, ok := node.(*ast.Accessor)
	if !ok {
		return wrongNode("update", "accessor", p.cfg.Name, node)
	}
	p.setScope(&n.Scope, p.cfg.Scope)
	p.setFlag("static", &n.Static, p.cfg.Static)
	p.setParams(&n.Params, p.cfg.Params)
	if !n.Setter {
		p.setType("return_type", &n.ReturnType, p.cfg.ReturnType)
	}
	p.setDoc(&n.Docs, p.cfg.Doc)
	p.setDecorators("decorators", &n.Decorations, p.cfg.Decorators)
	return p.setBody(&n.Body, p.cfg.Body)
}

func (p *Accessor) Validate(node ast.Node) (ValidationResult, error) {
	n, ok := node.(*ast.Accessor)
	if !ok {
		return ValidationResult{}, wrongNode("validate", "accessor", p.cfg.Name, node)
	}
	is := newIssues(p.Kind(), p.cfg.Name, p.scope)
	checkScope(is, n.Scope, p.cfg.Scope)
	is.flag("static", n.Static, p.cfg.Static)
	p.checkParams(is, n.Params, p.cfg.Params)
	if !n.Setter {
		p.checkType(is, "return type", n.ReturnType, p.cfg.ReturnType)
	}
	p.checkDoc(is, &n.Docs, p.cfg.Doc)
	p.checkDecorators(is, &n.Decorations, p.cfg.Decorators)
	if err := p.checkBody(is, n.Body, p.cfg.Body); err != nil {
		return ValidationResult{}, err
	}
	return is.result(), nil
}
