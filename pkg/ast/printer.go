package ast

import (
	"strings"

	"github.com/agentstation/codesync/pkg/constants"
)

// Print serializes a file. Nodes that were parsed and not modified since
// keep their source text; everything else is printed in canonical form.
// Parsing the output and printing it again yields the same text.
func Print(f *File) string {
	p := &printer{origins: f.origins}
	out := p.file(f)
	if o := p.origins[f]; o != nil && out == o.shape {
		return o.text
	}
	return out
}

// PrintNode serializes a single node at indentation zero in canonical form.
func PrintNode(n Node) string {
	return (&printer{}).layout(n, scopeModule)
}

type scope int

const (
	scopeModule scope = iota
	scopeClass
	scopeInterface
)

// printer renders nodes, reusing the source text of unmodified ones.
type printer struct {
	origins map[Node]*origin
}

func (p *printer) file(f *File) string {
	out := p.members(f.Children(), scopeModule)
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *printer) members(nodes []Node, sc scope) string {
	var b strings.Builder
	var prev Node
	for _, n := range nodes {
		text := p.node(n, sc)
		if prev != nil {
			b.WriteString(p.separator(prev, n, sc))
		}
		b.WriteString(text)
		prev = n
	}
	return b.String()
}

// separator keeps the original line breaks between siblings that were
// adjacent in the source.
func (p *printer) separator(prev, next Node, sc scope) string {
	if o := p.origins[next]; o != nil && o.after != nil && o.after == prev {
		if o.lines == 0 {
			return " "
		}
		return strings.Repeat("\n", o.lines)
	}
	if tight(prev, next, sc) {
		return "\n"
	}
	return "\n\n"
}

// tight reports whether two siblings are printed without a blank line
// between them.
func tight(prev, next Node, sc scope) bool {
	if r, ok := prev.(*Raw); ok && r.IsComment() && !strings.HasPrefix(r.Text, "/*") {
		return true
	}
	if sc == scopeInterface {
		return true
	}
	switch prev.(type) {
	case *Import:
		_, ok := next.(*Import)
		return ok
	case *Export:
		_, ok := next.(*Export)
		return ok
	case *Property:
		_, ok := next.(*Property)
		return ok && sc == scopeClass
	}
	return false
}

func (p *printer) node(n Node, sc scope) string {
	text := p.layout(n, sc)
	if o := p.origins[n]; o != nil && o.text != "" && text == o.shape {
		return o.text
	}
	return text
}

func (p *printer) layout(n Node, sc scope) string {
	switch v := n.(type) {
	case *Raw:
		if v.Semi && sc != scopeModule {
			return v.Text + ";"
		}
		return v.Text
	case *Import:
		return printImport(v)
	case *Export:
		return printExport(v)
	case *Class:
		return p.class(v)
	case *Interface:
		return p.iface(v)
	case *Enum:
		return printEnum(v)
	case *TypeAlias:
		return printTypeAlias(v)
	case *Variable:
		return printVariable(v)
	case *Function:
		return printFunction(v)
	case *Method:
		return printMethod(v)
	case *Constructor:
		return printConstructor(v)
	case *Accessor:
		return printAccessor(v)
	case *Property:
		return printProperty(v)
	case *Namespace:
		return p.namespace(v)
	}
	return ""
}

// preamble renders the doc comment and decorators that precede a declaration.
func preamble(docs *Docs, decs *Decorations) string {
	var b strings.Builder
	if docs != nil && docs.Doc != nil {
		b.WriteString(formatDoc(docs.Doc))
		b.WriteString("\n")
	}
	if decs != nil {
		for _, d := range decs.Decorators {
			b.WriteString(FormatDecorator(d))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatDecorator renders a decorator as written in source.
func FormatDecorator(d *Decorator) string {
	if !d.Call {
		return "@" + d.Name
	}
	return "@" + d.Name + "(" + strings.Join(d.Args, ", ") + ")"
}

func modifiers(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p != "" {
			b.WriteString(p)
			b.WriteString(" ")
		}
	}
	return b.String()
}

func flag(on bool, word string) string {
	if on {
		return word
	}
	return ""
}

func specifiers(named []*ImportSpecifier) string {
	if len(named) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(named))
	for _, s := range named {
		p := s.Name
		if s.TypeOnly {
			p = "type " + p
		}
		if s.Alias != "" {
			p += " as " + s.Alias
		}
		parts = append(parts, p)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func quote(spec string) string {
	return "'" + spec + "'"
}

func printImport(i *Import) string {
	if i.Empty() {
		return "import " + quote(i.Specifier) + ";"
	}
	var bindings []string
	if i.Default != "" {
		bindings = append(bindings, i.Default)
	}
	if i.Namespace != "" {
		bindings = append(bindings, "* as "+i.Namespace)
	}
	if len(i.Named) > 0 {
		bindings = append(bindings, specifiers(i.Named))
	}
	return "import " + flag(i.TypeOnly, "type ") + strings.Join(bindings, ", ") + " from " + quote(i.Specifier) + ";"
}

func printExport(e *Export) string {
	var clause string
	switch {
	case e.Wildcard && e.Namespace != "":
		clause = "* as " + e.Namespace
	case e.Wildcard:
		clause = "*"
	default:
		clause = specifiers(e.Named)
	}
	out := "export " + flag(e.TypeOnly, "type ") + clause
	if e.Specifier != "" {
		out += " from " + quote(e.Specifier)
	}
	return out + ";"
}

// FormatParams renders a parameter list including the parentheses. A line
// comment inside the list puts every parameter on its own line.
func FormatParams(params []*Parameter) string {
	multiline := false
	for _, p := range params {
		for _, c := range p.Comments {
			if strings.HasPrefix(c, "//") {
				multiline = true
			}
		}
	}
	if !multiline {
		parts := make([]string, 0, len(params))
		for _, p := range params {
			part := FormatParam(p)
			for _, c := range p.Comments {
				part += " " + c
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	var b strings.Builder
	b.WriteString("(\n")
	for i, p := range params {
		b.WriteString(constants.IndentUnit + FormatParam(p))
		if i < len(params)-1 {
			b.WriteString(",")
		}
		for _, c := range p.Comments {
			b.WriteString(" " + c)
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// FormatParam renders one parameter without its comments.
func FormatParam(p *Parameter) string {
	var b strings.Builder
	for _, d := range p.Decorators {
		b.WriteString(FormatDecorator(d))
		b.WriteString(" ")
	}
	b.WriteString(modifiers(p.Scope, flag(p.Readonly, "readonly")))
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	if p.Type != "" {
		b.WriteString(": " + p.Type)
	}
	if p.Initializer != "" {
		b.WriteString(" = " + p.Initializer)
	}
	return b.String()
}

func returns(t string) string {
	if t == "" {
		return ""
	}
	return ": " + t
}

func body(b *string) string {
	if b == nil {
		return ";"
	}
	return " " + block(*b)
}

func (p *printer) class(c *Class) string {
	head := modifiers(flag(c.Exported, "export"), flag(c.Default, "default"), flag(c.Declare, "declare"), flag(c.Abstract, "abstract")) +
		"class " + c.Name + c.TypeParams
	if c.Extends != "" {
		head += " extends " + c.Extends
	}
	if len(c.Implements) > 0 {
		head += " implements " + strings.Join(c.Implements, ", ")
	}
	return preamble(&c.Docs, &c.Decorations) + head + " " + p.container(c.Children(), scopeClass)
}

func (p *printer) container(children []Node, sc scope) string {
	inner := p.members(children, sc)
	if inner == "" {
		return "{}"
	}
	return "{\n" + Indent(inner, constants.IndentUnit) + "\n}"
}

func (p *printer) iface(i *Interface) string {
	head := modifiers(flag(i.Exported, "export")) + "interface " + i.Name + i.TypeParams
	if len(i.Extends) > 0 {
		head += " extends " + strings.Join(i.Extends, ", ")
	}
	return preamble(&i.Docs, nil) + head + " " + p.container(i.Children(), scopeInterface)
}

func printEnum(e *Enum) string {
	head := modifiers(flag(e.Exported, "export"), flag(e.Declare, "declare"), flag(e.Const, "const")) + "enum " + e.Name
	if len(e.Members) == 0 && len(e.Trailing) == 0 {
		return preamble(&e.Docs, nil) + head + " {}"
	}
	var b strings.Builder
	for _, m := range e.Members {
		for _, c := range m.Comments {
			b.WriteString(Indent(c, constants.IndentUnit) + "\n")
		}
		b.WriteString(constants.IndentUnit + m.Name)
		if m.Value != "" {
			b.WriteString(" = " + m.Value)
		}
		b.WriteString(",\n")
	}
	for _, c := range e.Trailing {
		b.WriteString(Indent(c, constants.IndentUnit) + "\n")
	}
	return preamble(&e.Docs, nil) + head + " {\n" + b.String() + "}"
}

func printTypeAlias(t *TypeAlias) string {
	return preamble(&t.Docs, nil) + modifiers(flag(t.Exported, "export")) +
		"type " + t.Name + t.TypeParams + " = " + t.Type + ";"
}

func printVariable(v *Variable) string {
	kind := v.DeclKind
	if kind == "" {
		kind = "const"
	}
	out := modifiers(flag(v.Exported, "export"), flag(v.Declare, "declare"), kind) + v.Name
	if v.Type != "" {
		out += ": " + v.Type
	}
	if v.Initializer != "" {
		out += " = " + v.Initializer
	}
	return preamble(&v.Docs, nil) + out + ";"
}

func printFunction(f *Function) string {
	head := modifiers(flag(f.Exported, "export"), flag(f.Default, "default"), flag(f.Declare, "declare"), flag(f.Async, "async")) +
		"function " + f.Name + f.TypeParams + FormatParams(f.Params) + returns(f.ReturnType)
	return preamble(&f.Docs, nil) + head + body(f.Body)
}

func printMethod(m *Method) string {
	name := m.Name
	if m.Optional {
		name += "?"
	}
	head := modifiers(m.Scope, flag(m.Static, "static"), flag(m.Abstract, "abstract"), flag(m.Override, "override"), flag(m.Async, "async")) +
		name + m.TypeParams + FormatParams(m.Params) + returns(m.ReturnType)
	return preamble(&m.Docs, &m.Decorations) + head + body(m.Body)
}

func printConstructor(c *Constructor) string {
	head := modifiers(c.Scope) + "constructor" + FormatParams(c.Params)
	return preamble(&c.Docs, &c.Decorations) + head + body(c.Body)
}

func printAccessor(a *Accessor) string {
	kw := "get"
	if a.Setter {
		kw = "set"
	}
	head := modifiers(a.Scope, flag(a.Static, "static"), flag(a.Override, "override"), kw) + a.Name + FormatParams(a.Params) + returns(a.ReturnType)
	return preamble(&a.Docs, &a.Decorations) + head + body(a.Body)
}

func printProperty(p *Property) string {
	name := p.Name
	switch {
	case p.Optional:
		name += "?"
	case p.Definite:
		name += "!"
	}
	out := modifiers(p.Scope, flag(p.Declare, "declare"), flag(p.Static, "static"), flag(p.Abstract, "abstract"),
		flag(p.Override, "override"), flag(p.Readonly, "readonly")) + name
	if p.Type != "" {
		out += ": " + p.Type
	}
	if p.Initializer != "" {
		out += " = " + p.Initializer
	}
	return preamble(&p.Docs, &p.Decorations) + out + ";"
}

func (p *printer) namespace(n *Namespace) string {
	kw := n.Keyword
	if kw == "" {
		kw = "namespace"
	}
	head := modifiers(flag(n.Exported, "export"), flag(n.Declare, "declare"), kw) + n.Name
	return preamble(&n.Docs, nil) + head + " " + p.container(n.Children(), scopeModule)
}
