// Package ast is the syntax tree provider used by the reconciler.
//
// It parses TypeScript and TSX source into a small mutable tree of
// declarations, re-serializes that tree, and splits statement blocks into
// classified top-level statements. Nodes left untouched since parsing print
// their original text; modified and new nodes print in canonical form.
// Anything the model does not represent structurally is kept verbatim as a
// Raw node, so a parse followed by a print never drops source text.
package ast

// Kind identifies the type of a tree node.
type Kind string

// Node kinds.
const (
	KindFile        Kind = "file"
	KindNamespace   Kind = "namespace"
	KindImport      Kind = "import"
	KindExport      Kind = "export"
	KindClass       Kind = "class"
	KindInterface   Kind = "interface"
	KindEnum        Kind = "enum"
	KindTypeAlias   Kind = "type"
	KindVariable    Kind = "variable"
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindAccessor    Kind = "accessor"
	KindProperty    Kind = "property"
	KindRaw         Kind = "raw"
)

// Language selects the grammar used for parsing.
type Language string

// Supported languages.
const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// Node is any element of the tree.
type Node interface {
	Kind() Kind
}

// Container is a node with ordered, mutable children.
type Container interface {
	Node
	Label() string
	Children() []Node
	Append(n Node)
	InsertAt(i int, n Node)
	Remove(n Node) bool
	Replace(old, n Node) bool
	IndexOf(n Node) int
}

// Members implements the child list of a Container.
type Members struct {
	Nodes []Node
}

// Children returns the child list. Callers must not retain it across mutations.
func (m *Members) Children() []Node { return m.Nodes }

// Append adds n as the last child.
func (m *Members) Append(n Node) { m.Nodes = append(m.Nodes, n) }

// InsertAt inserts n before index i. Out of range indexes are clamped.
func (m *Members) InsertAt(i int, n Node) {
	if i < 0 {
		i = 0
	}
	if i >= len(m.Nodes) {
		m.Nodes = append(m.Nodes, n)
		return
	}
	m.Nodes = append(m.Nodes, nil)
	copy(m.Nodes[i+1:], m.Nodes[i:])
	m.Nodes[i] = n
}

// Remove deletes n and reports whether it was a child.
func (m *Members) Remove(n Node) bool {
	i := m.IndexOf(n)
	if i < 0 {
		return false
	}
	m.Nodes = append(m.Nodes[:i], m.Nodes[i+1:]...)
	return true
}

// Replace swaps old for n in place.
func (m *Members) Replace(old, n Node) bool {
	i := m.IndexOf(old)
	if i < 0 {
		return false
	}
	m.Nodes[i] = n
	return true
}

// IndexOf returns the position of n, or -1.
func (m *Members) IndexOf(n Node) int {
	for i, c := range m.Nodes {
		if c == n {
			return i
		}
	}
	return -1
}

// Docs carries an attached JSDoc comment.
type Docs struct {
	Doc *Doc
}

// Documented returns the embedded doc slot.
func (d *Docs) Documented() *Docs { return d }

// Documentable is implemented by nodes that can carry a JSDoc comment.
type Documentable interface {
	Node
	Documented() *Docs
}

// Decorations carries decorators applied to a declaration.
type Decorations struct {
	Decorators []*Decorator
}

// Decorated returns the embedded decorator list.
func (d *Decorations) Decorated() *Decorations { return d }

// Decoratable is implemented by nodes that accept decorators.
type Decoratable interface {
	Node
	Decorated() *Decorations
}

// Doc is a JSDoc comment. Text holds the comment body without the /** */
// delimiters or leading asterisks.
type Doc struct {
	Text string
}

// Decorator is a single @decorator.
type Decorator struct {
	Name string
	Args []string
	Call bool // written with parentheses
}

// Raw is source text the model keeps verbatim: comments, statements and
// members with no structural representation.
//
// A declaration the parser could not model keeps its kind in Decl and the
// names it declares in Names. It is opaque: present, but not editable.
type Raw struct {
	Text  string
	Semi  bool // a ';' separator follows inside class or interface bodies
	Decl  Kind
	Names []string
}

func (*Raw) Kind() Kind { return KindRaw }

// Declares reports whether the raw text is an opaque declaration of kind
// with a name accepted by match.
func (r *Raw) Declares(kind Kind, match func(name string) bool) bool {
	if r.Decl != kind {
		return false
	}
	for _, n := range r.Names {
		if match(n) {
			return true
		}
	}
	return false
}

// IsComment reports whether the raw text is a standalone comment.
func (r *Raw) IsComment() bool {
	return len(r.Text) >= 2 && r.Text[0] == '/' && (r.Text[1] == '/' || r.Text[1] == '*')
}

// File is the root container of a source file.
type File struct {
	Members
	Path     string
	Language Language

	origins map[Node]*origin
}

func (*File) Kind() Kind { return KindFile }

// Label names the file in messages. Files are the top-level scope.
func (f *File) Label() string { return "" }

// Namespace is a `namespace X {}` or `module X {}` block.
type Namespace struct {
	Members
	Docs
	Name     string
	Keyword  string // "namespace" or "module"
	Exported bool
	Declare  bool
}

func (*Namespace) Kind() Kind { return KindNamespace }

// Label returns the namespace name.
func (n *Namespace) Label() string { return n.Name }

// ImportSpecifier is one binding of a named import or export list.
type ImportSpecifier struct {
	Name     string
	Alias    string
	TypeOnly bool
}

// Local returns the name the binding introduces in scope.
func (s *ImportSpecifier) Local() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Import is an import declaration.
type Import struct {
	TypeOnly  bool
	Default   string
	Namespace string
	Named     []*ImportSpecifier
	Specifier string // module path without quotes
}

func (*Import) Kind() Kind { return KindImport }

// Empty reports whether the declaration binds nothing.
func (i *Import) Empty() bool {
	return i.Default == "" && i.Namespace == "" && len(i.Named) == 0
}

// Export is an export declaration that is not attached to a declaration:
// `export { a }`, `export { a } from 'x'`, `export * from 'x'` and
// `export * as ns from 'x'`.
type Export struct {
	TypeOnly  bool
	Wildcard  bool
	Namespace string
	Named     []*ImportSpecifier
	Specifier string
}

func (*Export) Kind() Kind { return KindExport }

// Class is a class declaration and the container of its members.
type Class struct {
	Members
	Docs
	Decorations
	Name       string
	Exported   bool
	Default    bool
	Declare    bool
	Abstract   bool
	TypeParams string
	Extends    string
	Implements []string
}

func (*Class) Kind() Kind { return KindClass }

// Label returns the class name.
func (c *Class) Label() string { return c.Name }

// Interface is an interface declaration. Its members are Property and
// Method nodes without bodies, plus Raw members.
type Interface struct {
	Members
	Docs
	Name       string
	Exported   bool
	TypeParams string
	Extends    []string
}

func (*Interface) Kind() Kind { return KindInterface }

// Label returns the interface name.
func (i *Interface) Label() string { return i.Name }

// EnumMember is one enum entry.
type EnumMember struct {
	Name     string
	Value    string
	Comments []string // comments written directly above the member
}

// Enum is an enum declaration.
type Enum struct {
	Docs
	Name     string
	Exported bool
	Const    bool
	Declare  bool
	Members  []*EnumMember
	Trailing []string // comments after the last member
}

func (*Enum) Kind() Kind { return KindEnum }

// Member returns the member with the given name.
func (e *Enum) Member(name string) *EnumMember {
	for _, m := range e.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// TypeAlias is a `type X = ...` declaration.
type TypeAlias struct {
	Docs
	Name       string
	Exported   bool
	TypeParams string
	Type       string
}

func (*TypeAlias) Kind() Kind { return KindTypeAlias }

// Variable is a single-declarator const, let or var declaration.
type Variable struct {
	Docs
	Name        string
	Exported    bool
	Declare     bool
	DeclKind    string // const, let or var
	Type        string
	Initializer string
}

func (*Variable) Kind() Kind { return KindVariable }

// Parameter is one formal parameter.
type Parameter struct {
	Decorations
	Name        string
	Scope       string // public, private or protected (constructor properties)
	Readonly    bool
	Optional    bool
	Rest        bool
	Type        string
	Initializer string
	Comments    []string // comments written inside the parameter list after it
}

// Function is a function declaration.
type Function struct {
	Docs
	Name       string
	Exported   bool
	Default    bool
	Declare    bool
	Async      bool
	TypeParams string
	Params     []*Parameter
	ReturnType string
	Body       *string // nil for overload and ambient signatures
}

func (*Function) Kind() Kind { return KindFunction }

// Method is a class method, or a method signature when Body is nil.
type Method struct {
	Docs
	Decorations
	Name       string
	Scope      string
	Static     bool
	Abstract   bool
	Override   bool
	Async      bool
	Optional   bool
	TypeParams string
	Params     []*Parameter
	ReturnType string
	Body       *string
}

func (*Method) Kind() Kind { return KindMethod }

// Constructor is a class constructor.
type Constructor struct {
	Docs
	Decorations
	Scope  string
	Params []*Parameter
	Body   *string
}

func (*Constructor) Kind() Kind { return KindConstructor }

// Accessor is a get or set accessor.
type Accessor struct {
	Docs
	Decorations
	Name       string
	Setter     bool
	Scope      string
	Static     bool
	Override   bool
	Params     []*Parameter
	ReturnType string
	Body       *string
}

func (*Accessor) Kind() Kind { return KindAccessor }

// Property is a class field or an interface property signature.
type Property struct {
	Docs
	Decorations
	Name        string
	Scope       string
	Static      bool
	Declare     bool
	Abstract    bool
	Override    bool
	Readonly    bool
	Optional    bool
	Definite    bool // name!: T
	Type        string
	Initializer string
}

func (*Property) Kind() Kind { return KindProperty }

// StringPtr returns a pointer to s, for body fields.
func StringPtr(s string) *string { return &s }
