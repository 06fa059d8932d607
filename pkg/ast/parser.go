package ast

import (
	"context"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/agentstation/codesync/pkg/constants"
	"github.com/agentstation/codesync/pkg/errors"
)

// Parser turns TypeScript or TSX source into a File. A Parser is safe for
// concurrent use; each call creates its own tree-sitter parser.
type Parser struct {
	lang  Language
	cache *lru.Cache[string, []Statement]
}

// NewParser creates a parser for the given language.
func NewParser(lang Language) *Parser {
	if lang == "" {
		lang = TypeScript
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, []Statement](constants.StatementCacheSize)
	return &Parser{lang: lang, cache: cache}
}

// LanguageFor picks the grammar from a file extension.
func LanguageFor(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return TSX
	default:
		return TypeScript
	}
}

// Language returns the parser's grammar.
func (p *Parser) Language() Language { return p.lang }

func (p *Parser) grammar() *sitter.Language {
	if p.lang == TSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

func (p *Parser) tree(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.grammar())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.WrapParse(string(p.lang), "", err)
	}
	return tree, nil
}

// Parse parses a complete source file. Source with syntax errors is rejected.
func (p *Parser) Parse(ctx context.Context, src []byte) (*File, error) {
	tree, err := p.tree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, p.syntaxError(root)
	}
	f := &File{Language: p.lang, origins: make(map[Node]*origin)}
	b := &builder{src: src, origins: f.origins}
	b.statements(root, f)

	pr := &printer{origins: f.origins}
	pr.seal(f, scopeModule)
	f.origins[f] = &origin{text: string(src), shape: pr.file(f)}
	return f, nil
}

func (p *Parser) syntaxError(root *sitter.Node) error {
	perr := &errors.ParseError{Format: string(p.lang), Message: "source contains syntax errors", Err: errors.ErrParse}
	if n := firstError(root); n != nil {
		perr.Line = int(n.StartPoint().Row) + 1
		perr.Column = int(n.StartPoint().Column) + 1
		if n.IsMissing() {
			perr.Message = "missing " + n.Type()
		} else {
			perr.Message = "unexpected syntax"
		}
	}
	return perr
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && (c.HasError() || c.IsMissing()) {
			if e := firstError(c); e != nil {
				return e
			}
		}
	}
	return nil
}

// builder converts tree-sitter nodes into the tree model.
type builder struct {
	src     []byte
	origins map[Node]*origin
}

func (b *builder) content(n *sitter.Node) string {
	return n.Content(b.src)
}

// text returns node source with continuation lines made relative to the
// indentation of the line the node starts on.
func (b *builder) text(n *sitter.Node) string {
	return stripPrefix(b.content(n), b.indentAt(n.StartByte()))
}

// indentAt returns the width of the leading whitespace on the line holding
// byte offset pos.
func (b *builder) indentAt(pos uint32) int {
	start := int(pos)
	i := start
	for i > 0 && b.src[i-1] != '\n' {
		i--
	}
	j := i
	for j < start && (b.src[j] == ' ' || b.src[j] == '\t') {
		j++
	}
	return j - i
}

func (b *builder) raw(n *sitter.Node) *Raw {
	return &Raw{Text: b.text(n)}
}

// opaque keeps a declaration the model cannot represent as raw text that
// still answers to its kind and names.
func (b *builder) opaque(n *sitter.Node) *Raw {
	r := b.raw(n)
	r.Decl, r.Names = b.identity(n)
	return r
}

func (b *builder) identity(n *sitter.Node) (Kind, []string) {
	switch n.Type() {
	case "export_statement":
		if d := n.ChildByFieldName("declaration"); d != nil {
			return b.identity(d)
		}
	case "ambient_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if k, names := b.identity(n.NamedChild(i)); k != "" {
				return k, names
			}
		}
	case "expression_statement":
		if n.NamedChildCount() == 1 {
			return b.identity(n.NamedChild(0))
		}
	case "import_statement":
		if src := n.ChildByFieldName("source"); src != nil {
			return KindImport, []string{b.stringValue(src)}
		}
	case "class_declaration", "abstract_class_declaration":
		return b.named(KindClass, n)
	case "interface_declaration":
		return b.named(KindInterface, n)
	case "enum_declaration":
		return b.named(KindEnum, n)
	case "type_alias_declaration":
		return b.named(KindTypeAlias, n)
	case "function_declaration", "function_signature", "generator_function_declaration":
		return b.named(KindFunction, n)
	case "internal_module", "module":
		return b.named(KindNamespace, n)
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if ch.Type() != "variable_declarator" {
				continue
			}
			if name := ch.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				names = append(names, b.content(name))
			}
		}
		if len(names) > 0 {
			return KindVariable, names
		}
	case "method_definition", "abstract_method_signature", "method_signature":
		name := n.ChildByFieldName("name")
		if name == nil {
			break
		}
		if b.content(name) == "constructor" {
			return KindConstructor, []string{"constructor"}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if t := n.Child(i).Type(); t == "get" || t == "set" {
				return KindAccessor, []string{b.content(name)}
			}
		}
		return KindMethod, []string{b.content(name)}
	case "public_field_definition", "property_signature":
		return b.named(KindProperty, n)
	}
	return "", nil
}

func (b *builder) named(kind Kind, n *sitter.Node) (Kind, []string) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return "", nil
	}
	return kind, []string{b.content(name)}
}

func (b *builder) blockBody(n *sitter.Node) *string {
	s := b.content(n)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	d := Dedent(s)
	return &d
}

func isJSDoc(text string) bool {
	return strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/")
}

// docQueue appends the children of one container in source order. It holds
// a JSDoc comment until the next declaration claims it.
type docQueue struct {
	b       *builder
	c       Container
	pending *sitter.Node
	last    Node
	lastEnd uint32
}

func (q *docQueue) push(n Node, start, end uint32) {
	q.b.record(n, q.last, q.lastEnd, start, end)
	q.c.Append(n)
	q.last, q.lastEnd = n, end
}

func (q *docQueue) flush() {
	if q.pending != nil {
		q.push(q.b.raw(q.pending), q.pending.StartByte(), q.pending.EndByte())
		q.pending = nil
	}
}

func (q *docQueue) comment(n *sitter.Node) {
	q.flush()
	if isJSDoc(q.b.content(n)) {
		q.pending = n
		return
	}
	q.push(q.b.raw(n), n.StartByte(), n.EndByte())
}

// add appends n, parsed from the source running from first to last.
func (q *docQueue) add(n Node, first, last *sitter.Node) {
	start := first.StartByte()
	if q.pending != nil {
		if d, ok := n.(Documentable); ok && d.Documented().Doc == nil {
			d.Documented().Doc = &Doc{Text: ParseDoc(q.b.content(q.pending))}
			start = q.pending.StartByte()
			q.pending = nil
		}
	}
	q.flush()
	q.push(n, start, last.EndByte())
}

// separator folds a ';' or ',' that follows a member into that member.
func (q *docQueue) separator(n *sitter.Node) {
	if q.last == nil || q.pending != nil {
		return
	}
	if r, ok := q.last.(*Raw); ok {
		if r.IsComment() {
			return
		}
		r.Semi = true
	}
	q.b.extend(q.last, n.EndByte())
	q.lastEnd = n.EndByte()
}

// statements fills c with the declarations of a program or statement block.
func (b *builder) statements(n *sitter.Node, c Container) {
	q := &docQueue{b: b, c: c}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" {
			q.comment(ch)
			continue
		}
		q.add(b.statement(ch), ch, ch)
	}
	q.flush()
}

func (b *builder) statement(n *sitter.Node) Node {
	switch n.Type() {
	case "export_statement":
		if node, ok := b.exportStatement(n); ok {
			return node
		}
	case "expression_statement":
		if n.NamedChildCount() == 1 && n.NamedChild(0).Type() == "internal_module" {
			if node, ok := b.namespace(n.NamedChild(0)); ok {
				return node
			}
		}
	default:
		if node, ok := b.declaration(n, nil); ok {
			return node
		}
	}
	return b.opaque(n)
}

func (b *builder) declaration(n *sitter.Node, decorators []*Decorator) (Node, bool) {
	switch n.Type() {
	case "import_statement":
		return b.importStatement(n)
	case "class_declaration", "abstract_class_declaration":
		return b.class(n, decorators)
	case "interface_declaration":
		return b.interfaceDecl(n)
	case "enum_declaration":
		return b.enum(n)
	case "type_alias_declaration":
		return b.typeAlias(n)
	case "lexical_declaration", "variable_declaration":
		return b.variable(n)
	case "function_declaration":
		return b.function(n)
	case "internal_module", "module":
		return b.namespace(n)
	case "ambient_declaration":
		return b.ambient(n)
	}
	return nil, false
}

// ambient reads `declare` forms of declarations the model has a flag for.
func (b *builder) ambient(n *sitter.Node) (Node, bool) {
	var decl *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.Type() == "declare" {
			continue
		}
		if decl != nil {
			return nil, false
		}
		decl = ch
	}
	if decl == nil {
		return nil, false
	}
	var node Node
	var ok bool
	if decl.Type() == "function_signature" {
		node, ok = b.functionSignature(decl)
	} else {
		node, ok = b.declaration(decl, nil)
	}
	if !ok {
		return nil, false
	}
	switch v := node.(type) {
	case *Class:
		v.Declare = true
	case *Function:
		v.Declare = true
	case *Enum:
		v.Declare = true
	case *Variable:
		v.Declare = true
	case *Namespace:
		v.Declare = true
	default:
		return nil, false
	}
	return node, true
}

func (b *builder) stringValue(n *sitter.Node) string {
	s := b.content(n)
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func (b *builder) importStatement(n *sitter.Node) (Node, bool) {
	imp := &Import{}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "import", "from", ";":
		case "type":
			imp.TypeOnly = true
		case "string":
			imp.Specifier = b.stringValue(ch)
		case "import_clause":
			if !b.importClause(ch, imp) {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return imp, imp.Specifier != ""
}

func (b *builder) importClause(n *sitter.Node, imp *Import) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case ",":
		case "identifier":
			imp.Default = b.content(ch)
		case "namespace_import":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				if id := ch.NamedChild(j); id.Type() == "identifier" {
					imp.Namespace = b.content(id)
				}
			}
		case "named_imports":
			named, ok := b.specifiers(ch, "import_specifier")
			if !ok {
				return false
			}
			imp.Named = named
		default:
			return false
		}
	}
	return true
}

// specifiers reads `{ a, type b, c as d }` lists of imports and exports.
func (b *builder) specifiers(n *sitter.Node, kind string) ([]*ImportSpecifier, bool) {
	named := []*ImportSpecifier{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != kind {
			return nil, false
		}
		spec := &ImportSpecifier{}
		if name := ch.ChildByFieldName("name"); name != nil {
			spec.Name = b.content(name)
		}
		if alias := ch.ChildByFieldName("alias"); alias != nil {
			spec.Alias = b.content(alias)
		}
		for j := 0; j < int(ch.ChildCount()); j++ {
			if ch.Child(j).Type() == "type" {
				spec.TypeOnly = true
			}
		}
		if spec.Name == "" {
			return nil, false
		}
		named = append(named, spec)
	}
	return named, true
}

func (b *builder) exportStatement(n *sitter.Node) (Node, bool) {
	var decorators []*Decorator
	var isDefault, typeOnly, star bool
	var decl *sitter.Node
	exp := &Export{}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "export", "from", ";":
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				return nil, false
			}
			decorators = append(decorators, d)
		case "default":
			isDefault = true
		case "type":
			typeOnly = true
		case "*":
			star = true
		case "namespace_export":
			star = true
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				if id := ch.NamedChild(j); id.Type() == "identifier" {
					exp.Namespace = b.content(id)
				}
			}
		case "export_clause":
			named, ok := b.specifiers(ch, "export_specifier")
			if !ok {
				return nil, false
			}
			exp.Named = named
		case "string":
			exp.Specifier = b.stringValue(ch)
		default:
			if decl != nil || ch.ChildByFieldName("name") == nil && !unnamedDeclaration(ch.Type()) {
				return nil, false
			}
			decl = ch
		}
	}
	if decl != nil {
		node, ok := b.declaration(decl, decorators)
		if !ok {
			return nil, false
		}
		return markExported(node, isDefault)
	}
	if isDefault || len(decorators) > 0 {
		return nil, false
	}
	exp.TypeOnly = typeOnly
	exp.Wildcard = star
	return exp, true
}

func unnamedDeclaration(t string) bool {
	return t == "lexical_declaration" || t == "variable_declaration" || t == "ambient_declaration"
}

func markExported(n Node, isDefault bool) (Node, bool) {
	switch v := n.(type) {
	case *Class:
		v.Exported, v.Default = true, isDefault
	case *Function:
		v.Exported, v.Default = true, isDefault
	case *Interface:
		v.Exported = !isDefault
	case *Enum:
		v.Exported = !isDefault
	case *TypeAlias:
		v.Exported = !isDefault
	case *Variable:
		v.Exported = !isDefault
	case *Namespace:
		v.Exported = !isDefault
	default:
		return nil, false
	}
	if isDefault {
		switch n.(type) {
		case *Class, *Function:
		default:
			return nil, false
		}
	}
	return n, true
}

func (b *builder) decorator(n *sitter.Node) (*Decorator, bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "identifier", "member_expression":
			return &Decorator{Name: b.content(ch)}, true
		case "call_expression":
			fn := ch.ChildByFieldName("function")
			args := ch.ChildByFieldName("arguments")
			if fn == nil || args == nil || args.Type() != "arguments" {
				return nil, false
			}
			d := &Decorator{Name: b.content(fn), Call: true}
			for j := 0; j < int(args.NamedChildCount()); j++ {
				a := args.NamedChild(j)
				if a.Type() == "comment" {
					return nil, false
				}
				d.Args = append(d.Args, b.text(a))
			}
			return d, true
		}
	}
	return nil, false
}

func (b *builder) typeAnnotation(n *sitter.Node) string {
	s := strings.TrimSpace(b.text(n))
	return strings.TrimSpace(strings.TrimPrefix(s, ":"))
}

func (b *builder) class(n *sitter.Node, decorators []*Decorator) (Node, bool) {
	c := &Class{Decorations: Decorations{Decorators: decorators}}
	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "class":
		case "abstract":
			c.Abstract = true
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				return nil, false
			}
			c.Decorators = append(c.Decorators, d)
		case "type_identifier":
			c.Name = b.content(ch)
		case "type_parameters":
			c.TypeParams = b.text(ch)
		case "class_heritage":
			if !b.heritage(ch, c) {
				return nil, false
			}
		case "class_body":
			body = ch
		default:
			return nil, false
		}
	}
	if c.Name == "" || body == nil {
		return nil, false
	}
	if !b.classBody(body, c) {
		return nil, false
	}
	return c, true
}

func (b *builder) heritage(n *sitter.Node, c *Class) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "extends_clause":
			c.Extends = strings.TrimSpace(strings.TrimPrefix(b.text(ch), "extends"))
		case "implements_clause":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				c.Implements = append(c.Implements, b.text(ch.NamedChild(j)))
			}
		default:
			return false
		}
	}
	return true
}

func (b *builder) classBody(n *sitter.Node, c *Class) bool {
	q := &docQueue{b: b, c: c}
	var decorators []*Decorator
	var decoratorNodes []*sitter.Node
	flushDecorators := func() {
		for _, d := range decoratorNodes {
			q.add(b.raw(d), d, d)
		}
		decorators, decoratorNodes = nil, nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "{", "}":
		case ";", ",":
			q.separator(ch)
		case "comment":
			if len(decoratorNodes) > 0 {
				flushDecorators()
			}
			q.comment(ch)
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				flushDecorators()
				q.add(b.raw(ch), ch, ch)
				continue
			}
			decorators = append(decorators, d)
			decoratorNodes = append(decoratorNodes, ch)
		default:
			member, ok := b.classMember(ch, decorators)
			if !ok {
				flushDecorators()
				q.add(b.opaque(ch), ch, ch)
				continue
			}
			first := ch
			if len(decoratorNodes) > 0 {
				first = decoratorNodes[0]
			}
			decorators, decoratorNodes = nil, nil
			q.add(member, first, ch)
		}
	}
	flushDecorators()
	q.flush()
	return true
}

func (b *builder) classMember(n *sitter.Node, decorators []*Decorator) (Node, bool) {
	switch n.Type() {
	case "method_definition":
		return b.method(n, decorators)
	case "abstract_method_signature":
		return b.method(n, decorators)
	case "public_field_definition":
		return b.field(n, decorators)
	}
	return nil, false
}

// signature collects the parts shared by methods, accessors and constructors.
type signature struct {
	name       string
	scope      string
	static     bool
	abstract   bool
	override   bool
	async      bool
	optional   bool
	accessor   string
	typeParams string
	params     []*Parameter
	returnType string
	body       *string
	decorators []*Decorator
}

func (b *builder) signature(n *sitter.Node, sig *signature) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				return false
			}
			sig.decorators = append(sig.decorators, d)
		case "accessibility_modifier":
			sig.scope = b.content(ch)
		case "static":
			sig.static = true
		case "abstract":
			sig.abstract = true
		case "override_modifier":
			sig.override = true
		case "async":
			sig.async = true
		case "get", "set":
			sig.accessor = ch.Type()
		case "?":
			sig.optional = true
		case "property_identifier", "private_property_identifier":
			sig.name = b.content(ch)
		case "type_parameters":
			sig.typeParams = b.text(ch)
		case "formal_parameters":
			params, ok := b.parameters(ch)
			if !ok {
				return false
			}
			sig.params = params
		case "type_annotation", "asserts_annotation", "type_predicate_annotation":
			sig.returnType = b.typeAnnotation(ch)
		case "statement_block":
			sig.body = b.blockBody(ch)
		default:
			return false
		}
	}
	return sig.name != ""
}

func (b *builder) method(n *sitter.Node, decorators []*Decorator) (Node, bool) {
	var sig signature
	if !b.signature(n, &sig) {
		return nil, false
	}
	decs := Decorations{Decorators: append(decorators, sig.decorators...)}
	switch {
	case sig.name == "constructor":
		if sig.static || sig.async || sig.override || sig.accessor != "" || sig.typeParams != "" || sig.returnType != "" || sig.body == nil {
			return nil, false
		}
		return &Constructor{Decorations: decs, Scope: sig.scope, Params: sig.params, Body: sig.body}, true
	case sig.accessor != "":
		if sig.async || sig.abstract || sig.optional || sig.typeParams != "" || sig.body == nil {
			return nil, false
		}
		return &Accessor{
			Decorations: decs, Name: sig.name, Setter: sig.accessor == "set", Scope: sig.scope,
			Static: sig.static, Override: sig.override, Params: sig.params, ReturnType: sig.returnType, Body: sig.body,
		}, true
	}
	if n.Type() == "method_definition" && sig.body == nil {
		return nil, false
	}
	return &Method{
		Decorations: decs, Name: sig.name, Scope: sig.scope, Static: sig.static, Abstract: sig.abstract,
		Override: sig.override, Async: sig.async, Optional: sig.optional, TypeParams: sig.typeParams, Params: sig.params,
		ReturnType: sig.returnType, Body: sig.body,
	}, true
}

func (b *builder) field(n *sitter.Node, decorators []*Decorator) (Node, bool) {
	p := &Property{Decorations: Decorations{Decorators: decorators}}
	afterEquals := false
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if afterEquals {
			p.Initializer = b.text(ch)
			afterEquals = false
			continue
		}
		switch ch.Type() {
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				return nil, false
			}
			p.Decorators = append(p.Decorators, d)
		case "accessibility_modifier":
			p.Scope = b.content(ch)
		case "declare":
			p.Declare = true
		case "static":
			p.Static = true
		case "abstract":
			p.Abstract = true
		case "override_modifier":
			p.Override = true
		case "readonly":
			p.Readonly = true
		case "?":
			p.Optional = true
		case "!":
			p.Definite = true
		case "property_identifier", "private_property_identifier":
			p.Name = b.content(ch)
		case "type_annotation":
			p.Type = b.typeAnnotation(ch)
		case "=":
			afterEquals = true
		default:
			return nil, false
		}
	}
	return p, p.Name != ""
}

// parameters reads a formal parameter list. Comments in the list are kept
// on the parameter before them, or the first one when none precedes.
func (b *builder) parameters(n *sitter.Node) ([]*Parameter, bool) {
	params := []*Parameter{}
	var leading []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" {
			if len(params) == 0 {
				leading = append(leading, b.text(ch))
				continue
			}
			last := params[len(params)-1]
			last.Comments = append(last.Comments, b.text(ch))
			continue
		}
		if ch.Type() != "required_parameter" && ch.Type() != "optional_parameter" {
			return nil, false
		}
		p, ok := b.parameter(ch)
		if !ok {
			return nil, false
		}
		if len(params) == 0 && len(leading) > 0 {
			p.Comments = append(leading, p.Comments...)
		}
		params = append(params, p)
	}
	return params, len(leading) == 0 || len(params) > 0
}

func (b *builder) parameter(n *sitter.Node) (*Parameter, bool) {
	p := &Parameter{Optional: n.Type() == "optional_parameter"}
	afterEquals := false
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if afterEquals {
			p.Initializer = b.text(ch)
			afterEquals = false
			continue
		}
		switch ch.Type() {
		case "decorator":
			d, ok := b.decorator(ch)
			if !ok {
				return nil, false
			}
			p.Decorators = append(p.Decorators, d)
		case "accessibility_modifier":
			p.Scope = b.content(ch)
		case "readonly":
			p.Readonly = true
		case "?":
		case "rest_pattern":
			p.Rest = true
			p.Name = strings.TrimPrefix(b.content(ch), "...")
		case "identifier", "this", "object_pattern", "array_pattern":
			p.Name = b.text(ch)
		case "type_annotation":
			p.Type = b.typeAnnotation(ch)
		case "=":
			afterEquals = true
		case "comment":
			p.Comments = append(p.Comments, b.text(ch))
		default:
			return nil, false
		}
	}
	return p, p.Name != ""
}

func (b *builder) interfaceDecl(n *sitter.Node) (Node, bool) {
	it := &Interface{}
	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "interface":
		case "type_identifier":
			it.Name = b.content(ch)
		case "type_parameters":
			it.TypeParams = b.text(ch)
		case "extends_type_clause":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				it.Extends = append(it.Extends, b.text(ch.NamedChild(j)))
			}
		case "interface_body", "object_type":
			body = ch
		default:
			return nil, false
		}
	}
	if it.Name == "" || body == nil {
		return nil, false
	}
	q := &docQueue{b: b, c: it}
	for i := 0; i < int(body.ChildCount()); i++ {
		ch := body.Child(i)
		switch ch.Type() {
		case "{", "}":
		case ";", ",":
			q.separator(ch)
		case "comment":
			q.comment(ch)
		case "property_signature":
			if p, ok := b.propertySignature(ch); ok {
				q.add(p, ch, ch)
				continue
			}
			q.add(b.opaque(ch), ch, ch)
		case "method_signature":
			if m, ok := b.method(ch, nil); ok {
				q.add(m, ch, ch)
				continue
			}
			q.add(b.opaque(ch), ch, ch)
		default:
			q.add(b.opaque(ch), ch, ch)
		}
	}
	q.flush()
	return it, true
}

func (b *builder) propertySignature(n *sitter.Node) (*Property, bool) {
	p := &Property{}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "readonly":
			p.Readonly = true
		case "?":
			p.Optional = true
		case "property_identifier":
			p.Name = b.content(ch)
		case "type_annotation":
			p.Type = b.typeAnnotation(ch)
		default:
			return nil, false
		}
	}
	return p, p.Name != ""
}

func (b *builder) enum(n *sitter.Node) (Node, bool) {
	e := &Enum{}
	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "enum":
		case "const":
			e.Const = true
		case "identifier":
			e.Name = b.content(ch)
		case "enum_body":
			body = ch
		default:
			return nil, false
		}
	}
	if e.Name == "" || body == nil {
		return nil, false
	}
	var comments []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		switch ch.Type() {
		case "comment":
			comments = append(comments, b.text(ch))
		case "enum_assignment":
			name := ch.ChildByFieldName("name")
			value := ch.ChildByFieldName("value")
			if name == nil || value == nil {
				return nil, false
			}
			e.Members = append(e.Members, &EnumMember{Name: b.content(name), Value: b.text(value), Comments: comments})
			comments = nil
		default:
			e.Members = append(e.Members, &EnumMember{Name: b.content(ch), Comments: comments})
			comments = nil
		}
	}
	e.Trailing = comments
	return e, true
}

func (b *builder) typeAlias(n *sitter.Node) (Node, bool) {
	t := &TypeAlias{}
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil {
		return nil, false
	}
	t.Name = b.content(name)
	t.Type = b.text(value)
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		t.TypeParams = b.text(tp)
	}
	return t, true
}

func (b *builder) variable(n *sitter.Node) (Node, bool) {
	v := &Variable{}
	declarators := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "const", "let", "var":
			v.DeclKind = ch.Type()
		case ";", ",":
		case "variable_declarator":
			declarators++
			name := ch.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				return nil, false
			}
			v.Name = b.content(name)
			if t := ch.ChildByFieldName("type"); t != nil {
				v.Type = b.typeAnnotation(t)
			}
			if val := ch.ChildByFieldName("value"); val != nil {
				v.Initializer = b.text(val)
			}
		default:
			return nil, false
		}
	}
	return v, declarators == 1 && v.DeclKind != ""
}

func (b *builder) function(n *sitter.Node) (Node, bool) {
	f, ok := b.functionParts(n)
	return f, ok && f.Body != nil
}

// functionSignature reads a bodiless `declare function` signature.
func (b *builder) functionSignature(n *sitter.Node) (Node, bool) {
	f, ok := b.functionParts(n)
	return f, ok && f.Body == nil
}

func (b *builder) functionParts(n *sitter.Node) (*Function, bool) {
	f := &Function{}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "function", ";":
		case "async":
			f.Async = true
		case "identifier":
			f.Name = b.content(ch)
		case "type_parameters":
			f.TypeParams = b.text(ch)
		case "formal_parameters":
			params, ok := b.parameters(ch)
			if !ok {
				return nil, false
			}
			f.Params = params
		case "type_annotation", "asserts_annotation", "type_predicate_annotation":
			f.ReturnType = b.typeAnnotation(ch)
		case "statement_block":
			f.Body = b.blockBody(ch)
		default:
			return nil, false
		}
	}
	return f, f.Name != ""
}

func (b *builder) namespace(n *sitter.Node) (Node, bool) {
	ns := &Namespace{}
	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "namespace", "module":
			ns.Keyword = ch.Type()
		case "identifier", "nested_identifier":
			ns.Name = b.content(ch)
		case "statement_block":
			body = ch
		default:
			return nil, false
		}
	}
	if ns.Name == "" || body == nil {
		return nil, false
	}
	b.statements(body, ns)
	return ns, true
}
