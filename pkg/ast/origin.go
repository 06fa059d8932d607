package ast

import "strings"

// origin records where a parsed node came from. A node whose layout still
// matches shape is printed as text, so code nobody touched keeps its
// formatting.
type origin struct {
	text  string // source text, continuation lines relative to the first
	shape string // layout when the node was parsed
	after Node   // previous sibling in the source
	lines int    // line breaks between after and this node
	start uint32
	end   uint32
}

// record registers n as parsed from src[start:end]. Raw nodes only keep
// their position; their text is already verbatim.
func (b *builder) record(n Node, after Node, afterEnd, start, end uint32) *origin {
	if b.origins == nil {
		return nil
	}
	o := &origin{after: after, start: start, end: end}
	if after != nil && afterEnd <= start {
		o.lines = strings.Count(string(b.src[afterEnd:start]), "\n")
	}
	if _, ok := n.(*Raw); !ok {
		o.text = b.span(start, end)
	}
	b.origins[n] = o
	return o
}

// extend grows the recorded span of n to end, picking up a separator that
// the grammar keeps outside the member node.
func (b *builder) extend(n Node, end uint32) {
	o := b.origins[n]
	if o == nil || end <= o.end {
		return
	}
	o.end = end
	if o.text != "" {
		o.text = b.span(o.start, end)
	}
}

func (b *builder) span(start, end uint32) string {
	return stripPrefix(string(b.src[start:end]), b.indentAt(start))
}

// seal snapshots the layout of every recorded node below c, innermost first.
func (p *printer) seal(c Container, sc scope) {
	for _, n := range c.Children() {
		if inner, ok := n.(Container); ok {
			p.seal(inner, scopeOf(inner))
		}
		if o := p.origins[n]; o != nil {
			o.shape = p.layout(n, sc)
		}
	}
}

func scopeOf(c Container) scope {
	switch c.(type) {
	case *Class:
		return scopeClass
	case *Interface:
		return scopeInterface
	}
	return scopeModule
}
