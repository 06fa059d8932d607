// Package normalize canonicalizes code snippets, type annotations and module
// specifiers so that formatting noise is never mistaken for drift. The
// results are used only for comparison, never emitted.
package normalize

import (
	"path"
	"regexp"
	"strings"
)

// Normalizer holds the path tables used by Import. The zero value performs
// quote and extension handling only.
type Normalizer struct {
	// Remaps maps deprecated module paths (unquoted, extension stripped) to
	// their canonical replacement.
	Remaps map[string]string

	// SubpathRoots collapse any package specifier containing Marker:
	// everything from the marker on is replaced by Root. Relative paths are
	// never collapsed.
	SubpathRoots []SubpathRoot
}

// SubpathRoot is a package-internal subpath marker and its canonical root.
type SubpathRoot struct {
	Marker string
	Root   string
}

// Default is the normalizer used by the package level functions.
var Default = &Normalizer{
	Remaps: map[string]string{
		"@/lib/utils":   "@/lib/core/utils",
		"@/lib/api":     "@/lib/core/api",
		"@/utils":       "@/lib/core/utils",
		"@/components":  "@/components/index",
		"@/lib/helpers": "@/lib/core/utils",
	},
	SubpathRoots: []SubpathRoot{
		{Marker: "/dist/", Root: ""},
		{Marker: "/build/", Root: ""},
	},
}

var (
	whitespace    = regexp.MustCompile(`\s+`)
	afterBrace    = regexp.MustCompile(`\{\s+`)
	beforeBrace   = regexp.MustCompile(`\s+\}`)
	qualifiedCall = regexp.MustCompile(`[A-Za-z_$][\w$]*\([^()]*\)\.`)
	quoteReplacer = strings.NewReplacer(`"`, `'`, "`", `'`)
)

// moduleExtensions are stripped before table lookups and re-attached afterwards.
var moduleExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".d.ts": true,
}

// Code canonicalizes a code snippet: quotes unified, whitespace runs collapsed,
// whitespace just inside braces removed, ends trimmed.
func Code(code string) string {
	return Default.Code(code)
}

// Type canonicalizes a type annotation.
func Type(typeText string) string {
	return Default.Type(typeText)
}

// Import canonicalizes a module specifier.
func Import(specifier string) string {
	return Default.Import(specifier)
}

// Code canonicalizes a code snippet.
func (n *Normalizer) Code(code string) string {
	s := quoteReplacer.Replace(code)
	s = whitespace.ReplaceAllString(s, " ")
	s = afterBrace.ReplaceAllString(s, "{")
	s = beforeBrace.ReplaceAllString(s, "}")
	return strings.TrimSpace(s)
}

// Type canonicalizes a type annotation: whitespace and delimiters dropped,
// quotes unified and call qualifiers such as import("./user"). stripped so a
// qualified reference equals the bare one.
func (n *Normalizer) Type(typeText string) string {
	s := quoteReplacer.Replace(typeText)
	s = qualifiedCall.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ',', ';':
			return -1
		}
		return r
	}, s)
}

// Import canonicalizes a module specifier.
func (n *Normalizer) Import(specifier string) string {
	p := strings.TrimSpace(specifier)
	p = strings.Trim(p, "'\"`")

	base, ext := splitExtension(p)
	if canonical, ok := n.Remaps[base]; ok {
		base = canonical
	}

	if isRelative(base) {
		return base + ext
	}
	for _, root := range n.SubpathRoots {
		if root.Marker == "" {
			continue
		}
		if idx := strings.Index(base, root.Marker); idx > 0 {
			return base[:idx] + root.Root
		}
	}

	return base + ext
}

// Equal reports whether two code snippets normalize to the same text.
func (n *Normalizer) Equal(a, b string) bool {
	return n.Code(a) == n.Code(b)
}

// EqualType reports whether two type annotations normalize to the same text.
func (n *Normalizer) EqualType(a, b string) bool {
	return n.Type(a) == n.Type(b)
}

// SameModule reports whether two module specifiers name the same module.
func (n *Normalizer) SameModule(a, b string) bool {
	return n.Import(a) == n.Import(b)
}

// isRelative reports whether p is a relative or absolute file path rather
// than a package specifier.
func isRelative(p string) bool {
	return strings.HasPrefix(p, ".") || strings.HasPrefix(p, "/")
}

// splitExtension separates a known module file extension from p.
func splitExtension(p string) (string, string) {
	if strings.HasSuffix(p, ".d.ts") {
		return strings.TrimSuffix(p, ".d.ts"), ".d.ts"
	}
	ext := path.Ext(p)
	if !moduleExtensions[ext] {
		return p, ""
	}
	return strings.TrimSuffix(p, ext), ext
}
