package ast

import (
	"strings"

	"github.com/agentstation/codesync/pkg/constants"
)

// Indent prefixes every non-empty line of s with prefix.
func Indent(s, prefix string) string {
	if s == "" || prefix == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Dedent removes the longest common leading whitespace from the non-blank
// lines of s, drops leading and trailing blank lines and empties lines that
// hold only whitespace.
func Dedent(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	common := -1
	for i, l := range lines {
		l = strings.TrimRight(l, " \t")
		lines[i] = l
		if l == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common > 0 {
		for i, l := range lines {
			if len(l) >= common {
				lines[i] = l[common:]
			}
		}
	}
	return strings.Join(lines, "\n")
}

// stripPrefix removes up to width columns of leading whitespace from every
// line after the first. Declarations keep their interior layout relative to
// their own starting column this way.
func stripPrefix(s string, width int) string {
	if width <= 0 || !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		l := lines[i]
		n := 0
		for n < len(l) && n < width && (l[n] == ' ' || l[n] == '\t') {
			n++
		}
		lines[i] = l[n:]
	}
	return strings.Join(lines, "\n")
}

// block renders a statement block with the body indented one level.
func block(body string) string {
	if body == "" {
		return "{}"
	}
	return "{\n" + Indent(body, constants.IndentUnit) + "\n}"
}

func formatDoc(d *Doc) string {
	if d == nil {
		return ""
	}
	if !strings.Contains(d.Text, "\n") {
		return "/** " + d.Text + " */"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range strings.Split(d.Text, "\n") {
		if l == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * " + l + "\n")
	}
	b.WriteString(" */")
	return b.String()
}

// ParseDoc extracts the body of a /** */ comment.
func ParseDoc(comment string) string {
	s := strings.TrimSpace(comment)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		l = strings.TrimLeft(l, " \t")
		if strings.HasPrefix(l, "*") {
			l = strings.TrimPrefix(l[1:], " ")
		}
		lines[i] = strings.TrimRight(l, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
