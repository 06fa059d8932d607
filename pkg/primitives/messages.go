package primitives

import (
	"fmt"
	"strings"
)

// subject names a construct in a message: "Method 'list' in UserService".
func subject(kind, name, scope string) string {
	s := fmt.Sprintf("%s '%s'", kind, name)
	if scope != "" {
		s += " in " + scope
	}
	return s
}

func missingIssue(kind, name, scope string) string {
	if scope == "" {
		return fmt.Sprintf("%s '%s' is missing.", kind, name)
	}
	return fmt.Sprintf("%s '%s' is missing in %s.", kind, name, scope)
}

// issues collects validation messages for one subject.
type issues struct {
	subject string
	list    []string
}

func newIssues(kind, name, scope string) *issues {
	return &issues{subject: subject(kind, name, scope)}
}

// addf appends "<subject> <message>." with message formatted from args.
func (is *issues) addf(format string, args ...any) {
	is.list = append(is.list, is.subject+" "+fmt.Sprintf(format, args...)+".")
}

// raw appends a fully formed message.
func (is *issues) raw(msg string) {
	is.list = append(is.list, msg)
}

func (is *issues) merge(more []string) {
	is.list = append(is.list, more...)
}

func (is *issues) result() ValidationResult {
	return Result(is.list)
}

// flag reports a boolean modifier mismatch.
func (is *issues) flag(word string, have, want bool) {
	if have == want {
		return
	}
	if want {
		is.addf("should be %s", word)
		return
	}
	is.addf("should not be %s", word)
}

// attr reports a string attribute mismatch.
func (is *issues) attr(name, have, want string) {
	if have == "" {
		is.addf("has no %s, expected '%s'", name, want)
		return
	}
	is.addf("has %s '%s', expected '%s'", name, have, want)
}

func quoted(vals []string) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = "'" + v + "'"
	}
	return strings.Join(out, ", ")
}
