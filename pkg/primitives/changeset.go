package primitives

import (
	"fmt"
	"strings"
)

// ChangeType represents the type of change applied to a construct.
type ChangeType string

const (
	// ChangeCreate indicates a construct was added.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates attributes of an existing construct were changed.
	ChangeUpdate ChangeType = "update"
	// ChangeRemove indicates a construct was deleted during consolidation.
	ChangeRemove ChangeType = "remove"
	// ChangeUnchanged indicates the construct already matched.
	ChangeUnchanged ChangeType = "unchanged"
)

// FieldChange represents a change to a single attribute.
type FieldChange struct {
	Path     string // Attribute path (e.g., "params[0].type")
	OldValue string
	NewValue string
}

// Change records what a pass did to one construct.
type Change struct {
	Type   ChangeType
	Kind   string // Display kind, e.g. "Method"
	Name   string
	Scope  string // Enclosing container label, empty at file level
	Fields []FieldChange
}

// Changeset accumulates the changes of one reconciliation pass. It is
// created per pass and is not safe for concurrent use.
type Changeset struct {
	Changes []Change
	frames  [][]FieldChange
}

// NewChangeset creates an empty changeset.
func NewChangeset() *Changeset {
	return &Changeset{}
}

// Mark records an attribute change on the construct currently being updated.
// Marks outside an update are dropped.
func (c *Changeset) Mark(path, oldValue, newValue string) {
	if len(c.frames) == 0 {
		return
	}
	top := len(c.frames) - 1
	c.frames[top] = append(c.frames[top], FieldChange{Path: path, OldValue: oldValue, NewValue: newValue})
}

func (c *Changeset) begin() {
	c.frames = append(c.frames, nil)
}

func (c *Changeset) end() []FieldChange {
	top := len(c.frames) - 1
	fields := c.frames[top]
	c.frames = c.frames[:top]
	return fields
}

func (c *Changeset) record(ch Change) {
	c.Changes = append(c.Changes, ch)
}

// HasChanges returns true if anything was created, updated or removed.
func (c *Changeset) HasChanges() bool {
	for _, ch := range c.Changes {
		if ch.Type != ChangeUnchanged {
			return true
		}
	}
	return false
}

// Count returns the number of changes of type t.
func (c *Changeset) Count(t ChangeType) int {
	n := 0
	for _, ch := range c.Changes {
		if ch.Type == t {
			n++
		}
	}
	return n
}

// Filter returns the changes of type t in order.
func (c *Changeset) Filter(t ChangeType) []Change {
	var out []Change
	for _, ch := range c.Changes {
		if ch.Type == t {
			out = append(out, ch)
		}
	}
	return out
}

// String returns a one line summary.
func (c *Changeset) String() string {
	return fmt.Sprintf("%d created, %d updated, %d removed, %d unchanged",
		c.Count(ChangeCreate), c.Count(ChangeUpdate), c.Count(ChangeRemove), c.Count(ChangeUnchanged))
}

// Details returns one line per non-trivial change.
func (c *Changeset) Details() string {
	var b strings.Builder
	for _, ch := range c.Changes {
		if ch.Type == ChangeUnchanged {
			continue
		}
		target := fmt.Sprintf("%s '%s'", ch.Kind, ch.Name)
		if ch.Scope != "" {
			target += " in " + ch.Scope
		}
		fmt.Fprintf(&b, "%s %s\n", ch.Type, target)
		for _, f := range ch.Fields {
			fmt.Fprintf(&b, "  %s: %q -> %q\n", f.Path, f.OldValue, f.NewValue)
		}
	}
	return b.String()
}
