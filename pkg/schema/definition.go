// Package schema holds the declarative description of a source file: which
// constructs it must contain and what each should look like. Definitions are
// plain values. They never read the syntax tree.
package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/codesync/pkg/errors"
)

// Group names a top-level section of a FileDefinition.
type Group string

// Definition groups.
const (
	GroupHeader     Group = "header"
	GroupImports    Group = "imports"
	GroupExports    Group = "exports"
	GroupClasses    Group = "classes"
	GroupInterfaces Group = "interfaces"
	GroupEnums      Group = "enums"
	GroupTypes      Group = "types"
	GroupVariables  Group = "variables"
	GroupFunctions  Group = "functions"
	GroupModules    Group = "modules"
)

// DefaultOrder is the walk order used when a definition declares none.
var DefaultOrder = []Group{
	GroupHeader, GroupImports, GroupExports, GroupClasses, GroupInterfaces,
	GroupEnums, GroupTypes, GroupVariables, GroupFunctions, GroupModules,
}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	for _, k := range DefaultOrder {
		if g == k {
			return true
		}
	}
	return false
}

// FileDefinition describes the desired shape of a file or namespace body.
type FileDefinition struct {
	Header     string            `json:"header,omitempty" yaml:"header,omitempty"`         // Sentinel comment kept on the first line
	Imports    []ImportConfig    `json:"imports,omitempty" yaml:"imports,omitempty"`       // Import declarations
	Exports    []ExportConfig    `json:"exports,omitempty" yaml:"exports,omitempty"`       // Re-exports and local export lists
	Classes    []ClassConfig     `json:"classes,omitempty" yaml:"classes,omitempty"`       // Class declarations
	Interfaces []InterfaceConfig `json:"interfaces,omitempty" yaml:"interfaces,omitempty"` // Interface declarations
	Enums      []EnumConfig      `json:"enums,omitempty" yaml:"enums,omitempty"`           // Enum declarations
	Types      []TypeAliasConfig `json:"types,omitempty" yaml:"types,omitempty"`           // Type aliases
	Variables  []VariableConfig  `json:"variables,omitempty" yaml:"variables,omitempty"`   // Module level variables
	Functions  []FunctionConfig  `json:"functions,omitempty" yaml:"functions,omitempty"`   // Function declarations
	Modules    []ModuleConfig    `json:"modules,omitempty" yaml:"modules,omitempty"`       // Nested namespaces

	// Order is the declared key order. It is filled from YAML key order and
	// may be set directly when a definition is built in code.
	Order []Group `json:"-" yaml:"-"`
}

// Groups returns the groups to walk: the declared order first, then any
// remaining groups in DefaultOrder. Duplicates are dropped.
func (d FileDefinition) Groups() []Group {
	seen := make(map[Group]bool, len(DefaultOrder))
	out := make([]Group, 0, len(DefaultOrder))
	for _, g := range d.Order {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	for _, g := range DefaultOrder {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// Len returns the number of entries declared in a group. Unknown groups
// return -1.
func (d FileDefinition) Len(g Group) int {
	switch g {
	case GroupHeader:
		if d.Header != "" {
			return 1
		}
		return 0
	case GroupImports:
		return len(d.Imports)
	case GroupExports:
		return len(d.Exports)
	case GroupClasses:
		return len(d.Classes)
	case GroupInterfaces:
		return len(d.Interfaces)
	case GroupEnums:
		return len(d.Enums)
	case GroupTypes:
		return len(d.Types)
	case GroupVariables:
		return len(d.Variables)
	case GroupFunctions:
		return len(d.Functions)
	case GroupModules:
		return len(d.Modules)
	}
	return -1
}

// Empty reports whether the definition declares nothing.
func (d FileDefinition) Empty() bool {
	for _, g := range DefaultOrder {
		if d.Len(g) > 0 {
			return false
		}
	}
	return true
}

// UnmarshalYAML decodes a definition and records its key order.
func (d *FileDefinition) UnmarshalYAML(data []byte) error {
	var keys yaml.MapSlice
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	order := make([]Group, 0, len(keys))
	for _, item := range keys {
		g := Group(fmt.Sprint(item.Key))
		if !g.Valid() {
			return errors.UnknownKind("definition group", string(g))
		}
		order = append(order, g)
	}

	type plain FileDefinition
	var p plain
	if err := yaml.Unmarshal(data, &p); err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	*d = FileDefinition(p)
	d.Order = order
	return nil
}
