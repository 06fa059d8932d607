package application

import (
	"path/filepath"

	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

// SelectFiles narrows m to the entries named by paths. An entry matches when
// its manifest path or its resolved path equals the cleaned argument. No
// paths returns m unchanged.
func SelectFiles(m *schema.Manifest, paths []string) (*schema.Manifest, error) {
	if len(paths) == 0 {
		return m, nil
	}

	selected := *m
	selected.Files = nil
	for _, p := range paths {
		spec, ok := lookup(m, filepath.Clean(p))
		if !ok {
			return nil, errors.NewNotFoundError("manifest entry", p)
		}
		selected.Files = append(selected.Files, spec)
	}
	return &selected, nil
}

func lookup(m *schema.Manifest, path string) (schema.FileSpec, bool) {
	for _, spec := range m.Files {
		if filepath.Clean(spec.Path) == path || filepath.Clean(m.Resolve(spec.Path)) == path {
			return spec, true
		}
	}
	return schema.FileSpec{}, false
}
