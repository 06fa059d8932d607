package schema

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/codesync/pkg/errors"
)

// Manifest lists the files a run reconciles.
type Manifest struct {
	Header string     `json:"header,omitempty" yaml:"header,omitempty"` // Header used when a definition has none
	Files  []FileSpec `json:"files" yaml:"files"`

	// Dir is the directory relative paths resolve against.
	Dir string `json:"-" yaml:"-"`
}

// FileSpec pairs a target path with its definition.
type FileSpec struct {
	Path       string         `json:"path" yaml:"path"`
	Definition FileDefinition `json:"definition" yaml:"definition"`
}

// ParseManifest decodes manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		if errors.IsConfigError(err) {
			return nil, err
		}
		return nil, errors.WrapParse("yaml", "", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and decodes a manifest file. Relative file paths in the
// manifest resolve against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) && perr.File == "" {
			perr.File = path
		}
		return nil, err
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Validate checks that every file has a unique path.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Files))
	for i, f := range m.Files {
		if f.Path == "" {
			return errors.NewValidationError("files", i, "file entry has no path")
		}
		if seen[f.Path] {
			return errors.NewValidationError("files", f.Path, "duplicate file path "+f.Path)
		}
		seen[f.Path] = true
	}
	return nil
}

// Resolve returns the filesystem path of a manifest entry.
func (m *Manifest) Resolve(path string) string {
	if filepath.IsAbs(path) || m.Dir == "" {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// HeaderFor returns the header to hoist for a file.
func (m *Manifest) HeaderFor(f FileSpec) string {
	if f.Definition.Header != "" {
		return f.Definition.Header
	}
	return m.Header
}
