package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/pkg/schema"
)

var _ Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	EngineFunc       func(opts ...codesync.Option) (*codesync.Engine, error)
	ManifestFunc     func(path string) (*schema.Manifest, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Engine returns an engine from the mock function, or a default engine.
func (m *Mock) Engine(opts ...codesync.Option) (*codesync.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc(opts...)
	}
	return codesync.New(opts...)
}

// Manifest returns a manifest from the mock function, or loads path.
func (m *Mock) Manifest(path string) (*schema.Manifest, error) {
	if m.ManifestFunc != nil {
		return m.ManifestFunc(path)
	}
	return schema.LoadManifest(path)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "text".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "text"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
