// Package application provides the application interface for codesync commands.
//
// Commands accept an Application rather than the concrete App so they can be
// tested with a Mock:
//
//	mock := &application.Mock{
//	    EngineFunc: func(opts ...codesync.Option) (*codesync.Engine, error) {
//	        return codesync.New(append(opts, codesync.WithDryRun(true))...)
//	    },
//	    ManifestFunc: func(string) (*schema.Manifest, error) {
//	        return manifest, nil
//	    },
//	}
//	cmd := sync.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/pkg/schema"
)

// Application provides what commands need from the application.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Engine returns the file engine configured from flags, environment and
	// config file. Options are appended to the configured ones and yield a
	// new engine.
	Engine(opts ...codesync.Option) (*codesync.Engine, error)

	// Manifest loads the manifest at path, or the configured manifest when
	// path is empty.
	Manifest(path string) (*schema.Manifest, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
