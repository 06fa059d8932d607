// Package app provides the application context and dependency management
// for the codesync CLI. Configuration, logging and the file engine are
// created here and handed to commands through the application interface.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/cmd/application"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/schema"
)

var _ application.Application = (*App)(nil)

// App represents the codesync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Engine instance (lazy-initialized)
	mu     sync.RWMutex
	engine *codesync.Engine
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Engine returns the configured engine. Without options the engine is
// created once and shared; extra options always build a new one.
func (a *App) Engine(opts ...codesync.Option) (*codesync.Engine, error) {
	if len(opts) > 0 {
		e, err := codesync.New(append(a.engineOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapConfig("engine", err)
		}
		return e, nil
	}

	a.mu.RLock()
	if a.engine != nil {
		e := a.engine
		a.mu.RUnlock()
		return e, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	e, err := codesync.New(a.engineOptions()...)
	if err != nil {
		return nil, errors.WrapConfig("engine", err)
	}
	a.engine = e
	return e, nil
}

// Manifest loads the manifest at path, or the configured one when path is empty.
func (a *App) Manifest(path string) (*schema.Manifest, error) {
	if path == "" {
		path = a.config.Manifest
	}
	return schema.LoadManifest(path)
}

// engineOptions constructs engine options from the app configuration.
func (a *App) engineOptions() []codesync.Option {
	var opts []codesync.Option

	if a.config.Header != "" {
		opts = append(opts, codesync.WithHeader(a.config.Header))
	}
	if a.config.Concurrency > 0 {
		opts = append(opts, codesync.WithConcurrency(a.config.Concurrency))
	}
	if a.config.DryRun {
		opts = append(opts, codesync.WithDryRun(true))
	}

	return opts
}

// resetEngine drops the cached engine after the configuration changed.
func (a *App) resetEngine() {
	a.mu.Lock()
	a.engine = nil
	a.mu.Unlock()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
