package codesync

import (
	"github.com/agentstation/codesync/pkg/constants"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/reconciler"
)

// config holds the engine settings.
type config struct {
	header      string
	concurrency int
	dryRun      bool
	reconciler  []reconciler.Option
}

func defaultConfig() *config {
	return &config{
		concurrency: constants.DefaultConcurrency,
	}
}

// Option is a function that configures an Engine
type Option func(*config) error

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithHeader sets the sentinel comment kept on the first line of every file
// whose definition declares no header of its own. An empty header disables it.
func WithHeader(header string) Option {
	return func(c *config) error {
		c.header = header
		return nil
	}
}

// WithConcurrency caps the number of files SyncAll and AuditAll process at once.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "concurrency",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		c.concurrency = n
		return nil
	}
}

// WithDryRun configures whether SyncFile skips writing results to disk
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithReconcilerOptions passes options through to the underlying reconciler.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconciler = append(c.reconciler, opts...)
		return nil
	}
}
