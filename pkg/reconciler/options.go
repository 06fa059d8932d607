package reconciler

import (
	"github.com/agentstation/codesync/pkg/ast"
	"github.com/agentstation/codesync/pkg/body"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/normalize"
	"github.com/agentstation/codesync/pkg/primitives"
)

// Options configures a reconciler.
type options struct {
	registry   *primitives.Registry
	normalizer *normalize.Normalizer
	renderers  *body.Renderers
	language   ast.Language // Used when the container is not a file
	parsers    map[ast.Language]*ast.Parser
}

func defaultOptions() *options {
	return &options{
		registry:   primitives.NewRegistry(),
		normalizer: normalize.Default,
		renderers:  body.NewRenderers(),
		language:   ast.TypeScript,
		parsers: map[ast.Language]*ast.Parser{
			ast.TypeScript: ast.NewParser(ast.TypeScript),
			ast.TSX:        ast.NewParser(ast.TSX),
		},
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithRegistry sets the primitive registry.
func WithRegistry(registry *primitives.Registry) Option {
	return func(o *options) error {
		if registry == nil {
			return &errors.ValidationError{
				Field:   "registry",
				Message: "cannot be nil",
			}
		}
		o.registry = registry
		return nil
	}
}

// WithNormalizer sets the normalizer used for every comparison.
func WithNormalizer(normalizer *normalize.Normalizer) Option {
	return func(o *options) error {
		if normalizer == nil {
			return &errors.ValidationError{
				Field:   "normalizer",
				Message: "cannot be nil",
			}
		}
		o.normalizer = normalizer
		return nil
	}
}

// WithRenderer sets the statement renderer registry.
func WithRenderer(renderers *body.Renderers) Option {
	return func(o *options) error {
		if renderers == nil {
			return &errors.ValidationError{
				Field:   "renderers",
				Message: "cannot be nil",
			}
		}
		o.renderers = renderers
		return nil
	}
}

// WithLanguage sets the grammar used for containers that are not files.
func WithLanguage(lang ast.Language) Option {
	return func(o *options) error {
		if lang != ast.TypeScript && lang != ast.TSX {
			return &errors.ValidationError{
				Field:   "language",
				Value:   lang,
				Message: "must be typescript or tsx",
			}
		}
		o.language = lang
		return nil
	}
}

// WithParser replaces the parser for the parser's language.
func WithParser(parser *ast.Parser) Option {
	return func(o *options) error {
		if parser == nil {
			return &errors.ValidationError{
				Field:   "parser",
				Message: "cannot be nil",
			}
		}
		o.parsers[parser.Language()] = parser
		return nil
	}
}
