// Package errors provides custom error types for the codesync system.
// These errors separate the three failure classes of a reconciliation pass:
// configuration errors (a schema that cannot be rendered), tree errors (a
// syntax tree that cannot be queried or mutated) and parse errors (source
// text the syntax tree provider rejects). Drift findings are never errors.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As re-export the standard library helpers.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the codesync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a construct or statement configuration that cannot be applied
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownKind indicates a statement, construct or group kind with no registered handler
	ErrUnknownKind = errors.New("unknown kind")

	// ErrTree indicates that the syntax tree could not be queried or mutated
	ErrTree = errors.New("syntax tree error")

	// ErrParse indicates that source text could not be parsed
	ErrParse = errors.New("parse error")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure of an option or input value
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a construct or statement configuration that cannot be
// applied. Generation fails loudly on these instead of emitting guessed code.
type ConfigError struct {
	Component string // e.g. "statement", "import", "registry"
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Err != nil && msg == "" {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, msg)
	}
	return fmt.Sprintf("configuration error: %s", msg)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// UnknownKind creates a ConfigError for a kind with no registered handler.
func UnknownKind(component, kind string) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   fmt.Sprintf("%q", kind),
		Err:       ErrUnknownKind,
	}
}

// TreeError represents a failure to query or mutate the syntax tree
type TreeError struct {
	Operation string // "create", "update", "find", "split"
	Kind      string // construct kind, e.g. "Class"
	Name      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *TreeError) Error() string {
	target := e.Kind
	if e.Name != "" {
		target = fmt.Sprintf("%s '%s'", e.Kind, e.Name)
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, target, msg)
}

// Unwrap implements errors.Unwrap
func (e *TreeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TreeError) Is(target error) bool {
	return target == ErrTree
}

// NewTreeError creates a new TreeError
func NewTreeError(operation, kind, name, message string) *TreeError {
	return &TreeError{
		Operation: operation,
		Kind:      kind,
		Name:      name,
		Message:   message,
	}
}

// ParseError represents an error when parsing source text
type ParseError struct {
	Format  string // "typescript", "tsx", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error at %d:%d: %s", e.Format, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsUnknownKind checks if an error reports an unregistered kind
func IsUnknownKind(err error) bool {
	return errors.Is(err, ErrUnknownKind)
}

// IsTreeError checks if an error is a syntax tree error
func IsTreeError(err error) bool {
	return errors.Is(err, ErrTree)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapConfig wraps an error as a ConfigError
func WrapConfig(component string, err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Component: component, Err: err}
}

// WrapTree wraps an error as a TreeError
func WrapTree(operation, kind, name string, err error) error {
	if err == nil {
		return nil
	}
	return &TreeError{Operation: operation, Kind: kind, Name: name, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
