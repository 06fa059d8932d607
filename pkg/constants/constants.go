// Package constants provides shared constants used throughout the codesync codebase.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Generation defaults
const (
	// DefaultHeader is the sentinel comment that marks a file as machine generated.
	DefaultHeader = "// @generated by codesync. Manual edits inside generated bodies are preserved."

	// DefaultManifest is the manifest file name looked up in the working directory.
	DefaultManifest = "codesync.yaml"

	// DefaultConfigName is the base name of the optional CLI config file (.codesync.yaml).
	DefaultConfigName = ".codesync"

	// DefaultConcurrency caps the number of files processed in parallel.
	DefaultConcurrency = 8

	// IndentUnit is the indentation emitted for each nesting level.
	IndentUnit = "  "

	// StatementCacheSize bounds the number of split statement bodies kept per parser.
	StatementCacheSize = 512
)
