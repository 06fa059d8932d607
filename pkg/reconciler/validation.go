package reconciler

import (
	"github.com/agentstation/codesync/pkg/primitives"
)

// ValidationResult is the outcome of Validate: Valid is true exactly when
// Issues is empty.
type ValidationResult = primitives.ValidationResult
