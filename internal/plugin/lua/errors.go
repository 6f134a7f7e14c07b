package lua

import (
	"errors"
	"fmt"
)

// Errors for script execution.
var (
	// ErrOperationLimit is returned when a script exceeds its operation budget.
	ErrOperationLimit = errors.New("lua operation limit exceeded")

	// ErrTimeout is returned when a script runs past its execution timeout.
	ErrTimeout = errors.New("lua script timed out")

	// ErrEmptyScript is returned when a script command has no source.
	ErrEmptyScript = errors.New("lua script is empty")
)

// ScriptError reports a failed script.
type ScriptError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("lua script: %v", e.Err)
	}
	return fmt.Sprintf("lua script %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
