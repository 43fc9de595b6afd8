package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration resolution.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist in the
	// merged document.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates the merged document fails schema
	// validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownTool indicates a tool name outside the supported set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrProjectRootNotFound indicates the project root is not a directory.
	ErrProjectRootNotFound = errors.New("project root not found")
)

// TypeError is returned when a typed accessor meets a value of the wrong
// shape.
type TypeError struct {
	// Path is the setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
