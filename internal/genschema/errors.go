package genschema

import (
	"errors"
	"fmt"

	"github.com/roach88/gensweep/internal/ir"
)

// BuildError reports a schema construction mistake.
//
// Build errors are raised synchronously by AddValues and AddDependencies
// (or by Validate). Enumeration itself never fails. On error the schema is
// left unchanged.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Variable is the variable the failing call addressed.
	Variable string

	// Value is the offending value, when one applies.
	Value ir.Value

	// Message is a human-readable description.
	Message string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeDuplicateValue indicates a value already declared for the variable.
	ErrCodeDuplicateValue BuildErrorCode = "DUPLICATE_VALUE"

	// ErrCodeUnknownValue indicates a dependency on a value never declared.
	ErrCodeUnknownValue BuildErrorCode = "UNKNOWN_VALUE"

	// ErrCodeDuplicateDependency indicates a second nested schema for one (variable, value) pair.
	ErrCodeDuplicateDependency BuildErrorCode = "DUPLICATE_DEPENDENCY"

	// ErrCodeNameCollision indicates a variable name that could be bound twice on one path.
	ErrCodeNameCollision BuildErrorCode = "NAME_COLLISION"

	// ErrCodeCycle indicates a schema attached beneath itself.
	ErrCodeCycle BuildErrorCode = "CYCLE"

	// ErrCodeInvalid indicates a nil value or nil nested schema.
	ErrCodeInvalid BuildErrorCode = "INVALID"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (variable=%s, value=%s)", e.Code, e.Message, e.Variable, ir.Format(e.Value))
	}
	if e.Variable != "" {
		return fmt.Sprintf("%s: %s (variable=%s)", e.Code, e.Message, e.Variable)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDuplicateValueError creates a BuildError for a repeated value.
func NewDuplicateValueError(variable string, value ir.Value) *BuildError {
	return &BuildError{
		Code:     ErrCodeDuplicateValue,
		Variable: variable,
		Value:    value,
		Message:  "value already declared for variable",
	}
}

// NewUnknownValueError creates a BuildError for a dependency on an undeclared value.
func NewUnknownValueError(variable string, value ir.Value) *BuildError {
	return &BuildError{
		Code:     ErrCodeUnknownValue,
		Variable: variable,
		Value:    value,
		Message:  "value was never declared for variable",
	}
}

// NewDuplicateDependencyError creates a BuildError for a re-attached dependency.
func NewDuplicateDependencyError(variable string, value ir.Value) *BuildError {
	return &BuildError{
		Code:     ErrCodeDuplicateDependency,
		Variable: variable,
		Value:    value,
		Message:  "a nested schema is already attached to this value",
	}
}

// NewNameCollisionError creates a BuildError for a name bound twice on one path.
func NewNameCollisionError(variable, name string) *BuildError {
	return &BuildError{
		Code:     ErrCodeNameCollision,
		Variable: variable,
		Message:  fmt.Sprintf("variable name %q would be bound twice in one configuration", name),
	}
}

func isCode(err error, code BuildErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsDuplicateValue returns true if err is a duplicate value error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateValue(err error) bool { return isCode(err, ErrCodeDuplicateValue) }

// IsUnknownValue returns true if err is an unknown value error.
func IsUnknownValue(err error) bool { return isCode(err, ErrCodeUnknownValue) }

// IsDuplicateDependency returns true if err is a duplicate dependency error.
func IsDuplicateDependency(err error) bool { return isCode(err, ErrCodeDuplicateDependency) }

// IsNameCollision returns true if err is a name collision error.
func IsNameCollision(err error) bool { return isCode(err, ErrCodeNameCollision) }

// IsCycle returns true if err is a cycle error.
func IsCycle(err error) bool { return isCode(err, ErrCodeCycle) }
