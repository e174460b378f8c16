package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/hcl/v2"
)

// CompileError reports a problem in a schema file.
// Position fields are zero when the source format gave none.
type CompileError struct {
	Field    string
	Message  string
	Filename string
	Line     int
	Column   int

	// Err is the underlying builder error, if any.
	// genschema predicates (IsDuplicateValue, ...) see through it.
	Err error
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Filename, e.Line, e.Column,
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// wrapBuildError attaches a source position to a genschema error.
func wrapBuildError(field string, err error, filename string, line, col int) error {
	return &CompileError{
		Field:    field,
		Message:  err.Error(),
		Filename: filename,
		Line:     line,
		Column:   col,
		Err:      err,
	}
}

// cuePosError builds a CompileError at a CUE position.
func cuePosError(field, message string, pos token.Pos) *CompileError {
	ce := &CompileError{Field: field, Message: message}
	if pos.IsValid() {
		ce.Filename = pos.Filename()
		ce.Line = pos.Line()
		ce.Column = pos.Column()
	}
	return ce
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return cuePosError("cue", firstErr.Error(), positions[0])
	}

	return &CompileError{Field: "cue", Message: firstErr.Error()}
}

// formatHCLDiagnostics converts HCL diagnostics into a CompileError
// positioned at the first error.
func formatHCLDiagnostics(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		ce := &CompileError{Field: "hcl", Message: d.Summary}
		if d.Detail != "" {
			ce.Message = d.Summary + ": " + d.Detail
		}
		if d.Subject != nil {
			ce.Filename = d.Subject.Filename
			ce.Line = d.Subject.Start.Line
			ce.Column = d.Subject.Start.Column
		}
		return ce
	}
	return nil
}
