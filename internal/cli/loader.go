package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/gensweep/internal/compiler"
	"github.com/roach88/gensweep/internal/ctxlog"
	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/harness"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeUnsupported = "E002" // Unsupported schema file extension
	ErrCodeParse       = "E004" // Schema source could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeStore       = "E007" // Export store error

	// Schema builder errors
	ErrCodeDuplicateValue      = "E101"
	ErrCodeUnknownValue        = "E102"
	ErrCodeDuplicateDependency = "E103"
	ErrCodeNameCollision       = "E104"
	ErrCodeCycle               = "E105"
	ErrCodeInvalid             = "E106"

	// Fixture and suite errors
	ErrCodeFixture  = "E201" // Fixture could not be read
	ErrCodeMismatch = "E202" // Enumeration differs from fixture
	ErrCodeSuite    = "E203" // Suite could not be loaded
	ErrCodeFailed   = "E204" // One or more suite cases failed
)

// MapErrorCode picks the CLI error code for an error from loading or
// building a schema.
func MapErrorCode(err error) string {
	var be *genschema.BuildError
	if errors.As(err, &be) {
		switch be.Code {
		case genschema.ErrCodeDuplicateValue:
			return ErrCodeDuplicateValue
		case genschema.ErrCodeUnknownValue:
			return ErrCodeUnknownValue
		case genschema.ErrCodeDuplicateDependency:
			return ErrCodeDuplicateDependency
		case genschema.ErrCodeNameCollision:
			return ErrCodeNameCollision
		case genschema.ErrCodeCycle:
			return ErrCodeCycle
		default:
			return ErrCodeInvalid
		}
	}

	var me *harness.MismatchError
	if errors.As(err, &me) {
		return ErrCodeMismatch
	}

	var ce *compiler.CompileError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &ce):
		return ErrCodeParse
	default:
		return ErrCodeGeneric
	}
}

// schemaFile is a loaded schema plus the bytes it was compiled from.
type schemaFile struct {
	Path   string
	Source []byte
	Schema *genschema.Schema
}

// loadSchema reads and compiles a schema file. Missing files and
// unsupported extensions are command errors; bad schema content is a
// check failure.
func loadSchema(ctx context.Context, f *OutputFormatter, path string) (*schemaFile, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := compiler.FormatOf(path); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeUnsupported, err, nil)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, MapErrorCode(err), fmt.Errorf("read schema: %w", err), nil)
	}

	schema, err := compiler.Compile(src, path)
	if err != nil {
		return nil, f.Fail(ExitFailure, MapErrorCode(err), err, positionOf(err))
	}

	logger.Debug("schema loaded", "path", path, "variables", len(schema.Variables()), "count", schema.Count())
	return &schemaFile{Path: path, Source: src, Schema: schema}, nil
}

// positionOf returns file position details for a compile error, or nil.
func positionOf(err error) map[string]any {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) || ce.Line == 0 {
		return nil
	}
	return map[string]any{"file": ce.Filename, "line": ce.Line, "column": ce.Column, "field": ce.Field}
}
