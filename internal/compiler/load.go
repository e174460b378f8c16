package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/gensweep/internal/genschema"
)

// Format names a schema source format.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the source format from a file extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q (want .cue, .yaml, .yml, .json or .hcl)", filepath.Ext(filename))
	}
}

// Compile builds a schema from src, using filename to pick the format and
// to label error positions. The result has passed genschema Validate.
func Compile(src []byte, filename string) (*genschema.Schema, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	var s *genschema.Schema
	switch format {
	case FormatCUE:
		s, err = CompileCUE(src, filename)
	case FormatYAML, FormatJSON:
		// JSON is a YAML subset; yaml.Node keeps key order for both.
		s, err = CompileYAML(src, filename)
	case FormatHCL:
		s, err = CompileHCL(src, filename)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, &CompileError{Field: "schema", Message: err.Error(), Filename: filename, Err: err}
	}
	return s, nil
}

// LoadFile reads and compiles a schema file.
func LoadFile(path string) (*genschema.Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(src, path)
}
