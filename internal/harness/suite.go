package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gensweep/internal/compiler"
	"github.com/roach88/gensweep/internal/ctxlog"
)

// Suite groups schema files with their expected enumerations.
//
//	name: bows
//	cases:
//	  - name: nested
//	    schema: schemas/nested.cue
//	    fixture: fixtures/configs4.json
//	  - name: deep
//	    schema: schemas/deep.yaml
//	    count: 5
type Suite struct {
	// Name identifies the suite in reports.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Case is one schema with at least one expectation.
type Case struct {
	Name string `yaml:"name"`

	// Schema is a schema file path, relative to the suite file.
	Schema string `yaml:"schema"`

	// Fixture is an optional fixture path, relative to the suite file.
	Fixture string `yaml:"fixture,omitempty"`

	// Count is an optional expected structural count.
	Count *uint64 `yaml:"count,omitempty"`
}

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// Count is the schema's structural count, zero if it failed to load.
	Count uint64 `json:"count"`

	Error string `json:"error,omitempty"`
}

// LoadSuite reads a suite file. Unknown fields are rejected and relative
// paths are resolved against the suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i := range suite.Cases {
		c := &suite.Cases[i]
		c.Schema = resolve(base, c.Schema)
		c.Fixture = resolve(base, c.Fixture)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
		if c.Schema == "" {
			return fmt.Errorf("cases[%d]: schema is required", i)
		}
		if c.Fixture == "" && c.Count == nil {
			return fmt.Errorf("cases[%d]: fixture or count is required", i)
		}
	}
	return nil
}

// Run executes every case in order. A failing case does not stop the
// suite; its error is recorded in the result.
func (s *Suite) Run(ctx context.Context) []CaseResult {
	logger := ctxlog.FromContext(ctx)

	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		res := runCase(c)
		logger.Debug("case finished", "suite", s.Name, "case", c.Name, "pass", res.Pass, "count", res.Count)
		results = append(results, res)
	}
	return results
}

func runCase(c Case) CaseResult {
	res := CaseResult{Name: c.Name}
	fail := func(err error) CaseResult {
		res.Error = err.Error()
		return res
	}

	schema, err := compiler.LoadFile(c.Schema)
	if err != nil {
		return fail(err)
	}
	res.Count = schema.Count()

	if c.Count != nil && *c.Count != res.Count {
		return fail(fmt.Errorf("count mismatch: got %d, want %d", res.Count, *c.Count))
	}
	if c.Fixture != "" {
		expected, err := LoadFixture(c.Fixture)
		if err != nil {
			return fail(err)
		}
		if err := Compare(expected, schema.Enumerate().Next); err != nil {
			return fail(err)
		}
	}

	res.Pass = true
	return res
}
