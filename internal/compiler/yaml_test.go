package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/ir"
)

func TestCompileYAMLKeepsDeclarationOrder(t *testing.T) {
	s, err := CompileYAML([]byte("zeta: [1]\nalpha: [2]\nmid: [3]\n"), "order.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.Variables())
}

func TestCompileYAMLScalarTypes(t *testing.T) {
	s, err := CompileYAML([]byte(`v: [66, "66", true, "true", text]`), "types.yaml")
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{
		ir.Int(66), ir.String("66"), ir.Bool(true), ir.String("true"), ir.String("text"),
	}, s.Values("v"))
}

func TestCompileYAMLEmptyDocument(t *testing.T) {
	s, err := CompileYAML(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Count())
}

func TestCompileYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
		line    int
	}{
		{"root is a list", "- a\n- b\n", "mapping of variables", 1},
		{"float value", "v: [1.5]\n", "float", 1},
		{"null value", "v: [~]\n", "forbidden", 1},
		{"nested list value", "v: [[1]]\n", "scalar", 1},
		{"unknown field", "v:\n  values: [1]\n  extra: 2\n", `unknown field "extra"`, 3},
		{"missing values", "v:\n  when: []\n", "values is required", 2},
		{"when missing schema", "v:\n  values: [1]\n  when:\n    - value: 1\n", "schema is required", 4},
		{"syntax", "v: [1\n", "failed to parse YAML", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileYAML([]byte(tt.src), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.line, ce.Line)
		})
	}
}
