package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/ir"
)

func TestParseFixture(t *testing.T) {
	got, err := ParseFixture([]byte(`[{"type": "long", "length": 66, "strung": true}, {}]`))
	require.NoError(t, err)

	assert.Equal(t, []ir.Config{
		{"type": ir.String("long"), "length": ir.Int(66), "strung": ir.Bool(true)},
		{},
	}, got)
}

func TestParseFixtureEmptyArray(t *testing.T) {
	got, err := ParseFixture([]byte(" [] \n"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseFixtureErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"object", `{"type": "long"}`},
		{"float", `[{"length": 66.5}]`},
		{"null value", `[{"type": null}]`},
		{"nested object", `[{"type": {"a": 1}}]`},
		{"truncated", `[{"type": "long"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	got, err := LoadFixture(filepath.Join("testdata", "fixtures", "configs2.json"))
	require.NoError(t, err)
	assert.Equal(t, []ir.Config{
		{"type": ir.String("long")},
		{"type": ir.String("recurve")},
	}, got)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
