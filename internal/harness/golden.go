package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// AssertFixture checks a fresh enumeration of s against the fixture at path.
func AssertFixture(t *testing.T, path string, s *genschema.Schema) {
	t.Helper()

	expected, err := LoadFixture(path)
	require.NoError(t, err)
	require.NoError(t, Compare(expected, s.Enumerate().Next))
}

// Snapshot renders a fresh enumeration of s as canonical JSON, one config
// per line.
func Snapshot(s *genschema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	for cfg := range s.All() {
		line, err := ir.MarshalCanonical(cfg)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// AssertGolden compares a fresh enumeration of s with the golden file
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, s *genschema.Schema) {
	t.Helper()

	data, err := Snapshot(s)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
