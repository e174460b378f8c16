package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
	"github.com/roach88/gensweep/internal/testutil"
)

func TestReferenceScenariosMatchFixtures(t *testing.T) {
	for _, sc := range testutil.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			AssertFixture(t, filepath.Join("testdata", "fixtures", sc.Fixture), sc.Build())
		})
	}
}

func TestReferenceScenariosMatchGolden(t *testing.T) {
	for _, sc := range testutil.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			AssertGolden(t, strings.TrimSuffix(sc.Fixture, ".json"), sc.Build())
		})
	}
}

func TestSingleUseNextMatchesFixture(t *testing.T) {
	// The schema's own Next is the original pull contract.
	s := testutil.TwoNestsSchema()
	expected, err := LoadFixture(filepath.Join("testdata", "fixtures", "configs8.json"))
	require.NoError(t, err)

	require.NoError(t, Compare(expected, s.Next))
	_, ok := s.Next()
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	s := genschema.New().
		MustAddValues("type", ir.Vals("long", "recurve")...).
		MustAddValues("note", ir.Vals("a<b")...)

	data, err := Snapshot(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"note":"a<b","type":"long"}`+"\n"+`{"note":"a<b","type":"recurve"}`+"\n",
		string(data))

	empty, err := Snapshot(genschema.New().MustAddValues("v"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
