package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/ir"
)

// pull serves configs one at a time and counts calls.
type pull struct {
	configs []ir.Config
	calls   int
}

func (p *pull) next() (ir.Config, bool) {
	p.calls++
	if len(p.configs) == 0 {
		return nil, false
	}
	c := p.configs[0]
	p.configs = p.configs[1:]
	return c, true
}

func TestCompare(t *testing.T) {
	long := ir.Config{"type": ir.String("long"), "length": ir.Int(66)}
	recurve := ir.Config{"type": ir.String("recurve")}

	tests := []struct {
		name     string
		expected []ir.Config
		actual   []ir.Config
		kind     MismatchKind
		index    int
		keys     []string
	}{
		{"equal", []ir.Config{long, recurve}, []ir.Config{long, recurve}, "", 0, nil},
		{"both empty", nil, nil, "", 0, nil},
		{"too few", []ir.Config{long, recurve}, []ir.Config{long}, MismatchTooFew, 1, nil},
		{"too many", []ir.Config{long}, []ir.Config{long, recurve}, MismatchTooMany, 1, nil},
		{
			"missing keys",
			[]ir.Config{long},
			[]ir.Config{{"type": ir.String("long")}},
			MismatchMissingKeys, 0, []string{"length"},
		},
		{
			"extra keys",
			[]ir.Config{recurve},
			[]ir.Config{{"type": ir.String("recurve"), "wood": ir.String("yew"), "length": ir.Int(1)}},
			MismatchExtraKeys, 0, []string{"length", "wood"},
		},
		{
			"wrong value",
			[]ir.Config{long},
			[]ir.Config{{"type": ir.String("long"), "length": ir.Int(72)}},
			MismatchWrongValue, 0, []string{"length"},
		},
		{
			"value type matters",
			[]ir.Config{long},
			[]ir.Config{{"type": ir.String("long"), "length": ir.String("66")}},
			MismatchWrongValue, 0, []string{"length"},
		},
		{
			"disjoint keys report missing first",
			[]ir.Config{{"a": ir.Int(1)}},
			[]ir.Config{{"b": ir.Int(1)}},
			MismatchMissingKeys, 0, []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compare(tt.expected, (&pull{configs: tt.actual}).next)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}

			var me *MismatchError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.kind, me.Kind)
			assert.Equal(t, tt.index, me.Index)
			assert.Equal(t, tt.keys, me.Keys)
			assert.True(t, IsMismatch(err, tt.kind))
			assert.True(t, IsMismatch(err, ""))
		})
	}
}

func TestCompareStopsPullingAfterOneExtra(t *testing.T) {
	p := &pull{configs: []ir.Config{{}, {}, {}, {}}}
	err := Compare([]ir.Config{{}}, p.next)

	assert.True(t, IsMismatch(err, MismatchTooMany))
	assert.Equal(t, 2, p.calls)
}

func TestMismatchErrorMessage(t *testing.T) {
	err := Compare(
		[]ir.Config{{"type": ir.String("long"), "length": ir.Int(66)}},
		(&pull{configs: []ir.Config{{"type": ir.String("long"), "length": ir.Int(72)}}}).next,
	)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "wrong_value at config 0 (variables: length)")
	assert.Contains(t, msg, `Expected: {"length":66,"type":"long"}`)
	assert.Contains(t, msg, `Actual: {"length":72,"type":"long"}`)
	assert.Contains(t, msg, "Diff (-expected +actual)")
	assert.Contains(t, msg, "66")

	tooFew := Compare([]ir.Config{{}, {}}, (&pull{configs: []ir.Config{{}}}).next)
	assert.Contains(t, tooFew.Error(), "too_few_configs at config 1 (got 1 configs, want 2)")
	assert.Contains(t, tooFew.Error(), "Actual: <none>")
}

func TestIsMismatchOtherErrors(t *testing.T) {
	assert.False(t, IsMismatch(nil, ""))
	assert.False(t, IsMismatch(assert.AnError, ""))
}
