package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gensweep/internal/ir"
	"github.com/roach88/gensweep/internal/testutil"
)

func writeTestRun(t *testing.T, s *Store, count uint64) Run {
	t.Helper()
	run := Run{
		ID:         NewRunID(),
		Source:     "bow.cue",
		SchemaHash: ir.SchemaHash([]byte("schema")),
		Count:      count,
	}
	require.NoError(t, s.WriteRun(context.Background(), run))
	return run
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := writeTestRun(t, s, math.MaxUint64)

	got, err := s.ReadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestWriteRun_Errors(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	assert.ErrorContains(t, s.WriteRun(ctx, Run{}), "id is required")
	assert.ErrorContains(t, s.WriteRun(ctx, Run{ID: "not-a-uuid"}), "invalid id")

	run := writeTestRun(t, s, 1)
	assert.Error(t, s.WriteRun(ctx, run), "duplicate run id must fail")
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), NewRunID())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestNewRunID_IsTimeOrderedV7(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
	assert.Less(t, a, b)
}

func TestWriteConfigs_StoresEnumerationInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	schema := testutil.TwoNestsSchema()
	run := writeTestRun(t, s, schema.Count())

	n, err := s.WriteConfigs(ctx, run.ID, schema.Enumerate().Next)
	require.NoError(t, err)
	assert.Equal(t, int64(16), n)

	var want []ir.Config
	for cfg := range schema.All() {
		want = append(want, cfg)
	}
	got, err := s.ReadConfigs(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	stored, err := s.ReadStoredConfigs(ctx, run.ID)
	require.NoError(t, err)
	for i, sc := range stored {
		assert.Equal(t, int64(i+1), sc.Ordinal)
		assert.Equal(t, ir.MustConfigID(want[i]), sc.ConfigID)
	}
}

func TestWriteConfigs_ResumesOrdinals(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := writeTestRun(t, s, 4)

	e := testutil.IndependentSchema().Enumerate()
	limit := func(n int) func() (ir.Config, bool) {
		return func() (ir.Config, bool) {
			if n == 0 {
				return nil, false
			}
			n--
			return e.Next()
		}
	}

	n, err := s.WriteConfigs(ctx, run.ID, limit(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.WriteConfigs(ctx, run.ID, limit(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stored, err := s.ReadStoredConfigs(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	assert.Equal(t, int64(4), stored[3].Ordinal)
	assert.Equal(t, ir.Config{"type": ir.String("long"), "wood": ir.String("hickory")}, stored[3].Config)
}

func TestWriteConfigs_UsesInjectedClock(t *testing.T) {
	clock := testutil.NewDeterministicClock()
	var starts []int64
	s := createTestStore(t, WithClock(func(start int64) Sequencer {
		starts = append(starts, start)
		clock.Set(start * 10)
		return clock
	}))
	ctx := context.Background()
	run := writeTestRun(t, s, 2)

	_, err := s.WriteConfigs(ctx, run.ID, testutil.MultiValueSchema().Enumerate().Next)
	require.NoError(t, err)
	_, err = s.WriteConfigs(ctx, run.ID, testutil.SingleValueSchema().Enumerate().Next)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 2}, starts)
	stored, err := s.ReadStoredConfigs(ctx, run.ID)
	require.NoError(t, err)
	var ordinals []int64
	for _, sc := range stored {
		ordinals = append(ordinals, sc.Ordinal)
	}
	assert.Equal(t, []int64{1, 2, 21}, ordinals)
}

func TestWriteConfigs_UnknownRunFails(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteConfigs(context.Background(), NewRunID(), testutil.SingleValueSchema().Enumerate().Next)
	require.Error(t, err, "foreign key must reject configs without a run")
}

func TestWriteConfigs_IsAtomic(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	run := writeTestRun(t, s, 8)

	e := testutil.IndependentSchema().Enumerate()
	pulled := 0
	_, err := s.WriteConfigs(ctx, run.ID, func() (ir.Config, bool) {
		pulled++
		if pulled == 3 {
			cancel()
		}
		return e.Next()
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := s.ReadConfigs(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteConfigs_EmptyEnumeration(t *testing.T) {
	s := createTestStore(t)
	run := writeTestRun(t, s, 0)

	n, err := s.WriteConfigs(context.Background(), run.ID, func() (ir.Config, bool) { return nil, false })
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWriteRunWithConfigs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sc := testutil.NestedSchema()
	run := Run{ID: NewRunID(), Source: "nested.cue", Count: sc.Count()}

	n, err := s.WriteRunWithConfigs(ctx, run, sc.Enumerate().Next)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	got, err := s.ReadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	configs, err := s.ReadConfigs(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, configs, 4)
}

func TestWriteRunWithConfigs_FailureLeavesNoRun(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	run := Run{ID: NewRunID(), Source: "bow.cue", Count: 8}

	e := testutil.IndependentSchema().Enumerate()
	pulled := 0
	_, err := s.WriteRunWithConfigs(ctx, run, func() (ir.Config, bool) {
		pulled++
		if pulled == 3 {
			cancel()
		}
		return e.Next()
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.ReadRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestWriteRunWithConfigs_InvalidID(t *testing.T) {
	s := createTestStore(t)
	_, err := s.WriteRunWithConfigs(context.Background(), Run{ID: "not-a-uuid"}, testutil.SingleValueSchema().Enumerate().Next)
	require.Error(t, err)
}
