package mask

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepstack/cutflow/internal/domain"
)

// refAnd is the unbounded reference implementation the packed storage
// must agree with.
func refAnd(cols [][]bool, length int) []bool {
	out := make([]bool, length)
	for i := range out {
		out[i] = true
		for _, col := range cols {
			out[i] = out[i] && col[i]
		}
	}
	return out
}

func refOr(cols [][]bool, length int) []bool {
	out := make([]bool, length)
	for i := range out {
		for _, col := range cols {
			out[i] = out[i] || col[i]
		}
	}
	return out
}

// syntheticColumn produces a deterministic pass/fail pattern distinct per
// column index.
func syntheticColumn(col, length int) []bool {
	out := make([]bool, length)
	for i := range out {
		out[i] = (i+col)%(col%7+2) != 0
	}
	return out
}

func TestMask_WordSpanningEquivalence(t *testing.T) {
	const length = 37

	for _, n := range []int{1, 63, 64, 65, 200, 1000} {
		t.Run(fmt.Sprintf("%d_columns", n), func(t *testing.T) {
			m := New(length)
			names := make([]string, n)
			cols := make([][]bool, n)
			for c := 0; c < n; c++ {
				names[c] = fmt.Sprintf("cut_%d", c)
				cols[c] = syntheticColumn(c, length)
				require.NoError(t, m.Add(names[c], cols[c]))
			}

			all, err := m.AllOf(names...)
			require.NoError(t, err)
			assert.Equal(t, refAnd(cols, length), all)

			any, err := m.AnyOf(names...)
			require.NoError(t, err)
			assert.Equal(t, refOr(cols, length), any)

			none, err := m.NoneOf(names...)
			require.NoError(t, err)
			for i := range none {
				assert.Equal(t, !any[i], none[i])
			}
		})
	}
}

func TestMask_GetRoundTripAcrossWordBoundary(t *testing.T) {
	const length = 16
	m := New(length)

	// Fill past two word boundaries and make sure every column survives.
	cols := make(map[string][]bool)
	for c := 0; c < 130; c++ {
		name := fmt.Sprintf("c%03d", c)
		col := syntheticColumn(c, length)
		cols[name] = col
		require.NoError(t, m.Add(name, col))
	}

	assert.Equal(t, 130, m.Count())
	for name, want := range cols {
		got, err := m.Get(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", name)
	}
}

func TestMask_SubsetTouchesOnlyRelevantWords(t *testing.T) {
	const length = 8
	m := New(length)
	for c := 0; c < 70; c++ {
		require.NoError(t, m.Add(fmt.Sprintf("c%d", c), syntheticColumn(c, length)))
	}

	// Columns 2 and 68 live in different words.
	a, err := m.Get("c2")
	require.NoError(t, err)
	b, err := m.Get("c68")
	require.NoError(t, err)

	got, err := m.AllOf("c2", "c68")
	require.NoError(t, err)
	assert.Equal(t, refAnd([][]bool{a, b}, length), got)
}

func TestMask_DuplicateName(t *testing.T) {
	m := New(4)
	require.NoError(t, m.Add("x", []bool{true, false, true, false}))

	err := m.Add("x", []bool{false, false, false, false})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestMask_UnknownName(t *testing.T) {
	m := New(4)

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownName)

	_, err = m.AllOf("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownName)
}

func TestMask_ShapeMismatch(t *testing.T) {
	m := New(4)
	err := m.Add("short", []bool{true})
	require.Error(t, err)

	var shapeErr *domain.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestMask_EmptyCompositions(t *testing.T) {
	m := New(3)
	require.NoError(t, m.Add("a", []bool{true, false, true}))

	all, err := m.AllOf()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, all)

	any, err := m.AnyOf()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, any)
}

func TestMask_ColumnsImmutableAfterAdd(t *testing.T) {
	m := New(3)
	src := []bool{true, true, false}
	require.NoError(t, m.Add("a", src))

	// Mutating the caller's slice must not leak into the mask.
	src[0] = false
	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, got)

	// Mutating a returned copy must not change stored state.
	got[2] = true
	again, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, again)
}

func TestMask_CountTrue(t *testing.T) {
	m := New(5)
	require.NoError(t, m.Add("a", []bool{true, false, true, true, false}))

	n, err := m.CountTrue("a")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
