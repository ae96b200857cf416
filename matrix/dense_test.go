// SPDX-License-Identifier: MIT
package matrix_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meanvar/matrix"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{1, 1},
		{3, 3},
		{2, 5},
	} {
		name := fmt.Sprintf("%dx%d", tc.rows, tc.cols)
		t.Run(name, func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			r, c := m.Shape()
			require.Equal(t, tc.rows, r)
			require.Equal(t, tc.cols, c)
			var i, j int
			for i = 0; i < tc.rows; i++ {
				for j = 0; j < tc.cols; j++ {
					require.Zero(t, MustAt(t, m, i, j))
				}
			}
		})
	}
}

func TestNewDense_BadShape(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.NewDense(2, -1)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestNewFromRows(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, 6.0, MustAt(t, m, 1, 2))

	_, err := matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows([][]float64{{1, math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.NewFromRows([][]float64{{math.Inf(1)}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestNewFromRows_CopiesInput(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	m := MustRows(t, src)
	src[0][0] = 99
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
}

func TestDense_AtSetBounds(t *testing.T) {
	m := MustDense(t, 2, 2)
	require.NoError(t, m.Set(1, 0, 7))
	require.Equal(t, 7.0, MustAt(t, m, 1, 0))

	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

func TestDense_RowSharesStorage(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	row := m.Row(1)
	row[0] = 30
	require.Equal(t, 30.0, MustAt(t, m, 1, 0))
	require.Len(t, row, 2)
	require.Panics(t, func() { m.Row(2) })
}

func TestDense_CloneIsDeep(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, -1))
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, m.ToRows())
}

func TestDense_Induced(t *testing.T) {
	m := MustRows(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	sub, err := m.Induced([]int{2, 0}, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{8, 9}, {2, 3}}, sub.ToRows())

	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.Induced(nil, []int{0})
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestDense_String(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4.5}})
	require.Equal(t, "[1, 2]\n[3, 4.5]\n", m.String())
}

func TestIdentity(t *testing.T) {
	id, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	requireRowsInDelta(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, id, 0)
}
