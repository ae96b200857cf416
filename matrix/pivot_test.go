// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meanvar/matrix"
)

// TestPivotInPlace replaces column 0 of B = I with a = (2, 1) and checks the
// result is the inverse of [[2, 0], [1, 1]].
func TestPivotInPlace(t *testing.T) {
	inv, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	y := []float64{2, 1} // I⁻¹·a
	require.NoError(t, matrix.PivotInPlace(inv, 0, y, 1e-12))
	requireRowsInDelta(t, [][]float64{{0.5, 0}, {-0.5, 1}}, inv, tol)

	b := MustRows(t, [][]float64{{2, 0}, {1, 1}})
	prod, err := matrix.Mul(inv, b)
	require.NoError(t, err)
	requireRowsInDelta(t, [][]float64{{1, 0}, {0, 1}}, prod, tol)
}

func TestPivotInPlace_Errors(t *testing.T) {
	inv, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	require.ErrorIs(t, matrix.PivotInPlace(inv, 1, []float64{1, 1e-15}, 1e-12), matrix.ErrSingular)
	require.ErrorIs(t, matrix.PivotInPlace(inv, 2, []float64{1, 1}, 1e-12), matrix.ErrOutOfRange)
	require.ErrorIs(t, matrix.PivotInPlace(inv, 0, []float64{1}, 1e-12), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.PivotInPlace(MustDense(t, 2, 3), 0, []float64{1, 1}, 1e-12), matrix.ErrDimensionMismatch)
}

func TestPermuteRows(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 1}, {2, 2}, {3, 3}})
	require.NoError(t, matrix.PermuteRows(m, []int{2, 0, 1}))
	require.Equal(t, [][]float64{{3, 3}, {1, 1}, {2, 2}}, m.ToRows())

	require.NoError(t, matrix.PermuteRows(m, []int{0, 1, 2}))
	require.Equal(t, [][]float64{{3, 3}, {1, 1}, {2, 2}}, m.ToRows())

	require.ErrorIs(t, matrix.PermuteRows(m, []int{0, 0, 1}), matrix.ErrOutOfRange)
	require.ErrorIs(t, matrix.PermuteRows(m, []int{0, 1}), matrix.ErrDimensionMismatch)
}
