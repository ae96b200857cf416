// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/meanvar/matrix"
)

func TestCenterColumns(t *testing.T) {
	x := MustRows(t, [][]float64{{1, 10}, {3, 20}})
	xc, means, err := matrix.CenterColumns(x)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 15}, means)
	requireRowsInDelta(t, [][]float64{{-1, -5}, {1, 5}}, xc, tol)
	// input untouched
	require.Equal(t, 1.0, MustAt(t, x, 0, 0))
}

// TestCovariance_MatchesGonum cross-checks the sample covariance against
// gonum's stat.CovarianceMatrix.
func TestCovariance_MatchesGonum(t *testing.T) {
	rows := [][]float64{
		{0.01, 0.02, -0.01},
		{0.03, -0.01, 0.00},
		{-0.02, 0.04, 0.02},
		{0.00, 0.01, 0.01},
		{0.02, 0.00, -0.03},
	}
	cov, means, err := matrix.Covariance(MustRows(t, rows))
	require.NoError(t, err)
	require.Len(t, means, 3)

	flat := make([]float64, 0, 15)
	for _, r := range rows {
		flat = append(flat, r...)
	}
	var want mat.SymDense
	stat.CovarianceMatrix(&want, mat.NewDense(5, 3, flat), nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(t, want.At(i, j), MustAt(t, cov, i, j), 1e-14)
		}
	}
}

func TestCovariance_Errors(t *testing.T) {
	_, _, err := matrix.Covariance(MustRows(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, _, err = matrix.Covariance(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
