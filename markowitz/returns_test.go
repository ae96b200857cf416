// SPDX-License-Identifier: MIT
package markowitz_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/meanvar/markowitz"
)

var monthly = [][]float64{
	{0.021, 0.004, 0.010},
	{-0.013, 0.006, 0.002},
	{0.034, -0.002, 0.007},
	{0.008, 0.011, -0.004},
	{-0.021, 0.003, 0.005},
	{0.017, 0.009, 0.001},
}

func TestProblemFromReturns(t *testing.T) {
	p, err := markowitz.ProblemFromReturns(monthly, nil, []float64{0.6, 0.6, 0.6})
	require.NoError(t, err)

	flat := make([]float64, 0, len(monthly)*3)
	for _, r := range monthly {
		flat = append(flat, r...)
	}
	x := mat.NewDense(len(monthly), 3, flat)
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	for j := 0; j < 3; j++ {
		require.InDelta(t, stat.Mean(mat.Col(nil, j, x), nil), p.Means[j], 1e-15)
		for k := 0; k < 3; k++ {
			require.InDelta(t, cov.At(j, k), p.Covariance[j][k], 1e-15)
		}
	}

	p.Constraints = []markowitz.Constraint{markowitz.Budget(3)}
	frontier, err := markowitz.Optimize(p)
	require.NoError(t, err)
	require.NotEmpty(t, frontier)
	for _, port := range frontier {
		requireFeasible(t, p, port)
	}
}

func TestProblemFromReturns_Errors(t *testing.T) {
	_, err := markowitz.ProblemFromReturns(monthly[:1], nil, nil)
	require.ErrorIs(t, err, markowitz.ErrDimensionMismatch)

	_, err = markowitz.ProblemFromReturns([][]float64{{1, 2}, {3}}, nil, nil)
	require.ErrorIs(t, err, markowitz.ErrDimensionMismatch)

	_, err = markowitz.ProblemFromReturns([][]float64{{1, math.NaN()}, {3, 4}}, nil, nil)
	require.ErrorIs(t, err, markowitz.ErrNaNInf)
}
