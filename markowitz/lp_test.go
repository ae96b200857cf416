// SPDX-License-Identifier: MIT
package markowitz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/meanvar/markowitz"
)

// TestMinimize_MatchesGonum cross-checks the standard-form LP
// min cᵀx s.t. Ax = b, x ≥ 0 against gonum's simplex.
func TestMinimize_MatchesGonum(t *testing.T) {
	c := []float64{-1, -2, 0, 0}
	a := [][]float64{
		{1, 1, 1, 0},
		{1, 3, 0, 1},
	}
	b := []float64{4, 6}

	got, err := markowitz.Minimize(c, a, b)
	require.NoError(t, err)

	flat := make([]float64, 0, 8)
	for _, row := range a {
		flat = append(flat, row...)
	}
	wantF, wantX, err := lp.Simplex(c, mat.NewDense(2, 4, flat), b, 0, nil)
	require.NoError(t, err)

	assert.InDelta(t, wantF, got.Value, 1e-12)
	assert.InDelta(t, -5.0, got.Value, 1e-12)
	assert.InDeltaSlice(t, wantX, got.Weights, 1e-12)
}

func TestMinimizeIsNegatedMaximize(t *testing.T) {
	obj := []float64{0.3, -0.2, 0.5}
	a := [][]float64{{1, 1, 1}, {1, -1, 0}}
	b := []float64{1, 0.2}

	neg := make([]float64, len(obj))
	for i, v := range obj {
		neg[i] = -v
	}
	minRes, err := markowitz.Minimize(obj, a, b)
	require.NoError(t, err)
	maxRes, err := markowitz.Maximize(neg, a, b)
	require.NoError(t, err)

	require.Equal(t, -maxRes.Value, minRes.Value)
	require.Equal(t, maxRes.Weights, minRes.Weights)
}

// TestMaximize_TieGoesToLastScanned pins the entering-variable tie-break:
// both vertices of x0 + x1 = 1 are optimal, the last scanned one is kept.
func TestMaximize_TieGoesToLastScanned(t *testing.T) {
	res, err := markowitz.Maximize([]float64{1, 1}, [][]float64{{1, 1}}, []float64{1})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1}, res.Weights)
	require.Equal(t, 1.0, res.Value)
}

func TestLinearProgram_BoundsAndInequalities(t *testing.T) {
	prog := markowitz.LinearProgram{
		Objective: []float64{3, 2},
		Constraints: []markowitz.Constraint{
			{LHS: []float64{1, 1}, RHS: 4, Type: markowitz.LessEqual},
			{LHS: []float64{1, 3}, RHS: 6, Type: markowitz.LessEqual},
		},
		Upper: []float64{3, markowitz.Unbounded},
	}
	res, err := prog.Maximize()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 1}, res.Weights, 1e-12)
	assert.InDelta(t, 11.0, res.Value, 1e-12)

	// A floor on x1 beyond what the second row allows.
	prog.Constraints = append(prog.Constraints, markowitz.Constraint{LHS: []float64{0, 1}, RHS: 2.5, Type: markowitz.GreaterEqual})
	_, err = prog.Maximize()
	require.ErrorIs(t, err, markowitz.ErrInfeasible)
}

func TestLinearProgram_Failures(t *testing.T) {
	_, err := markowitz.Maximize([]float64{1}, nil, nil)
	require.ErrorIs(t, err, markowitz.ErrUnbounded)

	_, err = markowitz.Maximize([]float64{1, 1}, [][]float64{{1, 1}, {1, 1}}, []float64{1, 2})
	require.ErrorIs(t, err, markowitz.ErrInfeasible)

	_, err = markowitz.Maximize([]float64{1, 1}, [][]float64{{1, 1}}, []float64{1, 2})
	require.ErrorIs(t, err, markowitz.ErrDimensionMismatch)

	_, err = markowitz.Maximize(nil, nil, nil)
	require.ErrorIs(t, err, markowitz.ErrDimensionMismatch)
}
