// SPDX-License-Identifier: MIT
package markowitz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/meanvar/matrix"
)

func claProblem() Problem {
	return Problem{
		Means: []float64{0.12, 0.10, 0.07, 0.03},
		Covariance: [][]float64{
			{0.0400, 0.0060, 0.0020, 0.0000},
			{0.0060, 0.0250, 0.0030, 0.0005},
			{0.0020, 0.0030, 0.0100, 0.0004},
			{0.0000, 0.0005, 0.0004, 0.0025},
		},
		Upper: []float64{0.5, 0.5, 0.5, 0.5},
		Constraints: []Constraint{
			Budget(4),
			{LHS: []float64{1, 1, 0, 0}, RHS: 0.3, Type: GreaterEqual},
		},
	}
}

// newTestLines runs the Simplex stage and seeds the critical line engine.
func newTestLines(t *testing.T, p Problem) (*problemData, *solverState, *criticalLines) {
	t.Helper()
	pd, st, status := solveSimplex(t, p)
	require.Equal(t, StatusOK, status)
	cl, err := newCriticalLines(pd, st)
	require.NoError(t, err)

	return pd, st, cl
}

// requireInverseMatches compares the active block of Mi with gonum's dense
// inverse of the same KKT block.
func requireInverseMatches(t *testing.T, cl *criticalLines) {
	t.Helper()
	rows := append([]int(nil), cl.activeRows()...)
	k := len(rows)
	kkt := mat.NewDense(k, k, nil)
	got := mat.NewDense(k, k, nil)
	for i, r := range rows {
		for j, c := range rows {
			kkt.Set(i, j, cl.pd.aug.Row(r)[c])
			got.Set(i, j, cl.mi.Row(r)[c])
		}
	}
	var want mat.Dense
	require.NoError(t, want.Inverse(kkt))
	require.True(t, mat.EqualApprox(&want, got, 1e-8), "Mi drifted:\nwant\n%v\ngot\n%v",
		mat.Formatted(&want), mat.Formatted(got))
}

func TestCriticalLines_SeedInverse(t *testing.T) {
	_, _, cl := newTestLines(t, claProblem())
	requireInverseMatches(t, cl)
}

func TestCriticalLines_InverseTracksEveryBreakpoint(t *testing.T) {
	pd, st, cl := newTestLines(t, claProblem())
	for step := 1; step <= pd.opts.maxCorners; step++ {
		require.NoError(t, cl.iteration(step))
		requireInverseMatches(t, cl)
		if st.lambda <= 0 {
			break
		}
	}
	require.Equal(t, 0.0, st.lambda)
}

// TestCriticalLines_IncrementalMatchesFull compares the O(1) mean/variance
// recurrence with a direct evaluation at every corner.
func TestCriticalLines_IncrementalMatchesFull(t *testing.T) {
	pd, st, cl := newTestLines(t, claProblem())
	lambdas := []float64{math.Inf(1)}
	for step := 1; step <= pd.opts.maxCorners; step++ {
		require.NoError(t, cl.iteration(step))
		w := st.x[:pd.n]
		v, err := matrix.QuadForm(pd.cov, w)
		require.NoError(t, err)
		require.InDeltaf(t, v, st.variance, 1e-12, "step %d variance", step)
		require.InDeltaf(t, floats.Dot(pd.mean[:pd.n], w), st.mean, 1e-12, "step %d mean", step)
		require.LessOrEqual(t, st.lambda, lambdas[len(lambdas)-1])
		lambdas = append(lambdas, st.lambda)
		if st.lambda <= 0 {
			break
		}
	}
	require.Greater(t, len(lambdas), 3)
}

// TestCriticalLines_InTieGoesToLastScanned: assets 1 and 2 are identical,
// so their λIn candidates tie exactly; the later index enters.
func TestCriticalLines_InTieGoesToLastScanned(t *testing.T) {
	_, st, cl := newTestLines(t, Problem{
		Means: []float64{0.10, 0.05, 0.05},
		Covariance: [][]float64{
			{0.04, 0, 0},
			{0, 0.04, 0},
			{0, 0, 0.04},
		},
		Constraints: []Constraint{Budget(3)},
	})
	require.True(t, st.isLo(1))
	require.True(t, st.isLo(2))

	require.NoError(t, cl.iteration(1))
	require.Equal(t, 2, cl.inVar)
	require.InDelta(t, 0.8, cl.lambdaIn, 1e-12)
}

// TestCriticalLines_OutTieGoesToLastScanned pins the λOut scan on equal
// candidates.
func TestCriticalLines_OutTieGoesToLastScanned(t *testing.T) {
	_, st, cl := newTestLines(t, Problem{
		Means:       []float64{0.10, 0.05},
		Covariance:  [][]float64{{0.04, 0}, {0, 0.04}},
		Constraints: []Constraint{Budget(2)},
	})
	require.NoError(t, cl.iteration(1))
	require.NoError(t, cl.iteration(2))
	require.True(t, st.isIn(0))
	require.True(t, st.isIn(1))

	cl.lastAdded = -1
	cl.alpha[0], cl.alpha[1] = 0.5, 0.5
	cl.beta[0], cl.beta[1] = 1, 1
	cl.scanOut()
	require.Equal(t, 1, cl.outVar)
	require.Equal(t, statusLow, cl.outSide)
	require.Equal(t, -0.5, cl.lambdaOut)
}

func TestCriticalLines_SingularAddIsDegenerate(t *testing.T) {
	// Zero covariance: adding a second asset to the line leaves a zero pivot.
	_, _, cl := newTestLines(t, Problem{
		Means:       []float64{0.10, 0.05},
		Covariance:  [][]float64{{0, 0}, {0, 0}},
		Constraints: []Constraint{Budget(2)},
	})
	err := cl.addVariable(1)
	require.ErrorIs(t, err, ErrDegenerate)
	require.ErrorIs(t, err, matrix.ErrSingular)
}
