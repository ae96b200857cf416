// SPDX-License-Identifier: MIT

package markowitz

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Optimize traces the efficient frontier of p.
//
// Implementation:
//   - Stage 1: Validate and normalize p (bounds, slack columns).
//   - Stage 2: Two-phase Simplex finds the maximum-return feasible portfolio.
//   - Stage 3: The critical line stage walks λ downwards, emitting one corner
//     portfolio per breakpoint until λ ≤ EndLambda or MaxCorners is reached.
//   - Stage 4: Weights within eps of a bound are snapped to it, and corners
//     whose weights repeat the previous one are collapsed.
//
// Behavior highlights:
//   - Corners come in strictly decreasing λ; Mean and Variance are
//     non-increasing along the slice.
//   - Every returned portfolio satisfies the bounds and constraints within eps.
//   - The solve owns all of its state: concurrent calls are independent, and
//     identical inputs yield bit-identical frontiers.
//
// Errors:
//   - Input: ErrDimensionMismatch, ErrNaNInf, ErrAsymmetry, ErrNotPSD,
//     ErrBadBounds, ErrBadConstraintType.
//   - Solve: ErrInfeasible, ErrUnbounded, ErrDegenerate. No partial frontier
//     is returned on failure.
//
// Complexity:
//   - Simplex O(pivots·m·cols); each corner O(K²) with K = n+slacks+m.
func Optimize(p Problem, opts ...Option) ([]Portfolio, error) {
	o := gatherOptions(opts...)
	pd, err := newProblemData(p, o)
	if err != nil {
		return nil, markowitzErrorf(opOptimize, err)
	}
	st := newSolverState(pd)

	if status := newSimplex(pd, st).solve(); status != StatusOK {
		return nil, markowitzErrorf(opOptimize, markowitzErrorf(opSimplex, status.Err()))
	}

	cl, err := newCriticalLines(pd, st)
	if err != nil {
		return nil, markowitzErrorf(opOptimize, err)
	}

	frontier := make([]Portfolio, 0, 8)
	for step := 1; step <= o.maxCorners; step++ {
		if err = cl.iteration(step); err != nil {
			return nil, markowitzErrorf(opOptimize, err)
		}
		corner := pd.corner(st)
		if k := len(frontier); k == 0 || !floats.EqualApprox(frontier[k-1].weights, corner.weights, o.eps) {
			frontier = append(frontier, corner)
		}
		if st.lambda <= o.endLambda {
			break
		}
	}
	o.logger.Debug().Int("corners", len(frontier)).Msg("frontier traced")

	return frontier, nil
}

// corner snapshots the current state as an immutable Portfolio.
func (pd *problemData) corner(st *solverState) Portfolio {
	eps := pd.opts.eps
	w := make([]float64, pd.n)
	for j := range w {
		v := st.x[j]
		switch {
		case math.Abs(v-pd.lower[j]) < eps:
			v = pd.lower[j]
		case pd.hasUpper(j) && math.Abs(v-pd.upper[j]) < eps:
			v = pd.upper[j]
		}
		w[j] = v
	}

	return Portfolio{
		weights:  w,
		labels:   pd.labels,
		lambda:   st.lambda,
		mean:     st.mean,
		variance: st.variance,
	}
}
