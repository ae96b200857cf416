// SPDX-License-Identifier: MIT
// Package markowitz: linear-programming front end.
//
// The Simplex stage is a general bounded LP solver; this file exposes it on
// its own. A linear program is posed as a problem with zero covariance and
// the objective in place of the expected returns, and only the Simplex stage
// runs.

package markowitz

import "fmt"

// LinearProgram is max/min c·x subject to constraint rows and bounds.
// Lower defaults to zeros and Upper to Unbounded, as for Problem.
type LinearProgram struct {
	Objective   []float64
	Constraints []Constraint
	Lower       []float64
	Upper       []float64
}

// LPResult is the optimal point and objective value.
type LPResult struct {
	Weights []float64
	Value   float64
}

// Maximize solves max c·x.
//
// Errors: the input errors of Optimize, plus ErrInfeasible, ErrUnbounded,
// ErrDegenerate.
func (lp LinearProgram) Maximize(opts ...Option) (LPResult, error) {
	n := len(lp.Objective)
	o := gatherOptions(opts...)

	zero := make([][]float64, n)
	for i := range zero {
		zero[i] = make([]float64, n)
	}
	pd, err := newProblemData(Problem{
		Means:       lp.Objective,
		Covariance:  zero,
		Lower:       lp.Lower,
		Upper:       lp.Upper,
		Constraints: lp.Constraints,
	}, o)
	if err != nil {
		return LPResult{}, markowitzErrorf(opLP, err)
	}
	st := newSolverState(pd)
	if status := newSimplex(pd, st).solve(); status != StatusOK {
		return LPResult{}, markowitzErrorf(opLP, markowitzErrorf(opSimplex, status.Err()))
	}

	res := LPResult{Weights: make([]float64, n)}
	copy(res.Weights, st.x[:n])
	for j, c := range lp.Objective {
		res.Value += c * res.Weights[j]
	}

	return res, nil
}

// Minimize solves min c·x as −max(−c·x); the optimal point is the one
// Maximize finds for the negated objective.
func (lp LinearProgram) Minimize(opts ...Option) (LPResult, error) {
	neg := lp
	neg.Objective = make([]float64, len(lp.Objective))
	for j, c := range lp.Objective {
		neg.Objective[j] = -c
	}
	res, err := neg.Maximize(opts...)
	if err != nil {
		return LPResult{}, err
	}
	res.Value = -res.Value

	return res, nil
}

// Maximize solves max c·x subject to lhs·x = rhs, x ≥ 0.
func Maximize(objective []float64, lhs [][]float64, rhs []float64, opts ...Option) (LPResult, error) {
	lp, err := equalityProgram(objective, lhs, rhs)
	if err != nil {
		return LPResult{}, err
	}

	return lp.Maximize(opts...)
}

// Minimize solves min c·x subject to lhs·x = rhs, x ≥ 0.
func Minimize(objective []float64, lhs [][]float64, rhs []float64, opts ...Option) (LPResult, error) {
	lp, err := equalityProgram(objective, lhs, rhs)
	if err != nil {
		return LPResult{}, err
	}

	return lp.Minimize(opts...)
}

// equalityProgram pairs lhs rows with rhs values as '=' constraints.
func equalityProgram(objective []float64, lhs [][]float64, rhs []float64) (LinearProgram, error) {
	if len(lhs) != len(rhs) {
		return LinearProgram{}, markowitzErrorf(opLP,
			fmt.Errorf("%d rows, %d right-hand sides: %w", len(lhs), len(rhs), ErrDimensionMismatch))
	}
	cs := make([]Constraint, len(lhs))
	for k := range lhs {
		cs[k] = Constraint{LHS: lhs[k], RHS: rhs[k], Type: Equal}
	}

	return LinearProgram{Objective: objective, Constraints: cs}, nil
}
