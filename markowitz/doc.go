// SPDX-License-Identifier: MIT

// Package markowitz computes the mean-variance efficient frontier of a
// portfolio problem with the Critical Line Algorithm.
//
// What:
//
//   - Optimize takes expected returns μ, a covariance matrix Σ, per-security
//     bounds and linear constraints ('=', '<', '>') and returns the corner
//     portfolios of the frontier, ordered from the maximum-return portfolio
//     (largest λ) down to the minimum-variance one (λ = 0).
//   - Every portfolio between two adjacent corners is a convex blend of
//     them: Interpolate produces it, Bracket finds the blend for a target
//     mean, MaxSharpe picks the best corner for a risk-free rate.
//   - Maximize / Minimize expose the underlying bounded Simplex as a
//     standalone linear-programming solver.
//
// How:
//
//	problem := markowitz.Problem{
//		Means:       []float64{0.10, 0.05},
//		Covariance:  [][]float64{{0.04, 0}, {0, 0.04}},
//		Constraints: []markowitz.Constraint{markowitz.Budget(2)},
//	}
//	frontier, err := markowitz.Optimize(problem)
//
// Options:
//
//   - WithEpsilon, WithMaxCorners, WithEndLambda, WithDegenerateRetry,
//     WithPSDCheck, WithSymmetryTolerance, WithLogger (zerolog).
//
// Errors:
//
//   - Every failure matches one sentinel via errors.Is: input errors
//     (ErrDimensionMismatch, ErrNaNInf, ErrAsymmetry, ErrNotPSD,
//     ErrBadBounds, ErrBadConstraintType) and solver errors (ErrInfeasible,
//     ErrUnbounded, ErrDegenerate).
//
// Determinism:
//
//   - Scans run over ascending variable indices and ties go to the last
//     candidate scanned, so identical inputs give bit-identical frontiers.
package markowitz
