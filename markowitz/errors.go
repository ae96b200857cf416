// SPDX-License-Identifier: MIT
// Package markowitz: sentinel error set.
// Every failure surfaced by the optimizer matches exactly one of these via
// errors.Is. Shape errors are raised before any solving starts; the solver
// kinds (infeasible / unbounded / degenerate) are terminal and never come
// with a partial frontier.

package markowitz

import (
	"errors"
	"fmt"
)

// Solver failure kinds.
var (
	// ErrInfeasible is returned when Phase 1 cannot drive every
	// artificial-basis variable to zero: no point satisfies the constraints.
	ErrInfeasible = errors.New("markowitz: problem is infeasible")

	// ErrUnbounded is returned when a ratio test finds no binding variable:
	// the objective can grow without limit along a feasible ray.
	ErrUnbounded = errors.New("markowitz: problem is unbounded")

	// ErrDegenerate is returned when Phase 1 ends with artificial variables
	// stuck at zero and degenerate retry is disabled, or when an incremental
	// inverse update meets a pivot within eps of zero.
	ErrDegenerate = errors.New("markowitz: problem is degenerate")

	// ErrNoConvergence belongs to the same family; it is reserved for the
	// iterative root finders that consume frontiers and is never returned by
	// Optimize itself.
	ErrNoConvergence = errors.New("markowitz: iteration did not converge")
)

// Input shape and value errors.
var (
	// ErrDimensionMismatch reports vectors/matrices whose lengths disagree
	// with the number of securities.
	ErrDimensionMismatch = errors.New("markowitz: dimension mismatch")

	// ErrBadBounds reports a non-finite lower bound or lower > upper.
	ErrBadBounds = errors.New("markowitz: invalid bounds")

	// ErrBadConstraintType reports a constraint type other than '=', '<', '>'.
	ErrBadConstraintType = errors.New("markowitz: invalid constraint type")

	// ErrNaNInf reports NaN or ±Inf where a finite value is required.
	ErrNaNInf = errors.New("markowitz: NaN or Inf encountered")

	// ErrAsymmetry reports a covariance matrix that is not symmetric.
	ErrAsymmetry = errors.New("markowitz: covariance is not symmetric")

	// ErrNotPSD reports a covariance matrix with a negative eigenvalue
	// (only checked under WithPSDCheck).
	ErrNotPSD = errors.New("markowitz: covariance is not positive semi-definite")
)

// Frontier post-processing errors.
var (
	// ErrEmptyFrontier is returned by helpers that need at least one corner.
	ErrEmptyFrontier = errors.New("markowitz: empty frontier")

	// ErrIndexOutOfRange reports corner indices that are not two adjacent
	// positions of the frontier.
	ErrIndexOutOfRange = errors.New("markowitz: frontier index out of range")

	// ErrBadFactor reports an interpolation factor outside [0, 1].
	ErrBadFactor = errors.New("markowitz: interpolation factor outside [0,1]")

	// ErrTargetOutOfRange reports a target mean outside the frontier span.
	ErrTargetOutOfRange = errors.New("markowitz: target outside frontier range")
)

// Operation tags for error wrapping.
const (
	opOptimize    = "Optimize"
	opNewProblem  = "NewProblem"
	opSimplex     = "Simplex"
	opCritical    = "CriticalLines"
	opInterpolate = "Interpolate"
	opLP          = "LinearProgram"
	opReturns     = "ProblemFromReturns"
)

// markowitzErrorf wraps err with an operation tag; errors.Is still matches
// the wrapped sentinel.
func markowitzErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
