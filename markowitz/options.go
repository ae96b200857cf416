// SPDX-License-Identifier: MIT

// Package markowitz: functional configuration of the solver.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that applies them over the defaults.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package markowitz

import (
	"math"

	"github.com/rs/zerolog"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the single tolerance used for every bound-hit,
	// near-zero pivot, weight snapping and duplicate-corner comparison.
	DefaultEpsilon = 1e-10

	// DefaultMaxCorners caps the number of CLA breakpoints traced.
	DefaultMaxCorners = 100

	// DefaultEndLambda stops the trace once λE ≤ EndLambda.
	DefaultEndLambda = 0.0

	// DefaultDegenerateRetry keeps zero-valued artificial columns as
	// bound-capped ordinary variables instead of failing.
	DefaultDegenerateRetry = true

	// DefaultPSDCheck toggles the Jacobi eigenvalue check of Σ.
	DefaultPSDCheck = false

	// DefaultSymmetryTolerance bounds |Σ[i,j] − Σ[j,i]|.
	DefaultSymmetryTolerance = 1e-9
)

// Unbounded is the sentinel upper bound of an unconstrained variable.
// Any upper bound at or above it (including +Inf) is treated as absent.
const Unbounded = 1e30

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid    = "markowitz: WithEpsilon: eps must be finite and positive"
	panicMaxCornersInvalid = "markowitz: WithMaxCorners: limit must be positive"
	panicEndLambdaInvalid  = "markowitz: WithEndLambda: lambda must be finite and non-negative"
	panicSymTolInvalid     = "markowitz: WithSymmetryTolerance: tol must be finite and non-negative"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps             float64
	maxCorners      int
	endLambda       float64
	degenerateRetry bool
	psdCheck        bool
	symTol          float64
	logger          zerolog.Logger
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		eps:             DefaultEpsilon,
		maxCorners:      DefaultMaxCorners,
		endLambda:       DefaultEndLambda,
		degenerateRetry: DefaultDegenerateRetry,
		psdCheck:        DefaultPSDCheck,
		symTol:          DefaultSymmetryTolerance,
		logger:          zerolog.Nop(),
	}
}

// gatherOptions applies opts in order over the defaults.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithEpsilon sets the shared numeric tolerance.
// Panics when eps is not finite or not positive.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithMaxCorners caps the number of corner portfolios traced by the critical
// line stage. This is the only bound on the solve's running time.
func WithMaxCorners(limit int) Option {
	if limit <= 0 {
		panic(panicMaxCornersInvalid)
	}

	return func(o *Options) { o.maxCorners = limit }
}

// WithEndLambda stops the trace at the first corner whose λ is ≤ lambda.
// The default 0 traces down to the minimum-variance portfolio.
func WithEndLambda(lambda float64) Option {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		panic(panicEndLambdaInvalid)
	}

	return func(o *Options) { o.endLambda = lambda }
}

// WithDegenerateRetry toggles recovery from a degenerate Phase 1.
// When disabled, such problems fail with ErrDegenerate.
func WithDegenerateRetry(enabled bool) Option {
	return func(o *Options) { o.degenerateRetry = enabled }
}

// WithPSDCheck enables the Jacobi eigenvalue check of the covariance matrix;
// an eigenvalue below −eps fails with ErrNotPSD.
func WithPSDCheck(enabled bool) Option {
	return func(o *Options) { o.psdCheck = enabled }
}

// WithSymmetryTolerance sets the covariance symmetry tolerance.
func WithSymmetryTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicSymTolInvalid)
	}

	return func(o *Options) { o.symTol = tol }
}

// WithLogger routes solver diagnostics (phase changes, breakpoints) to l.
// The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}
