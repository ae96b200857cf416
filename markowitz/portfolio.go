// SPDX-License-Identifier: MIT
// Package markowitz: frontier portfolios and the helpers that read them.
//
// A Portfolio is a value: its accessors return copies, so a frontier slice
// can be shared freely between goroutines once Optimize returns.

package markowitz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/meanvar/matrix"
)

// Portfolio is one corner of the efficient frontier.
type Portfolio struct {
	weights  []float64
	labels   []string // shared, never written
	lambda   float64
	mean     float64
	variance float64
}

// Weights returns a copy of the per-security weights.
func (p Portfolio) Weights() []float64 {
	out := make([]float64, len(p.weights))
	copy(out, p.weights)

	return out
}

// Weight returns the weight of security i.
func (p Portfolio) Weight(i int) float64 { return p.weights[i] }

// Len returns the number of securities.
func (p Portfolio) Len() int { return len(p.weights) }

// Labels returns a copy of the security labels, or nil.
func (p Portfolio) Labels() []string {
	if p.labels == nil {
		return nil
	}

	return append([]string(nil), p.labels...)
}

// Lambda is the risk-tolerance parameter at which this corner was reached.
func (p Portfolio) Lambda() float64 { return p.lambda }

// Mean is the expected return Σ μᵢwᵢ.
func (p Portfolio) Mean() float64 { return p.mean }

// Variance is wᵀΣw.
func (p Portfolio) Variance() float64 { return p.variance }

// StdDev is √Variance (zero for a numerically negative variance).
func (p Portfolio) StdDev() float64 { return math.Sqrt(math.Max(p.variance, 0)) }

// SharpeRatio returns (Mean − riskFree) / Variance.
// The denominator is the variance, not the standard deviation.
func (p Portfolio) SharpeRatio(riskFree float64) float64 {
	return (p.mean - riskFree) / p.variance
}

// String renders the corner as "λ=… E=… V=… w=[…]".
func (p Portfolio) String() string {
	return fmt.Sprintf("λ=%g E=%g V=%g w=%v", p.lambda, p.mean, p.variance, p.weights)
}

// InterpolatedPortfolio is a convex blend of two adjacent frontier corners.
type InterpolatedPortfolio struct {
	Portfolio
	LowIndex  int
	HighIndex int
}

// Interpolate blends frontier[lowIndex] and frontier[highIndex]:
//
//	w = factor·w_low + (1 − factor)·w_high
//
// The mean and λ blend linearly; the variance is recomputed as wᵀΣw.
//
// Errors:
//   - ErrEmptyFrontier, ErrIndexOutOfRange (indices not adjacent or outside
//     the slice), ErrBadFactor (factor outside [0,1]), ErrDimensionMismatch /
//     ErrNaNInf for a covariance that does not fit the portfolios.
func Interpolate(frontier []Portfolio, covariance [][]float64, factor float64, lowIndex, highIndex int) (InterpolatedPortfolio, error) {
	if len(frontier) == 0 {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate, ErrEmptyFrontier)
	}
	if lowIndex < 0 || highIndex != lowIndex+1 || highIndex >= len(frontier) {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate,
			fmt.Errorf("indices (%d,%d) of %d corners: %w", lowIndex, highIndex, len(frontier), ErrIndexOutOfRange))
	}
	if math.IsNaN(factor) || factor < 0 || factor > 1 {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate, fmt.Errorf("factor %g: %w", factor, ErrBadFactor))
	}

	lo, hi := frontier[lowIndex], frontier[highIndex]
	n := lo.Len()
	if hi.Len() != n || len(covariance) != n {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate, ErrDimensionMismatch)
	}
	cov, err := matrix.NewFromRows(covariance)
	if err != nil {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
	}

	w := make([]float64, n)
	floats.AddScaledTo(w, w, factor, lo.weights)
	floats.AddScaled(w, 1-factor, hi.weights)
	variance, err := matrix.QuadForm(cov, w)
	if err != nil {
		return InterpolatedPortfolio{}, markowitzErrorf(opInterpolate, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
	}

	return InterpolatedPortfolio{
		Portfolio: Portfolio{
			weights:  w,
			labels:   lo.labels,
			lambda:   factor*lo.lambda + (1-factor)*hi.lambda,
			mean:     factor*lo.mean + (1-factor)*hi.mean,
			variance: variance,
		},
		LowIndex:  lowIndex,
		HighIndex: highIndex,
	}, nil
}

// Bracket locates the frontier segment containing targetMean and the
// Interpolate factor that reaches it: frontier[low].Mean ≥ targetMean ≥
// frontier[low+1].Mean. A target equal to a corner's mean is reached with
// factor 1 at that corner (or 0 at the last corner).
//
// Errors: ErrEmptyFrontier, ErrTargetOutOfRange.
func Bracket(frontier []Portfolio, targetMean float64) (low, high int, factor float64, err error) {
	switch len(frontier) {
	case 0:
		return 0, 0, 0, ErrEmptyFrontier
	case 1:
		return 0, 0, 0, fmt.Errorf("single corner: %w", ErrTargetOutOfRange)
	}
	for i := 0; i+1 < len(frontier); i++ {
		hiMean, loMean := frontier[i].mean, frontier[i+1].mean
		if targetMean > hiMean || targetMean < loMean {
			continue
		}
		span := hiMean - loMean
		if span <= 0 {
			return i, i + 1, 1, nil
		}

		return i, i + 1, (targetMean - loMean) / span, nil
	}

	return 0, 0, 0, fmt.Errorf("target %g outside [%g, %g]: %w",
		targetMean, frontier[len(frontier)-1].mean, frontier[0].mean, ErrTargetOutOfRange)
}

// MaxSharpe returns the corner with the largest SharpeRatio(riskFree) and
// its index. Corners with zero variance are skipped. Ties keep the earliest.
func MaxSharpe(frontier []Portfolio, riskFree float64) (Portfolio, int, error) {
	best, idx := math.Inf(-1), -1
	for i, p := range frontier {
		if p.variance <= 0 {
			continue
		}
		if s := p.SharpeRatio(riskFree); s > best {
			best, idx = s, i
		}
	}
	if idx < 0 {
		return Portfolio{}, -1, ErrEmptyFrontier
	}

	return frontier[idx], idx, nil
}
