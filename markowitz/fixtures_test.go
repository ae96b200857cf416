// SPDX-License-Identifier: MIT
// Package markowitz_test contains shared fixtures and oracles.
//
// Purpose:
//   - Small hand-checkable problems with known frontiers.
//   - A larger bounded problem with an inequality row, validated against
//     random feasible portfolios (the objective is convex).

package markowitz_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/meanvar/markowitz"
)

// feasTol bounds constraint and bound violations in produced portfolios.
const feasTol = 1e-9

// twoUncorrelated: equal variances, different means. Frontier:
// (1,0) at λ=0.8 and (0.5,0.5) at λ=0.
func twoUncorrelated() markowitz.Problem {
	return markowitz.Problem{
		Means:       []float64{0.10, 0.05},
		Covariance:  [][]float64{{0.04, 0}, {0, 0.04}},
		Labels:      []string{"growth", "income"},
		Constraints: []markowitz.Constraint{markowitz.Budget(2)},
	}
}

// twoBounded: the low-return asset is also the low-variance one, so the
// frontier runs bound to bound: (1,0) at λ=1.4 and (0,1) at λ=0.2.
func twoBounded() markowitz.Problem {
	return markowitz.Problem{
		Means:       []float64{0.10, 0.05},
		Covariance:  [][]float64{{0.09, 0.02}, {0.02, 0.01}},
		Lower:       []float64{0, 0},
		Upper:       []float64{1, 1},
		Constraints: []markowitz.Constraint{markowitz.Budget(2)},
	}
}

// fourAsset: capped weights plus "first two hold at least 30%".
func fourAsset() markowitz.Problem {
	return markowitz.Problem{
		Means: []float64{0.12, 0.10, 0.07, 0.03},
		Covariance: [][]float64{
			{0.0400, 0.0060, 0.0020, 0.0000},
			{0.0060, 0.0250, 0.0030, 0.0005},
			{0.0020, 0.0030, 0.0100, 0.0004},
			{0.0000, 0.0005, 0.0004, 0.0025},
		},
		Lower: []float64{0, 0, 0, 0},
		Upper: []float64{0.5, 0.5, 0.5, 0.5},
		Constraints: []markowitz.Constraint{
			markowitz.Budget(4),
			{LHS: []float64{1, 1, 0, 0}, RHS: 0.3, Type: markowitz.GreaterEqual},
		},
	}
}

// fixtures lists every well-posed problem used by the property tests.
func fixtures() map[string]markowitz.Problem {
	return map[string]markowitz.Problem{
		"two-uncorrelated": twoUncorrelated(),
		"two-bounded":      twoBounded(),
		"four-asset":       fourAsset(),
	}
}

// covDense converts a covariance literal for gonum.
func covDense(rows [][]float64) *mat.SymDense {
	n := len(rows)
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, rows[i][j])
		}
	}

	return s
}

// variance computes wᵀΣw with gonum.
func variance(cov [][]float64, w []float64) float64 {
	v := mat.NewVecDense(len(w), append([]float64(nil), w...))

	return mat.Inner(v, covDense(cov), v)
}

// requireFeasible checks bounds and every constraint row.
func requireFeasible(t *testing.T, p markowitz.Problem, port markowitz.Portfolio) {
	t.Helper()
	w := port.Weights()
	for j, v := range w {
		lo := 0.0
		if p.Lower != nil {
			lo = p.Lower[j]
		}
		require.GreaterOrEqualf(t, v, lo-feasTol, "w[%d] below lower", j)
		if p.Upper != nil {
			require.LessOrEqualf(t, v, p.Upper[j]+feasTol, "w[%d] above upper", j)
		}
	}
	for k, c := range p.Constraints {
		lhs := floats.Dot(c.LHS, w)
		switch c.Type {
		case markowitz.Equal:
			require.InDeltaf(t, c.RHS, lhs, feasTol, "row %d", k)
		case markowitz.LessEqual:
			require.LessOrEqualf(t, lhs, c.RHS+feasTol, "row %d", k)
		case markowitz.GreaterEqual:
			require.GreaterOrEqualf(t, lhs, c.RHS-feasTol, "row %d", k)
		}
	}
}

// objective evaluates ½wᵀΣw − λμᵀw.
func objective(p markowitz.Problem, lambda float64, w []float64) float64 {
	return 0.5*variance(p.Covariance, w) - lambda*floats.Dot(p.Means, w)
}

// requireOptimal checks that port minimizes ½wᵀΣw − λμᵀw at its own λ by
// comparing it against random feasible portfolios (the objective is convex,
// so the corner must win against every one of them). Candidates are drawn
// on the budget simplex and rejected unless they satisfy every bound and row.
func requireOptimal(t *testing.T, p markowitz.Problem, port markowitz.Portfolio) {
	t.Helper()
	const samples = 2000
	rng := rand.New(rand.NewSource(7))
	n := len(p.Means)
	lambda := port.Lambda()
	best := objective(p, lambda, port.Weights())
	slack := 1e-6*math.Max(1, lambda) + 1e-12

	w := make([]float64, n)
	checked := 0
	for s := 0; s < samples; s++ {
		for j := range w {
			w[j] = -math.Log(1 - rng.Float64())
		}
		floats.Scale(1/floats.Sum(w), w)
		if !feasible(p, w) {
			continue
		}
		checked++
		require.LessOrEqualf(t, best, objective(p, lambda, w)+slack, "λ=%g beaten by %v", lambda, w)
	}
	require.Positive(t, checked, "no feasible sample drawn")
}

// feasible reports whether w satisfies bounds and every constraint row.
func feasible(p markowitz.Problem, w []float64) bool {
	for j, v := range w {
		if p.Lower != nil && v < p.Lower[j] {
			return false
		}
		if p.Upper != nil && v > p.Upper[j] {
			return false
		}
	}
	for _, c := range p.Constraints {
		lhs := floats.Dot(c.LHS, w)
		switch c.Type {
		case markowitz.Equal:
			if math.Abs(lhs-c.RHS) > feasTol {
				return false
			}
		case markowitz.LessEqual:
			if lhs > c.RHS {
				return false
			}
		case markowitz.GreaterEqual:
			if lhs < c.RHS {
				return false
			}
		}
	}

	return true
}
