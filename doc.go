// Package meanvar computes Markowitz mean-variance efficient frontiers.
//
// What is meanvar?
//
//	A pure-Go implementation of the critical line algorithm: given expected
//	returns, a covariance matrix, per-security bounds and linear constraint
//	rows, it lists every corner portfolio of the efficient frontier, from
//	the highest-return corner down to the minimum-variance portfolio.
//		• Two-phase bounded Simplex start (also usable as a plain LP solver)
//		• Incremental KKT inverse updates between corners
//		• Interpolation between adjacent corners, Sharpe-ratio selection
//		• YAML problem files and a command-line front end
//
// Under the hood, everything is organized under these packages:
//
//	markowitz/     Problem, Optimize, Portfolio, Interpolate, LP front end
//	matrix/        dense row-major kernels, pivots, Jacobi eigen, covariance
//	config/        YAML problem files
//	cmd/frontier/  CLI: solve, lp, interpolate
//	examples/      runnable programs
//
// Quick example:
//
//	frontier, err := markowitz.Optimize(markowitz.Problem{
//		Means:       []float64{0.10, 0.05},
//		Covariance:  [][]float64{{0.04, 0}, {0, 0.04}},
//		Constraints: []markowitz.Constraint{markowitz.Budget(2)},
//	})
//	// frontier[0]: w=[1 0] λ=0.8, frontier[1]: w=[0.5 0.5] λ=0
//
//	go get github.com/katalvlaran/meanvar
package meanvar
