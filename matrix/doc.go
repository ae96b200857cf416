// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels used by the
// mean-variance optimizer.
//
// The package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors and a
//     shared-storage Row view for hot loops.
//   - Validators for shapes, finiteness and symmetry (covariance input checks).
//   - Canonical kernels: Mul, Transpose, Scale, MatVec, QuadForm.
//   - Jacobi Eigen for symmetric matrices (positive semi-definiteness checks).
//   - Statistics over return series: CenterColumns and sample Covariance.
//   - Incremental inverse maintenance: PivotInPlace (Gauss–Jordan rank-one
//     update of a basis inverse) and PermuteRows (re-aligning rows with an
//     ordered active set).
//
// All routines are deterministic: loops run in fixed i→j order and no
// randomness is involved, so identical inputs give bit-identical outputs.
package matrix
