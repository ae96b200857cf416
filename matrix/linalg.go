// SPDX-License-Identifier: MIT
// Package matrix provides the canonical kernels used by the optimizer:
// multiplication, transpose, scaling, matrix-vector products, quadratic forms
// and the Jacobi eigen solver. All kernels validate fail-fast and return
// sentinels wrapped with an operation tag.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opQuadForm  = "QuadForm"
	opEigen     = "Eigen"
	opPivot     = "PivotInPlace"
	opPermute   = "PermuteRows"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B into a fresh Dense.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: i→k→j loop over the flat buffers, skipping zero a[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*k*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k          int
		av               float64
		offA, offB, offR int
	)
	for i = 0; i < a.r; i++ {
		offA = i * a.c
		offR = i * b.c
		for k = 0; k < a.c; k++ {
			av = a.data[offA+k]
			if av == 0 {
				continue
			}
			offB = k * b.c
			for j = 0; j < b.c; j++ {
				res.data[offR+j] += av * b.data[offB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
// Complexity: O(r*c).
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := m.Clone()
	for idx := range res.data {
		res.data[idx] *= alpha
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when len(x) != m.Cols().
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, m.r)
	var (
		i, j, base int
		acc, xv    float64
	)
	for i = 0; i < m.r; i++ {
		acc = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if xv = x[j]; xv != 0 {
				acc += m.data[base+j] * xv
			}
		}
		y[i] = acc
	}

	return y, nil
}

// QuadForm returns xᵀ·m·x for a square m, the portfolio variance wᵀΣw when m
// is a covariance matrix.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square m or len(x) != n).
//
// Complexity:
//   - Time O(n²), Space O(1).
func QuadForm(m *Dense, x []float64) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}

	var (
		i, j, base int
		row, acc   float64
	)
	for i = 0; i < m.r; i++ {
		if x[i] == 0 {
			continue
		}
		row = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			row += m.data[base+j] * x[j]
		}
		acc += x[i] * row
	}

	return acc, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// cyclic Jacobi rotations on the largest off-diagonal pivot.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol); copy m into a work buffer; Q = I.
//   - Stage 2: Repeat up to maxIter: pick (p,q) maximizing |A[p,q]|; stop
//     when it drops below tol; otherwise rotate A and accumulate into Q.
//   - Stage 3: Verify convergence and read eigenvalues off the diagonal.
//
// Returns:
//   - []float64: eigenvalues (diagonal order, unsorted).
//   - *Dense: eigenvectors stored column-wise.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrEigenFailed.
//
// Complexity:
//   - Time O(maxIter*n), plus O(n²) per pivot search; Space O(n²).
func Eigen(m *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.r
	a := m.Clone()
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, p, q0  int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
	)
	data, qd := a.data, q.data
	for iter = 0; iter < maxIter; iter++ {
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if off = math.Abs(data[i*n+j]); off > maxOff {
					maxOff, p, q0 = off, i, j
				}
			}
		}
		if maxOff < tol || maxOff == 0 {
			break
		}

		app, aqq, apq = data[p*n+p], data[q0*n+q0], data[p*n+q0]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q0 {
				continue
			}
			aip, aiq = data[i*n+p], data[i*n+q0]
			data[i*n+p], data[p*n+i] = c*aip-s*aiq, c*aip-s*aiq
			data[i*n+q0], data[q0*n+i] = s*aip+c*aiq, s*aip+c*aiq
		}
		data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		data[q0*n+q0] = s*s*app + 2*c*s*apq + c*c*aqq
		data[p*n+q0], data[q0*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip, qiq = qd[i*n+p], qd[i*n+q0]
			qd[i*n+p] = c*qip - s*qiq
			qd[i*n+q0] = s*qip + c*qiq
		}
	}

	maxOff = 0
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			maxOff = math.Max(maxOff, math.Abs(data[i*n+j]))
		}
	}
	if maxOff > 0 && maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = data[i*n+i]
	}

	return eigs, q, nil
}
