// SPDX-License-Identifier: MIT

package matrix

import "math"

// PivotInPlace applies a Gauss–Jordan pivot to a basis inverse.
//
// Given inv = B⁻¹ and y = B⁻¹·a (the entering column expressed in the current
// basis), the basis obtained by replacing the p-th column of B with a has
// the inverse
//
//	row p  ← row p / y[p]
//	row i  ← row i − y[i]·(new row p)   for i ≠ p
//
// which is a rank-one update costing O(m²) instead of an O(m³) refactorization.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square inv, len(y) != m),
//     ErrOutOfRange (bad p), ErrSingular when |y[p]| ≤ eps.
//
// Complexity:
//   - Time O(m²), Space O(1).
func PivotInPlace(inv *Dense, p int, y []float64, eps float64) error {
	if err := ValidateSquare(inv); err != nil {
		return matrixErrorf(opPivot, err)
	}
	if err := ValidateVecLen(y, inv.r); err != nil {
		return matrixErrorf(opPivot, err)
	}
	if p < 0 || p >= inv.r {
		return matrixErrorf(opPivot, ErrOutOfRange)
	}
	pivot := y[p]
	if math.Abs(pivot) <= eps {
		return matrixErrorf(opPivot, ErrSingular)
	}

	m := inv.c
	rowP := inv.data[p*m : (p+1)*m]
	var i, j int
	for j = 0; j < m; j++ {
		rowP[j] /= pivot
	}
	for i = 0; i < inv.r; i++ {
		if i == p || y[i] == 0 {
			continue
		}
		f := y[i]
		row := inv.data[i*m : (i+1)*m]
		for j = 0; j < m; j++ {
			row[j] -= f * rowP[j]
		}
	}

	return nil
}

// PermuteRows reorders the rows of m in place so that new row i is old row
// order[i]. order must be a permutation of 0..Rows()-1.
//
// The optimizer calls it after every basis swap: the inverse rows must stay
// aligned with the positional order of the active set.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(order) != Rows()),
//     ErrOutOfRange (order is not a permutation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) scratch.
func PermuteRows(m *Dense, order []int) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opPermute, err)
	}
	if len(order) != m.r {
		return matrixErrorf(opPermute, ErrDimensionMismatch)
	}
	seen := make([]bool, m.r)
	identity := true
	for i, src := range order {
		if src < 0 || src >= m.r || seen[src] {
			return matrixErrorf(opPermute, ErrOutOfRange)
		}
		seen[src] = true
		if src != i {
			identity = false
		}
	}
	if identity {
		return nil
	}

	src := make([]float64, len(m.data))
	copy(src, m.data)
	for i, from := range order {
		copy(m.data[i*m.c:(i+1)*m.c], src[from*m.c:(from+1)*m.c])
	}

	return nil
}
