// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures for the kernels.
//   - Keep all data finite and well-formed.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meanvar/matrix"
)

// tolerance for floating-point comparisons in this package's tests.
const tol = 1e-12

// MustDense creates a zeroed r×c Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustRows builds a Dense from a literal or fails the test.
func MustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireRowsInDelta compares m against a literal elementwise.
func requireRowsInDelta(t *testing.T, want [][]float64, m *matrix.Dense, delta float64) {
	t.Helper()
	r, c := m.Shape()
	require.Equal(t, len(want), r)
	for i := 0; i < r; i++ {
		require.Equal(t, len(want[i]), c)
		for j := 0; j < c; j++ {
			require.InDeltaf(t, want[i][j], MustAt(t, m, i, j), delta, "element [%d,%d]", i, j)
		}
	}
}
