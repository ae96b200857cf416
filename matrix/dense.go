// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
// Purpose:
//   - Provide a compact, cache-friendly container for covariance matrices,
//     constraint tableaux and basis inverses.
//   - Offer bounds-checked At/Set for public callers and a shared-storage Row
//     view for the solver's inner loops.
//
// Complexity quicksheet:
//   - NewDense/NewFromRows: O(r*c).
//   - At/Set/Row: O(1).
//   - Clone/Induced: O(r*c) / O(|rows|*|cols|).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt     = "At"
	ctxSet    = "Set"
	ctxRow    = "Row"
	ctxInduce = "Induced"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
type Dense struct {
	r, c int       // row and column counts
	data []float64 // contiguous row-major storage (len == r*c)
}

var _ fmt.Stringer = (*Dense)(nil)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Implementation:
//   - Stage 1: Validate r>0 and c>0.
//   - Stage 2: Allocate a single flat buffer.
//
// Errors:
//   - ErrBadShape if r<=0 or c<=0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, denseErrorf("New", rows, cols, ErrBadShape)
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewIdentity returns the n×n identity matrix.
// Complexity: O(n²).
func NewIdentity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

// NewFromRows copies a rectangular [][]float64 literal into a fresh Dense.
//
// Implementation:
//   - Stage 1: Validate that at least one non-empty row exists and that every
//     row has the same length as the first.
//   - Stage 2: Reject NaN/±Inf entries (finite-value policy for solver inputs).
//   - Stage 3: Copy row by row into the flat buffer.
//
// Errors:
//   - ErrBadShape for empty or ragged input.
//   - ErrNaNInf for non-finite entries.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, denseErrorf("NewFromRows", len(rows), 0, ErrBadShape)
	}
	r, c := len(rows), len(rows[0])
	m := &Dense{r: r, c: c, data: make([]float64, r*c)}
	for i, row := range rows {
		if len(row) != c {
			return nil, denseErrorf("NewFromRows", i, len(row), ErrBadShape)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf("NewFromRows", i, j, ErrNaNInf)
			}
		}
		copy(m.data[i*c:(i+1)*c], row)
	}

	return m, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf validates (row, col) and returns the flat offset.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set stores v at (row, col).
// Errors: ErrOutOfRange for bad indices, ErrNaNInf for non-finite v.
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Row returns row i as a slice that SHARES storage with m.
// Writes through the slice mutate the matrix; the solver relies on this to
// run its rank-one updates without per-element bounds checks.
// Panics if i is out of range (programmer error on a hot path).
func (m *Dense) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		panic(denseErrorf(ctxRow, i, 0, ErrOutOfRange))
	}

	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// Clone returns a deep copy (new buffer).
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Dense{r: m.r, c: m.c, data: data}
}

// ToRows copies the matrix into a freshly allocated [][]float64.
func (m *Dense) ToRows() [][]float64 {
	out := make([][]float64, m.r)
	for i := range out {
		out[i] = make([]float64, m.c)
		copy(out[i], m.data[i*m.c:(i+1)*m.c])
	}

	return out
}

// String provides a readable row-wise dump for diagnostics.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}

// Induced materializes a copy submatrix using explicit index sets.
//
// Implementation:
//   - Stage 1: Validate every index in rowsIdx/colsIdx.
//   - Stage 2: Copy m[rowsIdx[i], colsIdx[j]] into out[i, j].
//
// Behavior highlights:
//   - Index order is preserved, so callers can extract blocks aligned with an
//     ordered active set (e.g. the covariance block of the basic variables).
//
// Errors:
//   - ErrOutOfRange for any bad index, ErrBadShape for empty index sets.
//
// Complexity:
//   - Time O(|rowsIdx|*|colsIdx|), Space the same.
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	out, err := NewDense(len(rowsIdx), len(colsIdx))
	if err != nil {
		return nil, denseErrorf(ctxInduce, len(rowsIdx), len(colsIdx), err)
	}
	for i, ri := range rowsIdx {
		if ri < 0 || ri >= m.r {
			return nil, denseErrorf(ctxInduce, ri, 0, ErrOutOfRange)
		}
		for j, cj := range colsIdx {
			if cj < 0 || cj >= m.c {
				return nil, denseErrorf(ctxInduce, ri, cj, ErrOutOfRange)
			}
			out.data[i*out.c+j] = m.data[ri*m.c+cj]
		}
	}

	return out, nil
}
