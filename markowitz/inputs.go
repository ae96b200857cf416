// SPDX-License-Identifier: MIT
// Package markowitz: problem inputs and their normalized solver form.
//
// Purpose:
//   - Accept a caller-facing Problem (means, covariance, bounds, constraints).
//   - Validate it fail-fast and normalize it into problemData: '>' rows are
//     flipped to '<', every '<' row gets a slack column, and room is reserved
//     for one artificial column per constraint row.
//
// Column layout of the normalized constraint matrix (m rows):
//
//	[0, n)             securities
//	[n, n+slacks)      slack variables, one per inequality row
//	[n+slacks, cols)   artificial columns used by Phase 1 (cols = n+slacks+m)
//
// total counts the columns currently treated as ordinary variables. It is
// n+slacks until a degenerate Phase 1 promotes the artificial columns, after
// which it equals cols.

package markowitz

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/meanvar/matrix"
)

// ConstraintType is the relation of a linear constraint row.
type ConstraintType byte

// Supported relations. The byte values match the conventional spellings.
const (
	Equal        ConstraintType = '='
	LessEqual    ConstraintType = '<'
	GreaterEqual ConstraintType = '>'
)

// Valid reports whether t is one of '=', '<', '>'.
func (t ConstraintType) Valid() bool {
	return t == Equal || t == LessEqual || t == GreaterEqual
}

// String implements fmt.Stringer.
func (t ConstraintType) String() string {
	switch t {
	case Equal:
		return "="
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	default:
		return fmt.Sprintf("ConstraintType(%d)", byte(t))
	}
}

// ParseConstraintType maps "=", "<", "<=", ">", ">=" to a ConstraintType.
func ParseConstraintType(s string) (ConstraintType, error) {
	switch s {
	case "=", "==":
		return Equal, nil
	case "<", "<=":
		return LessEqual, nil
	case ">", ">=":
		return GreaterEqual, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrBadConstraintType)
}

// Constraint is one linear row: LHS·w (Type) RHS.
type Constraint struct {
	LHS  []float64
	RHS  float64
	Type ConstraintType
}

// Budget returns the fully-invested constraint Σw = 1 over n securities.
func Budget(n int) Constraint {
	lhs := make([]float64, n)
	for i := range lhs {
		lhs[i] = 1
	}

	return Constraint{LHS: lhs, RHS: 1, Type: Equal}
}

// Problem is the caller-facing description of a mean-variance problem.
//
// Lower defaults to all zeros and Upper to Unbounded when nil. Any upper
// bound ≥ Unbounded (including +Inf) means "no upper bound". Lower bounds
// must be finite. Labels are optional and carried onto every Portfolio.
type Problem struct {
	Means       []float64
	Covariance  [][]float64
	Lower       []float64
	Upper       []float64
	Labels      []string
	Constraints []Constraint
}

// problemData is the validated, normalized problem owned by one solve.
type problemData struct {
	n, m   int // securities, constraint rows
	slacks int // slack columns
	total  int // columns treated as ordinary variables
	cols   int // n + slacks + m

	labels []string
	mean   []float64     // original expected returns, len cols (zero past n)
	work   []float64     // working objective for the critical line stage, len cols
	cov    *matrix.Dense // n×n securities covariance
	lhs    *matrix.Dense // m×cols normalized constraint matrix (nil when m == 0)
	rhs    []float64     // len m
	lower  []float64     // len cols
	upper  []float64     // len cols

	// Built by augment once the Simplex stage is done.
	aug     *matrix.Dense // (total+m)² KKT matrix [[C, Aᵀ], [A, 0]]
	augMean []float64     // len total+m, zero on constraint rows

	opts Options
}

// newProblemData validates p and builds its normalized form.
//
// Errors (wrapped with the NewProblem tag):
//   - ErrDimensionMismatch, ErrNaNInf, ErrAsymmetry, ErrNotPSD,
//     ErrBadBounds, ErrBadConstraintType.
func newProblemData(p Problem, o Options) (*problemData, error) {
	n := len(p.Means)
	if n == 0 {
		return nil, markowitzErrorf(opNewProblem, ErrDimensionMismatch)
	}
	if err := matrix.ValidateFinite(p.Means); err != nil {
		return nil, markowitzErrorf(opNewProblem, ErrNaNInf)
	}

	cov, err := buildCovariance(p.Covariance, n, o)
	if err != nil {
		return nil, markowitzErrorf(opNewProblem, err)
	}

	if p.Labels != nil && len(p.Labels) != n {
		return nil, markowitzErrorf(opNewProblem, fmt.Errorf("labels: %w", ErrDimensionMismatch))
	}

	// Constraint rows: validate, count slacks.
	m := len(p.Constraints)
	slacks := 0
	for k, c := range p.Constraints {
		if len(c.LHS) != n {
			return nil, markowitzErrorf(opNewProblem, fmt.Errorf("constraint %d: %w", k, ErrDimensionMismatch))
		}
		if matrix.ValidateFinite(c.LHS) != nil || math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return nil, markowitzErrorf(opNewProblem, fmt.Errorf("constraint %d: %w", k, ErrNaNInf))
		}
		if !c.Type.Valid() {
			return nil, markowitzErrorf(opNewProblem, fmt.Errorf("constraint %d: %w", k, ErrBadConstraintType))
		}
		if c.Type != Equal {
			slacks++
		}
	}

	cols := n + slacks + m
	pd := &problemData{
		n:      n,
		m:      m,
		slacks: slacks,
		total:  n + slacks,
		cols:   cols,
		mean:   make([]float64, cols),
		work:   make([]float64, cols),
		cov:    cov,
		rhs:    make([]float64, m),
		lower:  make([]float64, cols),
		upper:  make([]float64, cols),
		opts:   o,
	}
	if p.Labels != nil {
		pd.labels = append([]string(nil), p.Labels...)
	}
	copy(pd.mean, p.Means)
	copy(pd.work, p.Means)

	if err = pd.setBounds(p.Lower, p.Upper); err != nil {
		return nil, markowitzErrorf(opNewProblem, err)
	}
	if m > 0 {
		if err = pd.setConstraints(p.Constraints); err != nil {
			return nil, markowitzErrorf(opNewProblem, err)
		}
	}

	return pd, nil
}

// buildCovariance converts and validates the n×n covariance literal.
func buildCovariance(rows [][]float64, n int, o Options) (*matrix.Dense, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("covariance: %w", ErrDimensionMismatch)
	}
	cov, err := matrix.NewFromRows(rows)
	if err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return nil, fmt.Errorf("covariance: %w: %w", ErrNaNInf, err)
		}

		return nil, fmt.Errorf("covariance: %w: %w", ErrDimensionMismatch, err)
	}
	if cov.Cols() != n {
		return nil, fmt.Errorf("covariance: %w", ErrDimensionMismatch)
	}
	if err = matrix.ValidateSymmetric(cov, o.symTol); err != nil {
		return nil, fmt.Errorf("covariance: %w: %w", ErrAsymmetry, err)
	}
	if o.psdCheck {
		eigs, _, eerr := matrix.Eigen(cov, o.eps, psdMaxSweeps*n*n)
		if eerr != nil {
			return nil, fmt.Errorf("covariance: %w: %w", ErrNotPSD, eerr)
		}
		for _, ev := range eigs {
			if ev < -o.eps {
				return nil, fmt.Errorf("covariance: eigenvalue %g: %w", ev, ErrNotPSD)
			}
		}
	}

	return cov, nil
}

// psdMaxSweeps scales the Jacobi rotation budget (sweeps × n² rotations).
const psdMaxSweeps = 50

// setBounds fills security bounds and the default slack/artificial bounds.
func (pd *problemData) setBounds(lower, upper []float64) error {
	if lower != nil && len(lower) != pd.n {
		return fmt.Errorf("lower: %w", ErrDimensionMismatch)
	}
	if upper != nil && len(upper) != pd.n {
		return fmt.Errorf("upper: %w", ErrDimensionMismatch)
	}
	for j := 0; j < pd.cols; j++ {
		pd.upper[j] = Unbounded
	}
	for j := 0; j < pd.n; j++ {
		if lower != nil {
			lo := lower[j]
			if math.IsNaN(lo) {
				return fmt.Errorf("lower[%d]: %w", j, ErrNaNInf)
			}
			if math.IsInf(lo, 0) || lo <= -Unbounded {
				return fmt.Errorf("lower[%d] must be finite: %w", j, ErrBadBounds)
			}
			pd.lower[j] = lo
		}
		if upper != nil {
			up := upper[j]
			if math.IsNaN(up) {
				return fmt.Errorf("upper[%d]: %w", j, ErrNaNInf)
			}
			if up < Unbounded {
				pd.upper[j] = up
			}
		}
		if pd.lower[j] > pd.upper[j] {
			return fmt.Errorf("security %d: lower %g > upper %g: %w", j, pd.lower[j], pd.upper[j], ErrBadBounds)
		}
	}

	return nil
}

// setConstraints normalizes the rows into lhs/rhs with slack columns.
func (pd *problemData) setConstraints(cs []Constraint) error {
	lhs, err := matrix.NewDense(pd.m, pd.cols)
	if err != nil {
		return err
	}
	slack := pd.n
	for k, c := range cs {
		sign := 1.0
		if c.Type == GreaterEqual {
			sign = -1
		}
		row := lhs.Row(k)
		for j, v := range c.LHS {
			row[j] = sign * v
		}
		pd.rhs[k] = sign * c.RHS
		if c.Type != Equal {
			row[slack] = 1
			slack++
		}
	}
	pd.lhs = lhs

	return nil
}

// isArtificial reports whether column j is a (not yet promoted) artificial.
func (pd *problemData) isArtificial(j int) bool { return j >= pd.total }

// hasUpper reports whether variable j carries a finite upper bound.
func (pd *problemData) hasUpper(j int) bool { return pd.upper[j] < Unbounded }

// column copies column j of the constraint matrix into dst (len m).
func (pd *problemData) column(j int, dst []float64) {
	for k := 0; k < pd.m; k++ {
		dst[k] = pd.lhs.Row(k)[j]
	}
}

// promoteArtificial turns every artificial column into an ordinary variable
// bounded by [0, eps]. Used when Phase 1 ends degenerate and retry is on.
func (pd *problemData) promoteArtificial() {
	base := pd.n + pd.slacks
	for j := base; j < pd.cols; j++ {
		pd.lower[j] = 0
		pd.upper[j] = pd.opts.eps
		pd.mean[j] = 0
		pd.work[j] = 0
	}
	pd.total = pd.cols
}

// augment builds the (total+m)² KKT matrix and the matching objective
// vector used by the critical line stage. Constraint row k lives at index
// total+k.
func (pd *problemData) augment() error {
	size := pd.total + pd.m
	aug, err := matrix.NewDense(size, size)
	if err != nil {
		return err
	}
	for i := 0; i < pd.n; i++ {
		copy(aug.Row(i)[:pd.n], pd.cov.Row(i))
	}
	for k := 0; k < pd.m; k++ {
		src := pd.lhs.Row(k)
		con := aug.Row(pd.total + k)
		for j := 0; j < pd.total; j++ {
			if v := src[j]; v != 0 {
				con[j] = v
				aug.Row(j)[pd.total+k] = v
			}
		}
	}
	pd.aug = aug
	pd.augMean = make([]float64, size)
	copy(pd.augMean, pd.work[:pd.total])

	return nil
}
