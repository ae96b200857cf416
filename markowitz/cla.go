// SPDX-License-Identifier: MIT
// Package markowitz: the Critical Line Algorithm.
//
// Purpose:
//   - Walk the efficient frontier from the LP optimum (λ = +∞) down towards
//     the minimum-variance portfolio (λ = 0), one breakpoint per iteration.
//
// Model:
//
//	minimize ½·xᵀCx − λ·μᵀx   subject to   A·x = b,  lower ≤ x ≤ upper
//
// Between two breakpoints the IN variables and the constraint multipliers
// solve the KKT system M_I·z = b̄ + λ·μ_I with M = [[C, Aᵀ], [A, 0]], so
// z(λ) = α + β·λ with α = Mi·b̄ and β = Mi·μ. A breakpoint happens when an
// IN variable reaches a bound (λOut) or an OUT variable's gradient changes
// sign (λIn); the larger of the two (but never above the current λ) wins.
//
// Storage:
//   - Mi is a (total+m)² matrix indexed by global index (variables first,
//     then constraint rows). Only the IN ∪ constraint block is meaningful;
//     every other row and column is kept at zero.
//   - Adding or removing one variable updates Mi with a bordered rank-one
//     step in O(K²) instead of refactoring the KKT system.

package markowitz

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/meanvar/matrix"
)

// criticalLines owns the incremental KKT inverse and the per-segment
// coefficients of one solve.
type criticalLines struct {
	pd *problemData
	st *solverState

	size int           // total + m
	mi   *matrix.Dense // inverse of the active KKT block, global indices

	bbar  []float64 // right-hand side with OUT variables folded in
	alpha []float64 // z(λ) intercept; bound value for OUT variables
	beta  []float64 // z(λ) slope; zero for OUT variables
	tmp   []float64 // scratch, len size
	rows  []int     // scratch: IN variables then constraint rows

	// Pending event chosen by the last iteration.
	lambdaIn, lambdaOut float64
	inVar, outVar       int
	outSide             varStatus

	// Variables touched by the last applied event; each is excluded from the
	// matching scan of the next iteration only.
	lastAdded   int
	addedFrom   varStatus
	lastDeleted int

	log zerolog.Logger
}

// newCriticalLines builds the KKT inverse for the Simplex optimum.
//
// With B the basis in positional order and Ai = A_B⁻¹, the active KKT
// block [[C_BB, A_Bᵀ], [A_B, 0]] has the closed-form inverse
//
//	[[0, Ai], [Aiᵀ, −Aiᵀ·C_BB·Ai]]
//
// so no factorization is needed.
func newCriticalLines(pd *problemData, st *solverState) (*criticalLines, error) {
	if err := pd.augment(); err != nil {
		return nil, markowitzErrorf(opCritical, err)
	}
	size := pd.total + pd.m
	mi, err := matrix.NewDense(size, size)
	if err != nil {
		return nil, markowitzErrorf(opCritical, err)
	}
	cl := &criticalLines{
		pd:          pd,
		st:          st,
		size:        size,
		mi:          mi,
		bbar:        make([]float64, size),
		alpha:       make([]float64, size),
		beta:        make([]float64, size),
		tmp:         make([]float64, size),
		rows:        make([]int, 0, size),
		lastAdded:   -1,
		lastDeleted: -1,
		log:         pd.opts.logger,
	}

	if pd.m > 0 {
		basis := st.in.Members()
		if len(basis) != pd.m {
			return nil, markowitzErrorf(opCritical, fmt.Errorf("basis size %d for %d rows: %w", len(basis), pd.m, ErrDegenerate))
		}
		if err = cl.seedInverse(basis); err != nil {
			return nil, markowitzErrorf(opCritical, err)
		}
	}
	cl.resetBBar()
	st.lambda = math.Inf(1)

	return cl, nil
}

// seedInverse fills Mi from the Simplex basis inverse.
func (cl *criticalLines) seedInverse(basis []int) error {
	pd, st := cl.pd, cl.st
	ai := st.ai
	for i, b := range basis {
		src := ai.Row(i)
		dst := cl.mi.Row(b)
		for k, v := range src {
			dst[pd.total+k] = v
			cl.mi.Row(pd.total + k)[b] = v
		}
	}

	cbb, err := pd.aug.Induced(basis, basis)
	if err != nil {
		return err
	}
	t, err := matrix.Mul(cbb, ai)
	if err != nil {
		return err
	}
	ait, err := matrix.Transpose(ai)
	if err != nil {
		return err
	}
	s, err := matrix.Mul(ait, t)
	if err != nil {
		return err
	}
	for k := 0; k < pd.m; k++ {
		src := s.Row(k)
		dst := cl.mi.Row(pd.total + k)
		for l, v := range src {
			dst[pd.total+l] = -v
		}
	}

	return nil
}

// activeRows lists the IN variables followed by the constraint rows.
func (cl *criticalLines) activeRows() []int {
	cl.rows = cl.rows[:0]
	for i := 0; i < cl.st.in.Len(); i++ {
		cl.rows = append(cl.rows, cl.st.in.At(i))
	}
	for k := 0; k < cl.pd.m; k++ {
		cl.rows = append(cl.rows, cl.pd.total+k)
	}

	return cl.rows
}

// resetBBar recomputes b̄ from scratch: rhs minus the OUT contributions.
func (cl *criticalLines) resetBBar() {
	pd, st := cl.pd, cl.st
	for i := range cl.bbar {
		cl.bbar[i] = 0
	}
	for _, r := range cl.activeRows() {
		v := 0.0
		if r >= pd.total {
			v = pd.rhs[r-pd.total]
		}
		row := pd.aug.Row(r)
		for p := 0; p < st.out.Len(); p++ {
			o := st.out.At(p)
			v -= row[o] * st.x[o]
		}
		cl.bbar[r] = v
	}
}

// iteration applies the pending event (from step 2 on), recomputes α and β,
// finds the next breakpoint λE and moves the state to the corner there.
func (cl *criticalLines) iteration(step int) error {
	pd, st := cl.pd, cl.st
	eps := pd.opts.eps

	if step > 1 {
		cl.lastAdded, cl.lastDeleted = -1, -1
		var err error
		if cl.outVar >= 0 && cl.lambdaOut >= cl.lambdaIn {
			err = cl.deleteVariable(cl.outVar, cl.outSide)
		} else if cl.inVar >= 0 {
			err = cl.addVariable(cl.inVar)
		}
		if err != nil {
			return markowitzErrorf(opCritical, err)
		}
	}

	cl.solveSegment()
	cl.scanOut()
	cl.scanIn()

	lambdaE := math.Max(math.Max(cl.lambdaIn, cl.lambdaOut), 0)
	if lambdaE > st.lambda {
		lambdaE = st.lambda
	}

	// Corner weights.
	for i := 0; i < st.in.Len(); i++ {
		j := st.in.At(i)
		st.x[j] = cl.alpha[j] + cl.beta[j]*lambdaE
	}

	// E is linear in λ, V quadratic: dV/dλ = 2λ·dEw/dλ on each segment,
	// where Ew uses the working (possibly nudged) mean.
	var slopeE, slopeW float64
	for i := 0; i < st.in.Len(); i++ {
		j := st.in.At(i)
		slopeE += pd.mean[j] * cl.beta[j]
		slopeW += pd.work[j] * cl.beta[j]
	}
	prev := st.lambda
	if step == 1 || math.Abs(slopeW) < eps {
		if err := cl.recompute(); err != nil {
			return markowitzErrorf(opCritical, err)
		}
	} else {
		st.mean += slopeE * (lambdaE - prev)
		st.variance += slopeW * (lambdaE*lambdaE - prev*prev)
	}
	st.lambda = lambdaE

	cl.log.Debug().
		Int("step", step).
		Float64("lambda", lambdaE).
		Float64("lambda_in", cl.lambdaIn).
		Float64("lambda_out", cl.lambdaOut).
		Int("in_var", cl.inVar).
		Int("out_var", cl.outVar).
		Float64("mean", st.mean).
		Float64("variance", st.variance).
		Msg("corner")

	return nil
}

// solveSegment sets α = Mi·b̄ and β = Mi·μ over the active block and pins
// OUT variables to their bound value.
func (cl *criticalLines) solveSegment() {
	pd, st := cl.pd, cl.st
	rows := cl.activeRows()
	for _, r := range rows {
		mr := cl.mi.Row(r)
		var a, b float64
		for _, c := range rows {
			if v := mr[c]; v != 0 {
				a += v * cl.bbar[c]
				b += v * pd.augMean[c]
			}
		}
		cl.alpha[r], cl.beta[r] = a, b
	}
	for p := 0; p < st.out.Len(); p++ {
		j := st.out.At(p)
		cl.alpha[j], cl.beta[j] = st.x[j], 0
	}
}

// scanOut finds the largest λ at which an IN variable reaches a bound.
func (cl *criticalLines) scanOut() {
	pd, st := cl.pd, cl.st
	eps := pd.opts.eps
	cl.lambdaOut, cl.outVar = math.Inf(-1), -1
	for i := 0; i < st.in.Len(); i++ {
		j := st.in.At(i)
		b := cl.beta[j]
		var (
			cand float64
			side varStatus
		)
		switch {
		case b > eps:
			if j == cl.lastAdded && cl.addedFrom == statusLow {
				continue
			}
			cand, side = (pd.lower[j]-cl.alpha[j])/b, statusLow
		case b < -eps && pd.hasUpper(j):
			if j == cl.lastAdded && cl.addedFrom == statusHigh {
				continue
			}
			cand, side = (pd.upper[j]-cl.alpha[j])/b, statusHigh
		default:
			continue
		}
		if cand >= cl.lambdaOut {
			cl.lambdaOut, cl.outVar, cl.outSide = cand, j, side
		}
	}
}

// scanIn finds the largest λ at which an OUT variable's gradient
// g_j(λ) = a_j + b_j·λ changes sign in the direction that frees it.
func (cl *criticalLines) scanIn() {
	pd, st := cl.pd, cl.st
	eps := pd.opts.eps
	cl.lambdaIn, cl.inVar = math.Inf(-1), -1
	for p := 0; p < st.out.Len(); p++ {
		j := st.out.At(p)
		if j == cl.lastDeleted || pd.upper[j]-pd.lower[j] <= eps {
			continue
		}
		row := pd.aug.Row(j)
		var a, b float64
		for c, v := range row {
			if v != 0 {
				a += v * cl.alpha[c]
				b += v * cl.beta[c]
			}
		}
		b -= pd.augMean[j]
		if (st.isLo(j) && b > eps) || (st.isUp(j) && b < -eps) {
			if cand := -a / b; cand >= cl.lambdaIn {
				cl.lambdaIn, cl.inVar = cand, j
			}
		}
	}
}

// addVariable moves OUT variable j onto the critical line.
//
// Bordered inverse: with u = M[K, j], v = Mi·u and s = M[j, j] − uᵀv,
//
//	Mi ← Mi + v·vᵀ/s,   Mi[K, j] = Mi[j, K] = −v/s,   Mi[j, j] = 1/s.
func (cl *criticalLines) addVariable(j int) error {
	pd, st := cl.pd, cl.st
	rows := cl.activeRows()
	colJ := pd.aug.Row(j) // symmetric: row j == column j

	v := cl.tmp
	for _, r := range rows {
		mr := cl.mi.Row(r)
		acc := 0.0
		for _, c := range rows {
			if u := colJ[c]; u != 0 {
				acc += mr[c] * u
			}
		}
		v[r] = acc
	}
	s := colJ[j]
	for _, r := range rows {
		s -= colJ[r] * v[r]
	}
	if math.Abs(s) <= pd.opts.eps {
		return fmt.Errorf("add variable %d: %w: %w", j, ErrDegenerate, matrix.ErrSingular)
	}

	for _, r := range rows {
		if v[r] == 0 {
			continue
		}
		mr := cl.mi.Row(r)
		f := v[r] / s
		for _, c := range rows {
			mr[c] += f * v[c]
		}
	}
	mj := cl.mi.Row(j)
	for _, r := range rows {
		w := -v[r] / s
		cl.mi.Row(r)[j] = w
		mj[r] = w
	}
	mj[j] = 1 / s

	xj := st.x[j]
	for _, r := range rows {
		cl.bbar[r] += colJ[r] * xj
	}
	cl.addedFrom = st.status[j]
	st.goIn(j)
	cl.lastAdded = j

	bj := 0.0
	for p := 0; p < st.out.Len(); p++ {
		o := st.out.At(p)
		bj -= colJ[o] * st.x[o]
	}
	cl.bbar[j] = bj

	return nil
}

// deleteVariable pins IN variable j at the given bound.
//
// Schur downdate: Mi[a, b] −= Mi[a, j]·Mi[j, b]/Mi[j, j], then row and
// column j are cleared.
func (cl *criticalLines) deleteVariable(j int, side varStatus) error {
	pd, st := cl.pd, cl.st
	rows := cl.activeRows()
	mj := cl.mi.Row(j)
	piv := mj[j]
	if math.Abs(piv) <= pd.opts.eps {
		return fmt.Errorf("delete variable %d: %w: %w", j, ErrDegenerate, matrix.ErrSingular)
	}

	pj := cl.tmp
	for _, c := range rows {
		pj[c] = mj[c]
	}
	for _, r := range rows {
		if r == j {
			continue
		}
		mr := cl.mi.Row(r)
		f := mr[j] / piv
		if f == 0 {
			continue
		}
		for _, c := range rows {
			if c != j {
				mr[c] -= f * pj[c]
			}
		}
	}
	for _, r := range rows {
		cl.mi.Row(r)[j] = 0
		mj[r] = 0
	}

	st.goOut(j, side, pd)
	value := st.x[j]
	colJ := pd.aug.Row(j)
	for _, r := range rows {
		if r != j {
			cl.bbar[r] -= colJ[r] * value
		}
	}
	cl.bbar[j] = 0
	cl.alpha[j], cl.beta[j] = value, 0
	cl.lastDeleted = j

	return nil
}

// recompute sets the corner's mean and variance from the weights directly.
func (cl *criticalLines) recompute() error {
	pd, st := cl.pd, cl.st
	w := st.x[:pd.n]
	st.mean = floats.Dot(pd.mean[:pd.n], w)
	v, err := matrix.QuadForm(pd.cov, w)
	if err != nil {
		return err
	}
	st.variance = v

	return nil
}
