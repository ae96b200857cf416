// SPDX-License-Identifier: MIT
// Package markowitz: bounded two-phase primal Simplex.
//
// Purpose:
//   - Find the feasible portfolio of maximum expected return (λ → ∞ end of
//     the frontier), which seeds the critical line stage with a valid IN/OUT
//     partition and basis inverse.
//
// Implementation:
//   - Phase 1 starts every ordinary variable OUT at its lower bound and puts
//     one artificial column per constraint row IN, signed so the artificial
//     value |residual| is non-negative. The objective is −Σ artificial.
//   - Each pivot prices the basis (π = c_B·Ai), picks the OUT variable with
//     the largest profit (ties: the last scanned wins), runs a bounded ratio
//     test (strict <, ties prefer an artificial leaver) and updates the
//     positional inverse with a Gauss–Jordan pivot plus a row permutation.
//   - Phase 2 reruns the loop with the expected returns as objective and then
//     nudges the working mean of every OUT variable with zero reduced profit
//     away from its bound so the optimum is unique.
//
// Complexity:
//   - O(m·cols + m²) per pivot.

package markowitz

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/meanvar/matrix"
)

// Status is the terminal outcome of the Simplex stage.
type Status int

const (
	// StatusOK the LP optimum was reached.
	StatusOK Status = iota
	// StatusInfeasible an artificial variable stayed positive after Phase 1.
	StatusInfeasible
	// StatusUnbounded a ratio test found no binding variable.
	StatusUnbounded
	// StatusDegenerate Phase 1 ended with zero-valued artificials and retry
	// was disabled, or the pivot budget ran out.
	StatusDegenerate
)

var statusNames = [...]string{
	StatusOK:         "ok",
	StatusInfeasible: "infeasible",
	StatusUnbounded:  "unbounded",
	StatusDegenerate: "degenerate",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}

	return statusNames[s]
}

// Err maps a failing status to its sentinel error; StatusOK maps to nil.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusInfeasible:
		return ErrInfeasible
	case StatusUnbounded:
		return ErrUnbounded
	default:
		return ErrDegenerate
	}
}

const (
	// meanNudge is added to (or removed from) the working mean of OUT
	// variables tied at the LP optimum.
	meanNudge = 1e-6

	// pivotBudgetFactor bounds the number of pivots per phase as a multiple
	// of the column count; running out is reported as degeneracy (cycling).
	pivotBudgetFactor = 50
)

// simplexSolver runs both phases over a shared problemData/solverState.
type simplexSolver struct {
	pd *problemData
	st *solverState

	obj  []float64 // current phase objective, len cols
	pi   []float64 // simplex multipliers, len m
	col  []float64 // scratch column of the constraint matrix, len m
	y    []float64 // Ai·col, len m
	rate []float64 // per-basic rate of change, len m

	live   int // artificial columns still IN during Phase 1
	pivots int
	log    zerolog.Logger
}

// newSimplex binds a solver to pd and st.
func newSimplex(pd *problemData, st *solverState) *simplexSolver {
	return &simplexSolver{
		pd:   pd,
		st:   st,
		obj:  make([]float64, pd.cols),
		pi:   make([]float64, pd.m),
		col:  make([]float64, pd.m),
		y:    make([]float64, pd.m),
		rate: make([]float64, pd.m),
		log:  pd.opts.logger,
	}
}

// solve runs Phase 1 and Phase 2.
func (s *simplexSolver) solve() Status {
	if status := s.phase1(); status != StatusOK {
		return status
	}

	return s.phase2()
}

// phase1 drives the artificial basis out. With no constraint rows there is
// nothing to do: every variable already sits at a finite lower bound.
func (s *simplexSolver) phase1() Status {
	pd, st := s.pd, s.st
	if pd.m == 0 {
		return StatusOK
	}

	ai, err := matrix.NewDense(pd.m, pd.m)
	if err != nil {
		return StatusDegenerate
	}
	base := pd.total
	for k := 0; k < pd.m; k++ {
		row := pd.lhs.Row(k)
		r := pd.rhs[k]
		for j := 0; j < base; j++ {
			r -= row[j] * st.x[j]
		}
		sign := 1.0
		if r < 0 {
			sign = -1
		}
		a := base + k
		row[a] = sign
		ai.Row(k)[k] = sign
		pd.lower[a], pd.upper[a] = 0, Unbounded
		st.addInVar(a)
		st.x[a] = math.Abs(r)
		s.obj[a] = -1
	}
	st.ai = ai
	s.live = pd.m

	status := s.iterate(true)
	s.log.Debug().
		Int("pivots", s.pivots).
		Int("artificial", s.live).
		Stringer("status", status).
		Msg("simplex phase 1 finished")
	if status != StatusOK {
		return status
	}
	if s.live == 0 {
		return StatusOK
	}

	for i := 0; i < st.in.Len(); i++ {
		if j := st.in.At(i); pd.isArtificial(j) && st.x[j] > pd.opts.eps {
			return StatusInfeasible
		}
	}
	if !pd.opts.degenerateRetry {
		return StatusDegenerate
	}

	// Keep the stuck artificials as ordinary variables capped near zero.
	for j := base; j < pd.cols; j++ {
		if st.isIn(j) {
			st.x[j] = math.Max(0, math.Min(st.x[j], pd.opts.eps))
		}
	}
	pd.promoteArtificial()
	for j := base; j < pd.cols; j++ {
		if !st.isIn(j) {
			st.addOutVar(j, statusLow, pd)
		}
	}
	s.log.Debug().Int("promoted", pd.m).Msg("degenerate phase 1, artificial columns promoted")

	return StatusOK
}

// phase2 maximizes the expected return from the feasible basis, then breaks
// ties among OUT variables in the working mean.
func (s *simplexSolver) phase2() Status {
	pd, st := s.pd, s.st
	for j := range s.obj {
		s.obj[j] = 0
	}
	copy(s.obj[:pd.total], pd.mean[:pd.total])

	s.pivots = 0
	status := s.iterate(false)
	s.log.Debug().Int("pivots", s.pivots).Stringer("status", status).Msg("simplex phase 2 finished")
	if status != StatusOK {
		return status
	}

	s.prices()
	for p := 0; p < st.out.Len(); p++ {
		j := st.out.At(p)
		if math.Abs(s.reducedProfit(j)) >= pd.opts.eps {
			continue
		}
		if st.isUp(j) {
			pd.work[j] += meanNudge
		} else {
			pd.work[j] -= meanNudge
		}
	}

	return StatusOK
}

// iterate pivots until optimality, unboundedness, the pivot budget, or (in
// Phase 1) the last artificial leaving.
func (s *simplexSolver) iterate(phase1 bool) Status {
	pd, st := s.pd, s.st
	eps := pd.opts.eps
	budget := pivotBudgetFactor * (pd.cols + 1)

	for {
		if phase1 && s.live == 0 {
			return StatusOK
		}
		if s.pivots >= budget {
			return StatusDegenerate
		}
		s.prices()

		enter, dir := s.entering()
		if enter < 0 {
			return StatusOK
		}

		// y = Ai·A_enter; basics move at rate −dir·y per unit step.
		if pd.m > 0 {
			pd.column(enter, s.col)
			y, err := matrix.MatVec(st.ai, s.col)
			if err != nil {
				return StatusDegenerate
			}
			copy(s.y, y)
			for i, v := range y {
				s.rate[i] = -dir * v
			}
		}

		leave, pos, side, step := s.ratioTest(enter)
		if math.IsInf(step, 1) {
			return StatusUnbounded
		}
		s.pivots++

		for i := 0; i < st.in.Len(); i++ {
			b := st.in.At(i)
			st.x[b] += step * s.rate[i]
		}
		if leave == enter {
			// Bound flip: the entering variable crosses its own range.
			st.out.Remove(enter)
			st.addOutVar(enter, side, pd)
			continue
		}

		st.x[enter] += dir * step
		if err := matrix.PivotInPlace(st.ai, pos, s.y, eps); err != nil {
			return StatusDegenerate
		}
		old := st.in.Members()
		if pd.isArtificial(leave) {
			st.drop(leave)
			s.live--
		} else {
			st.goOut(leave, side, pd)
		}
		st.goIn(enter)
		if err := s.realign(old, enter, pos); err != nil {
			return StatusDegenerate
		}
	}
}

// prices computes π = c_B·Ai.
func (s *simplexSolver) prices() {
	st := s.st
	for k := range s.pi {
		s.pi[k] = 0
	}
	for i := 0; i < st.in.Len(); i++ {
		c := s.obj[st.in.At(i)]
		if c == 0 {
			continue
		}
		row := st.ai.Row(i)
		for k, v := range row {
			s.pi[k] += c * v
		}
	}
}

// reducedProfit returns obj_j − π·A_j.
func (s *simplexSolver) reducedProfit(j int) float64 {
	d := s.obj[j]
	for k := 0; k < s.pd.m; k++ {
		d -= s.pi[k] * s.pd.lhs.Row(k)[j]
	}

	return d
}

// entering selects the OUT variable with the largest profit and returns it
// with its direction (+1 up from LOW, −1 down from HIGH), or -1 at optimum.
func (s *simplexSolver) entering() (int, float64) {
	pd, st := s.pd, s.st
	best, enter, dir := pd.opts.eps, -1, 0.0
	for p := 0; p < st.out.Len(); p++ {
		j := st.out.At(p)
		if pd.upper[j]-pd.lower[j] <= pd.opts.eps {
			continue // fixed
		}
		d := s.reducedProfit(j)
		sign := 1.0
		if st.isUp(j) {
			sign = -1
		}
		if profit := sign * d; profit >= best {
			best, enter, dir = profit, j, sign
		}
	}

	return enter, dir
}

// ratioTest finds the first variable to hit a bound as the entering one
// moves. leave == enter signals a bound flip; pos is the basis position of
// the leaver otherwise.
func (s *simplexSolver) ratioTest(enter int) (leave, pos int, side varStatus, step float64) {
	pd, st := s.pd, s.st
	eps := pd.opts.eps

	leave, pos, step = -1, -1, math.Inf(1)
	if pd.hasUpper(enter) {
		leave, step = enter, pd.upper[enter]-pd.lower[enter]
		side = statusHigh
		if st.isUp(enter) {
			side = statusLow
		}
	}

	for i := 0; i < st.in.Len(); i++ {
		b, r := st.in.At(i), s.rate[i]
		var (
			t  float64
			sd varStatus
		)
		switch {
		case r < -eps:
			t, sd = (st.x[b]-pd.lower[b])/(-r), statusLow
		case r > eps && pd.hasUpper(b):
			t, sd = (pd.upper[b]-st.x[b])/r, statusHigh
		default:
			continue
		}
		if t < 0 {
			t = 0
		}
		preferArtificial := t == step && pd.isArtificial(b) && (leave < 0 || !pd.isArtificial(leave))
		if t < step || preferArtificial {
			leave, pos, side, step = b, i, sd, t
		}
	}

	return leave, pos, side, step
}

// realign permutes the inverse rows so row i again belongs to in.At(i).
// After the pivot the entering variable's row sits at position pos.
func (s *simplexSolver) realign(old []int, enter, pos int) error {
	st := s.st
	order := make([]int, st.in.Len())
	for q := range order {
		v := st.in.At(q)
		if v == enter {
			order[q] = pos
			continue
		}
		order[q] = sort.SearchInts(old, v)
	}

	return matrix.PermuteRows(st.ai, order)
}
