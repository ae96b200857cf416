// SPDX-License-Identifier: MIT

package markowitz

import "github.com/katalvlaran/meanvar/matrix"

// varStatus tracks where a variable currently sits.
type varStatus int8

const (
	statusLow  varStatus = iota // OUT, pinned at its lower bound
	statusHigh                  // OUT, pinned at its upper bound
	statusIn                    // IN, free (basic / on the critical line)
)

// solverState is the mutable state shared by both solving stages.
//
// IN and OUT partition every live column: securities, slacks and, during
// Phase 1 (or after promotion), the artificial columns. The basis inverse
// ai is positional: its row i belongs to in.At(i).
type solverState struct {
	in, out *activeSet
	status  []varStatus // len cols
	x       []float64   // current value of every column

	ai *matrix.Dense // m×m basis inverse (nil when m == 0)

	lambda   float64 // λ of the last corner
	mean     float64 // E of the last corner (original means)
	variance float64 // V of the last corner
}

// newSolverState allocates state for pd with every ordinary variable OUT at
// its lower bound. Artificial columns are placed by the Simplex stage.
func newSolverState(pd *problemData) *solverState {
	st := &solverState{
		in:     newActiveSet(pd.cols),
		out:    newActiveSet(pd.cols),
		status: make([]varStatus, pd.cols),
		x:      make([]float64, pd.cols),
	}
	for j := 0; j < pd.total; j++ {
		st.addOutVar(j, statusLow, pd)
	}

	return st
}

// addInVar registers j as IN without touching OUT.
func (st *solverState) addInVar(j int) {
	st.in.Add(j)
	st.status[j] = statusIn
}

// addOutVar registers j as OUT at the given bound and snaps its value.
func (st *solverState) addOutVar(j int, side varStatus, pd *problemData) {
	st.out.Add(j)
	st.status[j] = side
	if side == statusHigh {
		st.x[j] = pd.upper[j]
	} else {
		st.x[j] = pd.lower[j]
	}
}

// goIn moves j from OUT to IN.
func (st *solverState) goIn(j int) {
	st.out.Remove(j)
	st.addInVar(j)
}

// goOut moves j from IN to OUT at the given bound.
func (st *solverState) goOut(j int, side varStatus, pd *problemData) {
	st.in.Remove(j)
	st.addOutVar(j, side, pd)
}

// drop removes j from IN without placing it anywhere; used for artificial
// columns leaving the Phase 1 basis for good.
func (st *solverState) drop(j int) {
	st.in.Remove(j)
	st.x[j] = 0
	st.status[j] = statusLow
}

// isIn reports whether j is IN.
func (st *solverState) isIn(j int) bool { return st.status[j] == statusIn }

// isLo reports whether j is OUT at its lower bound.
func (st *solverState) isLo(j int) bool { return st.status[j] == statusLow && st.out.Find(j) >= 0 }

// isUp reports whether j is OUT at its upper bound.
func (st *solverState) isUp(j int) bool { return st.status[j] == statusHigh }
