// SPDX-License-Identifier: MIT

package markowitz

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/meanvar/matrix"
)

// ProblemFromReturns builds a Problem from a table of historical returns
// (one row per period, one column per security). Means are the column
// averages and the covariance is the sample covariance (denominator T−1).
// Constraints are left empty; callers usually append Budget(n).
//
// Errors: ErrDimensionMismatch (fewer than two periods, ragged rows),
// ErrNaNInf.
func ProblemFromReturns(returns [][]float64, lower, upper []float64) (Problem, error) {
	if len(returns) < 2 {
		return Problem{}, markowitzErrorf(opReturns, fmt.Errorf("%d periods: %w", len(returns), ErrDimensionMismatch))
	}
	x, err := matrix.NewFromRows(returns)
	if err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return Problem{}, markowitzErrorf(opReturns, fmt.Errorf("%w: %w", ErrNaNInf, err))
		}

		return Problem{}, markowitzErrorf(opReturns, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
	}
	cov, means, err := matrix.Covariance(x)
	if err != nil {
		return Problem{}, markowitzErrorf(opReturns, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
	}

	return Problem{
		Means:      means,
		Covariance: cov.ToRows(),
		Lower:      lower,
		Upper:      upper,
	}, nil
}
