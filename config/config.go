// SPDX-License-Identifier: MIT
// Package config loads mean-variance problem files written in YAML.
//
// A problem file lists the securities (label, expected return, bounds), the
// covariance either directly or as a table of historical returns, optional
// extra constraint rows and solver settings:
//
//	securities:
//	  - {label: bonds,  mean: 0.03, upper: 0.6}
//	  - {label: stocks, mean: 0.08}
//	covariance:
//	  - [0.0016, 0.0006]
//	  - [0.0006, 0.0225]
//	constraints:
//	  - {lhs: [0, 1], rhs: 0.2, type: ">="}
//	solver:
//	  epsilon: 1e-10
//	  max_corners: 50
//
// The fully-invested row Σw = 1 is added unless budget is set to false.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/meanvar/markowitz"
)

// Sentinel errors for malformed problem files.
var (
	// ErrNoSecurities indicates an empty securities list.
	ErrNoSecurities = errors.New("config: no securities")

	// ErrCovarianceSource indicates that neither or both of covariance and
	// returns were given.
	ErrCovarianceSource = errors.New("config: exactly one of covariance or returns is required")

	// ErrMissingMean indicates a security without a mean when the covariance
	// is given directly.
	ErrMissingMean = errors.New("config: security mean is required")

	// ErrBadSolver indicates a solver setting outside its valid range.
	ErrBadSolver = errors.New("config: invalid solver setting")
)

// File is the on-disk problem description.
type File struct {
	Securities  []Security   `yaml:"securities"`
	Covariance  [][]float64  `yaml:"covariance,omitempty"`
	Returns     [][]float64  `yaml:"returns,omitempty"`
	Budget      *bool        `yaml:"budget,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
	Solver      Solver       `yaml:"solver"`
}

// Security is one asset. Mean is ignored when returns are given. A missing
// upper bound means unbounded.
type Security struct {
	Label string   `yaml:"label"`
	Mean  *float64 `yaml:"mean,omitempty"`
	Lower float64  `yaml:"lower"`
	Upper *float64 `yaml:"upper,omitempty"`
}

// Constraint is one extra linear row; Type is "=", "<=" or ">=".
type Constraint struct {
	LHS  []float64 `yaml:"lhs"`
	RHS  float64   `yaml:"rhs"`
	Type string    `yaml:"type"`
}

// Solver holds optional overrides of the markowitz defaults.
type Solver struct {
	Epsilon           *float64 `yaml:"epsilon,omitempty"`
	MaxCorners        *int     `yaml:"max_corners,omitempty"`
	EndLambda         *float64 `yaml:"end_lambda,omitempty"`
	DegenerateRetry   *bool    `yaml:"degenerate_retry,omitempty"`
	PSDCheck          *bool    `yaml:"psd_check,omitempty"`
	SymmetryTolerance *float64 `yaml:"symmetry_tolerance,omitempty"`
}

// Load reads and decodes the problem file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Decode parses a problem document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal problem: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks the structural rules that the solver cannot see: a
// non-empty securities list, a single covariance source and means present
// when needed. Shape and numeric checks are left to markowitz.
func (f *File) Validate() error {
	if len(f.Securities) == 0 {
		return ErrNoSecurities
	}
	if (len(f.Covariance) == 0) == (len(f.Returns) == 0) {
		return ErrCovarianceSource
	}
	if len(f.Returns) == 0 {
		for i, s := range f.Securities {
			if s.Mean == nil {
				return fmt.Errorf("security %d (%q): %w", i, s.Label, ErrMissingMean)
			}
		}
	}
	for i, c := range f.Constraints {
		if _, err := markowitz.ParseConstraintType(c.Type); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
	}

	return f.Solver.validate()
}

// validate mirrors the ranges the markowitz option constructors panic on.
func (s Solver) validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case s.Epsilon != nil && (!finite(*s.Epsilon) || *s.Epsilon <= 0):
		return fmt.Errorf("epsilon %g: %w", *s.Epsilon, ErrBadSolver)
	case s.MaxCorners != nil && *s.MaxCorners <= 0:
		return fmt.Errorf("max_corners %d: %w", *s.MaxCorners, ErrBadSolver)
	case s.EndLambda != nil && (!finite(*s.EndLambda) || *s.EndLambda < 0):
		return fmt.Errorf("end_lambda %g: %w", *s.EndLambda, ErrBadSolver)
	case s.SymmetryTolerance != nil && (!finite(*s.SymmetryTolerance) || *s.SymmetryTolerance < 0):
		return fmt.Errorf("symmetry_tolerance %g: %w", *s.SymmetryTolerance, ErrBadSolver)
	}

	return nil
}

// Labels returns the security labels in file order.
func (f *File) Labels() []string {
	labels := make([]string, len(f.Securities))
	for i, s := range f.Securities {
		labels[i] = s.Label
	}

	return labels
}

// Problem converts the file into a markowitz.Problem.
//
// Errors: the markowitz input errors raised while estimating the covariance
// from returns, ErrBadConstraintType for an unknown relation.
func (f *File) Problem() (markowitz.Problem, error) {
	n := len(f.Securities)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, s := range f.Securities {
		lower[i] = s.Lower
		upper[i] = math.Inf(1)
		if s.Upper != nil {
			upper[i] = *s.Upper
		}
	}

	var p markowitz.Problem
	if len(f.Returns) > 0 {
		var err error
		if p, err = markowitz.ProblemFromReturns(f.Returns, lower, upper); err != nil {
			return markowitz.Problem{}, fmt.Errorf("failed to estimate covariance: %w", err)
		}
	} else {
		p = markowitz.Problem{
			Means:      make([]float64, n),
			Covariance: f.Covariance,
			Lower:      lower,
			Upper:      upper,
		}
		for i, s := range f.Securities {
			p.Means[i] = *s.Mean
		}
	}
	p.Labels = f.Labels()

	cs, err := f.constraints(n)
	if err != nil {
		return markowitz.Problem{}, err
	}
	p.Constraints = cs

	return p, nil
}

// LinearProgram converts the file into a linear program whose objective is
// the vector of security means. The covariance is not used.
func (f *File) LinearProgram() (markowitz.LinearProgram, error) {
	p, err := f.Problem()
	if err != nil {
		return markowitz.LinearProgram{}, err
	}

	return markowitz.LinearProgram{
		Objective:   p.Means,
		Constraints: p.Constraints,
		Lower:       p.Lower,
		Upper:       p.Upper,
	}, nil
}

func (f *File) constraints(n int) ([]markowitz.Constraint, error) {
	var out []markowitz.Constraint
	if f.Budget == nil || *f.Budget {
		out = append(out, markowitz.Budget(n))
	}
	for i, c := range f.Constraints {
		t, err := markowitz.ParseConstraintType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		out = append(out, markowitz.Constraint{LHS: c.LHS, RHS: c.RHS, Type: t})
	}

	return out, nil
}

// Options returns the solver overrides as markowitz options. Unset fields
// keep the package defaults. Call it on a validated File: the option
// constructors panic on out-of-range values.
func (f *File) Options() []markowitz.Option {
	s := f.Solver
	var opts []markowitz.Option
	if s.Epsilon != nil {
		opts = append(opts, markowitz.WithEpsilon(*s.Epsilon))
	}
	if s.MaxCorners != nil {
		opts = append(opts, markowitz.WithMaxCorners(*s.MaxCorners))
	}
	if s.EndLambda != nil {
		opts = append(opts, markowitz.WithEndLambda(*s.EndLambda))
	}
	if s.DegenerateRetry != nil {
		opts = append(opts, markowitz.WithDegenerateRetry(*s.DegenerateRetry))
	}
	if s.PSDCheck != nil {
		opts = append(opts, markowitz.WithPSDCheck(*s.PSDCheck))
	}
	if s.SymmetryTolerance != nil {
		opts = append(opts, markowitz.WithSymmetryTolerance(*s.SymmetryTolerance))
	}

	return opts
}
