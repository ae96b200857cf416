// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanvar/markowitz"
)

var errSelector = errors.New("exactly one of --target-mean or --low is required")

func interpolateCmd(g *globalFlags) *cobra.Command {
	var (
		targetMean float64
		low        int
		factor     float64
	)
	cmd := &cobra.Command{
		Use:   "interpolate FILE",
		Short: "Blend two adjacent frontier corners",
		Long: "Print the frontier portfolio between corners low and low+1, either\n" +
			"at an explicit blend factor (--low, --factor) or at the factor that\n" +
			"reaches a target expected return (--target-mean).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byTarget, byIndex := cmd.Flags().Changed("target-mean"), cmd.Flags().Changed("low")
			if byTarget == byIndex {
				return errSelector
			}

			_, p, frontier, err := loadFrontier(args[0])
			if err != nil {
				return err
			}

			lo, hi := low, low+1
			if byTarget {
				if lo, hi, factor, err = markowitz.Bracket(frontier, targetMean); err != nil {
					return err
				}
			}
			ip, err := markowitz.Interpolate(frontier, p.Covariance, factor, lo, hi)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "corners %d-%d factor %s\n", ip.LowIndex, ip.HighIndex, fixed(factor, g.precision))
			fmt.Fprintf(out, "lambda %s mean %s variance %s\n",
				fixed(ip.Lambda(), g.precision), fixed(ip.Mean(), g.precision), fixed(ip.Variance(), g.precision))

			return weightsTable(out, ip.Labels(), ip.Weights(), g.precision)
		},
	}
	cmd.Flags().Float64Var(&targetMean, "target-mean", 0, "expected return to reach")
	cmd.Flags().IntVar(&low, "low", 0, "index of the higher-return corner")
	cmd.Flags().Float64Var(&factor, "factor", 0.5, "weight of corner low in the blend, in [0,1]")

	return cmd
}
