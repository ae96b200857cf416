// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanvar/config"
	"github.com/katalvlaran/meanvar/markowitz"
)

// loadFrontier reads a problem file and traces its frontier.
func loadFrontier(path string) (*config.File, markowitz.Problem, []markowitz.Portfolio, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, markowitz.Problem{}, nil, err
	}
	p, err := f.Problem()
	if err != nil {
		return nil, markowitz.Problem{}, nil, err
	}
	opts := append(f.Options(), markowitz.WithLogger(solverLogger()))
	frontier, err := markowitz.Optimize(p, opts...)
	if err != nil {
		return nil, markowitz.Problem{}, nil, fmt.Errorf("failed to trace frontier: %w", err)
	}
	log.Debug().Str("file", path).Int("corners", len(frontier)).Msg("frontier loaded")

	return f, p, frontier, nil
}

func solveCmd(g *globalFlags) *cobra.Command {
	var riskFree float64
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Trace the efficient frontier of a problem file",
		Long: "Trace every corner portfolio of the efficient frontier, from the\n" +
			"highest-return corner down to the minimum-variance portfolio.\n" +
			"With --risk-free the corner of largest Sharpe ratio is marked '*'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, frontier, err := loadFrontier(args[0])
			if err != nil {
				return err
			}

			var rf *float64
			mark := -1
			if cmd.Flags().Changed("risk-free") {
				rf = &riskFree
				if _, idx, err := markowitz.MaxSharpe(frontier, riskFree); err == nil {
					mark = idx
				} else {
					log.Warn().Err(err).Msg("no corner with positive variance")
				}
			}

			return frontierTable(cmd.OutOrStdout(), frontier, g.precision, rf, mark)
		},
	}
	cmd.Flags().Float64Var(&riskFree, "risk-free", 0, "risk-free rate for the Sharpe ratio column")

	return cmd
}
