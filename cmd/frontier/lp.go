// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanvar/config"
	"github.com/katalvlaran/meanvar/markowitz"
)

func lpCmd(g *globalFlags) *cobra.Command {
	var minimize bool
	cmd := &cobra.Command{
		Use:   "lp FILE",
		Short: "Optimize the linear objective (security means) only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(args[0])
			if err != nil {
				return err
			}
			prog, err := f.LinearProgram()
			if err != nil {
				return err
			}

			opts := append(f.Options(), markowitz.WithLogger(solverLogger()))
			solve, sense := prog.Maximize, "max"
			if minimize {
				solve, sense = prog.Minimize, "min"
			}
			res, err := solve(opts...)
			if err != nil {
				return fmt.Errorf("failed to solve linear program: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %s\n", sense, fixed(res.Value, g.precision))

			return weightsTable(out, f.Labels(), res.Weights, g.precision)
		},
	}
	cmd.Flags().BoolVar(&minimize, "minimize", false, "minimize instead of maximize")

	return cmd
}
