// SPDX-License-Identifier: MIT
package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose   bool
	precision int32
}

// Execute builds the command tree and runs it under ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "frontier",
		Short:         "Mean-variance efficient frontiers via the critical line algorithm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if g.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log solver pivots and breakpoints")
	root.PersistentFlags().Int32Var(&g.precision, "precision", 4, "decimal places in printed numbers")

	root.AddCommand(solveCmd(g), lpCmd(g), interpolateCmd(g))

	return root
}

// solverLogger is the logger handed to the optimizer.
func solverLogger() zerolog.Logger {
	return log.Logger.With().Str("component", "markowitz").Logger()
}
