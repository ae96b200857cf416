// SPDX-License-Identifier: MIT

// Command frontier traces mean-variance efficient frontiers described in
// YAML problem files.
//
//	frontier solve portfolio.yaml --risk-free 0.02
//	frontier lp portfolio.yaml --minimize
//	frontier interpolate portfolio.yaml --target-mean 0.07
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
