// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/katalvlaran/meanvar/markowitz"
)

// fixed renders v rounded half away from zero to places decimals.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// weightSum adds the rounded weights exactly, so the printed total matches
// the printed column.
func weightSum(w []float64, places int32) string {
	sum := decimal.Zero
	for _, v := range w {
		sum = sum.Add(decimal.NewFromFloat(v).Round(places))
	}

	return sum.StringFixed(places)
}

// columnLabels falls back to positional names when the problem has none.
func columnLabels(labels []string, n int) []string {
	if len(labels) == n {
		return labels
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}

	return out
}

// frontierTable prints one row per corner. mark >= 0 flags that row with '*'.
func frontierTable(out io.Writer, frontier []markowitz.Portfolio, places int32, riskFree *float64, mark int) error {
	if len(frontier) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	labels := columnLabels(frontier[0].Labels(), frontier[0].Len())

	header := []string{"#", "lambda", "mean", "variance", "stddev"}
	if riskFree != nil {
		header = append(header, "sharpe")
	}
	header = append(header, labels...)
	header = append(header, "sum")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i, p := range frontier {
		idx := fmt.Sprint(i)
		if i == mark {
			idx += "*"
		}
		row := []string{idx, fixed(p.Lambda(), places), fixed(p.Mean(), places), fixed(p.Variance(), places), fixed(p.StdDev(), places)}
		if riskFree != nil {
			row = append(row, fixed(p.SharpeRatio(*riskFree), places))
		}
		for _, w := range p.Weights() {
			row = append(row, fixed(w, places))
		}
		row = append(row, weightSum(p.Weights(), places))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}

// weightsTable prints label/weight pairs, one per line.
func weightsTable(out io.Writer, labels []string, w []float64, places int32) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, name := range columnLabels(labels, len(w)) {
		fmt.Fprintf(tw, "%s\t%s\n", name, fixed(w[i], places))
	}
	fmt.Fprintf(tw, "sum\t%s\n", weightSum(w, places))

	return tw.Flush()
}
