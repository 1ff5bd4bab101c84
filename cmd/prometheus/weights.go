package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/prometheus/internal/usecase"
)

func (c *cli) weights(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("weights", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var (
		leagues stringList
		years   intList
	)
	fs.Var(&leagues, "league", "league pool to fit on, repeatable (default MAJOR)")
	fs.Var(&years, "year", "year to fit, repeatable")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	weights, err := c.services.Weights.Weights(ctx, usecase.WeightsInput{
		StatSource: c.services.StatSource,
		Features:   c.services.Features,
		Years:      years,
		Leagues:    leagues,
	})
	if err != nil {
		return c.exitCode(err)
	}

	for i, w := range weights {
		if i > 0 {
			fmt.Fprintln(c.stdout)
		}
		printWeights(c.stdout, w)
	}
	return exitOK
}

func printWeights(w io.Writer, weights usecase.YearWeights) {
	title := fmt.Sprintf("Weights %d (%s)", weights.Year, strings.Join(weights.Leagues, ", "))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tWEIGHT")
	for _, f := range weights.Features {
		fmt.Fprintf(tw, "%s\t%.4f\n", f, weights.Coefficients[f])
	}
	fmt.Fprintf(tw, "intercept\t%.4f\n", weights.Intercept)
	_ = tw.Flush()

	fmt.Fprintf(w, "train rows: %d, test rows: %d, accuracy: %s, r2: %s\n",
		weights.TrainRows,
		weights.Evaluation.Samples,
		formatMetric(weights.Evaluation.Accuracy),
		formatMetric(weights.Evaluation.RSquared),
	)
}

func formatMetric(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
