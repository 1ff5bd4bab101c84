package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/prometheus/internal/domain/ranking"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

func (c *cli) rankings(ctx context.Context, args []string) int {
	metricArg, rest := splitPositional(args)

	fs := flag.NewFlagSet("rankings", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var (
		leagues stringList
		years   intList
	)
	fs.Var(&leagues, "league", "league to report, repeatable (MAJOR expands per year)")
	fs.Var(&years, "year", "year to rank, repeatable")
	n := fs.Int("n", 10, "number of rows to print, 0 prints all")
	minMatches := fs.Int("min-matches", 0, "minimum games per team-season")
	zScores := fs.Bool("zscores", false, "add era and league z-scores")
	sortBy := fs.String("sort-by", ranking.ColumnScore, "column to sort by")
	noRescale := fs.Bool("no-rescale", false, "keep scores on the 0-1 scale")
	baseline := fs.Bool("baseline", false, "use the equal-weight baseline")
	skipEmpty := fs.Bool("skip-empty-years", false, "skip years without data instead of failing")
	if err := fs.Parse(rest); err != nil {
		return exitUsage
	}
	if metricArg == "" {
		metricArg = fs.Arg(0)
	}
	if metricArg == "" {
		fmt.Fprintln(c.stderr, "rankings requires a metric: glory or glorb")
		return exitUsage
	}

	metric, err := ranking.ParseMetric(metricArg)
	if err != nil {
		return c.exitCode(fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
	}

	table, err := c.services.Rankings.Rank(ctx, usecase.RankInput{
		Metric:         string(metric),
		Years:          years,
		Leagues:        leagues,
		MinimumMatches: *minMatches,
		Baseline:       *baseline,
		ZScores:        *zScores,
		SkipRescale:    *noRescale,
		SortBy:         *sortBy,
		SkipEmptyYears: *skipEmpty,
	})
	if err != nil {
		return c.exitCode(err)
	}

	printRankings(c.stdout, metric.Heading(upper(leagues), years), table.Head(*n))
	return exitOK
}

func upper(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(v))
	}
	return out
}

func printRankings(w io.Writer, title string, table ranking.Table) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"#", "TEAM", "YEAR", "LEAGUE", "GAMES", "SCORE"}
	if table.ZScores {
		header = append(header, "ERA_SCORE", "LEAGUE_SCORE")
	}
	for _, f := range table.Features {
		header = append(header, strings.ToUpper(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i, r := range table.Rows {
		cells := []string{
			strconv.Itoa(i + 1),
			r.TeamName,
			strconv.Itoa(r.Year),
			r.League,
			strconv.Itoa(r.Games),
			formatFloat(r.Score),
		}
		if table.ZScores {
			cells = append(cells, formatOptional(r.EraScore), formatOptional(r.LeagueScore))
		}
		for _, f := range table.Features {
			cells = append(cells, formatFloat(r.Features[f]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	_ = tw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}
