package ranking

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/prometheus/internal/domain/teamseason"
)

var (
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrUnknownSortColumn = errors.New("unknown sort column")
)

// Metric is the public name of a ranking flavour.
type Metric string

const (
	MetricGlory Metric = "glory"
	MetricGlorb Metric = "glorb"
)

var metricDescriptions = map[Metric]string{
	MetricGlory: "Global League Offensive Rankings Yield",
	MetricGlorb: "Global League Offensive Rankings Baseline",
}

func ParseMetric(raw string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := metricDescriptions[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
	}
	return m, nil
}

func Metrics() []Metric {
	return []Metric{MetricGlory, MetricGlorb}
}

func (m Metric) Description() string {
	return metricDescriptions[m]
}

// Title is the upper-case label used in headings.
func (m Metric) Title() string {
	return strings.ToUpper(string(m))
}

// Heading renders a table title such as "GLORY Rankings (LCK, LPL | 2022)".
// The filter part is left out when no league or year is given.
func (m Metric) Heading(leagues []string, years []int) string {
	title := m.Title() + " Rankings"
	filters := make([]string, 0, 2)
	if len(leagues) > 0 {
		filters = append(filters, strings.Join(leagues, ", "))
	}
	if len(years) > 0 {
		parts := make([]string, 0, len(years))
		for _, y := range years {
			parts = append(parts, strconv.Itoa(y))
		}
		filters = append(filters, strings.Join(parts, ", "))
	}
	if len(filters) == 0 {
		return title
	}
	return title + " (" + strings.Join(filters, " | ") + ")"
}

func (m Metric) Strategy() Strategy {
	if m == MetricGlorb {
		return StrategyBaseline
	}
	return StrategyModel
}

const (
	ColumnScore       = "score"
	ColumnEraScore    = "era_score"
	ColumnLeagueScore = "league_score"
	ColumnYear        = "year"
	ColumnGames       = "games"
)

// Row is one ranked team-season.
type Row struct {
	TeamName    string
	Year        int
	League      string
	Games       int
	Features    map[string]float64
	Score       float64
	EraScore    *float64
	LeagueScore *float64
}

func rowFromAverage(avg teamseason.Average) Row {
	features := make(map[string]float64, len(avg.Features))
	for k, v := range avg.Features {
		features[k] = v
	}
	return Row{
		TeamName: avg.TeamName,
		Year:     avg.Year,
		League:   avg.League,
		Games:    avg.Games,
		Features: features,
	}
}

// Table is an ordered set of ranking rows plus the columns they carry.
type Table struct {
	Features []string
	ZScores  bool
	Rows     []Row
}

// Head returns the first n rows; n <= 0 keeps every row.
func (t Table) Head(n int) Table {
	out := t
	if n > 0 && n < len(t.Rows) {
		out.Rows = slices.Clone(t.Rows[:n])
	}
	return out
}

// ValidateSortColumn reports whether column can order a table with the
// given features and z-score setting.
func ValidateSortColumn(column string, features []string, zScores bool) error {
	switch column {
	case ColumnScore, ColumnYear, ColumnGames:
		return nil
	case ColumnEraScore, ColumnLeagueScore:
		if zScores {
			return nil
		}
		return fmt.Errorf("%w: %s requires z-scores", ErrUnknownSortColumn, column)
	}
	if slices.Contains(features, column) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSortColumn, column)
}

func (r Row) value(column string) float64 {
	switch column {
	case ColumnScore:
		return r.Score
	case ColumnEraScore:
		if r.EraScore != nil {
			return *r.EraScore
		}
		return 0
	case ColumnLeagueScore:
		if r.LeagueScore != nil {
			return *r.LeagueScore
		}
		return 0
	case ColumnYear:
		return float64(r.Year)
	case ColumnGames:
		return float64(r.Games)
	default:
		return r.Features[column]
	}
}

// SortDescending orders rows by column, highest first, keeping the relative
// order of ties.
func SortDescending(rows []Row, column string) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		av, bv := a.value(column), b.value(column)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
}

// Combine concatenates per-year rows in the given order and sorts the result
// by column, highest first. Ties keep their concatenation order.
func Combine(years [][]Row, column string) []Row {
	total := 0
	for _, rows := range years {
		total += len(rows)
	}
	out := make([]Row, 0, total)
	for _, rows := range years {
		out = append(out, rows...)
	}
	SortDescending(out, column)
	return out
}
