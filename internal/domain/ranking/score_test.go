package ranking

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/riskibarqy/prometheus/internal/domain/teamseason"
)

type identityScorer struct{}

func (identityScorer) Transform(x []float64) []float64 { return x }

func (identityScorer) Predict(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += v
	}
	return total / 1000
}

func averages(league string, year int, gpm ...float64) []teamseason.Average {
	out := make([]teamseason.Average, 0, len(gpm))
	for i, v := range gpm {
		out = append(out, teamseason.Average{
			Key:      teamseason.Key{TeamName: string(rune('A' + i)), Year: year, League: league},
			Games:    10,
			Features: map[string]float64{"gpm": v},
		})
	}
	return out
}

func TestZScores(t *testing.T) {
	t.Parallel()

	z := ZScores([]float64{1, 2, 3})
	if math.Abs(z[0]+1) > 1e-12 || z[1] != 0 || math.Abs(z[2]-1) > 1e-12 {
		t.Fatalf("unexpected z-scores: %v", z)
	}

	single := ZScores([]float64{7})
	if single[0] != 0 {
		t.Fatalf("expected undefined deviation to fall back to 1, got %v", single)
	}

	flat := ZScores([]float64{4, 4, 4})
	for _, v := range flat {
		if v != 0 {
			t.Fatalf("expected zero deviation to fall back to 1, got %v", flat)
		}
	}
}

func TestModelStrategyPredicts(t *testing.T) {
	t.Parallel()

	scores := StrategyModel.Score(identityScorer{}, []string{"gpm"}, averages("LCK", 2022, 500, 900))
	if scores[0] != 0.5 || scores[1] != 0.9 {
		t.Fatalf("unexpected model scores: %v", scores)
	}
}

func TestBaselineStrategyCentresOnEighty(t *testing.T) {
	t.Parallel()

	avgs := averages("LCK", 2022, 1500, 1700, 1900, 2100, 2600)
	scores := StrategyBaseline.Score(identityScorer{}, []string{"gpm"}, avgs)
	rows := BuildYear(avgs, scores, Options{Rescale: true})

	total := 0.0
	for _, r := range rows {
		if r.Score < 50 || r.Score > 110 {
			t.Fatalf("baseline score out of plausible range: %+v", r)
		}
		total += r.Score
	}
	if mean := total / float64(len(rows)); math.Abs(mean-80) > 0.05 {
		t.Fatalf("expected baseline mean near 80, got %v", mean)
	}
}

func TestLeagueScoresAreZeroForIdenticalScores(t *testing.T) {
	t.Parallel()

	avgs := averages("LPL", 2022, 1, 1, 1)
	rows := BuildYear(avgs, []float64{0.7, 0.7, 0.7}, Options{ZScores: true, Rescale: true})
	for _, r := range rows {
		if r.LeagueScore == nil || *r.LeagueScore != 0 {
			t.Fatalf("expected league score 0, got %+v", r.LeagueScore)
		}
		if r.EraScore == nil || *r.EraScore != 0 {
			t.Fatalf("expected era score 0, got %+v", r.EraScore)
		}
	}
}

func TestLeagueScoresAreComputedPerLeague(t *testing.T) {
	t.Parallel()

	avgs := append(averages("LCK", 2022, 1, 1), averages("LEC", 2022, 1, 1)...)
	rows := BuildYear(avgs, []float64{0.9, 0.1, 0.5, 0.5}, Options{ZScores: true})
	for _, r := range rows {
		switch {
		case r.League == "LEC" && *r.LeagueScore != 0:
			t.Fatalf("expected LEC league score 0, got %v", *r.LeagueScore)
		case r.League == "LCK" && math.Abs(math.Abs(*r.LeagueScore)-0.71) > 1e-9:
			t.Fatalf("unexpected LCK league score: %v", *r.LeagueScore)
		}
	}
}

func TestBuildYearRoundsRescalesAndFilters(t *testing.T) {
	t.Parallel()

	avgs := append(averages("LCK", 2022, 1), averages("PCS", 2022, 1)...)
	rows := BuildYear(avgs, []float64{0.123456, 0.98765}, Options{Rescale: true, Leagues: []string{"LCK"}})
	if len(rows) != 1 || rows[0].League != "LCK" {
		t.Fatalf("expected only LCK rows, got %+v", rows)
	}
	if rows[0].Score != 12.35 {
		t.Fatalf("expected rounded rescaled score 12.35, got %v", rows[0].Score)
	}
	if rows[0].EraScore != nil {
		t.Fatalf("expected no era score without z-scores")
	}
}

func TestCombineIsStable(t *testing.T) {
	t.Parallel()

	y2022 := []Row{{TeamName: "B", Year: 2022, Score: 90}, {TeamName: "A", Year: 2022, Score: 80}}
	y2023 := []Row{{TeamName: "B", Year: 2023, Score: 90}, {TeamName: "A", Year: 2023, Score: 80}}

	got := Combine([][]Row{y2022, y2023}, ColumnScore)
	want := []string{"B2022", "B2023", "A2022", "A2023"}
	for i, r := range got {
		if key := fmt.Sprintf("%s%d", r.TeamName, r.Year); key != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, key, want[i])
		}
	}
}

func TestValidateSortColumn(t *testing.T) {
	t.Parallel()

	if err := ValidateSortColumn("gpm", []string{"gpm"}, false); err != nil {
		t.Fatalf("expected feature column to be sortable: %v", err)
	}
	if err := ValidateSortColumn(ColumnEraScore, nil, false); !errors.Is(err, ErrUnknownSortColumn) {
		t.Fatalf("expected era_score without z-scores to fail, got %v", err)
	}
	if err := ValidateSortColumn(ColumnLeagueScore, nil, true); err != nil {
		t.Fatalf("expected league_score with z-scores to pass: %v", err)
	}
	if err := ValidateSortColumn("teamname", []string{"gpm"}, true); !errors.Is(err, ErrUnknownSortColumn) {
		t.Fatalf("expected unknown column to fail, got %v", err)
	}
}

func TestParseMetric(t *testing.T) {
	t.Parallel()

	m, err := ParseMetric(" GLORB ")
	if err != nil {
		t.Fatalf("parse metric: %v", err)
	}
	if m.Strategy() != StrategyBaseline || m.Title() != "GLORB" {
		t.Fatalf("unexpected metric: %s strategy=%s", m, m.Strategy())
	}
	if MetricGlory.Strategy() != StrategyModel {
		t.Fatalf("expected glory to use the model strategy")
	}
	if _, err := ParseMetric("elo"); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestHead(t *testing.T) {
	t.Parallel()

	table := Table{Rows: []Row{{TeamName: "A"}, {TeamName: "B"}, {TeamName: "C"}}}
	if got := table.Head(2); len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if got := table.Head(0); len(got.Rows) != 3 {
		t.Fatalf("expected all rows for n=0, got %d", len(got.Rows))
	}
}

func TestMetricHeading(t *testing.T) {
	tests := []struct {
		name    string
		metric  Metric
		leagues []string
		years   []int
		want    string
	}{
		{name: "no filters", metric: MetricGlory, want: "GLORY Rankings"},
		{name: "leagues and year", metric: MetricGlory, leagues: []string{"LCK", "LPL"}, years: []int{2022}, want: "GLORY Rankings (LCK, LPL | 2022)"},
		{name: "years only", metric: MetricGlorb, years: []int{2022, 2023}, want: "GLORB Rankings (2022, 2023)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metric.Heading(tt.leagues, tt.years); got != tt.want {
				t.Fatalf("Heading()=%q want=%q", got, tt.want)
			}
		})
	}
}
