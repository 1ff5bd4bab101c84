package ranking

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/riskibarqy/prometheus/internal/domain/teamseason"
)

const (
	baselineCenter = 0.8
	baselineSpread = 0.15
	rescaleFactor  = 100

	// degenerateStd is the relative deviation treated as zero, so values that
	// differ only by rounding noise z-score to zero.
	degenerateStd = 1e-12
)

// Strategy selects how team-season averages become a score.
type Strategy int

const (
	// StrategyModel uses the fitted win-probability prediction.
	StrategyModel Strategy = iota
	// StrategyBaseline sums standardized features and re-centres the sums.
	StrategyBaseline
)

func (s Strategy) String() string {
	if s == StrategyBaseline {
		return "baseline"
	}
	return "model"
}

// Scorer is the fitted transform both strategies draw on.
type Scorer interface {
	Transform(x []float64) []float64
	Predict(x []float64) float64
}

// Score returns one raw score per average, in input order.
func (s Strategy) Score(scorer Scorer, features []string, averages []teamseason.Average) []float64 {
	out := make([]float64, len(averages))
	switch s {
	case StrategyBaseline:
		for i, avg := range averages {
			for _, z := range scorer.Transform(avg.Values(features)) {
				out[i] += z
			}
		}
		for i, z := range ZScores(out) {
			out[i] = baselineCenter + baselineSpread*z
		}
	default:
		for i, avg := range averages {
			out[i] = scorer.Predict(avg.Values(features))
		}
	}
	return out
}

// ZScores standardizes values with the sample standard deviation. An undefined
// or (near) zero deviation is replaced by 1.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean := stat.Mean(values, nil)
	std := 1.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	if math.IsNaN(std) || math.IsInf(std, 0) || std <= degenerateStd*math.Max(1, math.Abs(mean)) {
		std = 1
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

// Options controls the post-scoring steps of one year's table.
type Options struct {
	ZScores bool
	Rescale bool
	Leagues []string
}

// BuildYear turns scored averages for a single year into ranked rows. Rows are
// returned sorted by score, highest first.
func BuildYear(averages []teamseason.Average, scores []float64, opts Options) []Row {
	rows := make([]Row, len(averages))
	for i, avg := range averages {
		rows[i] = rowFromAverage(avg)
		rows[i].Score = scores[i]
	}

	if opts.ZScores {
		applyEraScores(rows)
		applyLeagueScores(rows)
	}

	for i := range rows {
		if opts.Rescale {
			rows[i].Score *= rescaleFactor
		}
		rows[i].Score = round2(rows[i].Score)
		if rows[i].EraScore != nil {
			v := round2(*rows[i].EraScore)
			rows[i].EraScore = &v
		}
		if rows[i].LeagueScore != nil {
			v := round2(*rows[i].LeagueScore)
			rows[i].LeagueScore = &v
		}
	}

	rows = FilterLeagues(rows, opts.Leagues)
	SortDescending(rows, ColumnScore)
	return rows
}

// applyEraScores z-scores each row against every row of the same year's table,
// so era_score is comparable within a year and not across years.
func applyEraScores(rows []Row) {
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	for i, z := range ZScores(scores) {
		v := z
		rows[i].EraScore = &v
	}
}

func applyLeagueScores(rows []Row) {
	byLeague := make(map[string][]int)
	for i, r := range rows {
		byLeague[r.League] = append(byLeague[r.League], i)
	}
	for _, idx := range byLeague {
		scores := make([]float64, len(idx))
		for k, i := range idx {
			scores[k] = rows[i].Score
		}
		for k, z := range ZScores(scores) {
			v := z
			rows[idx[k]].LeagueScore = &v
		}
	}
}

// FilterLeagues keeps rows whose league is listed; an empty list keeps all.
func FilterLeagues(rows []Row, leagues []string) []Row {
	if len(leagues) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if slices.Contains(leagues, r.League) {
			out = append(out, r)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
