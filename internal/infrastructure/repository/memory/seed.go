package memory

import (
	"fmt"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

// SeedStatRows is a small two-year dataset with one game per team per year:
// A and B win, C and D lose, and 2023 values are a tenth of 2022's.
func SeedStatRows() []match.StatRow {
	type team struct {
		name   string
		league string
		result int
		gpm    float64
		dragon float64
		game   string
	}
	teams := []team{
		{name: "A", league: "LCK", result: 1, gpm: 100, dragon: 200, game: "g1"},
		{name: "B", league: "LPL", result: 1, gpm: 200, dragon: 400, game: "g2"},
		{name: "C", league: "LEC", result: 0, gpm: 10, dragon: 20, game: "g1"},
		{name: "D", league: "LCS", result: 0, gpm: 50, dragon: 100, game: "g2"},
	}

	out := make([]match.StatRow, 0, len(teams)*2)
	for _, year := range []int{2022, 2023} {
		divisor := 1.0
		if year == 2023 {
			divisor = 10
		}
		for _, t := range teams {
			out = append(out, match.StatRow{
				GameID:   fmt.Sprintf("%d-%s", year, t.game),
				TeamID:   "team-" + t.name,
				TeamName: t.name,
				Year:     year,
				League:   t.league,
				Result:   t.result,
				Features: map[string]float64{
					match.FeatureGPM:         t.gpm / divisor,
					match.FeatureDragonPer10: t.dragon / divisor,
				},
			})
		}
	}
	return out
}

// SeedFeatures lists the features carried by SeedStatRows.
func SeedFeatures() []string {
	return []string{match.FeatureGPM, match.FeatureDragonPer10}
}
