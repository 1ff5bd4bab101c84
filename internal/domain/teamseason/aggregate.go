package teamseason

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

var ErrNoQualifyingTeams = errors.New("no team-season meets the minimum match count")

// Key identifies one team's season in one league.
type Key struct {
	TeamName string
	Year     int
	League   string
}

// Average holds the unweighted means of a team-season's feature values.
type Average struct {
	Key
	Games    int
	Features map[string]float64
}

// Values returns the averages in the given feature order.
func (a Average) Values(features []string) []float64 {
	out := make([]float64, len(features))
	for i, name := range features {
		out[i] = a.Features[name]
	}
	return out
}

type accumulator struct {
	// values holds one column of observations per feature.
	values [][]float64
	games  map[string]struct{}
}

// Aggregate groups rows by team name, year and league and averages each
// feature. The result is ordered by team name, year, then league. Groups with fewer distinct games than minMatches are dropped;
// minMatches of 0 keeps every group. Rows with a missing or non-finite
// feature value are ignored.
func Aggregate(rows []match.StatRow, features []string, minMatches int) ([]Average, error) {
	if minMatches < 0 {
		return nil, fmt.Errorf("minimum matches must be >= 0, got %d", minMatches)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("at least one feature is required")
	}

	groups := make(map[Key]*accumulator)
	for _, row := range rows {
		if !row.Finite(features) {
			continue
		}
		key := Key{TeamName: row.TeamName, Year: row.Year, League: row.League}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{values: make([][]float64, len(features)), games: make(map[string]struct{})}
			groups[key] = acc
		}
		for i, name := range features {
			acc.values[i] = append(acc.values[i], row.Features[name])
		}
		acc.games[row.GameID] = struct{}{}
	}

	out := make([]Average, 0, len(groups))
	for key, acc := range groups {
		if len(acc.games) < minMatches {
			continue
		}
		means := make(map[string]float64, len(features))
		for i, name := range features {
			means[name] = stat.Mean(acc.values[i], nil)
		}
		out = append(out, Average{Key: key, Games: len(acc.games), Features: means})
	}
	if len(out) == 0 {
		return nil, ErrNoQualifyingTeams
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.League < b.League
	})
	return out, nil
}
