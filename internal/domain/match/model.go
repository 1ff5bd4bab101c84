package match

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrNoRows = errors.New("no match rows")

// Record is one team's side of one game, as ingested from the match export.
type Record struct {
	GameID      string
	TeamID      string
	TeamName    string
	Year        int
	League      string
	Split       string
	Side        string
	Result      int
	GameLength  float64
	TotalGold   float64
	Kills       float64
	Towers      float64
	Dragons     float64
	Barons      float64
	Heralds     float64
	VisionScore float64
	FirstTower  bool
	FirstDragon bool
	FirstHerald bool
	FirstBaron  bool
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(r.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(r.TeamName) == "" {
		return fmt.Errorf("team name is required for game %s", r.GameID)
	}
	if strings.TrimSpace(r.League) == "" {
		return fmt.Errorf("league is required for game %s", r.GameID)
	}
	if r.Year <= 0 {
		return fmt.Errorf("year must be positive for game %s", r.GameID)
	}
	if r.Result != 0 && r.Result != 1 {
		return fmt.Errorf("result must be 0 or 1 for game %s, got %d", r.GameID, r.Result)
	}
	return nil
}

// StatRow is a match-level row joined with its derived stat values.
// Features holds only the columns requested by the caller.
type StatRow struct {
	GameID   string
	TeamID   string
	TeamName string
	Year     int
	League   string
	Result   int
	Features map[string]float64
}

// Finite reports whether every named feature is present and finite.
func (r StatRow) Finite(features []string) bool {
	for _, name := range features {
		value, ok := r.Features[name]
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

// Filter restricts which stat rows a repository returns.
// Empty dimensions apply no restriction. Construct with NewFilter so the
// slices are owned by the filter.
type Filter struct {
	years    []int
	leagues  []string
	features []string
}

func NewFilter(years []int, leagues []string, features []string) Filter {
	return Filter{
		years:    append([]int(nil), years...),
		leagues:  append([]string(nil), leagues...),
		features: append([]string(nil), features...),
	}
}

func (f Filter) Years() []int {
	return append([]int(nil), f.years...)
}

func (f Filter) Leagues() []string {
	return append([]string(nil), f.leagues...)
}

func (f Filter) Features() []string {
	return append([]string(nil), f.features...)
}

// Allows reports whether the filter admits a row with the given year and league.
func (f Filter) Allows(year int, league string) bool {
	if len(f.years) > 0 {
		found := false
		for _, y := range f.years {
			if y == year {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.leagues) > 0 {
		found := false
		for _, l := range f.leagues {
			if l == league {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
