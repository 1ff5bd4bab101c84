// Package oracleselixir reads the per-year match exports published by
// Oracle's Elixir. Each export holds ten player rows and two team rows per
// game; only complete team rows are kept.
package oracleselixir

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

const (
	positionTeam     = "team"
	completenessFull = "complete"
)

var ErrNotCSV = crerr.New("source is not a csv file")

// Columns that must be present in the header. Stat columns may be blank on
// individual rows; blanks read as zero.
var requiredColumns = []string{
	"gameid", "datacompleteness", "league", "year", "split", "side", "position",
	"teamname", "teamid", "result", "gamelength", "totalgold",
}

var statColumns = []string{
	"kills", "towers", "dragons", "barons", "heralds", "visionscore",
	"firsttower", "firstdragon", "firstherald", "firstbaron",
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadRecords parses the export at path. skipped counts team rows that were
// dropped for missing or malformed core fields.
func (r *Reader) ReadRecords(ctx context.Context, path string) ([]match.Record, int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, 0, crerr.Wrapf(ErrNotCSV, "read %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, crerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	records, skipped, err := Parse(ctx, f)
	if err != nil {
		return nil, 0, crerr.Wrapf(err, "parse %s", path)
	}
	return records, skipped, nil
}

// Parse reads an export from in. It stops early when ctx is cancelled.
func Parse(ctx context.Context, in io.Reader) ([]match.Record, int, error) {
	cr := csv.NewReader(bufio.NewReader(in))
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, crerr.Wrap(err, "read header")
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		out     []match.Record
		skipped int
		line    = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, crerr.Wrapf(err, "read line %d", line)
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if get("position") != positionTeam || get("datacompleteness") != completenessFull {
			continue
		}

		rec, ok := parseRecord(get)
		if !ok {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, crerr.Newf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(get func(string) string) (match.Record, bool) {
	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return match.Record{}, false
	}
	result, err := strconv.Atoi(get("result"))
	if err != nil {
		return match.Record{}, false
	}
	gameLength, err := strconv.ParseFloat(get("gamelength"), 64)
	if err != nil {
		return match.Record{}, false
	}
	totalGold, err := strconv.ParseFloat(get("totalgold"), 64)
	if err != nil {
		return match.Record{}, false
	}

	stats := make(map[string]float64, len(statColumns))
	for _, col := range statColumns {
		raw := get(col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return match.Record{}, false
		}
		stats[col] = v
	}

	return match.Record{
		GameID:      get("gameid"),
		TeamID:      get("teamid"),
		TeamName:    get("teamname"),
		Year:        year,
		League:      get("league"),
		Split:       get("split"),
		Side:        get("side"),
		Result:      result,
		GameLength:  gameLength,
		TotalGold:   totalGold,
		Kills:       stats["kills"],
		Towers:      stats["towers"],
		Dragons:     stats["dragons"],
		Barons:      stats["barons"],
		Heralds:     stats["heralds"],
		VisionScore: stats["visionscore"],
		FirstTower:  stats["firsttower"] == 1,
		FirstDragon: stats["firstdragon"] == 1,
		FirstHerald: stats["firstherald"] == 1,
		FirstBaron:  stats["firstbaron"] == 1,
	}, true
}
