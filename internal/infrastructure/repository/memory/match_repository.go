package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

// DefaultStatSource is where UpsertMatches stores derived glory features.
const DefaultStatSource = "match_glory_stats"

type rowKey struct {
	gameID string
	teamID string
}

type MatchRepository struct {
	mu      sync.RWMutex
	sources map[string]map[rowKey]match.StatRow
}

// NewMatchRepository seeds statSource with rows.
func NewMatchRepository(statSource string, rows []match.StatRow) *MatchRepository {
	r := &MatchRepository{sources: make(map[string]map[rowKey]match.StatRow)}
	for _, row := range rows {
		r.put(statSource, row)
	}
	return r
}

func (r *MatchRepository) put(statSource string, row match.StatRow) {
	items, ok := r.sources[statSource]
	if !ok {
		items = make(map[rowKey]match.StatRow)
		r.sources[statSource] = items
	}
	features := make(map[string]float64, len(row.Features))
	for k, v := range row.Features {
		features[k] = v
	}
	row.Features = features
	items[rowKey{gameID: row.GameID, teamID: row.TeamID}] = row
}

func (r *MatchRepository) FetchMatches(_ context.Context, statSource string, filter match.Filter) ([]match.StatRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, ok := r.sources[statSource]
	if !ok {
		return nil, fmt.Errorf("unknown stat source %q", statSource)
	}

	features := filter.Features()
	out := make([]match.StatRow, 0, len(items))
	for _, row := range items {
		if !filter.Allows(row.Year, row.League) {
			continue
		}
		projected := row
		projected.Features = make(map[string]float64, len(features))
		for _, name := range features {
			if v, ok := row.Features[name]; ok {
				projected.Features[name] = v
			}
		}
		out = append(out, projected)
	}
	if len(out) == 0 {
		return nil, match.ErrNoRows
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

// UpsertMatches stores records joined with their features under DefaultStatSource.
func (r *MatchRepository) UpsertMatches(_ context.Context, records []match.Record, features []match.FeatureRow) error {
	byKey := make(map[rowKey]match.FeatureRow, len(features))
	for _, f := range features {
		byKey[rowKey{gameID: f.GameID, teamID: f.TeamID}] = f
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		key := rowKey{gameID: rec.GameID, teamID: rec.TeamID}
		f, ok := byKey[key]
		if !ok {
			return fmt.Errorf("missing features for game=%s team=%s", rec.GameID, rec.TeamID)
		}
		r.put(DefaultStatSource, match.StatRow{
			GameID:   rec.GameID,
			TeamID:   rec.TeamID,
			TeamName: rec.TeamName,
			Year:     rec.Year,
			League:   rec.League,
			Result:   rec.Result,
			Features: f.Values,
		})
	}
	return nil
}
