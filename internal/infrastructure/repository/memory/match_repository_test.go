package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

func TestMatchRepository_FetchMatchesFiltersAndProjects(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(DefaultStatSource, SeedStatRows())
	rows, err := repo.FetchMatches(context.Background(), DefaultStatSource,
		match.NewFilter([]int{2022}, []string{"LCK", "LPL"}, []string{match.FeatureGPM}))
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TeamName != "A" || rows[1].TeamName != "B" {
		t.Fatalf("expected rows ordered by game id, got %s then %s", rows[0].TeamName, rows[1].TeamName)
	}
	if _, ok := rows[0].Features[match.FeatureDragonPer10]; ok {
		t.Fatalf("expected unrequested features to be projected away")
	}
	if rows[1].Features[match.FeatureGPM] != 200 {
		t.Fatalf("unexpected gpm: %v", rows[1].Features[match.FeatureGPM])
	}
}

func TestMatchRepository_FetchMatchesNoRows(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(DefaultStatSource, SeedStatRows())
	_, err := repo.FetchMatches(context.Background(), DefaultStatSource,
		match.NewFilter([]int{2014}, nil, []string{match.FeatureGPM}))
	if !errors.Is(err, match.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}

	if _, err := repo.FetchMatches(context.Background(), "unknown_stats", match.NewFilter(nil, nil, nil)); err == nil {
		t.Fatalf("expected unknown stat source to fail")
	}
}

func TestMatchRepository_UpsertMatches(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(DefaultStatSource, nil)
	record := match.Record{GameID: "g9", TeamID: "t1", TeamName: "T1", Year: 2024, League: "LCK", Result: 1, GameLength: 1800, TotalGold: 60000}
	features, ok := match.DeriveFeatures(record)
	if !ok {
		t.Fatalf("derive features")
	}

	if err := repo.UpsertMatches(context.Background(), []match.Record{record}, []match.FeatureRow{features}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertMatches(context.Background(), []match.Record{record}, []match.FeatureRow{features}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.FetchMatches(context.Background(), DefaultStatSource,
		match.NewFilter([]int{2024}, nil, []string{match.FeatureGPM}))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].Features[match.FeatureGPM] != 2000 {
		t.Fatalf("unexpected rows after upsert: %+v", rows)
	}

	if err := repo.UpsertMatches(context.Background(), []match.Record{{GameID: "x", TeamID: "y"}}, nil); err == nil {
		t.Fatalf("expected missing features to fail")
	}
}
