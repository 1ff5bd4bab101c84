package match

import "context"

// Repository describes match statistic reads needed by the ranking pipeline.
// FetchMatches returns ErrNoRows when nothing satisfies the filter.
type Repository interface {
	FetchMatches(ctx context.Context, statSource string, filter Filter) ([]StatRow, error)
}

// Writer persists ingested match records and their derived features.
type Writer interface {
	UpsertMatches(ctx context.Context, records []Record, features []FeatureRow) error
}
