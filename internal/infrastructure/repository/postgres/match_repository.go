package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prometheus/internal/domain/match"
	qb "github.com/riskibarqy/prometheus/internal/platform/querybuilder"
	"github.com/riskibarqy/prometheus/internal/platform/resilience"
)

const (
	matchesTable    = "matches"
	gloryStatsTable = "match_glory_stats"

	// Keeps a single INSERT well under the 65535 bind parameter limit.
	upsertBatchSize = 500
)

var matchColumns = []string{
	"gameid", "teamid", "teamname", "year", "league", "split", "side", "result",
	"gamelength", "totalgold", "kills", "towers", "dragons", "barons", "heralds",
	"visionscore", "firsttower", "firstdragon", "firstherald", "firstbaron",
}

var matchKey = []string{"gameid", "teamid"}

type MatchRepository struct {
	db      *sqlx.DB
	breaker *resilience.Breaker
}

type MatchRepositoryOption func(*MatchRepository)

// WithBreaker guards reads with breaker. Empty results do not count as
// failures.
func WithBreaker(breaker *resilience.Breaker) MatchRepositoryOption {
	return func(r *MatchRepository) {
		r.breaker = breaker
	}
}

func NewMatchRepository(db *sqlx.DB, opts ...MatchRepositoryOption) *MatchRepository {
	r := &MatchRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MatchRepository) FetchMatches(ctx context.Context, statSource string, filter match.Filter) ([]match.StatRow, error) {
	query, args, err := fetchMatchesQuery(statSource, filter)
	if err != nil {
		return nil, fmt.Errorf("build fetch matches query: %w", err)
	}

	var out []match.StatRow
	read := func() error {
		out, err = r.fetch(ctx, query, args, filter.Features())
		if isRetryablePrepareError(err) {
			out, err = r.fetch(ctx, query, args, filter.Features())
		}
		return err
	}
	if r.breaker != nil {
		err = r.breaker.Do(read)
	} else {
		err = read()
	}
	if err != nil {
		return nil, fmt.Errorf("fetch matches from %s: %w", statSource, err)
	}
	if len(out) == 0 {
		return nil, match.ErrNoRows
	}
	return out, nil
}

func (r *MatchRepository) fetch(ctx context.Context, query string, args []any, features []string) ([]match.StatRow, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.StatRow, 0, 64)
	values := make([]sql.NullFloat64, len(features))
	for rows.Next() {
		var row match.StatRow
		dest := []any{&row.GameID, &row.TeamID, &row.TeamName, &row.Year, &row.League, &row.Result}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}

		row.Features = make(map[string]float64, len(features))
		for i, name := range features {
			if values[i].Valid {
				row.Features[name] = values[i].Float64
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func fetchMatchesQuery(statSource string, filter match.Filter) (string, []any, error) {
	if !match.ValidIdentifier(statSource) {
		return "", nil, fmt.Errorf("invalid stat source %q", statSource)
	}
	features := filter.Features()
	if len(features) == 0 {
		return "", nil, fmt.Errorf("at least one feature is required")
	}

	columns := []string{"s.gameid", "s.teamid", "m.teamname", "m.year", "m.league", "m.result"}
	conditions := make([]qb.Condition, 0, len(features)+2)
	for _, name := range features {
		if !match.ValidIdentifier(name) {
			return "", nil, fmt.Errorf("invalid feature column %q", name)
		}
		columns = append(columns, "s."+name+"::float8")
		conditions = append(conditions, qb.NotNull("s."+name))
	}

	if years := filter.Years(); len(years) > 0 {
		values := make([]int64, 0, len(years))
		for _, y := range years {
			values = append(values, int64(y))
		}
		conditions = append(conditions, qb.AnyOf("m.year", values))
	}
	if leagues := filter.Leagues(); len(leagues) > 0 {
		conditions = append(conditions, qb.AnyOf("m.league", leagues))
	}

	return qb.Select(columns...).
		From(statSource + " s").
		Join("JOIN " + matchesTable + " m ON m.gameid = s.gameid AND m.teamid = s.teamid").
		Where(conditions...).
		OrderBy("s.gameid", "s.teamid").
		ToSQL()
}

// UpsertMatches writes records and their glory features in one transaction.
// Every record must have a matching feature row.
func (r *MatchRepository) UpsertMatches(ctx context.Context, records []match.Record, features []match.FeatureRow) error {
	if len(records) == 0 {
		return nil
	}
	statements, err := upsertStatements(records, features)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert matches tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("upsert %s: %w", stmt.table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return nil
}

type statement struct {
	table string
	query string
	args  []any
}

func upsertStatements(records []match.Record, features []match.FeatureRow) ([]statement, error) {
	type key struct{ gameID, teamID string }
	byKey := make(map[key]match.FeatureRow, len(features))
	for _, f := range features {
		byKey[key{f.GameID, f.TeamID}] = f
	}

	statColumns := append(append([]string(nil), matchKey...), match.GloryFeatures...)
	out := make([]statement, 0, 2*(len(records)/upsertBatchSize+1))
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))

		matches := qb.InsertInto(matchesTable).
			Columns(matchColumns...).
			OnConflictUpdate(matchKey, matchColumns[2:]...)
		stats := qb.InsertInto(gloryStatsTable).
			Columns(statColumns...).
			OnConflictUpdate(matchKey, match.GloryFeatures...)

		for _, rec := range records[start:end] {
			f, ok := byKey[key{rec.GameID, rec.TeamID}]
			if !ok {
				return nil, fmt.Errorf("missing features for game=%s team=%s", rec.GameID, rec.TeamID)
			}
			matches.Values(
				rec.GameID, rec.TeamID, rec.TeamName, rec.Year, rec.League, rec.Split, rec.Side, rec.Result,
				rec.GameLength, rec.TotalGold, rec.Kills, rec.Towers, rec.Dragons, rec.Barons, rec.Heralds,
				rec.VisionScore, rec.FirstTower, rec.FirstDragon, rec.FirstHerald, rec.FirstBaron,
			)

			values := []any{rec.GameID, rec.TeamID}
			for _, name := range match.GloryFeatures {
				values = append(values, f.Values[name])
			}
			stats.Values(values...)
		}

		for _, b := range []struct {
			table   string
			builder *qb.InsertBuilder
		}{{matchesTable, matches}, {gloryStatsTable, stats}} {
			query, args, err := b.builder.ToSQL()
			if err != nil {
				return nil, fmt.Errorf("build upsert %s query: %w", b.table, err)
			}
			out = append(out, statement{table: b.table, query: query, args: args})
		}
	}
	return out, nil
}
