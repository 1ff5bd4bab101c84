package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/match"
	"github.com/riskibarqy/prometheus/internal/domain/ranking"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

// RankInput describes one ranking request. Empty Years means every default
// year; empty Leagues means no reporting restriction.
type RankInput struct {
	Metric         string
	Years          []int
	Leagues        []string
	MinimumMatches int
	// Baseline forces the baseline strategy regardless of Metric.
	Baseline bool
	ZScores  bool
	// SkipRescale keeps scores on the 0-1 scale instead of 0-100.
	SkipRescale bool
	SortBy      string
	Features    []string
	// SkipEmptyYears drops years without qualifying data instead of failing
	// the whole request.
	SkipEmptyYears bool
}

type rankRequest struct {
	metric         ranking.Metric
	strategy       ranking.Strategy
	years          []int
	leagues        []league.Code
	minimumMatches int
	zScores        bool
	rescale        bool
	sortBy         string
	features       []string
	skipEmptyYears bool
}

type RankingService struct {
	seasons    *TeamSeasonService
	weights    *WeightsService
	logger     *logging.Logger
	statSource string
	features   []string
}

func NewRankingService(
	seasons *TeamSeasonService,
	weights *WeightsService,
	logger *logging.Logger,
	statSource string,
	features []string,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(features) == 0 {
		features = match.GloryFeatures
	}
	return &RankingService{
		seasons:    seasons,
		weights:    weights,
		logger:     logger,
		statSource: statSource,
		features:   append([]string(nil), features...),
	}
}

// Rank scores every requested year independently, then merges the years and
// sorts them by the requested column, highest first.
func (s *RankingService) Rank(ctx context.Context, input RankInput) (ranking.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Rank",
		attribute.String("metric", input.Metric),
		attribute.IntSlice("years", input.Years),
		attribute.StringSlice("leagues", input.Leagues),
	)
	defer span.End()

	req, err := s.validate(input)
	if err != nil {
		return ranking.Table{}, err
	}

	perYear := make([][]ranking.Row, 0, len(req.years))
	for _, year := range req.years {
		rows, err := s.rankYear(ctx, req, year)
		if err != nil {
			if req.skipEmptyYears && errors.Is(err, ErrEmptyResult) {
				s.logger.WarnContext(ctx, "skip year without ranking data", "year", year, "error", err)
				continue
			}
			return ranking.Table{}, fmt.Errorf("rank year %d: %w", year, err)
		}
		perYear = append(perYear, rows)
	}
	if len(perYear) == 0 {
		return ranking.Table{}, fmt.Errorf("%w: no year produced rankings", ErrEmptyResult)
	}

	rows := ranking.Combine(perYear, req.sortBy)
	s.logger.InfoContext(ctx, "rankings computed",
		"metric", string(req.metric),
		"strategy", req.strategy.String(),
		"years", len(perYear),
		"rows", len(rows),
	)

	return ranking.Table{
		Features: req.features,
		ZScores:  req.zScores,
		Rows:     rows,
	}, nil
}

func (s *RankingService) rankYear(ctx context.Context, req rankRequest, year int) ([]ranking.Row, error) {
	fitted, err := s.weights.Fit(ctx, FitInput{
		StatSource: s.statSource,
		Features:   req.features,
		Leagues:    league.MajorFor(year),
		Year:       year,
	})
	if err != nil {
		return nil, err
	}

	reporting := league.Expand(req.leagues, year)
	averages, err := s.seasons.Averages(ctx, AveragesInput{
		StatSource:     s.statSource,
		Features:       req.features,
		Years:          []int{year},
		Leagues:        reporting,
		MinimumMatches: req.minimumMatches,
	})
	if err != nil {
		return nil, err
	}

	scores := req.strategy.Score(fitted.Pipeline, req.features, averages)
	return ranking.BuildYear(averages, scores, ranking.Options{
		ZScores: req.zScores,
		Rescale: req.rescale,
		Leagues: league.Strings(reporting),
	}), nil
}

func (s *RankingService) validate(input RankInput) (rankRequest, error) {
	if _, err := validateStatSource(s.statSource); err != nil {
		return rankRequest{}, err
	}
	metric, err := ranking.ParseMetric(input.Metric)
	if err != nil {
		return rankRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	years, err := normalizeYears(input.Years)
	if err != nil {
		return rankRequest{}, err
	}
	leagues, err := parseLeagues(input.Leagues)
	if err != nil {
		return rankRequest{}, err
	}
	if input.MinimumMatches < 0 {
		return rankRequest{}, fmt.Errorf("%w: minimum matches must be >= 0", ErrInvalidInput)
	}
	features, err := normalizeFeatures(input.Features, s.features)
	if err != nil {
		return rankRequest{}, err
	}

	sortBy := strings.TrimSpace(input.SortBy)
	if sortBy == "" {
		sortBy = ranking.ColumnScore
	}
	if err := ranking.ValidateSortColumn(sortBy, features, input.ZScores); err != nil {
		return rankRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	strategy := metric.Strategy()
	if input.Baseline {
		strategy = ranking.StrategyBaseline
	}

	return rankRequest{
		metric:         metric,
		strategy:       strategy,
		years:          years,
		leagues:        leagues,
		minimumMatches: input.MinimumMatches,
		zScores:        input.ZScores,
		rescale:        !input.SkipRescale,
		sortBy:         sortBy,
		features:       features,
		skipEmptyYears: input.SkipEmptyYears,
	}, nil
}
