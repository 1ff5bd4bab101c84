package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/match"
	"github.com/riskibarqy/prometheus/internal/domain/teamseason"
)

type AveragesInput struct {
	StatSource     string
	Features       []string
	Years          []int
	Leagues        []league.Code
	MinimumMatches int
}

type TeamSeasonService struct {
	matchRepo match.Repository
}

func NewTeamSeasonService(matchRepo match.Repository) *TeamSeasonService {
	return &TeamSeasonService{matchRepo: matchRepo}
}

// Averages returns per team-season feature means for teams with at least
// MinimumMatches distinct games. Major is expanded against the requested
// year when exactly one year is given, otherwise against every era.
func (s *TeamSeasonService) Averages(ctx context.Context, input AveragesInput) ([]teamseason.Average, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSeasonService.Averages",
		attribute.IntSlice("years", input.Years),
		attribute.Int("minimum_matches", input.MinimumMatches),
	)
	defer span.End()

	statSource, err := validateStatSource(input.StatSource)
	if err != nil {
		return nil, err
	}
	features, err := normalizeFeatures(input.Features, nil)
	if err != nil {
		return nil, err
	}
	if input.MinimumMatches < 0 {
		return nil, fmt.Errorf("%w: minimum matches must be >= 0", ErrInvalidInput)
	}

	expandYear := 0
	if len(input.Years) == 1 {
		expandYear = input.Years[0]
	}
	leagues := league.Strings(league.Expand(input.Leagues, expandYear))

	rows, err := s.matchRepo.FetchMatches(ctx, statSource, match.NewFilter(input.Years, leagues, features))
	if err != nil {
		if errors.Is(err, match.ErrNoRows) {
			return nil, fmt.Errorf("%w: no matches for years=%v leagues=%v", ErrEmptyResult, input.Years, leagues)
		}
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	averages, err := teamseason.Aggregate(rows, features, input.MinimumMatches)
	if err != nil {
		if errors.Is(err, teamseason.ErrNoQualifyingTeams) {
			return nil, fmt.Errorf("%w: no team has %d or more games for years=%v leagues=%v",
				ErrEmptyResult, input.MinimumMatches, input.Years, leagues)
		}
		return nil, fmt.Errorf("aggregate team seasons: %w", err)
	}

	return averages, nil
}
