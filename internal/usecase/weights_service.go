package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/match"
	"github.com/riskibarqy/prometheus/internal/domain/regression"
	"github.com/riskibarqy/prometheus/internal/platform/cache"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

type FitInput struct {
	StatSource string
	Features   []string
	Leagues    []league.Code
	Year       int
}

type WeightsInput struct {
	StatSource string
	Features   []string
	Years      []int
	Leagues    []string
}

// YearWeights describes the model fitted for one year.
type YearWeights struct {
	Year         int
	Leagues      []string
	Intercept    float64
	Coefficients map[string]float64
	Features     []string
	TrainRows    int
	Evaluation   regression.Evaluation
}

type WeightsOption func(*WeightsService)

// WithModelCache reuses fitted models keyed by stat source, features,
// league pool and year until the store's TTL expires.
func WithModelCache(store *cache.Store[regression.Result]) WeightsOption {
	return func(s *WeightsService) {
		s.models = store
	}
}

func WithRegressionOptions(opts regression.Options) WeightsOption {
	return func(s *WeightsService) {
		s.opts = opts
	}
}

type WeightsService struct {
	matchRepo match.Repository
	logger    *logging.Logger
	models    *cache.Store[regression.Result]
	opts      regression.Options
}

func NewWeightsService(matchRepo match.Repository, logger *logging.Logger, opts ...WeightsOption) *WeightsService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &WeightsService{
		matchRepo: matchRepo,
		logger:    logger,
		opts:      regression.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit trains the win model on match rows of the given league pool and year.
func (s *WeightsService) Fit(ctx context.Context, input FitInput) (regression.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeightsService.Fit", attribute.Int("year", input.Year))
	defer span.End()

	statSource, err := validateStatSource(input.StatSource)
	if err != nil {
		return regression.Result{}, err
	}
	features, err := normalizeFeatures(input.Features, nil)
	if err != nil {
		return regression.Result{}, err
	}
	if input.Year < minYear || input.Year > maxYear {
		return regression.Result{}, fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidInput, input.Year, minYear, maxYear)
	}
	leagues := league.Strings(league.Expand(input.Leagues, input.Year))
	if len(leagues) == 0 {
		return regression.Result{}, fmt.Errorf("%w: at least one league is required to fit", ErrInvalidInput)
	}

	load := func(ctx context.Context) (regression.Result, error) {
		return s.fit(ctx, statSource, features, leagues, input.Year)
	}
	if s.models == nil {
		return load(ctx)
	}
	return s.models.GetOrLoad(ctx, modelCacheKey(statSource, features, leagues, input.Year), load)
}

func (s *WeightsService) fit(ctx context.Context, statSource string, features, leagues []string, year int) (regression.Result, error) {
	rows, err := s.matchRepo.FetchMatches(ctx, statSource, match.NewFilter([]int{year}, leagues, features))
	if err != nil {
		if errors.Is(err, match.ErrNoRows) {
			return regression.Result{}, fmt.Errorf("%w: year=%d leagues=%v", ErrNoData, year, leagues)
		}
		return regression.Result{}, fmt.Errorf("fetch matches for fit: %w", err)
	}

	result, err := regression.Fit(regression.NewDataset(rows, features), s.opts)
	if err != nil {
		if errors.Is(err, regression.ErrNoData) || errors.Is(err, regression.ErrTooFewRows) {
			return regression.Result{}, fmt.Errorf("%w: year=%d leagues=%v: %v", ErrNoData, year, leagues, err)
		}
		return regression.Result{}, fmt.Errorf("fit regression year=%d: %w", year, err)
	}

	s.logger.DebugContext(ctx, "fitted win model",
		"year", year,
		"leagues", leagues,
		"train_rows", result.Train.Len(),
		"test_rows", result.Test.Len(),
	)
	return result, nil
}

// Weights fits one model per year and reports its coefficients and held-out
// evaluation. Leagues default to Major.
func (s *WeightsService) Weights(ctx context.Context, input WeightsInput) ([]YearWeights, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeightsService.Weights")
	defer span.End()

	years, err := normalizeYears(input.Years)
	if err != nil {
		return nil, err
	}
	codes, err := parseLeagues(input.Leagues)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		codes = []league.Code{league.Major}
	}
	features, err := normalizeFeatures(input.Features, match.GloryFeatures)
	if err != nil {
		return nil, err
	}

	out := make([]YearWeights, 0, len(years))
	for _, year := range years {
		result, err := s.Fit(ctx, FitInput{
			StatSource: input.StatSource,
			Features:   features,
			Leagues:    codes,
			Year:       year,
		})
		if err != nil {
			return nil, fmt.Errorf("weights year %d: %w", year, err)
		}
		out = append(out, YearWeights{
			Year:         year,
			Leagues:      league.Strings(league.Expand(codes, year)),
			Intercept:    result.Pipeline.Intercept,
			Coefficients: result.Pipeline.Coefficients(),
			Features:     result.Pipeline.Features,
			TrainRows:    result.Train.Len(),
			Evaluation:   result.Pipeline.Evaluate(result.Test),
		})
	}
	return out, nil
}

func modelCacheKey(statSource string, features, leagues []string, year int) string {
	pool := make([]league.Code, 0, len(leagues))
	for _, l := range leagues {
		pool = append(pool, league.Code(l))
	}
	var b strings.Builder
	b.WriteString(statSource)
	b.WriteByte('|')
	b.WriteString(strings.Join(features, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(league.Strings(league.Sorted(pool)), ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(year))
	return b.String()
}
