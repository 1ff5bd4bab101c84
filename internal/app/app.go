package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prometheus/internal/config"
	"github.com/riskibarqy/prometheus/internal/domain/match"
	"github.com/riskibarqy/prometheus/internal/domain/regression"
	"github.com/riskibarqy/prometheus/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prometheus/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prometheus/internal/interfaces/httpapi"
	"github.com/riskibarqy/prometheus/internal/observability"
	"github.com/riskibarqy/prometheus/internal/platform/cache"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
	"github.com/riskibarqy/prometheus/internal/platform/resilience"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

// Services is the wired ranking pipeline shared by every binary.
type Services struct {
	Seasons  *usecase.TeamSeasonService
	Weights  *usecase.WeightsService
	Rankings *usecase.RankingService
	// Writer persists ingested matches into the configured storage.
	Writer match.Writer
	// StatSource and Features are the defaults for rankings and weights.
	StatSource string
	Features   []string

	db *sqlx.DB
}

type repository interface {
	match.Repository
	match.Writer
}

// Build wires services over the storage selected by cfg.StorageDriver. The
// memory driver serves a small built-in dataset.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repo     repository
		db       *sqlx.DB
		features = match.GloryFeatures
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repo = memory.NewMatchRepository(cfg.RankingStatSource, memory.SeedStatRows())
		features = memory.SeedFeatures()
	case config.StorageDriverPostgres:
		var err error
		db, err = OpenDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		var opts []postgres.MatchRepositoryOption
		if cfg.DBBreakerEnabled {
			opts = append(opts, postgres.WithBreaker(resilience.NewBreaker(resilience.BreakerConfig{
				FailureThreshold: cfg.DBBreakerThreshold,
				OpenTimeout:      cfg.DBBreakerOpenTimeout,
				Ignore: func(err error) bool {
					return errors.Is(err, match.ErrNoRows) || errors.Is(err, context.Canceled)
				},
			})))
		}
		repo = postgres.NewMatchRepository(db, opts...)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	var weightOpts []usecase.WeightsOption
	if cfg.ModelCacheEnabled {
		weightOpts = append(weightOpts, usecase.WithModelCache(cache.NewStore[regression.Result](cfg.ModelCacheTTL)))
	}

	seasons := usecase.NewTeamSeasonService(repo)
	weights := usecase.NewWeightsService(repo, logger, weightOpts...)
	rankings := usecase.NewRankingService(seasons, weights, logger, cfg.RankingStatSource, features)

	logger.InfoContext(ctx, "ranking services ready",
		"storage_driver", cfg.StorageDriver,
		"stat_source", cfg.RankingStatSource,
		"model_cache", cfg.ModelCacheEnabled,
	)

	return &Services{
		Seasons:    seasons,
		Weights:    weights,
		Rankings:   rankings,
		Writer:     repo,
		StatSource: cfg.RankingStatSource,
		Features:   features,
		db:         db,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	handler := httpapi.NewHandler(services.Rankings, services.Weights, logger, httpapi.Defaults{
		StatSource:     services.StatSource,
		MinimumMatches: cfg.RankingMinMatches,
		Features:       services.Features,
	})
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, observability.NewMetrics("prometheus"))

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
