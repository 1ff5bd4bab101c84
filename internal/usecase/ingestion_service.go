package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/prometheus/internal/domain/match"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

// RecordSource loads match records from a named export. skipped counts
// rows the source dropped while parsing.
type RecordSource interface {
	ReadRecords(ctx context.Context, name string) (records []match.Record, skipped int, err error)
}

type IngestInput struct {
	Sources []string
}

type SourceResult struct {
	Name       string
	Read       int
	Skipped    int
	Rejected   int
	Duplicates int
	Written    int
}

type IngestResult struct {
	Sources []SourceResult
	Written int
}

type IngestionService struct {
	source  RecordSource
	writer  match.Writer
	logger  *logging.Logger
	workers int
}

func NewIngestionService(source RecordSource, writer match.Writer, logger *logging.Logger, workers int) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &IngestionService{
		source:  source,
		writer:  writer,
		logger:  logger,
		workers: workers,
	}
}

type sourceBatch struct {
	records []match.Record
	skipped int
	err     error
}

// Ingest reads every source concurrently, derives glory features and writes
// the union in one upsert. A (game, team) pair is kept the first time it is
// seen, in source order. Any read failure aborts before writing.
func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest",
		attribute.StringSlice("sources", input.Sources),
	)
	defer span.End()

	sources := make([]string, 0, len(input.Sources))
	for _, name := range input.Sources {
		if name = strings.TrimSpace(name); name != "" {
			sources = append(sources, name)
		}
	}
	if len(sources) == 0 {
		return IngestResult{}, fmt.Errorf("%w: at least one source is required", ErrInvalidInput)
	}

	batches, err := s.readAll(ctx, sources)
	if err != nil {
		return IngestResult{}, err
	}

	type key struct{ gameID, teamID string }
	seen := make(map[key]struct{})
	result := IngestResult{Sources: make([]SourceResult, 0, len(sources))}
	records := make([]match.Record, 0)
	features := make([]match.FeatureRow, 0)

	for i, name := range sources {
		batch := batches[i]
		summary := SourceResult{Name: name, Read: len(batch.records), Skipped: batch.skipped}
		for _, rec := range batch.records {
			if err := rec.Validate(); err != nil {
				summary.Rejected++
				continue
			}
			row, ok := match.DeriveFeatures(rec)
			if !ok {
				summary.Rejected++
				continue
			}
			k := key{rec.GameID, rec.TeamID}
			if _, dup := seen[k]; dup {
				summary.Duplicates++
				continue
			}
			seen[k] = struct{}{}
			records = append(records, rec)
			features = append(features, row)
			summary.Written++
		}

		s.logger.InfoContext(ctx, "source parsed",
			"source", name,
			"read", summary.Read,
			"skipped", summary.Skipped,
			"rejected", summary.Rejected,
			"duplicates", summary.Duplicates,
		)
		result.Sources = append(result.Sources, summary)
	}

	if len(records) == 0 {
		return result, fmt.Errorf("%w: no usable match records in %d source(s)", ErrEmptyResult, len(sources))
	}
	if err := s.writer.UpsertMatches(ctx, records, features); err != nil {
		return result, crerr.Wrap(err, "upsert matches")
	}
	result.Written = len(records)

	s.logger.InfoContext(ctx, "ingestion completed", "sources", len(sources), "written", result.Written)
	return result, nil
}

func (s *IngestionService) readAll(ctx context.Context, sources []string) ([]sourceBatch, error) {
	pool, err := ants.NewPool(min(s.workers, len(sources)))
	if err != nil {
		return nil, crerr.Wrap(err, "create ingestion worker pool")
	}
	defer pool.Release()

	batches := make([]sourceBatch, len(sources))
	var wg sync.WaitGroup
	for i, name := range sources {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			records, skipped, err := s.source.ReadRecords(ctx, name)
			batches[i] = sourceBatch{records: records, skipped: skipped, err: err}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, crerr.Wrap(err, "submit source to worker pool")
		}
	}
	wg.Wait()

	var errs []error
	for i, b := range batches {
		if b.err != nil {
			errs = append(errs, crerr.Wrapf(b.err, "read source %s", sources[i]))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return batches, nil
}
